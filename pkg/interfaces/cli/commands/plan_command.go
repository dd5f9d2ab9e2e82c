package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/rawmat/pkg/application/services/orchestration"
	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/services"
	"github.com/vsinha/rawmat/pkg/infrastructure/events"
	"github.com/vsinha/rawmat/pkg/infrastructure/logging"
	"github.com/vsinha/rawmat/pkg/infrastructure/metrics"
	"github.com/vsinha/rawmat/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/rawmat/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/rawmat/pkg/interfaces/cli/output"
)

// Input file keys
const (
	ForecastsFile    = "Forecasts"
	BOMFile          = "BOM"
	StyleBOMFile     = "StyleBOM"
	InventoryFile    = "Inventory"
	SuppliersFile    = "Suppliers"
	HistoryFile      = "DemandHistory"
	SalesHistoryFile = "SalesHistory"
)

var scenarioFileNames = map[string]string{
	ForecastsFile:    "forecasts.csv",
	BOMFile:          "bom.csv",
	StyleBOMFile:     "style_bom.csv",
	InventoryFile:    "inventory.csv",
	SuppliersFile:    "suppliers.csv",
	HistoryFile:      "demand_history.csv",
	SalesHistoryFile: "sales_history.csv",
}

var requiredFiles = []string{ForecastsFile, InventoryFile, SuppliersFile}

// Config holds configuration for the plan command
type Config struct {
	ConfigFile       string
	ScenarioDir      string
	ForecastsFile    string
	BOMFile          string
	StyleBOMFile     string
	InventoryFile    string
	SuppliersFile    string
	HistoryFile      string
	SalesHistoryFile string
	OutputDir        string
	Format           string
	MetricsFile      string
	EventsFile       string
	Verbose          bool
	SkipInvalid      bool
	Help             bool
}

// PlanCommand loads a scenario, runs one planning pass and writes the result
type PlanCommand struct {
	config Config
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config) *PlanCommand {
	return &PlanCommand{
		config: config,
	}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	appConfig, err := config.Load(c.config.ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := appConfig.Validate(); err != nil {
		return err
	}

	logConfig := logging.Config{Level: appConfig.App.LogLevel, Format: appConfig.App.LogFormat}
	if c.config.Verbose {
		logConfig.Level = "debug"
	}
	logger, err := logging.NewLogger(logConfig)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}
	if selectStyleYarnMode(files, &appConfig.Planning) {
		logger.Info("only a style-yarn BOM was supplied, planning in style-yarn mode")
	}
	if c.config.Verbose {
		c.printHeader(files)
	}

	scenario, err := c.loadScenario(files, logger)
	if err != nil {
		return err
	}

	input, err := orchestration.SnapshotFromRepositories(
		scenario.forecasts,
		scenario.bom,
		scenario.inventory,
		scenario.suppliers,
		scenario.history,
	)
	if err != nil {
		return fmt.Errorf("failed to snapshot repositories: %w", err)
	}

	store := events.NewInMemoryEventStore(logger)
	opts := []orchestration.Option{
		orchestration.WithLogger(logger),
		orchestration.WithEventStore(store),
		orchestration.WithMetrics(metrics.NewPlanningMetrics()),
	}
	if scenario.salesHistory != nil {
		opts = append(opts, orchestration.WithSalesHistory(
			orchestration.RepositorySalesHistory{Repo: scenario.salesHistory},
		))
	}

	orchestrator, err := orchestration.NewPlanningOrchestrator(appConfig.Planning, opts...)
	if err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Println("🔄 Running procurement planning...")
	}

	timer := metrics.NewTimer()
	result, err := orchestrator.Plan(ctx, input)
	planTime := timer.Duration()
	if err != nil {
		return fmt.Errorf("error running planning: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Planning completed in %v\n", planTime)
		printRunStats(store, result.RunID)
	}

	outputConfig := output.Config{
		Format:     c.config.Format,
		OutputDir:  c.config.OutputDir,
		Verbose:    c.config.Verbose,
		PlanTime:   planTime,
		InputFiles: files,
	}
	if err := output.Generate(result, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.EventsFile != "" {
		if err := writeEvents(store, c.config.EventsFile); err != nil {
			return err
		}
	}

	if c.config.MetricsFile != "" {
		if err := metrics.WriteTextfile(c.config.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Println("🏁 Procurement planning complete!")
	}

	return nil
}

// printRunStats reports heap usage and the run's event tally
func printRunStats(store events.EventStore, runID string) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	fmt.Printf("  Heap in use: %.1f MiB (%d objects)\n", float64(mem.HeapAlloc)/(1<<20), mem.HeapObjects)

	recorded, err := store.ReadEvents(runID, 0)
	if err != nil || len(recorded) == 0 {
		fmt.Println()
		return
	}
	counts := events.CountByType(recorded)
	fmt.Printf("  Events: %d recorded\n", len(recorded))
	for _, eventType := range sortedKeys(counts) {
		fmt.Printf("    %-26s %d\n", eventType, counts[eventType])
	}
	fmt.Println()
}

type loadedScenario struct {
	forecasts    *memory.ForecastRepository
	bom          *memory.BOMRepository
	inventory    *memory.InventoryRepository
	suppliers    *memory.SupplierRepository
	history      *memory.DemandHistoryRepository
	salesHistory *memory.ForecastRepository
}

// loadScenario reads the CSV files into memory repositories
func (c *PlanCommand) loadScenario(files map[string]string, logger *zap.Logger) (*loadedScenario, error) {
	loader := csv.NewLoader(logger, c.config.SkipInvalid)

	forecasts, err := loader.LoadForecasts(files[ForecastsFile])
	if err != nil {
		return nil, fmt.Errorf("error loading forecasts: %w", err)
	}
	inventory, err := loader.LoadInventory(files[InventoryFile])
	if err != nil {
		return nil, fmt.Errorf("error loading inventory: %w", err)
	}
	offers, err := loader.LoadSuppliers(files[SuppliersFile])
	if err != nil {
		return nil, fmt.Errorf("error loading suppliers: %w", err)
	}

	scenario := &loadedScenario{
		forecasts: memory.NewForecastRepository(),
		inventory: memory.NewInventoryRepository(),
		suppliers: memory.NewSupplierRepository(),
		history:   memory.NewDemandHistoryRepository(),
	}

	if err := scenario.forecasts.LoadForecasts(forecasts); err != nil {
		return nil, fmt.Errorf("failed to load forecasts into repository: %w", err)
	}
	if err := scenario.inventory.LoadSnapshots(inventory); err != nil {
		return nil, fmt.Errorf("failed to load inventory into repository: %w", err)
	}
	if err := scenario.suppliers.LoadOffers(offers); err != nil {
		return nil, fmt.Errorf("failed to load suppliers into repository: %w", err)
	}

	var bomCount, blendCount int
	scenario.bom = memory.NewBOMRepository(0, 0)
	if path, ok := files[BOMFile]; ok {
		lines, err := loader.LoadBOM(path)
		if err != nil {
			return nil, fmt.Errorf("error loading BOM: %w", err)
		}
		if validation := services.NewBOMValidator().ValidateBOM(lines); validation.HasIssues() {
			for _, issue := range validation.Errors {
				logger.Warn("BOM validation issue", zap.String("file", path), zap.String("issue", issue))
			}
		}
		if err := scenario.bom.LoadBOMLines(lines); err != nil {
			return nil, fmt.Errorf("failed to load BOM lines into repository: %w", err)
		}
		bomCount = len(lines)
	}
	if path, ok := files[StyleBOMFile]; ok {
		lines, err := loader.LoadStyleBOM(path)
		if err != nil {
			return nil, fmt.Errorf("error loading style BOM: %w", err)
		}
		if err := scenario.bom.LoadBlendLines(lines); err != nil {
			return nil, fmt.Errorf("failed to load blend lines into repository: %w", err)
		}
		blendCount = len(lines)
	}

	if path, ok := files[HistoryFile]; ok {
		history, err := loader.LoadDemandHistory(path)
		if err != nil {
			return nil, fmt.Errorf("error loading demand history: %w", err)
		}
		if err := scenario.history.LoadHistory(history); err != nil {
			return nil, fmt.Errorf("failed to load demand history into repository: %w", err)
		}
	}

	if path, ok := files[SalesHistoryFile]; ok {
		sales, err := loader.LoadForecasts(path)
		if err != nil {
			return nil, fmt.Errorf("error loading sales history: %w", err)
		}
		scenario.salesHistory = memory.NewForecastRepository()
		if err := scenario.salesHistory.LoadForecasts(sales); err != nil {
			return nil, fmt.Errorf("failed to load sales history into repository: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Forecasts: %d\n", len(forecasts))
		fmt.Printf("  BOM Lines: %d\n", bomCount)
		fmt.Printf("  Blend Lines: %d\n", blendCount)
		fmt.Printf("  Inventory: %d\n", len(inventory))
		fmt.Printf("  Supplier Offers: %d\n", len(offers))
		fmt.Println()
	}

	return scenario, nil
}

// writeEvents dumps every recorded event as one JSON object per line
func writeEvents(store events.EventStore, path string) error {
	recorded, err := store.ReadAllEvents(0)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create events file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, event := range recorded {
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write event %s: %w", event.Type(), err)
		}
	}
	return file.Close()
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.ForecastsFile == "" || c.config.InventoryFile == "" || c.config.SuppliersFile == "") {
		return fmt.Errorf("must specify either -scenario directory or -forecasts, -inventory and -suppliers files")
	}
	if c.config.ScenarioDir == "" && c.config.BOMFile == "" && c.config.StyleBOMFile == "" {
		return fmt.Errorf("must specify -bom or -style-bom when not using -scenario")
	}
	switch c.config.Format {
	case "text", "json", "yaml", "csv", "gantt":
	default:
		return fmt.Errorf("unsupported output format: %s", c.config.Format)
	}
	return nil
}

// resolveInputFiles determines the actual file paths to use. Required files must
// exist; optional ones are dropped from the map when absent.
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	files := make(map[string]string)

	if c.config.ScenarioDir != "" {
		for key, name := range scenarioFileNames {
			files[key] = filepath.Join(c.config.ScenarioDir, name)
		}
	}

	for key, path := range map[string]string{
		ForecastsFile:    c.config.ForecastsFile,
		BOMFile:          c.config.BOMFile,
		StyleBOMFile:     c.config.StyleBOMFile,
		InventoryFile:    c.config.InventoryFile,
		SuppliersFile:    c.config.SuppliersFile,
		HistoryFile:      c.config.HistoryFile,
		SalesHistoryFile: c.config.SalesHistoryFile,
	} {
		if path != "" {
			files[key] = path
		}
	}

	for _, key := range requiredFiles {
		if _, err := os.Stat(files[key]); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", key, files[key])
		}
	}

	for key, path := range files {
		if isRequired(key) {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			delete(files, key)
		}
	}

	if files[BOMFile] == "" && files[StyleBOMFile] == "" {
		return nil, fmt.Errorf("no BOM file found: need %s or %s", scenarioFileNames[BOMFile], scenarioFileNames[StyleBOMFile])
	}

	return files, nil
}

// selectStyleYarnMode turns on style-yarn explosion when the blend BOM is the only BOM
// supplied. It reports whether the setting was changed.
func selectStyleYarnMode(files map[string]string, planning *config.PlanningConfig) bool {
	_, hasFlat := files[BOMFile]
	_, hasBlend := files[StyleBOMFile]
	if !hasBlend || hasFlat || planning.UseStyleYarnBOM {
		return false
	}
	planning.UseStyleYarnBOM = true
	return true
}

func isRequired(key string) bool {
	for _, required := range requiredFiles {
		if key == required {
			return true
		}
	}
	return false
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(files map[string]string) {
	keys := make([]string, 0, len(files))
	for key := range files {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	fmt.Printf("🚀 Raw Material Planner CLI\n")
	fmt.Printf("Input files:\n")
	for _, key := range keys {
		fmt.Printf("  %s: %s\n", key, files[key])
	}
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`rawmat - Raw Material Procurement Planning for Textile Manufacturing

USAGE:
    rawmat -scenario <directory>                         # Use scenario directory with CSV files
    rawmat -forecasts <file> -bom <file> ...             # Use individual CSV files

OPTIONS:
    -config <file>          YAML configuration file (RAWMAT_* env vars override)
    -scenario <dir>         Path to scenario directory containing CSV files
    -forecasts <file>       Path to forecasts CSV file
    -bom <file>             Path to flat BOM CSV file
    -style-bom <file>       Path to style-yarn blend BOM CSV file
    -inventory <file>       Path to inventory CSV file
    -suppliers <file>       Path to supplier catalog CSV file
    -demand-history <file>  Path to per-period consumption CSV file (optional)
    -sales-history <file>   Path to sales-history forecasts CSV file (optional)
    -output <dir>           Output directory for results (optional)
    -format <fmt>           Output format: text, json, yaml, csv, gantt (default: text)
    -metrics-file <file>    Write Prometheus metrics in textfile format
    -events-file <file>     Write the planning event log as JSON lines
    -skip-invalid           Skip malformed CSV rows with a warning instead of failing
    -verbose                Enable verbose output
    -help                   Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── forecasts.csv       # SKU demand by source
    ├── bom.csv             # Flat BOM (qty per unit)
    ├── style_bom.csv       # Style-yarn blend BOM (percentages, optional)
    ├── inventory.csv       # On hand and open POs
    ├── suppliers.csv       # Supplier offers per material
    ├── demand_history.csv  # Consumption history (optional)
    └── sales_history.csv   # Extra sales-history forecasts (optional)

    With style_bom.csv and no bom.csv, style-yarn mode is switched on automatically.

CSV FILE FORMATS:

forecasts.csv:
    sku_id,forecast_qty,forecast_date,source,unit,confidence
    TEE-CREW,4000,2026-03-02,sales_order,ea,1

bom.csv:
    sku_id,material_id,qty_per_unit,unit
    TEE-CREW,COTTON-30S,0.35,lbs

style_bom.csv:
    style_id,yarn_id,percentage,yarn_name
    STYLE1,YARN-A,60%%,Combed cotton 30/1

inventory.csv:
    material_id,on_hand_qty,open_po_qty,unit,po_expected_date
    COTTON-30S,600,400,lbs,2026-03-20

suppliers.csv:
    material_id,supplier_id,cost_per_unit,lead_time_days,moq,reliability_score,order_multiple,setup_cost,holding_cost_rate,shipping_cost,quality_score,payment_terms_days
    COTTON-30S,SUP-CAROLINA,$2.85,10,500,0.97,100,,,,0.97,60

demand_history.csv:
    material_id,period,quantity
    COTTON-30S,2026-W01,420

EXAMPLES:
    # Plan a scenario
    rawmat -scenario examples/knit_mill -verbose

    # Blend BOM with statistical safety stock from a config file
    rawmat -scenario examples/blends -config rawmat.yaml -format yaml

    # CSV output with metrics and the event log
    rawmat -scenario examples/knit_mill -format csv -output results/ -metrics-file results/rawmat.prom -events-file results/events.jsonl
`)
}
