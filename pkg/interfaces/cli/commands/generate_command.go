package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	Styles    int     // Number of styles with forecasts
	Yarns     int     // Number of yarns in the catalog
	Suppliers int     // Maximum offers per yarn
	Inventory float64 // Inventory coverage (e.g., 0.5 = half of expected consumption on hand)
	Periods   int     // Demand history periods per yarn
	OutputDir string  // Output directory for generated files
	Seed      int64   // Random seed for reproducible generation
	Help      bool    // Show help
	Verbose   bool    // Verbose output
}

// GenerateCommand writes a synthetic scenario directory the plan command can read
type GenerateCommand struct {
	config    GenerateConfig
	rand      *rand.Rand
	startDate time.Time
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GenerateCommand{
		config:    config,
		rand:      rand.New(rand.NewSource(seed)),
		startDate: time.Now().UTC().Truncate(24 * time.Hour),
	}
}

var fibers = []string{"COTTON", "POLY", "MODAL", "VISCOSE", "LINEN", "WOOL", "NYLON", "ELASTANE"}

var forecastSources = []string{"sales_order", "prod_plan", "projection"}

type yarn struct {
	id       string
	name     string
	expected float64 // consumption implied by the generated forecasts
}

type blend struct {
	style string
	yarn  int
	pct   float64
}

// Execute runs the generate command
func (cmd *GenerateCommand) Execute(ctx context.Context) error {
	if cmd.config.Help {
		cmd.printHelp()
		return nil
	}

	if err := cmd.validate(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if cmd.config.Verbose {
		fmt.Printf("🔧 Generating scenario with %d styles, %d yarns, up to %d suppliers per yarn, %.1fx inventory\n",
			cmd.config.Styles, cmd.config.Yarns, cmd.config.Suppliers, cmd.config.Inventory)
		fmt.Printf("📁 Output directory: %s\n", cmd.config.OutputDir)
	}

	if err := os.MkdirAll(cmd.config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	yarns := cmd.generateYarns()
	demand := cmd.generateDemand()
	blends := cmd.generateBlends(yarns, demand)

	steps := []struct {
		file string
		rows func() [][]string
	}{
		{"forecasts.csv", func() [][]string { return cmd.forecastRows(demand) }},
		{"style_bom.csv", func() [][]string { return cmd.blendRows(blends, yarns) }},
		{"inventory.csv", func() [][]string { return cmd.inventoryRows(yarns) }},
		{"suppliers.csv", func() [][]string { return cmd.supplierRows(yarns) }},
		{"demand_history.csv", func() [][]string { return cmd.historyRows(yarns) }},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cmd.config.Verbose {
			fmt.Printf("📝 Generating %s...\n", step.file)
		}
		if err := writeCSVFile(filepath.Join(cmd.config.OutputDir, step.file), step.rows()); err != nil {
			return fmt.Errorf("failed to generate %s: %w", step.file, err)
		}
	}

	if cmd.config.Verbose {
		fmt.Printf("✅ Scenario generated successfully in %s\n", cmd.config.OutputDir)
	}

	return nil
}

func (cmd *GenerateCommand) validate() error {
	switch {
	case cmd.config.OutputDir == "":
		return fmt.Errorf("output directory is required")
	case cmd.config.Styles < 1:
		return fmt.Errorf("styles must be at least 1, got %d", cmd.config.Styles)
	case cmd.config.Yarns < 2:
		return fmt.Errorf("yarns must be at least 2, got %d", cmd.config.Yarns)
	case cmd.config.Suppliers < 1:
		return fmt.Errorf("suppliers must be at least 1, got %d", cmd.config.Suppliers)
	case cmd.config.Inventory < 0:
		return fmt.Errorf("inventory coverage cannot be negative, got %g", cmd.config.Inventory)
	case cmd.config.Periods < 0:
		return fmt.Errorf("periods cannot be negative, got %d", cmd.config.Periods)
	}
	return nil
}

func (cmd *GenerateCommand) generateYarns() []*yarn {
	yarns := make([]*yarn, cmd.config.Yarns)
	for i := range yarns {
		fiber := fibers[i%len(fibers)]
		count := 20 + 10*cmd.rand.Intn(5)
		yarns[i] = &yarn{
			id:   fmt.Sprintf("%s-%dS-%03d", fiber, count, i+1),
			name: fmt.Sprintf("%s %d/1", fiber, count),
		}
	}
	return yarns
}

// generateDemand returns each style's forecasts per source
func (cmd *GenerateCommand) generateDemand() map[string]map[string]float64 {
	demand := make(map[string]map[string]float64, cmd.config.Styles)
	for i := 0; i < cmd.config.Styles; i++ {
		style := fmt.Sprintf("STYLE-%04d", i+1)
		bySource := make(map[string]float64)
		for _, source := range forecastSources {
			// every style has a firm order; plans and projections are sparser
			if source != "sales_order" && cmd.rand.Float64() < 0.5 {
				continue
			}
			bySource[source] = float64(100 * (1 + cmd.rand.Intn(50)))
		}
		demand[style] = bySource
	}
	return demand
}

// generateBlends gives each style two to four yarns. About one style in ten sums off 100%.
func (cmd *GenerateCommand) generateBlends(yarns []*yarn, demand map[string]map[string]float64) []blend {
	blends := make([]blend, 0)
	for _, style := range sortedKeys(demand) {
		n := 2 + cmd.rand.Intn(3)
		if n > len(yarns) {
			n = len(yarns)
		}
		picks := cmd.rand.Perm(len(yarns))[:n]

		weights := make([]float64, n)
		total := 0.0
		for i := range weights {
			weights[i] = 1 + cmd.rand.Float64()*4
			total += weights[i]
		}

		target := 100.0
		if cmd.rand.Float64() < 0.1 {
			target = 95
		}

		units := 0.0
		for _, qty := range demand[style] {
			units += qty
		}

		allocated := 0.0
		for i, yarnIndex := range picks {
			pct := math.Round(weights[i]/total*target*10) / 10
			if i == n-1 {
				pct = math.Round((target-allocated)*10) / 10
			}
			allocated += pct
			blends = append(blends, blend{style: style, yarn: yarnIndex, pct: pct})
			yarns[yarnIndex].expected += units * pct / 100
		}
	}
	return blends
}

func (cmd *GenerateCommand) forecastRows(demand map[string]map[string]float64) [][]string {
	rows := [][]string{{"sku_id", "forecast_qty", "forecast_date", "source", "unit", "confidence"}}
	for _, style := range sortedKeys(demand) {
		for _, source := range forecastSources {
			qty, ok := demand[style][source]
			if !ok {
				continue
			}
			date := cmd.startDate.AddDate(0, 0, 7*cmd.rand.Intn(8))
			rows = append(rows, []string{
				style,
				formatQty(qty),
				date.Format("2006-01-02"),
				source,
				"lbs",
				strconv.FormatFloat(0.6+0.4*cmd.rand.Float64(), 'f', 2, 64),
			})
		}
	}
	return rows
}

func (cmd *GenerateCommand) blendRows(blends []blend, yarns []*yarn) [][]string {
	rows := [][]string{{"style_id", "yarn_id", "percentage", "yarn_name"}}
	for _, b := range blends {
		rows = append(rows, []string{
			b.style,
			yarns[b.yarn].id,
			strconv.FormatFloat(b.pct, 'f', 1, 64) + "%",
			yarns[b.yarn].name,
		})
	}
	return rows
}

func (cmd *GenerateCommand) inventoryRows(yarns []*yarn) [][]string {
	rows := [][]string{{"material_id", "on_hand_qty", "open_po_qty", "unit", "po_expected_date"}}
	for _, y := range yarns {
		coverage := y.expected * cmd.config.Inventory * (0.5 + cmd.rand.Float64())
		onHand := math.Round(coverage * 0.7)
		openPO := math.Round(coverage - onHand)

		expected := ""
		if openPO > 0 {
			expected = cmd.startDate.AddDate(0, 0, 7+cmd.rand.Intn(21)).Format("2006-01-02")
		}
		rows = append(rows, []string{y.id, formatQty(onHand), formatQty(openPO), "lbs", expected})
	}
	return rows
}

func (cmd *GenerateCommand) supplierRows(yarns []*yarn) [][]string {
	rows := [][]string{{
		"material_id", "supplier_id", "cost_per_unit", "lead_time_days", "moq", "reliability_score",
		"order_multiple", "setup_cost", "holding_cost_rate", "shipping_cost", "quality_score", "payment_terms_days",
	}}
	for i, y := range yarns {
		// a few yarns have no supplier at all
		if cmd.rand.Float64() < 0.05 {
			continue
		}

		basePrice := 1.5 + cmd.rand.Float64()*6
		offers := 1 + cmd.rand.Intn(cmd.config.Suppliers)
		for j := 0; j < offers; j++ {
			price := basePrice * (0.85 + 0.3*cmd.rand.Float64())
			multiple := []float64{0, 25, 50, 100}[cmd.rand.Intn(4)]

			shipping := ""
			if cmd.rand.Float64() < 0.3 {
				shipping = strconv.Itoa(50 * (1 + cmd.rand.Intn(10)))
			}
			quality := ""
			if cmd.rand.Float64() < 0.6 {
				quality = strconv.FormatFloat(0.7+0.3*cmd.rand.Float64(), 'f', 2, 64)
			}

			rows = append(rows, []string{
				y.id,
				fmt.Sprintf("SUP-%03d", (i*7+j*13)%97+1),
				"$" + strconv.FormatFloat(price, 'f', 2, 64),
				strconv.Itoa(7 + cmd.rand.Intn(70)),
				formatQty(float64(50 * cmd.rand.Intn(20))),
				strconv.FormatFloat(0.6+0.4*cmd.rand.Float64(), 'f', 2, 64),
				formatQty(multiple),
				"",
				"",
				shipping,
				quality,
				strconv.Itoa(15 * cmd.rand.Intn(7)),
			})
		}
	}
	return rows
}

func (cmd *GenerateCommand) historyRows(yarns []*yarn) [][]string {
	rows := [][]string{{"material_id", "period", "quantity"}}
	for _, y := range yarns {
		weekly := y.expected / 12
		for p := 0; p < cmd.config.Periods; p++ {
			qty := math.Max(0, math.Round(weekly*(0.7+0.6*cmd.rand.Float64())))
			rows = append(rows, []string{y.id, fmt.Sprintf("W%03d", p+1), formatQty(qty)})
		}
	}
	return rows
}

func writeCSVFile(path string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(rows); err != nil {
		return err
	}
	return file.Close()
}

func formatQty(qty float64) string {
	return strconv.FormatFloat(qty, 'f', -1, 64)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (cmd *GenerateCommand) printHelp() {
	fmt.Printf(`rawmat generate - Synthetic textile procurement scenario generator

USAGE:
    rawmat generate -output <dir> [options]

OPTIONS:
    -styles <n>       Number of styles with forecasts (default: 20)
    -yarns <n>        Number of yarns in the catalog (default: 12)
    -suppliers <n>    Maximum supplier offers per yarn (default: 3)
    -inventory <x>    Inventory coverage of expected consumption (default: 0.5)
    -periods <n>      Demand history periods per yarn (default: 12)
    -output <dir>     Output directory for the scenario
    -seed <n>         Random seed for reproducible generation
    -verbose          Enable verbose output
    -help             Show this help message

OUTPUT FILES:
    forecasts.csv, style_bom.csv, inventory.csv, suppliers.csv, demand_history.csv

EXAMPLES:
    rawmat generate -styles 200 -yarns 40 -output examples/large_mill -seed 42
    rawmat -scenario examples/large_mill -config style_yarn.yaml
`)
}
