package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vsinha/rawmat/pkg/interfaces/cli/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) > 1 && os.Args[1] == "generate" {
		if err := runGenerate(ctx, os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}
		return
	}

	// Command line flags
	var (
		configFile       = flag.String("config", "", "Path to YAML configuration file")
		scenarioDir      = flag.String("scenario", "", "Path to scenario directory containing CSV files")
		forecastsFile    = flag.String("forecasts", "", "Path to forecasts CSV file")
		bomFile          = flag.String("bom", "", "Path to flat BOM CSV file")
		styleBOMFile     = flag.String("style-bom", "", "Path to style-yarn blend BOM CSV file")
		inventoryFile    = flag.String("inventory", "", "Path to inventory CSV file")
		suppliersFile    = flag.String("suppliers", "", "Path to supplier catalog CSV file")
		historyFile      = flag.String("demand-history", "", "Path to demand history CSV file (optional)")
		salesHistoryFile = flag.String("sales-history", "", "Path to sales-history forecasts CSV file (optional)")
		outputDir        = flag.String("output", "", "Output directory for results (optional)")
		format           = flag.String("format", "text", "Output format: text, json, yaml, csv, gantt")
		metricsFile      = flag.String("metrics-file", "", "Write Prometheus metrics to this file")
		eventsFile       = flag.String("events-file", "", "Write the planning event log to this file")
		verbose          = flag.Bool("verbose", false, "Enable verbose output")
		skipInvalid      = flag.Bool("skip-invalid", false, "Skip malformed CSV rows instead of failing")
		help             = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		ConfigFile:       *configFile,
		ScenarioDir:      *scenarioDir,
		ForecastsFile:    *forecastsFile,
		BOMFile:          *bomFile,
		StyleBOMFile:     *styleBOMFile,
		InventoryFile:    *inventoryFile,
		SuppliersFile:    *suppliersFile,
		HistoryFile:      *historyFile,
		SalesHistoryFile: *salesHistoryFile,
		OutputDir:        *outputDir,
		Format:           *format,
		MetricsFile:      *metricsFile,
		EventsFile:       *eventsFile,
		Verbose:          *verbose,
		SkipInvalid:      *skipInvalid,
		Help:             *help,
	}

	// Create and execute command
	cmd := commands.NewPlanCommand(config)
	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	var (
		styles    = fs.Int("styles", 20, "Number of styles with forecasts")
		yarns     = fs.Int("yarns", 12, "Number of yarns in the catalog")
		suppliers = fs.Int("suppliers", 3, "Maximum supplier offers per yarn")
		inventory = fs.Float64("inventory", 0.5, "Inventory coverage of expected consumption")
		periods   = fs.Int("periods", 12, "Demand history periods per yarn")
		outputDir = fs.String("output", "", "Output directory for the scenario")
		seed      = fs.Int64("seed", 0, "Random seed (0 = time based)")
		verbose   = fs.Bool("verbose", false, "Enable verbose output")
		help      = fs.Bool("help", false, "Show help message")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd := commands.NewGenerateCommand(commands.GenerateConfig{
		Styles:    *styles,
		Yarns:     *yarns,
		Suppliers: *suppliers,
		Inventory: *inventory,
		Periods:   *periods,
		OutputDir: *outputDir,
		Seed:      *seed,
		Help:      *help,
		Verbose:   *verbose,
	})
	return cmd.Execute(ctx)
}
