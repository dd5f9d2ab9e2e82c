package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vsinha/rawmat/pkg/application/dto"
)

const dateLayout = "2006-01-02"

// Config holds configuration for output generation
type Config struct {
	Format     string
	OutputDir  string
	Verbose    bool
	PlanTime   time.Duration
	InputFiles map[string]string
}

// Generate creates output in the specified format. Text, JSON, YAML and the Gantt
// SVG go to stdout unless an output directory is given; CSV always needs one.
func Generate(result *dto.PlanningResult, config Config) error {
	switch config.Format {
	case "text":
		return emit(config, "procurement_plan.txt", func(w io.Writer) error {
			return WriteText(w, result, config.PlanTime)
		})
	case "json":
		return emit(config, "procurement_plan.json", func(w io.Writer) error {
			return WriteJSON(w, result)
		})
	case "yaml":
		return emit(config, "procurement_plan.yaml", func(w io.Writer) error {
			return WriteYAML(w, result)
		})
	case "csv":
		return generateCSVOutput(result, config)
	case "gantt":
		return emit(config, "procurement_timeline.svg", func(w io.Writer) error {
			_, err := io.WriteString(w, NewGanttChart(result).GenerateSVG(result))
			return err
		})
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

func emit(config Config, filename string, write func(io.Writer) error) error {
	if config.OutputDir == "" {
		return write(os.Stdout)
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(config.OutputDir, filename)
	if err := writeFile(path, write); err != nil {
		return err
	}

	if config.Verbose {
		fmt.Printf("💾 Results saved to: %s\n", path)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := write(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}

// WriteText renders a human-readable report
func WriteText(w io.Writer, result *dto.PlanningResult, planTime time.Duration) error {
	summary := result.Summary

	fmt.Fprintf(w, "📊 Procurement Plan %s\n", result.PlanningDate.Format(dateLayout))
	fmt.Fprintf(w, "==============================\n\n")

	fmt.Fprintf(w, "Run ID: %s\n", result.RunID)
	fmt.Fprintf(w, "Materials planned: %d\n", len(result.MaterialPlans))
	fmt.Fprintf(w, "Recommendations: %d\n", len(result.Recommendations))
	fmt.Fprintf(w, "Total cost: %s\n", summary.TotalCost.StringFixed(2))
	fmt.Fprintf(w, "Suppliers: %d\n", summary.TotalSuppliers)
	if planTime > 0 {
		fmt.Fprintf(w, "Planning time: %v\n", planTime)
	}
	fmt.Fprintln(w)

	if len(result.MaterialPlans) > 0 {
		fmt.Fprintf(w, "📦 Material Requirements:\n")
		fmt.Fprintf(w, "%-16s %-6s %12s %12s %12s %12s %12s %-20s\n",
			"Material", "Unit", "Gross", "On Hand", "Open PO", "Net", "Buffered", "Status")
		fmt.Fprintf(w, "%-16s %-6s %12s %12s %12s %12s %12s %-20s\n",
			"----------------", "------", "------------", "------------", "------------",
			"------------", "------------", "--------------------")

		for _, plan := range result.MaterialPlans {
			fmt.Fprintf(w, "%-16s %-6s %12.2f %12.2f %12.2f %12.2f %12.2f %-20s\n",
				plan.MaterialID,
				plan.Unit,
				plan.Gross,
				plan.OnHand,
				plan.OpenPO,
				plan.Net,
				plan.Buffered,
				plan.Status)
		}
		fmt.Fprintln(w)
	}

	if len(result.Recommendations) > 0 {
		fmt.Fprintf(w, "📋 Purchase Recommendations:\n")
		fmt.Fprintf(w, "%-16s %-14s %12s %10s %14s %-12s %-12s %-4s %-6s\n",
			"Material", "Supplier", "Order Qty", "Price", "Total", "Order Date", "Delivery", "Tier", "Risk")
		fmt.Fprintf(w, "%-16s %-14s %12s %10s %14s %-12s %-12s %-4s %-6s\n",
			"----------------", "--------------", "------------", "----------", "--------------",
			"------------", "------------", "----", "------")

		for _, rec := range result.Recommendations {
			fmt.Fprintf(w, "%-16s %-14s %12.2f %10s %14s %-12s %-12s %-4s %-6s\n",
				rec.MaterialID,
				rec.SupplierID,
				rec.OrderQty,
				rec.UnitPrice.StringFixed(2),
				rec.TotalCost.StringFixed(2),
				rec.OrderDate.Format(dateLayout),
				rec.DeliveryDate.Format(dateLayout),
				rec.Tier,
				rec.RiskLevel)
		}
		fmt.Fprintln(w)
	}

	risk := summary.RiskSummary
	fmt.Fprintf(w, "🎯 Risk: high %d, medium %d, low %d, none %d\n", risk.High, risk.Medium, risk.Low, risk.None)
	if timeline := summary.DeliveryTimeline; timeline.Earliest != nil && timeline.Latest != nil {
		fmt.Fprintf(w, "🚚 Deliveries: %s to %s (%d days)\n",
			timeline.Earliest.Format(dateLayout),
			timeline.Latest.Format(dateLayout),
			timeline.SpanDays)
	}

	if len(summary.TopCostItems) > 0 {
		fmt.Fprintf(w, "\n💰 Top Cost Items:\n")
		for i, item := range summary.TopCostItems {
			suppliers := make([]string, len(item.Suppliers))
			for j, id := range item.Suppliers {
				suppliers[j] = string(id)
			}
			fmt.Fprintf(w, "  %d. %-16s %14s  (%s)\n",
				i+1, item.MaterialID, item.TotalCost.StringFixed(2), strings.Join(suppliers, ", "))
		}
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "\n⚠️  Warnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  %s\n", warning)
		}
	}

	if len(result.StageErrors) > 0 {
		fmt.Fprintf(w, "\n❌ Stage Errors:\n")
		for _, stageErr := range result.StageErrors {
			fmt.Fprintf(w, "  %s: %s\n", stageErr.Stage, stageErr.Error)
		}
	}

	return nil
}

// WriteJSON renders the result as indented JSON
func WriteJSON(w io.Writer, result *dto.PlanningResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

// WriteYAML renders the result as YAML
func WriteYAML(w io.Writer, result *dto.PlanningResult) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return encoder.Close()
}

// generateCSVOutput writes one CSV file per result table
func generateCSVOutput(result *dto.PlanningResult, config Config) error {
	if config.OutputDir == "" {
		return fmt.Errorf("output directory required for CSV format")
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"recommendations.csv", func(w io.Writer) error { return WriteRecommendationsCSV(w, result) }},
		{"material_plans.csv", func(w io.Writer) error { return WriteMaterialPlansCSV(w, result) }},
		{"warnings.csv", func(w io.Writer) error { return WriteWarningsCSV(w, result) }},
	}

	for _, f := range files {
		path := filepath.Join(config.OutputDir, f.name)
		if err := writeFile(path, f.write); err != nil {
			return err
		}
		if config.Verbose {
			fmt.Printf("💾 CSV saved to: %s\n", path)
		}
	}

	return nil
}

// WriteRecommendationsCSV writes one row per purchase recommendation
func WriteRecommendationsCSV(w io.Writer, result *dto.PlanningResult) error {
	rows := [][]string{{
		"material_id", "supplier_id", "order_qty", "unit", "unit_price", "total_cost",
		"order_date", "delivery_date", "lead_time_days", "score", "tier",
		"risk_score", "risk_level", "risk_flags", "mode",
	}}
	for _, rec := range result.Recommendations {
		rows = append(rows, []string{
			string(rec.MaterialID),
			string(rec.SupplierID),
			formatFloat(rec.OrderQty),
			rec.Unit,
			rec.UnitPrice.String(),
			rec.TotalCost.StringFixed(2),
			rec.OrderDate.Format(dateLayout),
			rec.DeliveryDate.Format(dateLayout),
			strconv.Itoa(rec.LeadTimeDays),
			strconv.FormatFloat(rec.Score, 'f', 4, 64),
			rec.Tier.String(),
			strconv.Itoa(rec.RiskScore),
			string(rec.RiskLevel),
			strings.Join(rec.RiskFlags, ";"),
			string(rec.Mode),
		})
	}
	return writeCSV(w, rows)
}

// WriteMaterialPlansCSV writes the netting and safety stock figures per material
func WriteMaterialPlansCSV(w io.Writer, result *dto.PlanningResult) error {
	rows := [][]string{{
		"material_id", "name", "unit", "gross", "on_hand", "open_po", "net", "status",
		"safety_stock", "safety_stock_method", "safety_stock_fallback", "buffered",
	}}
	for _, plan := range result.MaterialPlans {
		rows = append(rows, []string{
			string(plan.MaterialID),
			plan.Name,
			plan.Unit,
			formatFloat(plan.Gross),
			formatFloat(plan.OnHand),
			formatFloat(plan.OpenPO),
			formatFloat(plan.Net),
			string(plan.Status),
			formatFloat(plan.SafetyStock),
			plan.SafetyStockMethod,
			strconv.FormatBool(plan.SafetyStockFallback),
			formatFloat(plan.Buffered),
		})
	}
	return writeCSV(w, rows)
}

// WriteWarningsCSV writes warnings and stage errors in one table
func WriteWarningsCSV(w io.Writer, result *dto.PlanningResult) error {
	rows := [][]string{{"kind", "code", "subject", "message"}}
	for _, warning := range result.Warnings {
		rows = append(rows, []string{"warning", string(warning.Code), warning.Subject, warning.Message})
	}
	for _, stageErr := range result.StageErrors {
		rows = append(rows, []string{"stage_error", stageErr.Stage, "", stageErr.Error})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
