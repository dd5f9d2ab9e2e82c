package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScenarioFiles maps a scenario file name to its CSV rows, header first
type ScenarioFiles map[string][]string

// BlendScenarioFiles is the two-yarn style scenario as CSV: STYLE1 demand of 1000
// split 60/40 over YARN-A and YARN-B with 200 of YARN-A on hand.
func BlendScenarioFiles() ScenarioFiles {
	return ScenarioFiles{
		"forecasts.csv": {
			"sku_id,forecast_qty,forecast_date,source,unit,confidence",
			"STYLE1,1000,2026-03-02,sales_order,lbs,1",
		},
		"style_bom.csv": {
			"style_id,yarn_id,percentage,yarn_name",
			"STYLE1,YARN-A,60%,Combed cotton 30/1",
			"STYLE1,YARN-B,40%,Polyester 150D",
		},
		"bom.csv": {
			"sku_id,material_id,qty_per_unit,unit",
			"STYLE1,YARN-A,0.6,lbs",
			"STYLE1,YARN-B,0.4,lbs",
		},
		"inventory.csv": {
			"material_id,on_hand_qty,open_po_qty,unit",
			"YARN-A,200,0,lbs",
			"YARN-B,0,0,lbs",
		},
		"suppliers.csv": {
			"material_id,supplier_id,cost_per_unit,lead_time_days,moq,reliability_score",
			"YARN-A,SUP-A1,$5.00,14,100,0.95",
			"YARN-B,SUP-B1,$8.00,21,50,0.9",
		},
	}
}

// WriteScenario writes every file of a scenario into dir
func WriteScenario(dir string, files ScenarioFiles) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		body := strings.Join(files[name], "\n") + "\n"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
	}
	return nil
}

// WriteBlendScenario writes BlendScenarioFiles into dir
func WriteBlendScenario(dir string) error {
	return WriteScenario(dir, BlendScenarioFiles())
}
