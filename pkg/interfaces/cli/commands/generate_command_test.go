package commands

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/application/dto"
	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/infrastructure/repositories/csv"
)

func TestGenerateCommand_WritesLoadableScenario(t *testing.T) {
	dir := t.TempDir()
	cmd := NewGenerateCommand(GenerateConfig{
		Styles:    15,
		Yarns:     8,
		Suppliers: 3,
		Inventory: 0.5,
		Periods:   6,
		OutputDir: dir,
		Seed:      42,
	})
	require.NoError(t, cmd.Execute(context.Background()))

	loader := csv.NewLoader(nil, false)

	forecasts, err := loader.LoadForecasts(filepath.Join(dir, "forecasts.csv"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(forecasts), 15)

	blends, err := loader.LoadStyleBOM(filepath.Join(dir, "style_bom.csv"))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(blends), 30)

	inventory, err := loader.LoadInventory(filepath.Join(dir, "inventory.csv"))
	require.NoError(t, err)
	assert.Len(t, inventory, 8)

	_, err = loader.LoadSuppliers(filepath.Join(dir, "suppliers.csv"))
	require.NoError(t, err)

	history, err := loader.LoadDemandHistory(filepath.Join(dir, "demand_history.csv"))
	require.NoError(t, err)
	for id, periods := range history {
		assert.Len(t, periods, 6, "material %s", id)
	}

	outputDir := t.TempDir()
	plan := NewPlanCommand(Config{
		ConfigFile:  writeConfigFile(t, "planning:\n  use_style_yarn_bom: true\n  safety_stock_method: statistical\n"),
		ScenarioDir: dir,
		OutputDir:   outputDir,
		Format:      "gantt",
	})
	require.NoError(t, plan.Execute(context.Background()))

	_, err = os.Stat(filepath.Join(outputDir, "procurement_timeline.svg"))
	assert.NoError(t, err)
}

func TestGenerateCommand_PlansWithoutConfigFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewGenerateCommand(GenerateConfig{
		Styles:    10,
		Yarns:     6,
		Suppliers: 2,
		Inventory: 0.3,
		Periods:   4,
		OutputDir: dir,
		Seed:      7,
	}).Execute(context.Background()))

	outputDir := t.TempDir()
	plan := NewPlanCommand(Config{
		ScenarioDir: dir,
		OutputDir:   outputDir,
		Format:      "json",
		Verbose:     true,
	})
	require.NoError(t, plan.Execute(context.Background()))

	data, err := os.ReadFile(filepath.Join(outputDir, "procurement_plan.json"))
	require.NoError(t, err)

	var result dto.PlanningResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotEmpty(t, result.MaterialPlans)
	for _, warning := range result.Warnings {
		assert.NotEqual(t, entities.WarningMissingBOM, warning.Code, warning.Message)
	}
}

func TestSelectStyleYarnMode(t *testing.T) {
	testCases := []struct {
		name     string
		files    map[string]string
		enabled  bool
		expected bool
	}{
		{"blend only", map[string]string{StyleBOMFile: "style_bom.csv"}, false, true},
		{"flat and blend", map[string]string{BOMFile: "bom.csv", StyleBOMFile: "style_bom.csv"}, false, false},
		{"flat only", map[string]string{BOMFile: "bom.csv"}, false, false},
		{"already enabled", map[string]string{StyleBOMFile: "style_bom.csv"}, true, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			planning := config.DefaultPlanningConfig()
			planning.UseStyleYarnBOM = tc.enabled

			changed := selectStyleYarnMode(tc.files, &planning)
			assert.Equal(t, tc.expected, planning.UseStyleYarnBOM)
			assert.Equal(t, tc.expected && !tc.enabled, changed)
		})
	}
}

func TestGenerateCommand_SameSeedSameScenario(t *testing.T) {
	read := func(seed int64) []byte {
		dir := t.TempDir()
		cmd := NewGenerateCommand(GenerateConfig{Styles: 5, Yarns: 4, Suppliers: 2, Periods: 3, OutputDir: dir, Seed: seed})
		require.NoError(t, cmd.Execute(context.Background()))
		data, err := os.ReadFile(filepath.Join(dir, "suppliers.csv"))
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, read(7), read(7))
}

func TestGenerateCommand_Validation(t *testing.T) {
	testCases := []struct {
		name        string
		config      GenerateConfig
		expectedErr string
	}{
		{"no output", GenerateConfig{Styles: 1, Yarns: 2, Suppliers: 1}, "validation error: output directory is required"},
		{"one yarn", GenerateConfig{Styles: 1, Yarns: 1, Suppliers: 1, OutputDir: "x"}, "validation error: yarns must be at least 2, got 1"},
		{"no suppliers", GenerateConfig{Styles: 1, Yarns: 2, OutputDir: "x"}, "validation error: suppliers must be at least 1, got 0"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := NewGenerateCommand(tc.config).Execute(context.Background())
			require.Error(t, err)
			assert.Equal(t, tc.expectedErr, err.Error())
		})
	}
}
