package bom

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func blend(t *testing.T, style, yarn string, pct float64) *entities.BlendLine {
	t.Helper()
	line, err := entities.NewBlendLine(entities.SKU(style), entities.MaterialID(yarn), pct, "")
	require.NoError(t, err)
	return line
}

func flat(t *testing.T, sku, material string, qtyPerUnit float64, unit string) *entities.BOMLine {
	t.Helper()
	line, err := entities.NewBOMLine(entities.SKU(sku), entities.MaterialID(material), qtyPerUnit, unit)
	require.NoError(t, err)
	return line
}

func TestExplodePercentage_SplitsByBlend(t *testing.T) {
	exploder := NewExploder(nil)
	demand := map[entities.SKU]float64{"S1": 1000}
	lines := []*entities.BlendLine{
		blend(t, "S1", "YARN-A", 60),
		blend(t, "S1", "YARN-B", 40),
	}

	set := exploder.ExplodePercentage(demand, lines)

	require.Len(t, set.Requirements, 2)
	assert.InDelta(t, 600.0, set.Get("YARN-A").TotalQty, 1e-9)
	assert.InDelta(t, 400.0, set.Get("YARN-B").TotalQty, 1e-9)
	assert.Empty(t, set.Warnings)

	source := set.Get("YARN-A").Sources[0]
	assert.Equal(t, entities.SKU("S1"), source.SKU)
	assert.InDelta(t, 0.6, source.QtyPerUnit, 1e-9)
}

func TestExplodePercentage_BadBlendWarnsAndUsesRawPercentages(t *testing.T) {
	exploder := NewExploder(nil)
	demand := map[entities.SKU]float64{"S1": 1000}
	lines := []*entities.BlendLine{
		blend(t, "S1", "YARN-A", 60),
		blend(t, "S1", "YARN-B", 30),
	}

	set := exploder.ExplodePercentage(demand, lines)

	require.Len(t, set.Warnings, 1)
	assert.Equal(t, entities.WarningBOMPercentageSum, set.Warnings[0].Code)
	assert.Equal(t, "S1", set.Warnings[0].Subject)
	assert.InDelta(t, 600.0, set.Get("YARN-A").TotalQty, 1e-9)
	assert.InDelta(t, 300.0, set.Get("YARN-B").TotalQty, 1e-9)
}

func TestExplodePercentage_WithinToleranceDoesNotWarn(t *testing.T) {
	exploder := NewExploder(nil)
	demand := map[entities.SKU]float64{"S1": 100}
	lines := []*entities.BlendLine{
		blend(t, "S1", "YARN-A", 60.05),
		blend(t, "S1", "YARN-B", 40),
	}

	set := exploder.ExplodePercentage(demand, lines)
	assert.Empty(t, set.Warnings)
}

func TestExplodeFlat(t *testing.T) {
	exploder := NewExploder(nil)

	testCases := []struct {
		name     string
		demand   map[entities.SKU]float64
		lines    []*entities.BOMLine
		expected map[entities.MaterialID]float64
		warnings []entities.WarningCode
	}{
		{
			name:   "single SKU",
			demand: map[entities.SKU]float64{"SKU-1": 100},
			lines: []*entities.BOMLine{
				flat(t, "SKU-1", "COTTON", 2.5, "kg"),
			},
			expected: map[entities.MaterialID]float64{"COTTON": 250},
		},
		{
			name:   "shared material summed across SKUs",
			demand: map[entities.SKU]float64{"SKU-1": 100, "SKU-2": 40},
			lines: []*entities.BOMLine{
				flat(t, "SKU-1", "COTTON", 2, "kg"),
				flat(t, "SKU-2", "COTTON", 0.5, "kg"),
				flat(t, "SKU-2", "DYE", 0.1, "l"),
			},
			expected: map[entities.MaterialID]float64{"COTTON": 220, "DYE": 4},
		},
		{
			name:   "units converted to first seen",
			demand: map[entities.SKU]float64{"SKU-1": 10, "SKU-2": 10},
			lines: []*entities.BOMLine{
				flat(t, "SKU-1", "COTTON", 1, "kg"),
				flat(t, "SKU-2", "COTTON", 500, "g"),
			},
			expected: map[entities.MaterialID]float64{"COTTON": 15},
		},
		{
			name:   "incompatible units skipped with warning",
			demand: map[entities.SKU]float64{"SKU-1": 10, "SKU-2": 10},
			lines: []*entities.BOMLine{
				flat(t, "SKU-1", "COTTON", 1, "kg"),
				flat(t, "SKU-2", "COTTON", 1, "m"),
			},
			expected: map[entities.MaterialID]float64{"COTTON": 10},
			warnings: []entities.WarningCode{entities.WarningUnitMismatch},
		},
		{
			name:   "demand without BOM",
			demand: map[entities.SKU]float64{"SKU-1": 10, "SKU-9": 5},
			lines: []*entities.BOMLine{
				flat(t, "SKU-1", "COTTON", 1, "kg"),
			},
			expected: map[entities.MaterialID]float64{"COTTON": 10},
			warnings: []entities.WarningCode{entities.WarningMissingBOM},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			set := exploder.ExplodeFlat(tc.demand, tc.lines)

			require.Len(t, set.Requirements, len(tc.expected))
			for material, qty := range tc.expected {
				req := set.Get(material)
				require.NotNil(t, req, "missing requirement for %s", material)
				assert.InDelta(t, qty, req.TotalQty, 1e-9)
			}

			codes := make([]entities.WarningCode, 0, len(set.Warnings))
			for _, w := range set.Warnings {
				codes = append(codes, w.Code)
			}
			if tc.warnings == nil {
				assert.Empty(t, codes)
			} else {
				assert.Equal(t, tc.warnings, codes)
			}
		})
	}
}

func TestMerge_EqualsExplosionOfUnion(t *testing.T) {
	exploder := NewExploder(nil)
	lines := []*entities.BOMLine{
		flat(t, "SKU-1", "COTTON", 2, "kg"),
		flat(t, "SKU-2", "COTTON", 1, "kg"),
		flat(t, "SKU-2", "ELASTANE", 0.05, "kg"),
		flat(t, "SKU-3", "DYE", 0.2, "l"),
	}

	a := map[entities.SKU]float64{"SKU-1": 100, "SKU-3": 30}
	b := map[entities.SKU]float64{"SKU-2": 70}
	union := map[entities.SKU]float64{"SKU-1": 100, "SKU-2": 70, "SKU-3": 30}

	merged := Merge(exploder.ExplodeFlat(a, lines), exploder.ExplodeFlat(b, lines))
	whole := exploder.ExplodeFlat(union, lines)

	require.ElementsMatch(t, whole.MaterialIDs(), merged.MaterialIDs())
	for _, id := range whole.MaterialIDs() {
		assert.InDelta(t, whole.Get(id).TotalQty, merged.Get(id).TotalQty, 1e-9, "material %s", id)
		assert.Len(t, merged.Get(id).Sources, len(whole.Get(id).Sources))
	}
}

func TestMerge_IsAssociative(t *testing.T) {
	exploder := NewExploder(nil)
	lines := []*entities.BOMLine{
		flat(t, "A", "M1", 1.5, "kg"),
		flat(t, "B", "M1", 0.5, "kg"),
		flat(t, "C", "M2", 3, "kg"),
	}
	x := exploder.ExplodeFlat(map[entities.SKU]float64{"A": 10}, lines)
	y := exploder.ExplodeFlat(map[entities.SKU]float64{"B": 20}, lines)
	z := exploder.ExplodeFlat(map[entities.SKU]float64{"C": 30, "D": 1}, lines)

	left := Merge(Merge(x, y), z)
	right := Merge(x, Merge(y, z))

	for _, id := range left.MaterialIDs() {
		assert.True(t, math.Abs(left.Get(id).TotalQty-right.Get(id).TotalQty) < 1e-9)
	}
	assert.Equal(t, left.Warnings, right.Warnings)
}

func TestMerge_CarriesWarningsSeparately(t *testing.T) {
	exploder := NewExploder(nil)
	pct := exploder.ExplodePercentage(
		map[entities.SKU]float64{"S1": 100},
		[]*entities.BlendLine{blend(t, "S1", "YARN-A", 90)},
	)
	flatSet := exploder.ExplodeFlat(
		map[entities.SKU]float64{"SKU-1": 10},
		[]*entities.BOMLine{flat(t, "SKU-1", "COTTON", 1, "kg")},
	)

	merged := Merge(pct, flatSet, nil)

	assert.Len(t, merged.Requirements, 2)
	require.Len(t, merged.Warnings, 1)
	assert.Equal(t, entities.WarningBOMPercentageSum, merged.Warnings[0].Code)
}

func TestPercentageExploder_Explode(t *testing.T) {
	exploder := NewPercentageExploder(nil)
	lines := []*entities.BlendLine{blend(t, "S1", "YARN-A", 100)}

	t.Run("no matching style", func(t *testing.T) {
		_, err := exploder.Explode(context.Background(), map[entities.SKU]float64{"S9": 10}, lines)
		require.Error(t, err)
		assert.Equal(t, "no style-yarn BOM rows for any of 1 demanded styles", err.Error())
	})

	t.Run("matching style", func(t *testing.T) {
		set, err := exploder.Explode(context.Background(), map[entities.SKU]float64{"S1": 10}, lines)
		require.NoError(t, err)
		assert.InDelta(t, 10.0, set.Get("YARN-A").TotalQty, 1e-9)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := exploder.Explode(ctx, map[entities.SKU]float64{"S1": 10}, lines)
		require.ErrorIs(t, err, context.Canceled)
	})
}
