package bom

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/services"
)

// Exploder turns SKU demand into gross material requirements
type Exploder struct {
	validator *services.BOMValidator
	logger    *zap.Logger
}

// NewExploder creates a new BOM exploder
func NewExploder(logger *zap.Logger) *Exploder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exploder{
		validator: services.NewBOMValidator(),
		logger:    logger,
	}
}

// ExplodeFlat computes material_qty = forecast_qty × qty_per_unit summed across SKUs
func (e *Exploder) ExplodeFlat(demand map[entities.SKU]float64, lines []*entities.BOMLine) *RequirementSet {
	set := NewRequirementSet()
	covered := make(map[entities.SKU]bool)

	for _, line := range lines {
		qty, ok := demand[line.SKU]
		if !ok {
			continue
		}
		covered[line.SKU] = true
		if qty <= 0 {
			continue
		}

		set.add(line.MaterialID, "", line.Unit, RequirementSource{
			SKU:         line.SKU,
			ForecastQty: qty,
			QtyPerUnit:  line.QtyPerUnit,
			MaterialQty: qty * line.QtyPerUnit,
		})
	}

	set.Warnings = append(set.Warnings, missingBOMWarnings(demand, covered)...)

	e.logger.Debug("flat BOM exploded",
		zap.Int("skus", len(demand)),
		zap.Int("materials", len(set.Requirements)))

	return set
}

// ExplodePercentage computes yarn_qty = forecast_qty × percentage / 100. Styles whose
// blend does not sum to 100 (±0.1) raise a warning and are exploded with their raw
// percentages.
func (e *Exploder) ExplodePercentage(demand map[entities.SKU]float64, lines []*entities.BlendLine) *RequirementSet {
	set := NewRequirementSet()

	relevant := make([]*entities.BlendLine, 0, len(lines))
	for _, line := range lines {
		if _, ok := demand[line.StyleID]; ok {
			relevant = append(relevant, line)
		}
	}

	validation := e.validator.ValidateBlend(relevant)
	for _, invalid := range validation.InvalidBlends {
		set.Warnings = append(set.Warnings, entities.NewComputationWarning(
			entities.WarningBOMPercentageSum,
			string(invalid.StyleID),
			"blend percentages sum to %.2f%%, exploding with raw percentages",
			invalid.Total,
		))
	}

	covered := make(map[entities.SKU]bool)
	for _, line := range relevant {
		covered[line.StyleID] = true
		qty := demand[line.StyleID]
		if qty <= 0 {
			continue
		}

		set.add(line.YarnID, line.YarnName, "", RequirementSource{
			SKU:         line.StyleID,
			ForecastQty: qty,
			QtyPerUnit:  line.Percentage / 100,
			MaterialQty: qty * line.Percentage / 100,
		})
	}

	set.Warnings = append(set.Warnings, missingBOMWarnings(demand, covered)...)

	e.logger.Debug("style-yarn BOM exploded",
		zap.Int("styles", len(covered)),
		zap.Int("yarns", len(set.Requirements)),
		zap.Int("invalid_blends", len(validation.InvalidBlends)))

	return set
}

func missingBOMWarnings(demand map[entities.SKU]float64, covered map[entities.SKU]bool) []entities.ComputationWarning {
	skus := make([]entities.SKU, 0)
	for sku, qty := range demand {
		if qty > 0 && !covered[sku] {
			skus = append(skus, sku)
		}
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	warnings := make([]entities.ComputationWarning, 0, len(skus))
	for _, sku := range skus {
		warnings = append(warnings, entities.NewComputationWarning(
			entities.WarningMissingBOM,
			string(sku),
			"no BOM rows for demanded SKU (%g units), demand not exploded",
			demand[sku],
		))
	}
	return warnings
}

// PercentageExploder explodes demand through style-yarn blend rows. It is the
// style-yarn strategy plugged into the planning orchestrator.
type PercentageExploder struct {
	exploder *Exploder
}

// NewPercentageExploder creates a style-yarn exploder
func NewPercentageExploder(logger *zap.Logger) *PercentageExploder {
	return &PercentageExploder{exploder: NewExploder(logger)}
}

// Explode fails when no demanded style has blend rows, leaving the caller to fall
// back to the flat BOM
func (p *PercentageExploder) Explode(
	ctx context.Context,
	demand map[entities.SKU]float64,
	lines []*entities.BlendLine,
) (*RequirementSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := false
	for _, line := range lines {
		if _, ok := demand[line.StyleID]; ok {
			matched = true
			break
		}
	}
	if !matched {
		return nil, fmt.Errorf("no style-yarn BOM rows for any of %d demanded styles", len(demand))
	}

	return p.exploder.ExplodePercentage(demand, lines), nil
}
