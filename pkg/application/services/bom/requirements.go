package bom

import (
	"sort"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/services"
)

// RequirementSource traces one SKU's contribution to a material requirement
type RequirementSource struct {
	SKU         entities.SKU `json:"sku_id" yaml:"sku_id"`
	ForecastQty float64      `json:"forecast_qty" yaml:"forecast_qty"`
	QtyPerUnit  float64      `json:"qty_per_unit" yaml:"qty_per_unit"`
	MaterialQty float64      `json:"material_qty" yaml:"material_qty"`
}

// MaterialRequirement is the gross requirement of one material across all SKUs
type MaterialRequirement struct {
	MaterialID entities.MaterialID `json:"material_id" yaml:"material_id"`
	Name       string              `json:"name,omitempty" yaml:"name,omitempty"`
	TotalQty   float64             `json:"total_qty" yaml:"total_qty"`
	Unit       string              `json:"unit" yaml:"unit"`
	Sources    []RequirementSource `json:"sources" yaml:"sources"`
}

// RequirementSet is the output of a BOM explosion. Warnings are kept apart from
// requirements so they are never mistaken for a material.
type RequirementSet struct {
	Requirements map[entities.MaterialID]*MaterialRequirement
	Warnings     []entities.ComputationWarning
}

// NewRequirementSet creates an empty requirement set
func NewRequirementSet() *RequirementSet {
	return &RequirementSet{
		Requirements: make(map[entities.MaterialID]*MaterialRequirement),
		Warnings:     make([]entities.ComputationWarning, 0),
	}
}

// MaterialIDs returns the materials in ascending order
func (s *RequirementSet) MaterialIDs() []entities.MaterialID {
	ids := make([]entities.MaterialID, 0, len(s.Requirements))
	for id := range s.Requirements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Get returns the requirement of a material or nil
func (s *RequirementSet) Get(materialID entities.MaterialID) *MaterialRequirement {
	return s.Requirements[materialID]
}

// add folds a contribution into the set, converting to the unit first seen for
// the material. Contributions in an unconvertible unit are dropped with a warning.
func (s *RequirementSet) add(materialID entities.MaterialID, name, unit string, source RequirementSource) {
	s.fold(materialID, name, unit, source.MaterialQty, &source)
}

func (s *RequirementSet) fold(materialID entities.MaterialID, name, unit string, qty float64, source *RequirementSource) {
	req, exists := s.Requirements[materialID]
	if !exists {
		req = &MaterialRequirement{
			MaterialID: materialID,
			Name:       name,
			Unit:       unit,
			Sources:    make([]RequirementSource, 0, 1),
		}
		s.Requirements[materialID] = req
	}

	if unit != "" && req.Unit != "" && services.NormalizeUnit(unit) != services.NormalizeUnit(req.Unit) {
		converted, ok := services.Convert(qty, unit, req.Unit, 0)
		if !ok {
			s.Warnings = append(s.Warnings, entities.NewComputationWarning(
				entities.WarningUnitMismatch,
				string(materialID),
				"cannot convert %g %s to %s, contribution skipped",
				qty, unit, req.Unit,
			))
			return
		}
		qty = converted
	}
	if req.Unit == "" {
		req.Unit = unit
	}
	if req.Name == "" {
		req.Name = name
	}

	req.TotalQty += qty
	if source != nil {
		source.MaterialQty = qty
		req.Sources = append(req.Sources, *source)
	}
}

// Merge additively combines requirement sets: totals are summed and sources
// concatenated. Warnings from every set are carried over.
func Merge(sets ...*RequirementSet) *RequirementSet {
	merged := NewRequirementSet()
	for _, set := range sets {
		if set == nil {
			continue
		}
		for _, id := range set.MaterialIDs() {
			req := set.Requirements[id]
			if len(req.Sources) == 0 {
				merged.fold(id, req.Name, req.Unit, req.TotalQty, nil)
				continue
			}
			for _, source := range req.Sources {
				merged.add(id, req.Name, req.Unit, source)
			}
		}
		merged.Warnings = append(merged.Warnings, set.Warnings...)
	}
	return merged
}
