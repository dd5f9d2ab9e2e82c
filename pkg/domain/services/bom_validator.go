package services

import (
	"fmt"
	"math"
	"sort"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// BlendSumTolerance is how far a style's blend percentages may drift from 100
const BlendSumTolerance = 0.1

// BOMValidator provides validation for BOM structure integrity
type BOMValidator struct {
	tolerance float64
}

// NewBOMValidator creates a new BOM validator
func NewBOMValidator() *BOMValidator {
	return &BOMValidator{tolerance: BlendSumTolerance}
}

// StyleBlendSum reports a style whose yarn percentages do not add up to 100
type StyleBlendSum struct {
	StyleID entities.SKU
	Total   float64
}

// ValidationResult contains the results of BOM validation
type ValidationResult struct {
	InvalidBlends   []StyleBlendSum
	DuplicateLines  []entities.BOMLine
	DuplicateBlends []entities.BlendLine
	SelfReferencing []entities.SKU
	Errors          []string
}

// HasIssues reports whether any check failed
func (r *ValidationResult) HasIssues() bool {
	return len(r.Errors) > 0
}

// ValidateBlend checks per-style percentage sums and duplicate style/yarn rows
func (v *BOMValidator) ValidateBlend(lines []*entities.BlendLine) *ValidationResult {
	result := newValidationResult()

	totals := v.BlendTotals(lines)
	styles := make([]entities.SKU, 0, len(totals))
	for style := range totals {
		styles = append(styles, style)
	}
	sort.Slice(styles, func(i, j int) bool { return styles[i] < styles[j] })

	for _, style := range styles {
		total := totals[style]
		if math.Abs(total-100) > v.tolerance {
			result.InvalidBlends = append(result.InvalidBlends, StyleBlendSum{StyleID: style, Total: total})
			result.Errors = append(result.Errors, fmt.Sprintf("style %s blend percentages sum to %.2f%%, expected 100%%", style, total))
		}
	}

	seen := make(map[string]bool)
	for _, line := range lines {
		key := fmt.Sprintf("%s|%s", line.StyleID, line.YarnID)
		if seen[key] {
			result.DuplicateBlends = append(result.DuplicateBlends, *line)
			continue
		}
		seen[key] = true
	}
	if len(result.DuplicateBlends) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate blend lines", len(result.DuplicateBlends)))
	}

	return result
}

// BlendTotals sums blend percentages per style
func (v *BOMValidator) BlendTotals(lines []*entities.BlendLine) map[entities.SKU]float64 {
	totals := make(map[entities.SKU]float64)
	for _, line := range lines {
		totals[line.StyleID] += line.Percentage
	}
	return totals
}

// ValidateBOM checks flat BOM lines for duplicates and SKUs that consume themselves
func (v *BOMValidator) ValidateBOM(lines []*entities.BOMLine) *ValidationResult {
	result := newValidationResult()

	seen := make(map[string]bool)
	for _, line := range lines {
		if string(line.SKU) == string(line.MaterialID) {
			result.SelfReferencing = append(result.SelfReferencing, line.SKU)
		}

		key := fmt.Sprintf("%s|%s", line.SKU, line.MaterialID)
		if seen[key] {
			result.DuplicateLines = append(result.DuplicateLines, *line)
			continue
		}
		seen[key] = true
	}

	if len(result.SelfReferencing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("SKUs listed as their own material: %v", result.SelfReferencing))
	}
	if len(result.DuplicateLines) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Found %d duplicate BOM lines", len(result.DuplicateLines)))
	}

	return result
}

func newValidationResult() *ValidationResult {
	return &ValidationResult{
		InvalidBlends:   make([]StyleBlendSum, 0),
		DuplicateLines:  make([]entities.BOMLine, 0),
		DuplicateBlends: make([]entities.BlendLine, 0),
		SelfReferencing: make([]entities.SKU, 0),
		Errors:          make([]string, 0),
	}
}
