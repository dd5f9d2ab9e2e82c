package memory

import (
	"fmt"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// BOMRepository stores flat BOM lines and style-yarn blend lines, indexed by SKU
type BOMRepository struct {
	bomLines     []entities.BOMLine
	bomIndexes   map[entities.SKU][]int
	blendLines   []entities.BlendLine
	blendIndexes map[entities.SKU][]int
}

// NewBOMRepository creates a BOM repository sized for the expected number of lines
func NewBOMRepository(expectedBOMLines, expectedBlendLines int) *BOMRepository {
	return &BOMRepository{
		bomLines:     make([]entities.BOMLine, 0, expectedBOMLines),
		bomIndexes:   make(map[entities.SKU][]int),
		blendLines:   make([]entities.BlendLine, 0, expectedBlendLines),
		blendIndexes: make(map[entities.SKU][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMLines loads flat BOM lines into the repository
func (r *BOMRepository) LoadBOMLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		if line == nil {
			return fmt.Errorf("BOM line cannot be nil")
		}
		r.AddBOMLine(*line)
	}
	return nil
}

// AddBOMLine adds a flat BOM line to the repository
func (r *BOMRepository) AddBOMLine(line entities.BOMLine) {
	index := len(r.bomLines)
	r.bomLines = append(r.bomLines, line)
	r.bomIndexes[line.SKU] = append(r.bomIndexes[line.SKU], index)
}

// GetBOMLines returns all flat BOM lines of a SKU
func (r *BOMRepository) GetBOMLines(sku entities.SKU) ([]*entities.BOMLine, error) {
	indexes, exists := r.bomIndexes[sku]
	if !exists {
		return []*entities.BOMLine{}, nil
	}

	lines := make([]*entities.BOMLine, 0, len(indexes))
	for _, index := range indexes {
		line := r.bomLines[index]
		lines = append(lines, &line)
	}
	return lines, nil
}

// GetAllBOMLines returns copies of all flat BOM lines in load order
func (r *BOMRepository) GetAllBOMLines() ([]*entities.BOMLine, error) {
	lines := make([]*entities.BOMLine, 0, len(r.bomLines))
	for i := range r.bomLines {
		line := r.bomLines[i]
		lines = append(lines, &line)
	}
	return lines, nil
}

// LoadBlendLines loads style-yarn blend lines into the repository
func (r *BOMRepository) LoadBlendLines(lines []*entities.BlendLine) error {
	for _, line := range lines {
		if line == nil {
			return fmt.Errorf("blend line cannot be nil")
		}
		r.AddBlendLine(*line)
	}
	return nil
}

// AddBlendLine adds a style-yarn blend line to the repository
func (r *BOMRepository) AddBlendLine(line entities.BlendLine) {
	index := len(r.blendLines)
	r.blendLines = append(r.blendLines, line)
	r.blendIndexes[line.StyleID] = append(r.blendIndexes[line.StyleID], index)
}

// GetBlendLines returns the yarn blend of a style
func (r *BOMRepository) GetBlendLines(styleID entities.SKU) ([]*entities.BlendLine, error) {
	indexes, exists := r.blendIndexes[styleID]
	if !exists {
		return []*entities.BlendLine{}, nil
	}

	lines := make([]*entities.BlendLine, 0, len(indexes))
	for _, index := range indexes {
		line := r.blendLines[index]
		lines = append(lines, &line)
	}
	return lines, nil
}

// GetAllBlendLines returns copies of all blend lines in load order
func (r *BOMRepository) GetAllBlendLines() ([]*entities.BlendLine, error) {
	lines := make([]*entities.BlendLine, 0, len(r.blendLines))
	for i := range r.blendLines {
		line := r.blendLines[i]
		lines = append(lines, &line)
	}
	return lines, nil
}
