package repositories

import "github.com/vsinha/rawmat/pkg/domain/entities"

// BOMRepository provides access to flat and style-yarn blend Bill of Materials data
type BOMRepository interface {
	GetBOMLines(sku entities.SKU) ([]*entities.BOMLine, error)
	GetAllBOMLines() ([]*entities.BOMLine, error)
	LoadBOMLines(lines []*entities.BOMLine) error

	// Blend-aware methods

	// GetBlendLines returns the yarn blend rows of a style.
	GetBlendLines(styleID entities.SKU) ([]*entities.BlendLine, error)
	GetAllBlendLines() ([]*entities.BlendLine, error)
	LoadBlendLines(lines []*entities.BlendLine) error
}
