package entities

// MaterialID identifies a raw material (yarn, fiber, trim)
type MaterialID string

// BOMLine represents a flat bill-of-materials row: units of material per finished unit
type BOMLine struct {
	SKU        SKU
	MaterialID MaterialID
	QtyPerUnit float64
	Unit       string
}

// NewBOMLine creates a validated BOMLine
func NewBOMLine(sku SKU, materialID MaterialID, qtyPerUnit float64, unit string) (*BOMLine, error) {
	if string(sku) == "" {
		return nil, newValidationError("bom_line", "sku_id", "sku cannot be empty")
	}
	if string(materialID) == "" {
		return nil, newValidationError("bom_line", "material_id", "material id cannot be empty")
	}
	if nonFinite(qtyPerUnit) {
		return nil, newValidationError("bom_line", "qty_per_unit", "quantity per unit must be a finite number, got %g", qtyPerUnit)
	}
	if qtyPerUnit <= 0 {
		return nil, newValidationError("bom_line", "qty_per_unit", "quantity per unit must be positive, got %g", qtyPerUnit)
	}

	return &BOMLine{
		SKU:        sku,
		MaterialID: materialID,
		QtyPerUnit: qtyPerUnit,
		Unit:       unit,
	}, nil
}

// BlendLine represents a style-to-yarn blend row expressed as a percentage of the style
type BlendLine struct {
	StyleID    SKU
	YarnID     MaterialID
	Percentage float64
	YarnName   string
}

// NewBlendLine creates a validated BlendLine
func NewBlendLine(styleID SKU, yarnID MaterialID, percentage float64, yarnName string) (*BlendLine, error) {
	if string(styleID) == "" {
		return nil, newValidationError("blend_line", "style_id", "style id cannot be empty")
	}
	if string(yarnID) == "" {
		return nil, newValidationError("blend_line", "yarn_id", "yarn id cannot be empty")
	}
	if nonFinite(percentage) || percentage <= 0 || percentage > 100 {
		return nil, newValidationError("blend_line", "percentage", "percentage must be in (0, 100], got %g", percentage)
	}

	return &BlendLine{
		StyleID:    styleID,
		YarnID:     yarnID,
		Percentage: percentage,
		YarnName:   yarnName,
	}, nil
}
