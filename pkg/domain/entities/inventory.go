package entities

import (
	"time"
)

// InventoryStatus classifies how a material's supply covers its gross requirement
type InventoryStatus string

const (
	StatusSufficient       InventoryStatus = "sufficient"
	StatusOnHandSufficient InventoryStatus = "on_hand_sufficient"
	StatusWithPOSufficient InventoryStatus = "with_po_sufficient"
	StatusShortage         InventoryStatus = "shortage"
)

// InventorySnapshot holds one material's supply position for a planning run
type InventorySnapshot struct {
	MaterialID     MaterialID
	OnHand         float64
	OpenPO         float64
	Unit           string
	POExpectedDate *time.Time
}

// NewInventorySnapshot creates a validated InventorySnapshot
func NewInventorySnapshot(
	materialID MaterialID,
	onHand, openPO float64,
	unit string,
	poExpectedDate *time.Time,
) (*InventorySnapshot, error) {
	if string(materialID) == "" {
		return nil, newValidationError("inventory", "material_id", "material id cannot be empty")
	}
	if nonFinite(onHand) {
		return nil, newValidationError("inventory", "on_hand_qty", "on hand quantity must be a finite number, got %g", onHand)
	}
	if nonFinite(openPO) {
		return nil, newValidationError("inventory", "open_po_qty", "open po quantity must be a finite number, got %g", openPO)
	}
	if onHand < 0 {
		return nil, newValidationError("inventory", "on_hand_qty", "on hand quantity cannot be negative, got %g", onHand)
	}
	if openPO < 0 {
		return nil, newValidationError("inventory", "open_po_qty", "open po quantity cannot be negative, got %g", openPO)
	}

	return &InventorySnapshot{
		MaterialID:     materialID,
		OnHand:         onHand,
		OpenPO:         openPO,
		Unit:           unit,
		POExpectedDate: poExpectedDate,
	}, nil
}

// Available returns on-hand plus on-order supply
func (s *InventorySnapshot) Available() float64 {
	return s.OnHand + s.OpenPO
}
