package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SupplierID identifies a supplier in the catalog
type SupplierID string

// DefaultQuality is assumed for offers without a quality rating
const DefaultQuality = 0.85

// Tier buckets suppliers by composite score
type Tier int

const (
	TierA Tier = iota
	TierB
	TierC
	TierD
)

// String method for Tier enum
func (t Tier) String() string {
	switch t {
	case TierA:
		return "A"
	case TierB:
		return "B"
	case TierC:
		return "C"
	case TierD:
		return "D"
	default:
		return "Unknown"
	}
}

// MarshalText renders the tier letter in JSON and YAML output
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText parses a tier letter
func (t *Tier) UnmarshalText(text []byte) error {
	switch string(text) {
	case "A":
		*t = TierA
	case "B":
		*t = TierB
	case "C":
		*t = TierC
	case "D":
		*t = TierD
	default:
		return fmt.Errorf("unknown supplier tier %q", text)
	}
	return nil
}

// TierForScore maps a composite score in [0,1] to a tier
func TierForScore(score float64) Tier {
	switch {
	case score >= 0.8:
		return TierA
	case score >= 0.6:
		return TierB
	case score >= 0.4:
		return TierC
	default:
		return TierD
	}
}

// SupplierOffer is one supplier's terms for one material.
// Zero SetupCost, HoldingCostRate and ShippingCost mean "not quoted".
type SupplierOffer struct {
	MaterialID       MaterialID
	SupplierID       SupplierID
	CostPerUnit      decimal.Decimal
	LeadTimeDays     int
	MOQ              float64
	OrderMultiple    float64
	Reliability      float64
	SetupCost        decimal.Decimal
	HoldingCostRate  float64
	ShippingCost     decimal.Decimal
	Quality          *float64
	PaymentTermsDays int
}

// NewSupplierOffer creates a validated SupplierOffer with the required terms.
// Optional terms are set on the returned value.
func NewSupplierOffer(
	materialID MaterialID,
	supplierID SupplierID,
	costPerUnit decimal.Decimal,
	leadTimeDays int,
	moq float64,
	reliability float64,
) (*SupplierOffer, error) {
	if string(materialID) == "" {
		return nil, newValidationError("supplier_offer", "material_id", "material id cannot be empty")
	}
	if string(supplierID) == "" {
		return nil, newValidationError("supplier_offer", "supplier_id", "supplier id cannot be empty")
	}
	if !costPerUnit.IsPositive() {
		return nil, newValidationError("supplier_offer", "cost_per_unit", "cost per unit must be positive, got %s", costPerUnit)
	}
	if leadTimeDays < 0 {
		return nil, newValidationError("supplier_offer", "lead_time_days", "lead time cannot be negative, got %d", leadTimeDays)
	}
	if nonFinite(moq) {
		return nil, newValidationError("supplier_offer", "moq", "minimum order quantity must be a finite number, got %g", moq)
	}
	if moq < 0 {
		return nil, newValidationError("supplier_offer", "moq", "minimum order quantity cannot be negative, got %g", moq)
	}
	if nonFinite(reliability) || reliability < 0 || reliability > 1 {
		return nil, newValidationError("supplier_offer", "reliability_score", "reliability must be between 0 and 1, got %g", reliability)
	}

	return &SupplierOffer{
		MaterialID:   materialID,
		SupplierID:   supplierID,
		CostPerUnit:  costPerUnit,
		LeadTimeDays: leadTimeDays,
		MOQ:          moq,
		Reliability:  reliability,
	}, nil
}

// QualityOrDefault returns the quoted quality rating or DefaultQuality
func (o *SupplierOffer) QualityOrDefault() float64 {
	if o.Quality == nil {
		return DefaultQuality
	}
	return *o.Quality
}

// LandedCost is the allocation heuristic: unit price plus shipping spread per thousand units
func (o *SupplierOffer) LandedCost() decimal.Decimal {
	return o.CostPerUnit.Add(o.ShippingCost.Div(decimal.NewFromInt(1000)))
}

// Validate checks the optional terms of an offer
func (o *SupplierOffer) Validate() error {
	if nonFinite(o.OrderMultiple) {
		return newValidationError("supplier_offer", "order_multiple", "order multiple must be a finite number, got %g", o.OrderMultiple)
	}
	if o.OrderMultiple < 0 {
		return newValidationError("supplier_offer", "order_multiple", "order multiple cannot be negative, got %g", o.OrderMultiple)
	}
	if o.SetupCost.IsNegative() {
		return newValidationError("supplier_offer", "setup_cost", "setup cost cannot be negative, got %s", o.SetupCost)
	}
	if nonFinite(o.HoldingCostRate) {
		return newValidationError("supplier_offer", "holding_cost_rate", "holding cost rate must be a finite number, got %g", o.HoldingCostRate)
	}
	if o.HoldingCostRate < 0 {
		return newValidationError("supplier_offer", "holding_cost_rate", "holding cost rate cannot be negative, got %g", o.HoldingCostRate)
	}
	if o.ShippingCost.IsNegative() {
		return newValidationError("supplier_offer", "shipping_cost", "shipping cost cannot be negative, got %s", o.ShippingCost)
	}
	if o.Quality != nil && (nonFinite(*o.Quality) || *o.Quality < 0 || *o.Quality > 1) {
		return newValidationError("supplier_offer", "quality", "quality must be between 0 and 1, got %g", *o.Quality)
	}
	if o.PaymentTermsDays < 0 {
		return newValidationError("supplier_offer", "payment_terms_days", "payment terms cannot be negative, got %d", o.PaymentTermsDays)
	}
	return nil
}
