package supplier

import (
	"math"

	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

const roundingEpsilon = 1e-9

// CalculateEOQ returns sqrt(2DS / (HC)). Non-positive inputs yield 0.
func CalculateEOQ(annualDemand, setupCost, holdingRate, unitCost float64) float64 {
	if annualDemand <= 0 || setupCost <= 0 || holdingRate <= 0 || unitCost <= 0 {
		return 0
	}
	return math.Sqrt(2 * annualDemand * setupCost / (holdingRate * unitCost))
}

// ApplyOrderConstraints raises qty to the MOQ and rounds it up to the order multiple
func ApplyOrderConstraints(qty, moq, multiple float64) float64 {
	qty = math.Max(qty, moq)
	return RoundUpToMultiple(qty, multiple)
}

// RoundUpToMultiple returns ceil(qty/multiple)×multiple, or qty when no multiple is set
func RoundUpToMultiple(qty, multiple float64) float64 {
	if multiple <= 0 || qty <= 0 {
		return qty
	}
	return math.Ceil(qty/multiple-roundingEpsilon) * multiple
}

// OrderPlan is the sized order for one offer
type OrderPlan struct {
	EOQ      float64
	OrderQty float64
}

// OrderSizer sizes orders from EOQ and supplier constraints
type OrderSizer struct {
	demandMultiplier   float64
	defaultSetupCost   float64
	defaultHoldingRate float64
}

// NewOrderSizer creates an order sizer from validated planning options
func NewOrderSizer(cfg config.PlanningConfig) *OrderSizer {
	return &OrderSizer{
		demandMultiplier:   cfg.AnnualDemandMultiplier,
		defaultSetupCost:   cfg.DefaultSetupCost,
		defaultHoldingRate: cfg.DefaultHoldingCostRate,
	}
}

// EOQ computes the economic order quantity of an offer for a run requirement.
// Unquoted setup cost and holding rate use the configured defaults.
func (s *OrderSizer) EOQ(offer *entities.SupplierOffer, requirement float64) float64 {
	setupCost := s.defaultSetupCost
	if offer.SetupCost.IsPositive() {
		setupCost = offer.SetupCost.InexactFloat64()
	}
	holdingRate := s.defaultHoldingRate
	if offer.HoldingCostRate > 0 {
		holdingRate = offer.HoldingCostRate
	}

	return CalculateEOQ(
		requirement*s.demandMultiplier,
		setupCost,
		holdingRate,
		offer.CostPerUnit.InexactFloat64(),
	)
}

// Size computes max(EOQ, moq) rounded to the order multiple. A zero EOQ falls back
// to the requirement itself.
func (s *OrderSizer) Size(offer *entities.SupplierOffer, requirement float64) OrderPlan {
	eoq := s.EOQ(offer, requirement)
	qty := eoq
	if qty <= 0 {
		qty = requirement
	}
	return OrderPlan{
		EOQ:      eoq,
		OrderQty: ApplyOrderConstraints(qty, offer.MOQ, offer.OrderMultiple),
	}
}
