package allocation

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/rawmat/pkg/application/services/supplier"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

const quantityEpsilon = 1e-9

// Allocation is the share of a requirement ordered from one supplier
type Allocation struct {
	Offer *entities.SupplierOffer
	Qty   float64
	EOQ   float64
}

// Result is the outcome of splitting one material's requirement across suppliers
type Result struct {
	MaterialID  entities.MaterialID
	Requirement float64
	Allocations []Allocation
	Shortfall   float64
	Warning     *entities.ComputationWarning
}

// Allocated returns the total quantity ordered across suppliers
func (r *Result) Allocated() float64 {
	total := 0.0
	for _, a := range r.Allocations {
		total += a.Qty
	}
	return total
}

// Allocator splits a requirement across the cheapest suppliers whose MOQ fits
type Allocator struct {
	sizer  *supplier.OrderSizer
	logger *zap.Logger
}

// NewAllocator creates a multi-supplier allocator
func NewAllocator(sizer *supplier.OrderSizer, logger *zap.Logger) *Allocator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Allocator{sizer: sizer, logger: logger}
}

// Allocate walks the offers by ascending landed cost (then supplier id). Each supplier
// whose MOQ fits the remaining requirement receives min(max(EOQ, moq), remaining),
// rounded up to its order multiple. Whatever remains once the offers run out is
// reported as a shortfall warning.
func (a *Allocator) Allocate(
	materialID entities.MaterialID,
	requirement float64,
	offers []*entities.SupplierOffer,
) *Result {
	result := &Result{
		MaterialID:  materialID,
		Requirement: requirement,
		Allocations: make([]Allocation, 0, len(offers)),
	}

	candidates := make([]*entities.SupplierOffer, len(offers))
	copy(candidates, offers)
	sort.SliceStable(candidates, func(i, j int) bool {
		ci, cj := candidates[i].LandedCost(), candidates[j].LandedCost()
		if !ci.Equal(cj) {
			return ci.LessThan(cj)
		}
		return candidates[i].SupplierID < candidates[j].SupplierID
	})

	remaining := requirement
	for _, offer := range candidates {
		if remaining <= quantityEpsilon {
			break
		}
		if offer.MOQ > remaining+quantityEpsilon {
			a.logger.Debug("supplier skipped, MOQ exceeds remaining requirement",
				zap.String("material_id", string(materialID)),
				zap.String("supplier_id", string(offer.SupplierID)),
				zap.Float64("moq", offer.MOQ),
				zap.Float64("remaining", remaining))
			continue
		}

		eoq := a.sizer.EOQ(offer, requirement)
		computed := math.Max(eoq, offer.MOQ)
		if eoq <= 0 {
			computed = remaining
		}
		qty := supplier.RoundUpToMultiple(math.Min(computed, remaining), offer.OrderMultiple)
		if qty <= 0 {
			continue
		}

		result.Allocations = append(result.Allocations, Allocation{Offer: offer, Qty: qty, EOQ: eoq})
		remaining = math.Max(0, remaining-qty)
	}

	if remaining > quantityEpsilon {
		result.Shortfall = remaining
		warning := entities.NewComputationWarning(
			entities.WarningAllocationShortfall,
			string(materialID),
			"%g of %g left unordered, no remaining supplier MOQ fits",
			remaining, requirement,
		)
		result.Warning = &warning
	}

	return result
}
