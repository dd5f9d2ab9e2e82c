package allocation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/application/services/supplier"
	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func offer(supplierID string, cost, moq float64) *entities.SupplierOffer {
	return &entities.SupplierOffer{
		MaterialID:   "YARN-A",
		SupplierID:   entities.SupplierID(supplierID),
		CostPerUnit:  decimal.NewFromFloat(cost),
		LeadTimeDays: 14,
		MOQ:          moq,
		Reliability:  0.9,
	}
}

func newAllocator() *Allocator {
	return NewAllocator(supplier.NewOrderSizer(config.DefaultPlanningConfig()), nil)
}

func TestAllocate_CoversRequirement(t *testing.T) {
	result := newAllocator().Allocate("YARN-A", 1000, []*entities.SupplierOffer{
		offer("SUP-2", 6, 300),
		offer("SUP-1", 5, 400),
	})

	assert.InDelta(t, 1000.0, result.Allocated(), 1e-9)
	assert.Nil(t, result.Warning)
	require.NotEmpty(t, result.Allocations)
	assert.Equal(t, entities.SupplierID("SUP-1"), result.Allocations[0].Offer.SupplierID)
}

func TestAllocate_SplitsWhenEOQIsSmall(t *testing.T) {
	cheap := offer("SUP-1", 5, 400)
	cheap.SetupCost = decimal.NewFromInt(1)
	dear := offer("SUP-2", 6, 300)
	dear.SetupCost = decimal.NewFromInt(1)
	spare := offer("SUP-3", 7, 100)
	spare.SetupCost = decimal.NewFromInt(1)

	result := newAllocator().Allocate("YARN-A", 1000, []*entities.SupplierOffer{spare, dear, cheap})

	require.Len(t, result.Allocations, 3)
	assert.InDelta(t, 400.0, result.Allocations[0].Qty, 1e-9)
	assert.InDelta(t, 300.0, result.Allocations[1].Qty, 1e-9)
	// remaining 300 exceeds SUP-3's MOQ, so it takes max(EOQ, moq) = its EOQ
	assert.Equal(t, entities.SupplierID("SUP-3"), result.Allocations[2].Offer.SupplierID)
	assert.LessOrEqual(t, result.Allocated(), 1000.0+1e-9)
}

func TestAllocate_ShortfallWarning(t *testing.T) {
	cheap := offer("SUP-1", 5, 400)
	cheap.SetupCost = decimal.NewFromInt(1)
	dear := offer("SUP-2", 6, 300)
	dear.SetupCost = decimal.NewFromInt(1)

	result := newAllocator().Allocate("YARN-A", 1000, []*entities.SupplierOffer{cheap, dear})

	assert.InDelta(t, 700.0, result.Allocated(), 1e-9)
	assert.InDelta(t, 300.0, result.Shortfall, 1e-9)
	require.NotNil(t, result.Warning)
	assert.Equal(t, entities.WarningAllocationShortfall, result.Warning.Code)
	assert.Equal(t, "YARN-A", result.Warning.Subject)
}

func TestAllocate_SkipsOversizedMOQ(t *testing.T) {
	result := newAllocator().Allocate("YARN-A", 500, []*entities.SupplierOffer{
		offer("SUP-1", 4, 2000),
		offer("SUP-2", 5, 100),
	})

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, entities.SupplierID("SUP-2"), result.Allocations[0].Offer.SupplierID)
	assert.InDelta(t, 500.0, result.Allocated(), 1e-9)
}

func TestAllocate_EqualLandedCostTieBreak(t *testing.T) {
	result := newAllocator().Allocate("YARN-A", 100, []*entities.SupplierOffer{
		offer("SUP-B", 5, 10),
		offer("SUP-A", 5, 10),
	})

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, entities.SupplierID("SUP-A"), result.Allocations[0].Offer.SupplierID)
}

func TestAllocate_ShippingChangesOrder(t *testing.T) {
	cheapButFar := offer("SUP-1", 5, 10)
	cheapButFar.ShippingCost = decimal.NewFromInt(2000)

	result := newAllocator().Allocate("YARN-A", 100, []*entities.SupplierOffer{
		cheapButFar,
		offer("SUP-2", 6, 10),
	})

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, entities.SupplierID("SUP-2"), result.Allocations[0].Offer.SupplierID)
}

func TestAllocate_AllMOQsTooHigh(t *testing.T) {
	result := newAllocator().Allocate("YARN-A", 50, []*entities.SupplierOffer{
		offer("SUP-1", 5, 100),
		offer("SUP-2", 6, 200),
	})

	assert.Empty(t, result.Allocations)
	assert.InDelta(t, 50.0, result.Shortfall, 1e-9)
	require.NotNil(t, result.Warning)
}
