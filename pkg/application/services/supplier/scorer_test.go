package supplier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func offer(t *testing.T, supplierID string, cost float64, lead int, moq, reliability float64) *entities.SupplierOffer {
	t.Helper()
	o, err := entities.NewSupplierOffer("YARN-A", entities.SupplierID(supplierID), decimal.NewFromFloat(cost), lead, moq, reliability)
	require.NoError(t, err)
	return o
}

func TestScorer_Rank(t *testing.T) {
	scorer := NewScorer(config.DefaultPlanningConfig())

	cheap := offer(t, "SUP-CHEAP", 4, 30, 100, 0.8)
	fast := offer(t, "SUP-FAST", 6, 7, 100, 0.95)
	slow := offer(t, "SUP-SLOW", 6, 60, 100, 0.5)

	ranked := scorer.Rank([]*entities.SupplierOffer{slow, cheap, fast})
	require.Len(t, ranked, 3)

	assert.Equal(t, entities.SupplierID("SUP-CHEAP"), ranked[0].Offer.SupplierID)
	assert.Equal(t, entities.SupplierID("SUP-FAST"), ranked[1].Offer.SupplierID)
	assert.Equal(t, entities.SupplierID("SUP-SLOW"), ranked[2].Offer.SupplierID)

	for _, s := range ranked {
		assert.GreaterOrEqual(t, s.Score, 0.0)
		assert.LessOrEqual(t, s.Score, 1.0)
		assert.Equal(t, entities.TierForScore(s.Score), s.Tier)
	}

	// cheapest price normalizes to 1, the most expensive to 0
	assert.Equal(t, 1.0, ranked[0].Criteria.Price)
	assert.Equal(t, 0.0, ranked[1].Criteria.Price)
	assert.Equal(t, 1.0, ranked[1].Criteria.LeadTime)
	assert.Equal(t, entities.DefaultQuality, ranked[0].Criteria.Quality)
	assert.Equal(t, entities.TierB, ranked[0].Tier)
}

func TestScorer_TieBreaksByAscendingSupplierID(t *testing.T) {
	scorer := NewScorer(config.DefaultPlanningConfig())

	offers := []*entities.SupplierOffer{
		offer(t, "SUP-C", 5, 14, 100, 0.9),
		offer(t, "SUP-A", 5, 14, 100, 0.9),
		offer(t, "SUP-B", 5, 14, 100, 0.9),
	}

	for i := 0; i < 5; i++ {
		best, ok := scorer.SelectBest(offers)
		require.True(t, ok)
		assert.Equal(t, entities.SupplierID("SUP-A"), best.Offer.SupplierID)

		offers[0], offers[2] = offers[2], offers[0]
	}
}

func TestScorer_SingleOfferSpreadScoresOne(t *testing.T) {
	scorer := NewScorer(config.DefaultPlanningConfig())

	best, ok := scorer.SelectBest([]*entities.SupplierOffer{offer(t, "SUP-ONLY", 5, 14, 100, 1)})
	require.True(t, ok)
	assert.Equal(t, 1.0, best.Criteria.Price)
	assert.Equal(t, 1.0, best.Criteria.LeadTime)
}

func TestScorer_PaymentTermsCapped(t *testing.T) {
	scorer := NewScorer(config.DefaultPlanningConfig())

	long := offer(t, "SUP-LONG", 5, 14, 100, 0.9)
	long.PaymentTermsDays = 120
	half := offer(t, "SUP-HALF", 5, 14, 100, 0.9)
	half.PaymentTermsDays = 45

	ranked := scorer.Rank([]*entities.SupplierOffer{long, half})
	require.Len(t, ranked, 2)
	assert.Equal(t, 1.0, ranked[0].Criteria.PaymentTerms)
	assert.Equal(t, 0.5, ranked[1].Criteria.PaymentTerms)
}

func TestScorer_EligibilityAndCap(t *testing.T) {
	cfg := config.DefaultPlanningConfig()
	cfg.MinReliability = 0.7
	cfg.MaxSuppliersPerMaterial = 2
	scorer := NewScorer(cfg)

	offers := []*entities.SupplierOffer{
		offer(t, "SUP-1", 5, 14, 100, 0.9),
		offer(t, "SUP-2", 5, 14, 100, 0.8),
		offer(t, "SUP-3", 5, 14, 100, 0.75),
		offer(t, "SUP-4", 5, 14, 100, 0.5),
	}

	ranked := scorer.Rank(offers)
	require.Len(t, ranked, 2)
	assert.Equal(t, entities.SupplierID("SUP-1"), ranked[0].Offer.SupplierID)
	assert.Equal(t, entities.SupplierID("SUP-2"), ranked[1].Offer.SupplierID)

	_, ok := scorer.SelectBest([]*entities.SupplierOffer{offers[3]})
	assert.False(t, ok)
}
