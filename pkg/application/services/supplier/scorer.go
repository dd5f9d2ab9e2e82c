package supplier

import (
	"math"
	"sort"

	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// PaymentTermsCapDays caps the payment-terms criterion
const PaymentTermsCapDays = 90

const scoreEpsilon = 1e-12

// Criteria holds the normalized per-criterion values of an offer, each in [0,1]
type Criteria struct {
	Price        float64 `json:"price" yaml:"price"`
	LeadTime     float64 `json:"lead_time" yaml:"lead_time"`
	Reliability  float64 `json:"reliability" yaml:"reliability"`
	Quality      float64 `json:"quality" yaml:"quality"`
	PaymentTerms float64 `json:"payment_terms" yaml:"payment_terms"`
}

// ScoredOffer is a supplier offer with its composite score
type ScoredOffer struct {
	Offer    *entities.SupplierOffer
	Score    float64
	Tier     entities.Tier
	Criteria Criteria
}

// Scorer ranks supplier offers for one material by weighted composite score
type Scorer struct {
	weights        config.SupplierWeights
	minReliability float64
	maxCandidates  int
}

// NewScorer creates a scorer from validated planning options
func NewScorer(cfg config.PlanningConfig) *Scorer {
	return &Scorer{
		weights:        cfg.SupplierEvaluationWeights,
		minReliability: cfg.MinReliability,
		maxCandidates:  cfg.MaxSuppliersPerMaterial,
	}
}

// Eligible filters offers that meet the minimum reliability
func (s *Scorer) Eligible(offers []*entities.SupplierOffer) []*entities.SupplierOffer {
	eligible := make([]*entities.SupplierOffer, 0, len(offers))
	for _, offer := range offers {
		if offer != nil && offer.Reliability >= s.minReliability {
			eligible = append(eligible, offer)
		}
	}
	return eligible
}

// Rank scores the eligible offers and returns at most max_suppliers_per_material of
// them, best first. Equal scores are ordered by ascending supplier id.
func (s *Scorer) Rank(offers []*entities.SupplierOffer) []ScoredOffer {
	eligible := s.Eligible(offers)
	if len(eligible) == 0 {
		return nil
	}

	minPrice, maxPrice := math.Inf(1), math.Inf(-1)
	minLead, maxLead := math.Inf(1), math.Inf(-1)
	for _, offer := range eligible {
		price := offer.CostPerUnit.InexactFloat64()
		lead := float64(offer.LeadTimeDays)
		minPrice, maxPrice = math.Min(minPrice, price), math.Max(maxPrice, price)
		minLead, maxLead = math.Min(minLead, lead), math.Max(maxLead, lead)
	}

	scored := make([]ScoredOffer, 0, len(eligible))
	for _, offer := range eligible {
		criteria := Criteria{
			Price:        lowerIsBetter(offer.CostPerUnit.InexactFloat64(), minPrice, maxPrice),
			LeadTime:     lowerIsBetter(float64(offer.LeadTimeDays), minLead, maxLead),
			Reliability:  offer.Reliability,
			Quality:      offer.QualityOrDefault(),
			PaymentTerms: math.Min(float64(offer.PaymentTermsDays), PaymentTermsCapDays) / PaymentTermsCapDays,
		}
		score := s.weights.Price*criteria.Price +
			s.weights.LeadTime*criteria.LeadTime +
			s.weights.Reliability*criteria.Reliability +
			s.weights.Quality*criteria.Quality +
			s.weights.PaymentTerms*criteria.PaymentTerms

		scored = append(scored, ScoredOffer{
			Offer:    offer,
			Score:    score,
			Tier:     entities.TierForScore(score),
			Criteria: criteria,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if math.Abs(scored[i].Score-scored[j].Score) > scoreEpsilon {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Offer.SupplierID < scored[j].Offer.SupplierID
	})

	if s.maxCandidates > 0 && len(scored) > s.maxCandidates {
		scored = scored[:s.maxCandidates]
	}
	return scored
}

// SelectBest returns the highest scoring eligible offer
func (s *Scorer) SelectBest(offers []*entities.SupplierOffer) (ScoredOffer, bool) {
	ranked := s.Rank(offers)
	if len(ranked) == 0 {
		return ScoredOffer{}, false
	}
	return ranked[0], true
}

// lowerIsBetter min-max normalizes so the smallest value scores 1. A zero spread
// scores every candidate 1.
func lowerIsBetter(value, lo, hi float64) float64 {
	if hi-lo <= 0 {
		return 1
	}
	return (hi - value) / (hi - lo)
}
