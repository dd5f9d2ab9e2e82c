package risk

import (
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// Risk flags attached to recommendations
const (
	FlagLongLeadTime        = "long_lead_time"
	FlagModerateLeadTime    = "moderate_lead_time"
	FlagLowReliability      = "low_reliability"
	FlagModerateReliability = "moderate_reliability"
	FlagTierDSupplier       = "tier_d_supplier"
	FlagTierCSupplier       = "tier_c_supplier"
)

// Assessment is the supplier risk of one recommendation
type Assessment struct {
	Score int
	Level entities.RiskLevel
	Flags []string
}

// Assessor scores supplier risk from lead time, reliability and tier
type Assessor struct{}

// NewAssessor creates a risk assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess scores one supplier. Lead time over 60 days adds 2, 30 to 60 adds 1;
// reliability under 0.7 adds 2, under 0.85 adds 1; tier D adds 2, tier C adds 1.
func (a *Assessor) Assess(leadTimeDays int, reliability float64, tier entities.Tier) Assessment {
	assessment := Assessment{Flags: make([]string, 0, 3)}

	switch {
	case leadTimeDays > 60:
		assessment.add(2, FlagLongLeadTime)
	case leadTimeDays >= 30:
		assessment.add(1, FlagModerateLeadTime)
	}

	switch {
	case reliability < 0.7:
		assessment.add(2, FlagLowReliability)
	case reliability < 0.85:
		assessment.add(1, FlagModerateReliability)
	}

	switch tier {
	case entities.TierD:
		assessment.add(2, FlagTierDSupplier)
	case entities.TierC:
		assessment.add(1, FlagTierCSupplier)
	}

	assessment.Level = LevelForScore(assessment.Score)
	return assessment
}

// Apply assesses a recommendation and records the result on it
func (a *Assessor) Apply(rec *entities.Recommendation, reliability float64) {
	assessment := a.Assess(rec.LeadTimeDays, reliability, rec.Tier)
	rec.RiskScore = assessment.Score
	rec.RiskLevel = assessment.Level
	rec.RiskFlags = assessment.Flags
}

func (a *Assessment) add(points int, flag string) {
	a.Score += points
	a.Flags = append(a.Flags, flag)
}

// LevelForScore maps a risk score to high (≥4), medium (≥2), low (≥1) or none
func LevelForScore(score int) entities.RiskLevel {
	switch {
	case score >= 4:
		return entities.RiskHigh
	case score >= 2:
		return entities.RiskMedium
	case score >= 1:
		return entities.RiskLow
	default:
		return entities.RiskNone
	}
}
