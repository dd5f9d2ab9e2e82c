package events

import (
	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

const (
	RunStartedEvent            = "planning.run.started"
	RunCompletedEvent          = "planning.run.completed"
	StageFailedEvent           = "planning.stage.failed"
	RequirementNettedEvent     = "requirement.netted"
	RecommendationCreatedEvent = "recommendation.created"
	WarningRaisedEvent         = "warning.raised"
)

type RunStarted struct {
	Forecasts int  `json:"forecasts"`
	Materials int  `json:"materials"`
	Offers    int  `json:"offers"`
	StyleYarn bool `json:"style_yarn"`
}

type RunCompleted struct {
	Recommendations int             `json:"recommendations"`
	Warnings        int             `json:"warnings"`
	TotalCost       decimal.Decimal `json:"total_cost"`
}

type StageFailed struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type RequirementNetted struct {
	MaterialID entities.MaterialID      `json:"material_id"`
	Gross      float64                  `json:"gross"`
	Available  float64                  `json:"available"`
	Net        float64                  `json:"net"`
	Status     entities.InventoryStatus `json:"status"`
}

type RecommendationCreated struct {
	Recommendation entities.Recommendation `json:"recommendation"`
}

type WarningRaised struct {
	Warning entities.ComputationWarning `json:"warning"`
}

func (RunStarted) EventType() string { return RunStartedEvent }
func (RunCompleted) EventType() string { return RunCompletedEvent }
func (StageFailed) EventType() string { return StageFailedEvent }
func (RequirementNetted) EventType() string { return RequirementNettedEvent }
func (RecommendationCreated) EventType() string { return RecommendationCreatedEvent }
func (WarningRaised) EventType() string { return WarningRaisedEvent }
