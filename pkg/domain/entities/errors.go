package entities

import (
	"fmt"
	"math"
)

// ValidationError reports a malformed record rejected at construction time
type ValidationError struct {
	Entity  string
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func newValidationError(entity, field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Entity:  entity,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// nonFinite reports NaN and ±Inf, which strconv.ParseFloat accepts
func nonFinite(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// WarningCode classifies a non-fatal planning condition
type WarningCode string

const (
	WarningBOMPercentageSum     WarningCode = "bom_percentage_sum"
	WarningNoEligibleSupplier   WarningCode = "no_eligible_supplier"
	WarningAllocationShortfall  WarningCode = "allocation_shortfall"
	WarningMissingDemandHistory WarningCode = "missing_demand_history"
	WarningUnitMismatch         WarningCode = "unit_mismatch"
	WarningMissingBOM           WarningCode = "missing_bom"
)

// ComputationWarning is a non-fatal condition surfaced alongside planning results.
// Subject is the style or material the warning is about.
type ComputationWarning struct {
	Code    WarningCode `json:"code" yaml:"code"`
	Subject string      `json:"subject" yaml:"subject"`
	Message string      `json:"message" yaml:"message"`
}

// NewComputationWarning creates a warning with a formatted message
func NewComputationWarning(code WarningCode, subject, format string, args ...interface{}) ComputationWarning {
	return ComputationWarning{
		Code:    code,
		Subject: subject,
		Message: fmt.Sprintf(format, args...),
	}
}

func (w ComputationWarning) String() string {
	return fmt.Sprintf("[%s] %s: %s", w.Code, w.Subject, w.Message)
}

// PipelineStageError records an optional sub-feature that failed and was replaced
// by the stage's default behavior
type PipelineStageError struct {
	Stage string
	Err   error
}

func (e *PipelineStageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *PipelineStageError) Unwrap() error {
	return e.Err
}

// ConfigError is raised before any planning stage runs
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Message)
}
