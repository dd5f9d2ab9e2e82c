package entities

import (
	"strings"
	"time"
)

// SKU identifies a finished-goods style
type SKU string

// ForecastSource identifies where a demand forecast came from
type ForecastSource string

const (
	SourceSalesOrder   ForecastSource = "sales_order"
	SourceProdPlan     ForecastSource = "prod_plan"
	SourceProjection   ForecastSource = "projection"
	SourceSalesHistory ForecastSource = "sales_history"
	SourceManual       ForecastSource = "manual"
	SourceOrder        ForecastSource = "order"
	SourceCombined     ForecastSource = "combined"
)

var forecastSources = map[ForecastSource]bool{
	SourceSalesOrder:   true,
	SourceProdPlan:     true,
	SourceProjection:   true,
	SourceSalesHistory: true,
	SourceManual:       true,
	SourceOrder:        true,
	SourceCombined:     true,
}

// ParseForecastSource maps a raw source label onto the closed source set
func ParseForecastSource(s string) (ForecastSource, error) {
	source := ForecastSource(strings.ToLower(strings.TrimSpace(s)))
	if !forecastSources[source] {
		return "", newValidationError("forecast", "source", "unknown forecast source: %s", s)
	}
	return source, nil
}

// Forecast represents forecasted demand for a finished SKU
type Forecast struct {
	SKU        SKU
	Quantity   float64
	Date       time.Time
	Source     ForecastSource
	Unit       string
	Confidence float64
}

// NewForecast creates a validated Forecast
func NewForecast(
	sku SKU,
	quantity float64,
	date time.Time,
	source ForecastSource,
	unit string,
	confidence float64,
) (*Forecast, error) {
	if string(sku) == "" {
		return nil, newValidationError("forecast", "sku_id", "sku cannot be empty")
	}
	if nonFinite(quantity) {
		return nil, newValidationError("forecast", "forecast_qty", "forecast quantity must be a finite number, got %g", quantity)
	}
	if quantity < 0 {
		return nil, newValidationError("forecast", "forecast_qty", "forecast quantity cannot be negative, got %g", quantity)
	}
	if !forecastSources[source] {
		return nil, newValidationError("forecast", "source", "unknown forecast source: %s", source)
	}
	if nonFinite(confidence) || confidence < 0 || confidence > 1 {
		return nil, newValidationError("forecast", "confidence", "confidence must be between 0 and 1, got %g", confidence)
	}

	return &Forecast{
		SKU:        sku,
		Quantity:   quantity,
		Date:       date,
		Source:     source,
		Unit:       unit,
		Confidence: confidence,
	}, nil
}
