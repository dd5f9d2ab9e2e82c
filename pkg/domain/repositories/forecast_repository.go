package repositories

import "github.com/vsinha/rawmat/pkg/domain/entities"

// ForecastRepository provides access to demand forecasts
type ForecastRepository interface {
	GetForecasts() ([]*entities.Forecast, error)
	LoadForecasts(forecasts []*entities.Forecast) error
}

// DemandHistoryRepository provides per-material consumption history, oldest period first
type DemandHistoryRepository interface {
	GetHistory(materialID entities.MaterialID) ([]float64, error)
	GetAllHistory() (map[entities.MaterialID][]float64, error)
	AddPeriod(materialID entities.MaterialID, quantity float64) error
}
