package memory

import (
	"fmt"
	"math"
	"sort"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// ForecastRepository provides in-memory forecast storage
type ForecastRepository struct {
	forecasts []entities.Forecast
}

// NewForecastRepository creates a new in-memory forecast repository
func NewForecastRepository() *ForecastRepository {
	return &ForecastRepository{
		forecasts: make([]entities.Forecast, 0),
	}
}

// Verify interface compliance
var _ repositories.ForecastRepository = (*ForecastRepository)(nil)

// LoadForecasts appends forecasts to the repository
func (r *ForecastRepository) LoadForecasts(forecasts []*entities.Forecast) error {
	for _, f := range forecasts {
		if f == nil {
			return fmt.Errorf("forecast cannot be nil")
		}
		r.forecasts = append(r.forecasts, *f)
	}
	return nil
}

// GetForecasts returns copies of all forecasts in load order
func (r *ForecastRepository) GetForecasts() ([]*entities.Forecast, error) {
	forecasts := make([]*entities.Forecast, 0, len(r.forecasts))
	for i := range r.forecasts {
		f := r.forecasts[i]
		forecasts = append(forecasts, &f)
	}
	return forecasts, nil
}

// DemandHistoryRepository stores per-period material consumption
type DemandHistoryRepository struct {
	history map[entities.MaterialID][]float64
}

// NewDemandHistoryRepository creates a new in-memory demand history repository
func NewDemandHistoryRepository() *DemandHistoryRepository {
	return &DemandHistoryRepository{
		history: make(map[entities.MaterialID][]float64),
	}
}

// Verify interface compliance
var _ repositories.DemandHistoryRepository = (*DemandHistoryRepository)(nil)

// AddPeriod appends one period of consumption for a material
func (r *DemandHistoryRepository) AddPeriod(materialID entities.MaterialID, quantity float64) error {
	if materialID == "" {
		return fmt.Errorf("material id cannot be empty")
	}
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return fmt.Errorf("demand history quantity must be a finite number, got %g", quantity)
	}
	if quantity < 0 {
		return fmt.Errorf("demand history quantity cannot be negative, got %g", quantity)
	}
	r.history[materialID] = append(r.history[materialID], quantity)
	return nil
}

// LoadHistory appends whole series, materials in ascending id order
func (r *DemandHistoryRepository) LoadHistory(history map[entities.MaterialID][]float64) error {
	ids := make([]entities.MaterialID, 0, len(history))
	for id := range history {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		for _, qty := range history[id] {
			if err := r.AddPeriod(id, qty); err != nil {
				return err
			}
		}
	}
	return nil
}

// GetHistory returns a copy of a material's history, oldest period first
func (r *DemandHistoryRepository) GetHistory(materialID entities.MaterialID) ([]float64, error) {
	return append([]float64(nil), r.history[materialID]...), nil
}

// GetAllHistory returns a copy of every material's history
func (r *DemandHistoryRepository) GetAllHistory() (map[entities.MaterialID][]float64, error) {
	all := make(map[entities.MaterialID][]float64, len(r.history))
	for id, periods := range r.history {
		all[id] = append([]float64(nil), periods...)
	}
	return all, nil
}
