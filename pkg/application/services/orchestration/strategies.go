package orchestration

import (
	"context"
	"fmt"

	"github.com/vsinha/rawmat/pkg/application/services/bom"
	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// SalesHistorySource supplies extra forecasts derived from sales history. Its
// forecasts are unified together with the run's own forecasts.
type SalesHistorySource interface {
	SalesForecasts(ctx context.Context) ([]*entities.Forecast, error)
}

// StyleYarnExploder explodes style demand through yarn blend rows
type StyleYarnExploder interface {
	Explode(ctx context.Context, demand map[entities.SKU]float64, lines []*entities.BlendLine) (*bom.RequirementSet, error)
}

// DemandHistory supplies per-period consumption of a material, oldest first
type DemandHistory interface {
	History(materialID entities.MaterialID) []float64
}

// NoSalesHistory adds nothing to the run's forecasts
type NoSalesHistory struct{}

// SalesForecasts returns no forecasts
func (NoSalesHistory) SalesForecasts(context.Context) ([]*entities.Forecast, error) {
	return nil, nil
}

// RepositorySalesHistory reads sales-history forecasts from a forecast repository
type RepositorySalesHistory struct {
	Repo repositories.ForecastRepository
}

// SalesForecasts returns the repository's forecasts
func (s RepositorySalesHistory) SalesForecasts(ctx context.Context) ([]*entities.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Repo == nil {
		return nil, fmt.Errorf("sales history repository is not configured")
	}
	return s.Repo.GetForecasts()
}

// HistoryMap is an in-memory DemandHistory
type HistoryMap map[entities.MaterialID][]float64

// History returns the recorded periods of a material
func (h HistoryMap) History(materialID entities.MaterialID) []float64 {
	return h[materialID]
}

var (
	_ SalesHistorySource = NoSalesHistory{}
	_ SalesHistorySource = RepositorySalesHistory{}
	_ StyleYarnExploder  = (*bom.PercentageExploder)(nil)
	_ DemandHistory      = HistoryMap(nil)
)
