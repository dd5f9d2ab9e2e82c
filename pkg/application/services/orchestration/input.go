package orchestration

import (
	"fmt"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// PlanningInput is the immutable snapshot one planning run works on
type PlanningInput struct {
	Forecasts     []*entities.Forecast
	BOMLines      []*entities.BOMLine
	BlendLines    []*entities.BlendLine
	Inventory     []*entities.InventorySnapshot
	Offers        []*entities.SupplierOffer
	DemandHistory DemandHistory
}

// SnapshotFromRepositories copies everything a run needs out of the repositories.
// The history repository is optional.
func SnapshotFromRepositories(
	forecastRepo repositories.ForecastRepository,
	bomRepo repositories.BOMRepository,
	inventoryRepo repositories.InventoryRepository,
	supplierRepo repositories.SupplierRepository,
	historyRepo repositories.DemandHistoryRepository,
) (*PlanningInput, error) {
	forecasts, err := forecastRepo.GetForecasts()
	if err != nil {
		return nil, fmt.Errorf("failed to get forecasts: %w", err)
	}
	bomLines, err := bomRepo.GetAllBOMLines()
	if err != nil {
		return nil, fmt.Errorf("failed to get BOM lines: %w", err)
	}
	blendLines, err := bomRepo.GetAllBlendLines()
	if err != nil {
		return nil, fmt.Errorf("failed to get blend lines: %w", err)
	}
	inventory, err := inventoryRepo.GetAllSnapshots()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory: %w", err)
	}
	offers, err := supplierRepo.GetAllOffers()
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier offers: %w", err)
	}

	input := &PlanningInput{
		Forecasts:  forecasts,
		BOMLines:   bomLines,
		BlendLines: blendLines,
		Inventory:  inventory,
		Offers:     offers,
	}

	if historyRepo != nil {
		history, err := historyRepo.GetAllHistory()
		if err != nil {
			return nil, fmt.Errorf("failed to get demand history: %w", err)
		}
		snapshot := make(HistoryMap, len(history))
		for id, periods := range history {
			snapshot[id] = append([]float64(nil), periods...)
		}
		input.DemandHistory = snapshot
	}

	return input, nil
}

func (in *PlanningInput) inventoryByMaterial() map[entities.MaterialID]*entities.InventorySnapshot {
	byMaterial := make(map[entities.MaterialID]*entities.InventorySnapshot, len(in.Inventory))
	for _, snapshot := range in.Inventory {
		if snapshot != nil {
			byMaterial[snapshot.MaterialID] = snapshot
		}
	}
	return byMaterial
}

func (in *PlanningInput) offersByMaterial() map[entities.MaterialID][]*entities.SupplierOffer {
	byMaterial := make(map[entities.MaterialID][]*entities.SupplierOffer)
	for _, offer := range in.Offers {
		if offer != nil {
			byMaterial[offer.MaterialID] = append(byMaterial[offer.MaterialID], offer)
		}
	}
	return byMaterial
}

func (in *PlanningInput) history(materialID entities.MaterialID) []float64 {
	if in.DemandHistory == nil {
		return nil
	}
	return in.DemandHistory.History(materialID)
}
