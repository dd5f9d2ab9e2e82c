package orchestration

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/application/dto"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// BuildSummary aggregates recommendations into spend, risk and delivery totals.
// TopCostItems holds the topN materials by spend, ties broken by material id.
func BuildSummary(recommendations []*entities.Recommendation, topN int) dto.PlanningSummary {
	summary := dto.PlanningSummary{
		TotalCost:    decimal.Zero,
		TopCostItems: make([]dto.CostItem, 0),
	}

	suppliers := make(map[entities.SupplierID]bool)
	byMaterial := make(map[entities.MaterialID]*dto.CostItem)

	for _, rec := range recommendations {
		summary.TotalCost = summary.TotalCost.Add(rec.TotalCost)
		suppliers[rec.SupplierID] = true

		switch rec.RiskLevel {
		case entities.RiskHigh:
			summary.RiskSummary.High++
		case entities.RiskMedium:
			summary.RiskSummary.Medium++
		case entities.RiskLow:
			summary.RiskSummary.Low++
		default:
			summary.RiskSummary.None++
		}

		delivery := rec.DeliveryDate
		if summary.DeliveryTimeline.Earliest == nil || delivery.Before(*summary.DeliveryTimeline.Earliest) {
			summary.DeliveryTimeline.Earliest = &delivery
		}
		if summary.DeliveryTimeline.Latest == nil || delivery.After(*summary.DeliveryTimeline.Latest) {
			latest := delivery
			summary.DeliveryTimeline.Latest = &latest
		}

		item, exists := byMaterial[rec.MaterialID]
		if !exists {
			item = &dto.CostItem{
				MaterialID: rec.MaterialID,
				TotalCost:  decimal.Zero,
				Suppliers:  make([]entities.SupplierID, 0, 1),
			}
			byMaterial[rec.MaterialID] = item
		}
		item.TotalCost = item.TotalCost.Add(rec.TotalCost)
		item.OrderQty += rec.OrderQty
		item.Suppliers = append(item.Suppliers, rec.SupplierID)
	}

	summary.TotalMaterials = len(byMaterial)
	summary.TotalSuppliers = len(suppliers)

	if summary.DeliveryTimeline.Earliest != nil {
		span := summary.DeliveryTimeline.Latest.Sub(*summary.DeliveryTimeline.Earliest)
		summary.DeliveryTimeline.SpanDays = int(span.Hours() / 24)
	}

	items := make([]dto.CostItem, 0, len(byMaterial))
	for _, item := range byMaterial {
		sort.Slice(item.Suppliers, func(i, j int) bool { return item.Suppliers[i] < item.Suppliers[j] })
		items = append(items, *item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].TotalCost.Equal(items[j].TotalCost) {
			return items[i].TotalCost.GreaterThan(items[j].TotalCost)
		}
		return items[i].MaterialID < items[j].MaterialID
	})
	if topN > 0 && len(items) > topN {
		items = items[:topN]
	}
	summary.TopCostItems = items

	return summary
}
