package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/application/services/orchestration"
	"github.com/vsinha/rawmat/pkg/config"
	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func main() {
	ctx := context.Background()

	// Spring knitwear drop: two jersey styles on cotton/modal blends
	planDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	input := &orchestration.PlanningInput{
		Forecasts: []*entities.Forecast{
			mustForecast("JERSEY-SS", 2500, planDate, entities.SourceSalesOrder),
			mustForecast("JERSEY-SS", 1000, planDate, entities.SourceProjection),
			mustForecast("JERSEY-LS", 1200, planDate, entities.SourceProdPlan),
		},
		BlendLines: []*entities.BlendLine{
			mustBlend("JERSEY-SS", "COTTON-40S", 70, "Combed cotton 40/1"),
			mustBlend("JERSEY-SS", "MODAL-50S", 30, "Modal 50/1"),
			mustBlend("JERSEY-LS", "COTTON-40S", 50, "Combed cotton 40/1"),
			mustBlend("JERSEY-LS", "MODAL-50S", 45, "Modal 50/1"),
		},
		Inventory: []*entities.InventorySnapshot{
			mustSnapshot("COTTON-40S", 400, 250),
			mustSnapshot("MODAL-50S", 120, 0),
		},
		Offers: []*entities.SupplierOffer{
			mustOffer("COTTON-40S", "SUP-TIRUPUR", 3.10, 21, 500, 0.92),
			mustOffer("COTTON-40S", "SUP-IZMIR", 3.45, 12, 300, 0.96),
			mustOffer("MODAL-50S", "SUP-LENZ", 5.80, 28, 250, 0.98),
		},
		DemandHistory: orchestration.HistoryMap{
			"COTTON-40S": {610, 540, 700, 655, 590},
			"MODAL-50S":  {240, 310, 205, 260, 280},
		},
	}

	cfg := config.DefaultPlanningConfig()
	cfg.UseStyleYarnBOM = true
	cfg.SafetyStockMethod = config.SafetyStockStatistical
	cfg.EnableMultiSupplier = true

	planner, err := orchestration.NewPlanningOrchestrator(cfg,
		orchestration.WithClock(func() time.Time { return planDate }))
	if err != nil {
		fmt.Printf("❌ Invalid configuration: %v\n", err)
		return
	}

	fmt.Println("🧶 Planning yarn purchases for the spring knitwear drop...")
	result, err := planner.Plan(ctx, input)
	if err != nil {
		fmt.Printf("❌ Planning failed: %v\n", err)
		return
	}

	fmt.Println()
	fmt.Println("📦 Material Requirements:")
	for _, plan := range result.MaterialPlans {
		fmt.Printf("  %s (%s): gross %.1f, net %.1f, safety stock %.1f -> buy %.1f [%s]\n",
			plan.MaterialID, plan.Name, plan.Gross, plan.Net, plan.SafetyStock, plan.Buffered, plan.Status)
	}

	fmt.Println()
	fmt.Println("📝 Purchase Recommendations:")
	for _, rec := range result.Recommendations {
		fmt.Printf("  %s from %s: %.0f @ %s = %s (delivery %s, tier %s, risk %s)\n",
			rec.MaterialID,
			rec.SupplierID,
			rec.OrderQty,
			rec.UnitPrice.StringFixed(2),
			rec.TotalCost.StringFixed(2),
			rec.DeliveryDate.Format("2006-01-02"),
			rec.Tier,
			rec.RiskLevel)
	}

	for _, warning := range result.Warnings {
		fmt.Printf("  ⚠️  %s\n", warning)
	}

	fmt.Println()
	fmt.Printf("💰 Total spend: %s across %d suppliers\n",
		result.Summary.TotalCost.StringFixed(2), result.Summary.TotalSuppliers)
}

func mustForecast(sku string, qty float64, date time.Time, source entities.ForecastSource) *entities.Forecast {
	f, err := entities.NewForecast(entities.SKU(sku), qty, date, source, "", 1)
	if err != nil {
		panic(err)
	}
	return f
}

func mustBlend(style, yarn string, pct float64, name string) *entities.BlendLine {
	line, err := entities.NewBlendLine(entities.SKU(style), entities.MaterialID(yarn), pct, name)
	if err != nil {
		panic(err)
	}
	return line
}

func mustSnapshot(material string, onHand, openPO float64) *entities.InventorySnapshot {
	s, err := entities.NewInventorySnapshot(entities.MaterialID(material), onHand, openPO, "kg", nil)
	if err != nil {
		panic(err)
	}
	return s
}

func mustOffer(material, supplier string, cost float64, lead int, moq, reliability float64) *entities.SupplierOffer {
	offer, err := entities.NewSupplierOffer(
		entities.MaterialID(material),
		entities.SupplierID(supplier),
		decimal.NewFromFloat(cost),
		lead,
		moq,
		reliability,
	)
	if err != nil {
		panic(err)
	}
	return offer
}
