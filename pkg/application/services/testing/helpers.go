package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/infrastructure/repositories/memory"
)

// PlanningDate is the fixed run date used by fixture scenarios
var PlanningDate = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

// Scenario bundles the repositories of one planning run
type Scenario struct {
	Forecasts *memory.ForecastRepository
	BOM       *memory.BOMRepository
	Inventory *memory.InventoryRepository
	Suppliers *memory.SupplierRepository
	History   *memory.DemandHistoryRepository
}

func newScenario() *Scenario {
	return &Scenario{
		Forecasts: memory.NewForecastRepository(),
		BOM:       memory.NewBOMRepository(16, 16),
		Inventory: memory.NewInventoryRepository(),
		Suppliers: memory.NewSupplierRepository(),
		History:   memory.NewDemandHistoryRepository(),
	}
}

// mustCreateForecast is a helper for tests - panics on validation error
func mustCreateForecast(sku string, qty float64, source entities.ForecastSource) *entities.Forecast {
	f, err := entities.NewForecast(entities.SKU(sku), qty, PlanningDate, source, "lbs", 1)
	if err != nil {
		panic(err)
	}
	return f
}

// mustCreateBlendLine is a helper for tests - panics on validation error
func mustCreateBlendLine(style, yarn string, pct float64, name string) *entities.BlendLine {
	line, err := entities.NewBlendLine(entities.SKU(style), entities.MaterialID(yarn), pct, name)
	if err != nil {
		panic(err)
	}
	return line
}

// mustCreateBOMLine is a helper for tests - panics on validation error
func mustCreateBOMLine(sku, material string, qtyPerUnit float64, unit string) *entities.BOMLine {
	line, err := entities.NewBOMLine(entities.SKU(sku), entities.MaterialID(material), qtyPerUnit, unit)
	if err != nil {
		panic(err)
	}
	return line
}

// mustCreateSnapshot is a helper for tests - panics on validation error
func mustCreateSnapshot(material string, onHand, openPO float64, unit string) *entities.InventorySnapshot {
	snapshot, err := entities.NewInventorySnapshot(entities.MaterialID(material), onHand, openPO, unit, nil)
	if err != nil {
		panic(err)
	}
	return snapshot
}

// mustCreateOffer is a helper for tests - panics on validation error
func mustCreateOffer(material, supplier string, cost float64, lead int, moq, reliability float64) *entities.SupplierOffer {
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

func mustLoad(err error) {
	if err != nil {
		panic(err)
	}
}

// BuildBlendScenario builds the two-yarn style scenario: STYLE1 demand of 1000
// split 60/40 over YARN-A and YARN-B, 200 of YARN-A on hand, one supplier each.
func BuildBlendScenario() *Scenario {
	s := newScenario()

	mustLoad(s.Forecasts.LoadForecasts([]*entities.Forecast{
		mustCreateForecast("STYLE1", 1000, entities.SourceSalesOrder),
	}))
	mustLoad(s.BOM.LoadBlendLines([]*entities.BlendLine{
		mustCreateBlendLine("STYLE1", "YARN-A", 60, "Combed cotton 30/1"),
		mustCreateBlendLine("STYLE1", "YARN-B", 40, "Polyester 150D"),
	}))
	mustLoad(s.Inventory.LoadSnapshots([]*entities.InventorySnapshot{
		mustCreateSnapshot("YARN-A", 200, 0, "lbs"),
		mustCreateSnapshot("YARN-B", 0, 0, "lbs"),
	}))
	mustLoad(s.Suppliers.LoadOffers([]*entities.SupplierOffer{
		mustCreateOffer("YARN-A", "SUP-A1", 5, 14, 100, 0.95),
		mustCreateOffer("YARN-B", "SUP-B1", 8, 21, 50, 0.9),
	}))

	return s
}

// BuildMillScenario builds a knit mill scenario on flat BOMs: three SKUs sharing
// cotton, several competing suppliers per material, weekly consumption history and
// one trim with no supplier at all.
func BuildMillScenario() *Scenario {
	s := newScenario()

	mustLoad(s.Forecasts.LoadForecasts([]*entities.Forecast{
		mustCreateForecast("TEE-CREW", 4000, entities.SourceSalesOrder),
		mustCreateForecast("TEE-CREW", 1000, entities.SourceProjection),
		mustCreateForecast("POLO-PIQUE", 1500, entities.SourceProdPlan),
		mustCreateForecast("HOODIE-FL", 800, entities.SourceSalesOrder),
	}))
	mustLoad(s.BOM.LoadBOMLines([]*entities.BOMLine{
		mustCreateBOMLine("TEE-CREW", "COTTON-30S", 0.35, "lbs"),
		mustCreateBOMLine("TEE-CREW", "RIB-TRIM", 0.05, "yd"),
		mustCreateBOMLine("POLO-PIQUE", "COTTON-30S", 0.45, "lbs"),
		mustCreateBOMLine("POLO-PIQUE", "BUTTON-4H", 3, "ea"),
		mustCreateBOMLine("HOODIE-FL", "FLEECE-CVC", 1.1, "lbs"),
		mustCreateBOMLine("HOODIE-FL", "RIB-TRIM", 0.2, "yd"),
	}))
	mustLoad(s.Inventory.LoadSnapshots([]*entities.InventorySnapshot{
		mustCreateSnapshot("COTTON-30S", 600, 400, "lbs"),
		mustCreateSnapshot("FLEECE-CVC", 200, 0, "lbs"),
		mustCreateSnapshot("RIB-TRIM", 900, 0, "yd"),
	}))

	quality := 0.97
	premium := mustCreateOffer("COTTON-30S", "SUP-CAROLINA", 2.85, 10, 500, 0.97)
	premium.Quality = &quality
	premium.PaymentTermsDays = 60
	premium.OrderMultiple = 100
	budget := mustCreateOffer("COTTON-30S", "SUP-KARACHI", 2.10, 45, 1000, 0.78)
	budget.ShippingCost = decimal.NewFromInt(350)
	budget.OrderMultiple = 250
	mid := mustCreateOffer("COTTON-30S", "SUP-GUJARAT", 2.40, 30, 800, 0.86)
	mid.PaymentTermsDays = 30

	fleece := mustCreateOffer("FLEECE-CVC", "SUP-CAROLINA", 3.60, 14, 200, 0.95)
	fleece.SetupCost = decimal.NewFromInt(250)
	fleeceAlt := mustCreateOffer("FLEECE-CVC", "SUP-DHAKA", 2.95, 75, 300, 0.65)

	rib := mustCreateOffer("RIB-TRIM", "SUP-TRIMCO", 0.40, 7, 0, 0.99)

	mustLoad(s.Suppliers.LoadOffers([]*entities.SupplierOffer{
		premium, budget, mid, fleece, fleeceAlt, rib,
	}))

	for _, qty := range []float64{420, 510, 380, 460, 495, 430} {
		mustLoad(s.History.AddPeriod("COTTON-30S", qty))
	}
	for _, qty := range []float64{120, 180, 90, 150} {
		mustLoad(s.History.AddPeriod("FLEECE-CVC", qty))
	}

	return s
}
