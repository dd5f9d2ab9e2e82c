package memory

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func TestSupplierRepository_Offers(t *testing.T) {
	repo := NewSupplierRepository()

	offers := []*entities.SupplierOffer{
		{MaterialID: "YARN-A", SupplierID: "SUP-1", CostPerUnit: decimal.NewFromInt(5), LeadTimeDays: 14, MOQ: 100, Reliability: 0.9},
		{MaterialID: "YARN-A", SupplierID: "SUP-2", CostPerUnit: decimal.NewFromInt(6), LeadTimeDays: 7, MOQ: 50, Reliability: 0.95},
		{MaterialID: "YARN-B", SupplierID: "SUP-1", CostPerUnit: decimal.NewFromInt(8), LeadTimeDays: 21, MOQ: 50, Reliability: 0.9},
	}
	if err := repo.LoadOffers(offers); err != nil {
		t.Fatalf("Failed to load offers: %v", err)
	}

	yarnA, err := repo.GetOffers("YARN-A")
	if err != nil {
		t.Fatalf("Failed to get offers: %v", err)
	}
	if len(yarnA) != 2 {
		t.Fatalf("Expected 2 offers for YARN-A, got %d", len(yarnA))
	}
	if !yarnA[1].CostPerUnit.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected second offer cost 6, got %s", yarnA[1].CostPerUnit)
	}

	none, _ := repo.GetOffers("YARN-Z")
	if len(none) != 0 {
		t.Errorf("Expected no offers for unknown material, got %d", len(none))
	}

	all, _ := repo.GetAllOffers()
	if len(all) != 3 {
		t.Errorf("Expected 3 offers, got %d", len(all))
	}
}
