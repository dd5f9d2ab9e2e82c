package entities

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestRecommendation_DerivedFields(t *testing.T) {
	orderDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	rec, err := NewRecommendation("YARN-A", "SUP-1", 1000, decimal.NewFromInt(5), orderDate, 14)
	if err != nil {
		t.Fatalf("Expected valid recommendation creation to succeed: %v", err)
	}

	expectedDelivery := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !rec.DeliveryDate.Equal(expectedDelivery) {
		t.Errorf("Expected delivery date %v, got %v", expectedDelivery, rec.DeliveryDate)
	}
	if !rec.TotalCost.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected total cost 5000, got %s", rec.TotalCost)
	}
	if rec.RiskLevel != RiskNone {
		t.Errorf("Expected initial risk level none, got %s", rec.RiskLevel)
	}
}

func TestRecommendation_Validation(t *testing.T) {
	orderDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name        string
		materialID  MaterialID
		supplierID  SupplierID
		qty         float64
		leadTime    int
		expectError string
	}{
		{"empty material", "", "SUP-1", 10, 1, "material id cannot be empty"},
		{"empty supplier", "YARN-A", "", 10, 1, "supplier id cannot be empty"},
		{"negative quantity", "YARN-A", "SUP-1", -1, 1, "order quantity cannot be negative, got -1"},
		{"negative lead time", "YARN-A", "SUP-1", 10, -2, "lead time cannot be negative, got -2"},
		{"infinite quantity", "YARN-A", "SUP-1", math.Inf(1), 1, "order quantity must be a finite number, got +Inf"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRecommendation(tc.materialID, tc.supplierID, tc.qty, decimal.NewFromInt(1), orderDate, tc.leadTime)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
