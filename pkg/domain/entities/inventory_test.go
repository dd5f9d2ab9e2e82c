package entities

import (
	"math"
	"testing"
	"time"
)

func TestInventorySnapshot_Validation(t *testing.T) {
	expected := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	snapshot, err := NewInventorySnapshot("YARN-A", 500, 200, "lbs", &expected)
	if err != nil {
		t.Fatalf("Expected valid snapshot creation to succeed: %v", err)
	}
	if snapshot.Available() != 700 {
		t.Errorf("Expected available 700, got %g", snapshot.Available())
	}
	if !snapshot.POExpectedDate.Equal(expected) {
		t.Errorf("Expected po date %v, got %v", expected, snapshot.POExpectedDate)
	}

	// Test validation failures
	testCases := []struct {
		name        string
		materialID  MaterialID
		onHand      float64
		openPO      float64
		expectError string
	}{
		{"empty material", "", 10, 0, "material id cannot be empty"},
		{"negative on hand", "YARN-A", -5, 0, "on hand quantity cannot be negative, got -5"},
		{"negative open po", "YARN-A", 0, -1, "open po quantity cannot be negative, got -1"},
		{"infinite on hand", "YARN-A", math.Inf(1), 0, "on hand quantity must be a finite number, got +Inf"},
		{"nan open po", "YARN-A", 0, math.NaN(), "open po quantity must be a finite number, got NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInventorySnapshot(tc.materialID, tc.onHand, tc.openPO, "lbs", nil)
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}

func TestInventorySnapshot_ZeroQuantitiesAllowed(t *testing.T) {
	snapshot, err := NewInventorySnapshot("YARN-B", 0, 0, "lbs", nil)
	if err != nil {
		t.Fatalf("Expected zero quantities to be valid: %v", err)
	}
	if snapshot.Available() != 0 {
		t.Errorf("Expected available 0, got %g", snapshot.Available())
	}
}
