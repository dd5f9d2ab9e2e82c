package entities

import (
	"errors"
	"math"
	"testing"
)

func TestBOMLine_Validation(t *testing.T) {
	validBOM, err := NewBOMLine("TSHIRT", "YARN-COTTON-30S", 0.35, "lbs")
	if err != nil {
		t.Fatalf("Expected valid BOM creation to succeed: %v", err)
	}
	if validBOM.QtyPerUnit != 0.35 {
		t.Errorf("Expected quantity per unit 0.35, got %g", validBOM.QtyPerUnit)
	}

	// Test validation failures
	testCases := []struct {
		name        string
		sku         SKU
		materialID  MaterialID
		qtyPerUnit  float64
		expectError string
	}{
		{"empty sku", "", "YARN", 1, "sku cannot be empty"},
		{"empty material", "TSHIRT", "", 1, "material id cannot be empty"},
		{"zero quantity", "TSHIRT", "YARN", 0, "quantity per unit must be positive, got 0"},
		{"negative quantity", "TSHIRT", "YARN", -1.5, "quantity per unit must be positive, got -1.5"},
		{"infinite quantity", "TSHIRT", "YARN", math.Inf(1), "quantity per unit must be a finite number, got +Inf"},
		{"nan quantity", "TSHIRT", "YARN", math.NaN(), "quantity per unit must be a finite number, got NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBOMLine(tc.sku, tc.materialID, tc.qtyPerUnit, "lbs")
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("Expected *ValidationError, got %T", err)
			}
		})
	}
}

func TestBlendLine_Validation(t *testing.T) {
	line, err := NewBlendLine("STYLE1", "YARN-A", 100, "Combed Cotton")
	if err != nil {
		t.Fatalf("Expected 100%% blend line to be valid: %v", err)
	}
	if line.YarnName != "Combed Cotton" {
		t.Errorf("Expected yarn name 'Combed Cotton', got '%s'", line.YarnName)
	}

	testCases := []struct {
		name        string
		styleID     SKU
		yarnID      MaterialID
		percentage  float64
		expectError string
	}{
		{"empty style", "", "YARN-A", 50, "style id cannot be empty"},
		{"empty yarn", "STYLE1", "", 50, "yarn id cannot be empty"},
		{"zero percentage", "STYLE1", "YARN-A", 0, "percentage must be in (0, 100], got 0"},
		{"over 100 percent", "STYLE1", "YARN-A", 100.5, "percentage must be in (0, 100], got 100.5"},
		{"negative percentage", "STYLE1", "YARN-A", -10, "percentage must be in (0, 100], got -10"},
		{"nan percentage", "STYLE1", "YARN-A", math.NaN(), "percentage must be in (0, 100], got NaN"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewBlendLine(tc.styleID, tc.yarnID, tc.percentage, "")
			if err == nil {
				t.Fatalf("Expected error for %s, but got none", tc.name)
			}
			if err.Error() != tc.expectError {
				t.Errorf("Expected error '%s', got '%s'", tc.expectError, err.Error())
			}
		})
	}
}
