package netting

import (
	"testing"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func snapshot(t *testing.T, id string, onHand, openPO float64, unit string) *entities.InventorySnapshot {
	t.Helper()
	s, err := entities.NewInventorySnapshot(entities.MaterialID(id), onHand, openPO, unit, nil)
	if err != nil {
		t.Fatalf("failed to create snapshot: %v", err)
	}
	return s
}

func TestNetter_Net(t *testing.T) {
	netter := NewNetter(nil)

	testCases := []struct {
		name       string
		gross      GrossRequirement
		inventory  *entities.InventorySnapshot
		wantNet    float64
		wantStatus entities.InventoryStatus
		wantWarn   bool
	}{
		{
			name:       "shortage after on hand and open po",
			gross:      GrossRequirement{MaterialID: "YARN-A", Qty: 1200, Unit: "lbs"},
			inventory:  snapshot(t, "YARN-A", 500, 200, "lbs"),
			wantNet:    500,
			wantStatus: entities.StatusShortage,
		},
		{
			name:       "on hand covers gross",
			gross:      GrossRequirement{MaterialID: "YARN-A", Qty: 300, Unit: "lbs"},
			inventory:  snapshot(t, "YARN-A", 500, 0, "lbs"),
			wantNet:    0,
			wantStatus: entities.StatusOnHandSufficient,
		},
		{
			name:       "open po closes the gap",
			gross:      GrossRequirement{MaterialID: "YARN-A", Qty: 600, Unit: "lbs"},
			inventory:  snapshot(t, "YARN-A", 500, 200, "lbs"),
			wantNet:    0,
			wantStatus: entities.StatusWithPOSufficient,
		},
		{
			name:       "zero gross",
			gross:      GrossRequirement{MaterialID: "YARN-A", Qty: 0, Unit: "lbs"},
			inventory:  snapshot(t, "YARN-A", 10, 0, "lbs"),
			wantNet:    0,
			wantStatus: entities.StatusSufficient,
		},
		{
			name:       "missing snapshot is full shortage",
			gross:      GrossRequirement{MaterialID: "YARN-A", Qty: 250, Unit: "lbs"},
			wantNet:    250,
			wantStatus: entities.StatusShortage,
		},
		{
			name:       "inventory converted to requirement unit",
			gross:      GrossRequirement{MaterialID: "COTTON", Qty: 10, Unit: "kg"},
			inventory:  snapshot(t, "COTTON", 4000, 1000, "g"),
			wantNet:    5,
			wantStatus: entities.StatusShortage,
		},
		{
			name:       "unconvertible inventory ignored",
			gross:      GrossRequirement{MaterialID: "COTTON", Qty: 10, Unit: "kg"},
			inventory:  snapshot(t, "COTTON", 400, 0, "m"),
			wantNet:    10,
			wantStatus: entities.StatusShortage,
			wantWarn:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gross := map[entities.MaterialID]GrossRequirement{tc.gross.MaterialID: tc.gross}
			inventory := map[entities.MaterialID]*entities.InventorySnapshot{}
			if tc.inventory != nil {
				inventory[tc.inventory.MaterialID] = tc.inventory
			}

			result := netter.Net(gross, inventory)

			req := result.Requirements[tc.gross.MaterialID]
			if req == nil {
				t.Fatalf("expected net requirement for %s", tc.gross.MaterialID)
			}
			if diff := req.Net - tc.wantNet; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("expected net %g, got %g", tc.wantNet, req.Net)
			}
			if req.Status != tc.wantStatus {
				t.Errorf("expected status %s, got %s", tc.wantStatus, req.Status)
			}
			if tc.wantWarn != (len(result.Warnings) > 0) {
				t.Errorf("expected warning=%v, got %v", tc.wantWarn, result.Warnings)
			}
			if req.Net < 0 {
				t.Errorf("net requirement must never be negative, got %g", req.Net)
			}
		})
	}
}

func TestResult_Shortages(t *testing.T) {
	netter := NewNetter(nil)
	result := netter.Net(
		map[entities.MaterialID]GrossRequirement{
			"B": {MaterialID: "B", Qty: 100},
			"A": {MaterialID: "A", Qty: 50},
			"C": {MaterialID: "C", Qty: 10},
		},
		map[entities.MaterialID]*entities.InventorySnapshot{
			"C": snapshot(t, "C", 10, 0, ""),
		},
	)

	shortages := result.Shortages()
	if len(shortages) != 2 {
		t.Fatalf("expected 2 shortages, got %d", len(shortages))
	}
	if shortages[0].MaterialID != "A" || shortages[1].MaterialID != "B" {
		t.Errorf("expected shortages ordered A, B; got %s, %s", shortages[0].MaterialID, shortages[1].MaterialID)
	}
}
