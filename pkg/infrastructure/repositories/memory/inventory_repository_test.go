package memory

import (
	"testing"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

func TestInventoryRepository_Snapshots(t *testing.T) {
	repo := NewInventoryRepository()

	err := repo.LoadSnapshots([]*entities.InventorySnapshot{
		{MaterialID: "YARN-B", OnHand: 0, OpenPO: 50, Unit: "lbs"},
		{MaterialID: "YARN-A", OnHand: 200, OpenPO: 0, Unit: "lbs"},
		{MaterialID: "YARN-A", OnHand: 250, OpenPO: 0, Unit: "lbs"},
	})
	if err != nil {
		t.Fatalf("Failed to load snapshots: %v", err)
	}

	snapshot, err := repo.GetSnapshot("YARN-A")
	if err != nil {
		t.Fatalf("Failed to get snapshot: %v", err)
	}
	if snapshot.OnHand != 250 {
		t.Errorf("Expected later snapshot to replace earlier one, got on hand %g", snapshot.OnHand)
	}

	if _, err := repo.GetSnapshot("YARN-Z"); err == nil {
		t.Error("Expected error for unknown material")
	} else if err.Error() != "inventory not found: YARN-Z" {
		t.Errorf("Unexpected error: %v", err)
	}

	all, err := repo.GetAllSnapshots()
	if err != nil {
		t.Fatalf("Failed to get all snapshots: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Expected 2 snapshots, got %d", len(all))
	}
	if all[0].MaterialID != "YARN-A" || all[1].MaterialID != "YARN-B" {
		t.Errorf("Expected snapshots ordered by material id, got %s, %s", all[0].MaterialID, all[1].MaterialID)
	}
}
