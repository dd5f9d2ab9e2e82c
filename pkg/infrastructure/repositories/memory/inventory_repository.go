package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// InventoryRepository holds one inventory snapshot per material
type InventoryRepository struct {
	snapshots map[entities.MaterialID]entities.InventorySnapshot
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		snapshots: make(map[entities.MaterialID]entities.InventorySnapshot),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadSnapshots loads snapshots into the repository. A later snapshot of the same
// material replaces the earlier one.
func (r *InventoryRepository) LoadSnapshots(snapshots []*entities.InventorySnapshot) error {
	for _, snapshot := range snapshots {
		if snapshot == nil {
			return fmt.Errorf("inventory snapshot cannot be nil")
		}
		r.snapshots[snapshot.MaterialID] = *snapshot
	}
	return nil
}

// GetSnapshot returns the snapshot of a material
func (r *InventoryRepository) GetSnapshot(materialID entities.MaterialID) (*entities.InventorySnapshot, error) {
	snapshot, exists := r.snapshots[materialID]
	if !exists {
		return nil, fmt.Errorf("inventory not found: %s", materialID)
	}
	return &snapshot, nil
}

// GetAllSnapshots returns all snapshots ordered by material id
func (r *InventoryRepository) GetAllSnapshots() ([]*entities.InventorySnapshot, error) {
	snapshots := make([]*entities.InventorySnapshot, 0, len(r.snapshots))
	for id := range r.snapshots {
		snapshot := r.snapshots[id]
		snapshots = append(snapshots, &snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].MaterialID < snapshots[j].MaterialID
	})
	return snapshots, nil
}
