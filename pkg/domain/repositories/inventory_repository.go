package repositories

import "github.com/vsinha/rawmat/pkg/domain/entities"

// InventoryRepository provides access to the inventory snapshot of a planning run
type InventoryRepository interface {
	GetSnapshot(materialID entities.MaterialID) (*entities.InventorySnapshot, error)
	GetAllSnapshots() ([]*entities.InventorySnapshot, error)
	LoadSnapshots(snapshots []*entities.InventorySnapshot) error
}
