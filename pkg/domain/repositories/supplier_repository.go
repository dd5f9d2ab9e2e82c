package repositories

import "github.com/vsinha/rawmat/pkg/domain/entities"

// SupplierRepository provides access to the supplier catalog
type SupplierRepository interface {
	GetOffers(materialID entities.MaterialID) ([]*entities.SupplierOffer, error)
	GetAllOffers() ([]*entities.SupplierOffer, error)
	LoadOffers(offers []*entities.SupplierOffer) error
}
