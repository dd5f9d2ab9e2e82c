package memory

import (
	"fmt"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/repositories"
)

// SupplierRepository stores the supplier catalog indexed by material
type SupplierRepository struct {
	offers       []entities.SupplierOffer
	offerIndexes map[entities.MaterialID][]int
}

// NewSupplierRepository creates a new in-memory supplier catalog
func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{
		offers:       make([]entities.SupplierOffer, 0),
		offerIndexes: make(map[entities.MaterialID][]int),
	}
}

// Verify interface compliance
var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// LoadOffers loads supplier offers into the catalog
func (r *SupplierRepository) LoadOffers(offers []*entities.SupplierOffer) error {
	for _, offer := range offers {
		if offer == nil {
			return fmt.Errorf("supplier offer cannot be nil")
		}
		index := len(r.offers)
		r.offers = append(r.offers, *offer)
		r.offerIndexes[offer.MaterialID] = append(r.offerIndexes[offer.MaterialID], index)
	}
	return nil
}

// GetOffers returns all offers for a material
func (r *SupplierRepository) GetOffers(materialID entities.MaterialID) ([]*entities.SupplierOffer, error) {
	indexes := r.offerIndexes[materialID]
	offers := make([]*entities.SupplierOffer, 0, len(indexes))
	for _, index := range indexes {
		offer := r.offers[index]
		offers = append(offers, &offer)
	}
	return offers, nil
}

// GetAllOffers returns copies of every offer in load order
func (r *SupplierRepository) GetAllOffers() ([]*entities.SupplierOffer, error) {
	offers := make([]*entities.SupplierOffer, 0, len(r.offers))
	for i := range r.offers {
		offer := r.offers[i]
		offers = append(offers, &offer)
	}
	return offers, nil
}
