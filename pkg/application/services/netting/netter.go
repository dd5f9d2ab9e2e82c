package netting

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/vsinha/rawmat/pkg/domain/entities"
	"github.com/vsinha/rawmat/pkg/domain/services"
)

// GrossRequirement is the exploded demand of one material before netting
type GrossRequirement struct {
	MaterialID entities.MaterialID
	Qty        float64
	Unit       string
}

// NetRequirement is one material's requirement after subtracting available supply
type NetRequirement struct {
	MaterialID entities.MaterialID      `json:"material_id" yaml:"material_id"`
	Gross      float64                  `json:"gross" yaml:"gross"`
	OnHand     float64                  `json:"on_hand" yaml:"on_hand"`
	OpenPO     float64                  `json:"open_po" yaml:"open_po"`
	Net        float64                  `json:"net" yaml:"net"`
	Unit       string                   `json:"unit" yaml:"unit"`
	Status     entities.InventoryStatus `json:"status" yaml:"status"`
}

// Available returns on-hand plus on-order supply in the requirement's unit
func (n *NetRequirement) Available() float64 {
	return n.OnHand + n.OpenPO
}

// Result holds net requirements keyed by material plus any netting warnings
type Result struct {
	Requirements map[entities.MaterialID]*NetRequirement
	Warnings     []entities.ComputationWarning
}

// MaterialIDs returns the netted materials in ascending order
func (r *Result) MaterialIDs() []entities.MaterialID {
	ids := make([]entities.MaterialID, 0, len(r.Requirements))
	for id := range r.Requirements {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Shortages returns net requirements with a positive net quantity, ordered by material
func (r *Result) Shortages() []*NetRequirement {
	shortages := make([]*NetRequirement, 0)
	for _, id := range r.MaterialIDs() {
		if req := r.Requirements[id]; req.Net > 0 {
			shortages = append(shortages, req)
		}
	}
	return shortages
}

// Netter nets gross requirements against an inventory snapshot
type Netter struct {
	logger *zap.Logger
}

// NewNetter creates a new inventory netter
func NewNetter(logger *zap.Logger) *Netter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Netter{logger: logger}
}

// Net computes net = max(0, gross - on_hand - open_po) for every gross requirement.
// A material without a snapshot has zero supply. Supply in a unit that cannot be
// converted to the requirement's unit is ignored and flagged.
func (n *Netter) Net(
	gross map[entities.MaterialID]GrossRequirement,
	inventory map[entities.MaterialID]*entities.InventorySnapshot,
) *Result {
	result := &Result{
		Requirements: make(map[entities.MaterialID]*NetRequirement, len(gross)),
		Warnings:     make([]entities.ComputationWarning, 0),
	}

	ids := make([]entities.MaterialID, 0, len(gross))
	for id := range gross {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		g := gross[id]
		onHand, openPO := 0.0, 0.0

		if snapshot, ok := inventory[id]; ok && snapshot != nil {
			onHand, openPO = snapshot.OnHand, snapshot.OpenPO
			if needsConversion(snapshot.Unit, g.Unit) {
				convertedOnHand, okOnHand := services.Convert(onHand, snapshot.Unit, g.Unit, 0)
				convertedPO, okPO := services.Convert(openPO, snapshot.Unit, g.Unit, 0)
				if okOnHand && okPO {
					onHand, openPO = convertedOnHand, convertedPO
				} else {
					result.Warnings = append(result.Warnings, entities.NewComputationWarning(
						entities.WarningUnitMismatch,
						string(id),
						"inventory unit %s cannot be converted to requirement unit %s, supply ignored",
						snapshot.Unit, g.Unit,
					))
					onHand, openPO = 0, 0
				}
			}
		}

		net := &NetRequirement{
			MaterialID: id,
			Gross:      g.Qty,
			OnHand:     onHand,
			OpenPO:     openPO,
			Net:        math.Max(0, g.Qty-onHand-openPO),
			Unit:       g.Unit,
		}
		net.Status = Classify(g.Qty, onHand, openPO)
		result.Requirements[id] = net
	}

	n.logger.Debug("inventory netted",
		zap.Int("materials", len(result.Requirements)),
		zap.Int("shortages", len(result.Shortages())))

	return result
}

// Classify maps a supply position to an inventory status
func Classify(gross, onHand, openPO float64) entities.InventoryStatus {
	switch {
	case gross <= 0:
		return entities.StatusSufficient
	case onHand >= gross:
		return entities.StatusOnHandSufficient
	case onHand+openPO >= gross:
		return entities.StatusWithPOSufficient
	default:
		return entities.StatusShortage
	}
}

func needsConversion(from, to string) bool {
	if from == "" || to == "" {
		return false
	}
	return services.NormalizeUnit(from) != services.NormalizeUnit(to)
}
