package events

import (
	"time"

	"github.com/vsinha/rawmat/pkg/domain/entities"
)

// Payload is the body of a planning event. Each payload names its own event type.
type Payload interface {
	EventType() string
}

// Event is one immutable fact recorded during a planning run
type Event interface {
	Type() string
	RunID() string
	Payload() Payload
	Timestamp() time.Time
	Version() int
}

// EventHandler reacts to recorded events
type EventHandler interface {
	Handle(event Event) error
	CanHandle(eventType string) bool
}

// EventStore appends and replays planning events, one stream per run
type EventStore interface {
	AppendEvent(runID string, event Event) error
	ReadEvents(runID string, fromVersion int) ([]Event, error)
	ReadAllEvents(fromPosition int) ([]Event, error)
	Subscribe(eventTypes []string, handler EventHandler) error
	Unsubscribe(handler EventHandler) error
}

// Record is the stored and serialized form of an event. Version is assigned by the store.
type Record struct {
	Kind     string    `json:"type"`
	Run      string    `json:"run_id"`
	Body     Payload   `json:"data"`
	Recorded time.Time `json:"time"`
	Seq      int       `json:"version"`
}

func (r Record) Type() string { return r.Kind }
func (r Record) RunID() string { return r.Run }
func (r Record) Payload() Payload { return r.Body }
func (r Record) Timestamp() time.Time { return r.Recorded }
func (r Record) Version() int { return r.Seq }

// NewEvent wraps a payload for a run, stamped with the caller's clock
func NewEvent(runID string, payload Payload, at time.Time) Event {
	return Record{
		Kind:     payload.EventType(),
		Run:      runID,
		Body:     payload,
		Recorded: at,
	}
}

// MaterialOf returns the material an event is about. Run-level events have none.
func MaterialOf(event Event) (entities.MaterialID, bool) {
	switch p := event.Payload().(type) {
	case RequirementNetted:
		return p.MaterialID, true
	case RecommendationCreated:
		return p.Recommendation.MaterialID, true
	case WarningRaised:
		switch p.Warning.Code {
		case entities.WarningMissingBOM, entities.WarningBOMPercentageSum:
			// subject is a style
			return "", false
		}
		if p.Warning.Subject == "" {
			return "", false
		}
		return entities.MaterialID(p.Warning.Subject), true
	default:
		return "", false
	}
}

// CountByType tallies events per type
func CountByType(recorded []Event) map[string]int {
	counts := make(map[string]int)
	for _, event := range recorded {
		counts[event.Type()]++
	}
	return counts
}

// ForMaterial keeps the events about one material, in their recorded order
func ForMaterial(recorded []Event, materialID entities.MaterialID) []Event {
	matched := make([]Event, 0)
	for _, event := range recorded {
		if id, ok := MaterialOf(event); ok && id == materialID {
			matched = append(matched, event)
		}
	}
	return matched
}
