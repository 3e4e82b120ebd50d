package game

import (
	"encoding/json"
)

// EventType enum for event classification
type EventType uint8

const (
	EventTypeUnknown EventType = iota
	EventTypeTick
	EventTypeUnitSpawned
	EventTypeUnitDied
	EventTypeBuildingDestroyed
	EventTypeProjectileFired
	EventTypeStars
	EventTypeDone
)

// EventVersion for backwards compatibility in replay
const EventVersion uint8 = 1

// Event is one entry of the battle log. Time is simulated seconds since the
// start of the battle.
type Event struct {
	Version  uint8           `json:"version"`
	Type     EventType       `json:"type"`
	Sequence uint64          `json:"sequence"`
	TickNum  uint64          `json:"tickNum"`
	Time     float64         `json:"time"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// String returns human-readable event type
func (t EventType) String() string {
	switch t {
	case EventTypeTick:
		return "tick"
	case EventTypeUnitSpawned:
		return "unit_spawned"
	case EventTypeUnitDied:
		return "unit_died"
	case EventTypeBuildingDestroyed:
		return "building_destroyed"
	case EventTypeProjectileFired:
		return "projectile_fired"
	case EventTypeStars:
		return "stars"
	case EventTypeDone:
		return "done"
	default:
		return "unknown"
	}
}

// MarshalText encodes the type by name so logs stay readable.
func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name written by MarshalText.
func (t *EventType) UnmarshalText(text []byte) error {
	for c := EventTypeTick; c <= EventTypeDone; c++ {
		if c.String() == string(text) {
			*t = c
			return nil
		}
	}
	*t = EventTypeUnknown
	return nil
}

// Typed payloads for different event types

// TickPayload is emitted once per tick.
type TickPayload struct {
	DeltaTime  float64 `json:"deltaTime"`
	UnitsAlive int     `json:"unitsAlive"`
}

// UnitSpawnedPayload is emitted when a unit is dropped.
type UnitSpawnedPayload struct {
	UnitID int     `json:"unitId"`
	Name   string  `json:"name"`
	Level  int     `json:"level"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// UnitDiedPayload is emitted when a unit's health reaches zero.
type UnitDiedPayload struct {
	UnitID int     `json:"unitId"`
	Name   string  `json:"name"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// BuildingDestroyedPayload is emitted when a building's health reaches zero.
type BuildingDestroyedPayload struct {
	BuildingID int    `json:"buildingId"`
	Name       string `json:"name"`
	Percent    int    `json:"percent"`
}

// ProjectileFiredPayload is emitted when an active building attacks.
type ProjectileFiredPayload struct {
	BuildingID int     `json:"buildingId"`
	TargetID   int     `json:"targetId"`
	Kind       string  `json:"kind"`
	TimeLeft   float64 `json:"timeLeft"`
}

// StarsPayload is emitted whenever the star count grows.
type StarsPayload struct {
	Stars   int `json:"stars"`
	Percent int `json:"percent"`
}

// DonePayload is emitted once when the battle ends.
type DonePayload struct {
	Stars   int     `json:"stars"`
	Percent int     `json:"percent"`
	Elapsed float64 `json:"elapsed"`
}

// EncodePayload marshals a payload to JSON bytes
func EncodePayload(payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil
	}
	return data
}

// NewEvent creates a new event at simulated time t.
func NewEvent(eventType EventType, tickNum uint64, t float64, payload any) Event {
	return Event{
		Version: EventVersion,
		Type:    eventType,
		TickNum: tickNum,
		Time:    t,
		Payload: EncodePayload(payload),
	}
}

// EventSink receives battle events. Emit reports whether the event was
// accepted.
type EventSink interface {
	Emit(Event) bool
}

// EventRecorder is an EventSink keeping every event in memory.
type EventRecorder struct {
	Events []Event
}

// Emit appends e and assigns its sequence number.
func (r *EventRecorder) Emit(e Event) bool {
	e.Sequence = uint64(len(r.Events)) + 1
	r.Events = append(r.Events, e)
	return true
}

// OfType returns the recorded events of type t.
func (r *EventRecorder) OfType(t EventType) []Event {
	var out []Event
	for _, e := range r.Events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// BuildingDestroyed is delivered in-process to the game and to buildings
// subscribed to the destroyed one.
type BuildingDestroyed struct {
	ID int
}

// dispatch delivers ev to the game first, then to the subscribers of the
// destroyed building in subscription order.
func (g *Game) dispatch(ev BuildingDestroyed) {
	g.onBuildingDestroyed(ev)
	for _, id := range g.buildings[ev.ID].subscribers {
		g.buildings[id].onNeighbourDestroyed(g, ev)
	}
}

func (g *Game) emit(t EventType, payload any) {
	if g.sink == nil {
		return
	}
	g.sink.Emit(NewEvent(t, g.tickNum, g.timeElapsed, payload))
}
