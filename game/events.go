package game

import (
	"encoding/json"
	"fmt"

	"github.com/pthm-cable/bugfights/components"
)

// EventType tags an Event.
type EventType string

const (
	EventCommentary EventType = "commentary"
	EventHit        EventType = "hit"
	EventFeint      EventType = "feint"
	EventWallImpact EventType = "wallImpact"
	EventFightEnd   EventType = "fightEnd"
)

// Event is one thing that happened during a tick. Only the fields belonging
// to its Type are meaningful and serialized.
type Event struct {
	Type EventType

	// Commentary
	Text  string
	Color string

	// Position, for hit, feint, and wall impact
	X, Y float64

	// Hit
	Damage   int
	IsCrit   bool
	IsPoison bool

	// Hit and feint
	Attacker string
	Target   string

	// Feint
	Result components.FeintResult

	// Wall impact
	Name        string
	Velocity    float64
	WallSide    components.WallSide
	StunApplied int

	// Fight end. 0 draw, 1 left, 2 right.
	Winner *int
}

type commentaryJSON struct {
	Type  EventType `json:"type"`
	Text  string    `json:"text"`
	Color string    `json:"color"`
}

type hitJSON struct {
	Type     EventType `json:"type"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Damage   int       `json:"damage"`
	IsCrit   bool      `json:"isCrit,omitempty"`
	IsPoison bool      `json:"isPoison,omitempty"`
	Attacker string    `json:"attacker"`
	Target   string    `json:"target"`
}

type feintJSON struct {
	Type     EventType              `json:"type"`
	X        float64                `json:"x"`
	Y        float64                `json:"y"`
	Attacker string                 `json:"attacker"`
	Target   string                 `json:"target"`
	Result   components.FeintResult `json:"result"`
}

type wallImpactJSON struct {
	Type        EventType           `json:"type"`
	X           float64             `json:"x"`
	Y           float64             `json:"y"`
	Name        string              `json:"name"`
	Velocity    float64             `json:"velocity"`
	WallSide    components.WallSide `json:"wallSide"`
	StunApplied int                 `json:"stunApplied"`
}

type fightEndJSON struct {
	Type   EventType `json:"type"`
	Winner *int      `json:"winner"`
}

// MarshalJSON writes the record for the event's type.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventCommentary:
		return json.Marshal(commentaryJSON{e.Type, e.Text, e.Color})
	case EventHit:
		return json.Marshal(hitJSON{e.Type, e.X, e.Y, e.Damage, e.IsCrit, e.IsPoison, e.Attacker, e.Target})
	case EventFeint:
		return json.Marshal(feintJSON{e.Type, e.X, e.Y, e.Attacker, e.Target, e.Result})
	case EventWallImpact:
		return json.Marshal(wallImpactJSON{e.Type, e.X, e.Y, e.Name, e.Velocity, e.WallSide, e.StunApplied})
	case EventFightEnd:
		return json.Marshal(fightEndJSON{e.Type, e.Winner})
	}
	return nil, fmt.Errorf("game: unknown event type %q", e.Type)
}

// emit appends an event to this tick's list.
func (s *Simulation) emit(e Event) {
	s.events = append(s.events, e)
}

// commentary emits a commentary line.
func (s *Simulation) commentary(text, color string) {
	s.emit(Event{Type: EventCommentary, Text: text, Color: color})
}
