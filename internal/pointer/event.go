// Package pointer turns raw pointer input (pen, touch or mouse) into normalized
// point records in drawing-surface coordinates.
package pointer

import (
	"fmt"
	"strings"
	"time"
)

const (
	EventDown EventType = iota + 1
	EventMove
	EventUp
	EventOut
)

const (
	// PenPointer is the pointer type reported by styluses.
	PenPointer = "pen"

	// PrimaryButton is the button index of the primary (left) mouse button,
	// also reported for touch and pen contact.
	PrimaryButton = 0
)

var eventTypeNames = map[string]EventType{
	"down":         EventDown,
	"pointerdown":  EventDown,
	"move":         EventMove,
	"pointermove":  EventMove,
	"up":           EventUp,
	"pointerup":    EventUp,
	"out":          EventOut,
	"pointerout":   EventOut,
	"pointerleave": EventOut,
}

// EventType tags an Event as one of down, move, up or out.
type EventType uint8

func ParseEventType(s string) (EventType, error) {
	t, ok := eventTypeNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown pointer event type: %q", s)
	}
	return t, nil
}

func (t EventType) String() string {
	switch t {
	case EventDown:
		return "down"
	case EventMove:
		return "move"
	case EventUp:
		return "up"
	case EventOut:
		return "out"
	default:
		return fmt.Sprintf("EventType(%d)", uint8(t))
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	if t < EventDown || t > EventOut {
		return nil, fmt.Errorf("invalid pointer event type: %d", uint8(t))
	}
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(text []byte) error {
	parsed, err := ParseEventType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Event is a single pointer signal as delivered by the host environment.
type Event struct {
	Type        EventType `json:"type" yaml:"type"`
	ClientX     float64   `json:"clientX" yaml:"clientX"`
	ClientY     float64   `json:"clientY" yaml:"clientY"`
	Pressure    *float64  `json:"pressure,omitempty" yaml:"pressure,omitempty"` // nil when the device reports none
	PointerType string    `json:"pointerType,omitempty" yaml:"pointerType,omitempty"`
	Button      *int      `json:"button,omitempty" yaml:"button,omitempty"` // nil when the host reports no button

	// Time is when the event happened. Zero means "now" according to the
	// sampler's clock.
	Time time.Time `json:"-" yaml:"-"`
}

// Accepts reports whether e may open a stroke: pen contact or a primary
// button press. An event without a button is not a primary press. It says
// nothing about the event type.
func Accepts(e Event) bool {
	return e.PointerType == PenPointer || (e.Button != nil && *e.Button == PrimaryButton)
}

// Down, Move, Up and Out build events of the corresponding type. Down
// reports the primary button.

func Down(x, y float64) Event {
	return Event{Type: EventDown, ClientX: x, ClientY: y}.WithButton(PrimaryButton)
}

func Move(x, y float64) Event { return Event{Type: EventMove, ClientX: x, ClientY: y} }
func Up(x, y float64) Event   { return Event{Type: EventUp, ClientX: x, ClientY: y} }
func Out(x, y float64) Event  { return Event{Type: EventOut, ClientX: x, ClientY: y} }

// WithPressure returns a copy of e reporting pressure p.
func (e Event) WithPressure(p float64) Event {
	e.Pressure = &p
	return e
}

// WithButton returns a copy of e reporting button b.
func (e Event) WithButton(b int) Event {
	e.Button = &b
	return e
}

// At returns a copy of e stamped with t.
func (e Event) At(t time.Time) Event {
	e.Time = t
	return e
}
