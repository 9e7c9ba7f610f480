// Package eventlog reads recorded drawing sessions: a participant header
// followed by the pointer events and task controls in the order they
// happened.
package eventlog

import (
	"fmt"
	"strings"
	"time"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

const (
	KindEvent Kind = iota
	KindAdvance
	KindSubmit
)

var kindNames = [...]string{
	KindEvent:   "event",
	KindAdvance: "advance",
	KindSubmit:  "submit",
}

// Kind tells a pointer event step from a task control step.
type Kind uint8

func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return KindEvent, nil
	}
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown step kind '%s'", s)
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Step is one entry of a session script. A step without a kind is a pointer
// event.
type Step struct {
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// AtMs is the offset of the step from the start of the recording.
	AtMs int64 `json:"at" yaml:"at"`

	pointer.Event `yaml:",inline"`
}

// PointerEvent returns the event of s stamped relative to origin.
func (s Step) PointerEvent(origin time.Time) pointer.Event {
	return s.Event.At(origin.Add(time.Duration(s.AtMs) * time.Millisecond))
}

func (s Step) validate() error {
	if s.AtMs < 0 {
		return fmt.Errorf("negative step offset %d", s.AtMs)
	}
	if s.Kind == KindEvent && s.Type == 0 {
		return fmt.Errorf("event step without type")
	}
	return nil
}
