package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	ProfileTypical Profile = "typical"
	ProfileDelayed Profile = "delayed"

	MinAge = 5
	MaxAge = 12
)

var (
	// ErrNameRequired is returned when a session is started without a participant name.
	ErrNameRequired = errors.New("participant name is required")

	// ErrInvalidProfile is returned for a development profile other than typical or delayed.
	ErrInvalidProfile = errors.New("invalid development profile")

	// ErrInvalidAge is returned for an age outside of the supported range.
	ErrInvalidAge = errors.New("invalid participant age")
)

var validProfiles = map[Profile]struct{}{
	ProfileTypical: {},
	ProfileDelayed: {},
}

// Profile is the development profile of a participant.
type Profile string

func (p Profile) String() string {
	return string(p)
}

// Participant is the metadata entered before drawing begins.
type Participant struct {
	Name    string  `json:"name" yaml:"name"`
	Age     string  `json:"age" yaml:"age"`
	Profile Profile `json:"profile" yaml:"profile"`
}

// NewParticipant validates and normalizes participant metadata.
func NewParticipant(name, age string, profile Profile) (Participant, error) {
	p := Participant{
		Name:    strings.TrimSpace(name),
		Age:     strings.TrimSpace(age),
		Profile: Profile(strings.ToLower(strings.TrimSpace(string(profile)))),
	}

	if p.Name == "" {
		return Participant{}, ErrNameRequired
	}

	if p.Profile == "" {
		p.Profile = ProfileTypical
	} else if _, ok := validProfiles[p.Profile]; !ok {
		return Participant{}, fmt.Errorf("%w: %q", ErrInvalidProfile, profile)
	}

	if p.Age != "" {
		n, err := strconv.Atoi(p.Age)
		if err != nil || n < MinAge || n > MaxAge {
			return Participant{}, fmt.Errorf("%w: %q, must be %d to %d", ErrInvalidAge, age, MinAge, MaxAge)
		}
	}

	return p, nil
}
