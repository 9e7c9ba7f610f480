package pointer

import (
	"math"
	"time"
)

const (
	// minLineWidth is the rendered width of a stroke without pressure data.
	minLineWidth = 5
	// pressureLineScale is added to minLineWidth at full pressure.
	pressureLineScale = 15
)

// Point is one recorded sample of a stroke. It is never modified once recorded.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"pressure"` // [0,1], 0 when unsupported
	DT       int64   `json:"dt"`       // milliseconds since the previous point, 0 for the first
	TTotal   int64   `json:"tTotal"`   // milliseconds since the stroke started
}

// Surface is the bounding box of the drawing surface in client coordinates.
type Surface struct {
	Left   float64 `yaml:"left"`
	Top    float64 `yaml:"top"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Local converts client coordinates into surface coordinates.
func (s Surface) Local(clientX, clientY float64) (x, y float64) {
	return clientX - s.Left, clientY - s.Top
}

type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// WithClock sets the time source used for events without a timestamp.
func WithClock(c Clock) func(s *Sampler) {
	return func(s *Sampler) {
		s.clock = c
	}
}

// Sampler converts events into points, tracking the time of the previous
// sample so it can compute inter-sample delays.
type Sampler struct {
	surface Surface
	clock   Clock
	last    time.Time
}

func NewSampler(surface Surface, options ...func(s *Sampler)) *Sampler {
	s := Sampler{
		surface: surface,
		clock:   SystemClock{},
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Surface returns the surface the sampler maps coordinates onto.
func (s *Sampler) Surface() Surface {
	return s.surface
}

// Start records the first point of a new stroke.
func (s *Sampler) Start(e Event) Point {
	s.last = s.timeOf(e)

	x, y := s.surface.Local(e.ClientX, e.ClientY)
	return Point{X: x, Y: y, Pressure: Pressure(e)}
}

// Next records a point following prev in the same stroke.
func (s *Sampler) Next(e Event, prev Point) Point {
	now := s.timeOf(e)

	dt := now.Sub(s.last).Milliseconds()
	if dt < 0 {
		// the clock went backwards; keep tTotal non-decreasing
		dt = 0
	}
	s.last = now

	x, y := s.surface.Local(e.ClientX, e.ClientY)
	return Point{
		X:        x,
		Y:        y,
		Pressure: Pressure(e),
		DT:       dt,
		TTotal:   prev.TTotal + dt,
	}
}

func (s *Sampler) timeOf(e Event) time.Time {
	if !e.Time.IsZero() {
		return e.Time
	}
	return s.clock.Now()
}

// Pressure returns the event pressure clamped into [0,1], or 0 when the
// device reports none.
func Pressure(e Event) float64 {
	if e.Pressure == nil {
		return 0
	}

	p := *e.Pressure
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, 1)
}

// LineWidth is the rendered stroke width for a sample with the given pressure.
func LineWidth(pressure float64) float64 {
	if pressure > 0 {
		return pressure*pressureLineScale + minLineWidth
	}
	return minLineWidth
}
