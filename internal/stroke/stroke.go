// Package stroke segments pointer samples into strokes and derives per-stroke
// kinematic metrics.
package stroke

import (
	"errors"
	"math"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

// ErrFinalized is returned when appending to a stroke that has already ended.
var ErrFinalized = errors.New("stroke is finalized")

// Stroke is one continuous pen-down to pen-up contact. Derived metrics are
// zero until Finalize is called and stay zero for strokes with fewer than two
// points.
type Stroke struct {
	Points        []pointer.Point `json:"points"`
	Duration      int64           `json:"duration"`      // ms, last point's tTotal
	AvgSpeed      float64         `json:"avgSpeed"`      // px/ms, mean of per-segment speeds
	TotalDistance float64         `json:"totalDistance"` // px, Euclidean path length

	finalized bool
}

// Append adds a point to an active stroke.
func (s *Stroke) Append(p pointer.Point) error {
	if s.finalized {
		return ErrFinalized
	}
	s.Points = append(s.Points, p)
	return nil
}

// Last returns the most recent point, if any.
func (s *Stroke) Last() (pointer.Point, bool) {
	if len(s.Points) == 0 {
		return pointer.Point{}, false
	}
	return s.Points[len(s.Points)-1], true
}

func (s *Stroke) Finalized() bool {
	return s.finalized
}

// Finalize computes duration, distance and average speed. Only the first call
// has an effect.
//
// Segments with dt == 0 add to the distance but are left out of the speed
// average, so duplicate timestamps can't produce division by zero or speed
// spikes.
func (s *Stroke) Finalize() {
	if s.finalized {
		return
	}
	s.finalized = true

	if len(s.Points) < 2 {
		return
	}

	s.Duration = s.Points[len(s.Points)-1].TTotal

	var totalDist, speedSum float64
	var speeds int
	for i := 1; i < len(s.Points); i++ {
		p1, p2 := s.Points[i-1], s.Points[i]

		dx, dy := p2.X-p1.X, p2.Y-p1.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		totalDist += dist

		if p2.DT > 0 {
			speedSum += dist / float64(p2.DT)
			speeds++
		}
	}

	s.TotalDistance = totalDist
	if speeds > 0 {
		s.AvgSpeed = speedSum / float64(speeds)
	}
}

// AvgPressure is the unweighted mean pressure of the stroke's points.
func (s *Stroke) AvgPressure() float64 {
	if len(s.Points) == 0 {
		return 0
	}
	return PressureSum(s.Points) / float64(len(s.Points))
}

// PressureSum adds up the pressure of all points.
func PressureSum(points []pointer.Point) float64 {
	var sum float64
	for _, p := range points {
		sum += p.Pressure
	}
	return sum
}
