package stroke

import (
	"errors"
	"math"
	"testing"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestStroke_FinalizeTwoPoints(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0, Pressure: 0.5, DT: 0, TTotal: 0},
		{X: 10, Y: 0, Pressure: 0.5, DT: 100, TTotal: 100},
	}}
	s.Finalize()

	if s.Duration != 100 {
		t.Errorf("Expected duration 100, got %d", s.Duration)
	}
	if !almostEqual(s.TotalDistance, 10) {
		t.Errorf("Expected distance 10, got %v", s.TotalDistance)
	}
	if !almostEqual(s.AvgSpeed, 0.1) {
		t.Errorf("Expected avg speed 0.1, got %v", s.AvgSpeed)
	}
}

func TestStroke_FinalizeSinglePoint(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{{X: 4, Y: 4, Pressure: 0.3}}}
	s.Finalize()

	if s.Duration != 0 || s.AvgSpeed != 0 || s.TotalDistance != 0 {
		t.Errorf("Expected zero metrics, got duration=%d speed=%v distance=%v", s.Duration, s.AvgSpeed, s.TotalDistance)
	}
	if !s.Finalized() {
		t.Error("Expected stroke to be finalized")
	}
}

func TestStroke_FinalizeZeroDelaySegment(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0},
		{X: 3, Y: 4, DT: 0, TTotal: 0},
	}}
	s.Finalize()

	if s.AvgSpeed != 0 {
		t.Errorf("Expected avg speed 0 without positive dt, got %v", s.AvgSpeed)
	}
	if !almostEqual(s.TotalDistance, 5) {
		t.Errorf("Expected distance 5, got %v", s.TotalDistance)
	}
}

func TestStroke_SpeedAverageSkipsZeroDelay(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0, DT: 10, TTotal: 10},  // 1 px/ms
		{X: 20, Y: 0, DT: 0, TTotal: 10},   // excluded
		{X: 20, Y: 30, DT: 10, TTotal: 20}, // 3 px/ms
	}}
	s.Finalize()

	if !almostEqual(s.AvgSpeed, 2) {
		t.Errorf("Expected avg speed 2, got %v", s.AvgSpeed)
	}
	if !almostEqual(s.TotalDistance, 50) {
		t.Errorf("Expected distance 50, got %v", s.TotalDistance)
	}
	if s.Duration != 20 {
		t.Errorf("Expected duration 20, got %d", s.Duration)
	}
}

func TestStroke_DuplicatePointsDoNotChangeDistance(t *testing.T) {
	plain := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0},
		{X: 6, Y: 8, DT: 10, TTotal: 10},
		{X: 6, Y: 10, DT: 10, TTotal: 20},
	}}
	withDuplicates := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0},
		{X: 0, Y: 0, DT: 0, TTotal: 0},
		{X: 6, Y: 8, DT: 10, TTotal: 10},
		{X: 6, Y: 8, DT: 0, TTotal: 10},
		{X: 6, Y: 10, DT: 10, TTotal: 20},
	}}
	plain.Finalize()
	withDuplicates.Finalize()

	if !almostEqual(plain.TotalDistance, withDuplicates.TotalDistance) {
		t.Errorf("Expected equal distances, got %v and %v", plain.TotalDistance, withDuplicates.TotalDistance)
	}
	if !almostEqual(plain.AvgSpeed, withDuplicates.AvgSpeed) {
		t.Errorf("Expected equal speeds, got %v and %v", plain.AvgSpeed, withDuplicates.AvgSpeed)
	}
}

func TestStroke_FinalizeIsIdempotent(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{
		{X: 0, Y: 0},
		{X: 10, Y: 0, DT: 100, TTotal: 100},
	}}
	s.Finalize()
	first := *s

	s.Points[1].X = 100
	s.Finalize()

	if s.Duration != first.Duration || s.AvgSpeed != first.AvgSpeed || s.TotalDistance != first.TotalDistance {
		t.Errorf("Expected second finalize to change nothing, got %+v", s)
	}
}

func TestStroke_AppendAfterFinalize(t *testing.T) {
	s := &Stroke{}
	if err := s.Append(pointer.Point{}); err != nil {
		t.Fatalf("Failed to append to an active stroke: %v", err)
	}
	s.Finalize()

	if err := s.Append(pointer.Point{}); !errors.Is(err, ErrFinalized) {
		t.Errorf("Expected ErrFinalized, got %v", err)
	}
	if len(s.Points) != 1 {
		t.Errorf("Expected 1 point, got %d", len(s.Points))
	}
}

func TestStroke_AvgPressure(t *testing.T) {
	s := &Stroke{Points: []pointer.Point{{Pressure: 0.2}, {Pressure: 0.4}, {Pressure: 0.9}}}
	if !almostEqual(s.AvgPressure(), 0.5) {
		t.Errorf("Expected avg pressure 0.5, got %v", s.AvgPressure())
	}
	if (&Stroke{}).AvgPressure() != 0 {
		t.Error("Expected avg pressure 0 for an empty stroke")
	}
}
