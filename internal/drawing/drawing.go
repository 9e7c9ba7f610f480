// Package drawing collects the strokes of a single drawing task and turns
// them into an immutable drawing record.
package drawing

import (
	"fmt"

	"github.com/roman-kulish/pen-strokes/internal/stroke"
)

// StrokeData holds the strokes of a drawing together with their aggregates.
type StrokeData struct {
	Strokes     []*stroke.Stroke `json:"strokes"`
	PenLifts    int              `json:"penLifts"`
	TotalPoints int              `json:"totalPoints"`
	AvgPressure float64          `json:"avgPressure"` // mean over every point of the drawing
}

// Record is the saved result of one task. It is not modified after creation.
type Record struct {
	Task       string     `json:"task"`
	StrokeData StrokeData `json:"strokeData"`
	PNG        string     `json:"png"` // data URI of the raster snapshot
}

// Summarize aggregates finalized strokes. penLifts is the number of stroke
// endings observed for the drawing.
func Summarize(strokes []*stroke.Stroke, penLifts int) StrokeData {
	var totalPoints int
	var pressureSum float64
	for _, s := range strokes {
		totalPoints += len(s.Points)
		pressureSum += stroke.PressureSum(s.Points)
	}

	var avgPressure float64
	if totalPoints > 0 {
		avgPressure = pressureSum / float64(totalPoints)
	}

	return StrokeData{
		Strokes:     strokes,
		PenLifts:    penLifts,
		TotalPoints: totalPoints,
		AvgPressure: avgPressure,
	}
}

// Validate checks the counting invariants of the stroke data.
func (d *StrokeData) Validate() error {
	if d.PenLifts != len(d.Strokes) {
		return fmt.Errorf("pen lifts %d do not match %d strokes", d.PenLifts, len(d.Strokes))
	}

	var points int
	for i, s := range d.Strokes {
		points += len(s.Points)
		for j := 1; j < len(s.Points); j++ {
			if s.Points[j].TTotal < s.Points[j-1].TTotal {
				return fmt.Errorf("stroke %d: tTotal decreases at point %d", i, j)
			}
		}
	}
	if points != d.TotalPoints {
		return fmt.Errorf("total points %d do not match %d recorded points", d.TotalPoints, points)
	}

	return nil
}
