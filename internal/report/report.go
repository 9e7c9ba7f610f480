// Package report renders a submitted session as a structured export and as a
// plain text report. All functions are pure.
package report

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

const separator = "----------------------------------------"

// Export encodes the session record as an indented JSON document.
func Export(rec *session.Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding session record: %w", err)
	}
	return data, nil
}

// Text renders the human readable report of a session record. Pressure
// ratios use three decimals, speeds two, with ties rounded up.
func Text(rec *session.Record) string {
	var b strings.Builder

	b.WriteString("--- USER DATA ---\n")
	fmt.Fprintf(&b, "Name: %s\n", rec.Name)
	fmt.Fprintf(&b, "Age: %s\n", rec.Age)
	fmt.Fprintf(&b, "Development Profile: %s\n\n", rec.Profile)
	b.WriteString("--- DRAWING DATA ---\n")

	for i, d := range rec.Drawings {
		data := d.StrokeData

		fmt.Fprintf(&b, "\nDrawing %d: %s\n", i+1, d.Task)
		fmt.Fprintf(&b, "Total Strokes: %d\n", len(data.Strokes))
		fmt.Fprintf(&b, "Total Points: %d\n", data.TotalPoints)
		fmt.Fprintf(&b, "Average Pressure: %s\n", fixed(data.AvgPressure, 3))
		b.WriteString(separator + "\n")

		for j, s := range data.Strokes {
			fmt.Fprintf(&b, "  Stroke %d:\n", j+1)
			fmt.Fprintf(&b, "    Duration: %d ms\n", s.Duration)
			fmt.Fprintf(&b, "    Avg Speed: %s px/ms\n", fixed(s.AvgSpeed, 2))
			fmt.Fprintf(&b, "    Points Recorded: %d\n", len(s.Points))
			fmt.Fprintf(&b, "    Stroke Avg Pressure: %s\n", fixed(s.AvgPressure(), 3))
		}
		b.WriteString("\n")
	}

	return b.String()
}
