package drawing

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/stroke"
)

// Canvas is the raster the strokes are drawn on.
type Canvas interface {
	// Snapshot returns the current raster as a PNG data URI.
	Snapshot() (string, error)

	// Reset clears the raster for the next task.
	Reset() error
}

// WithCanvas sets the raster that is snapshotted and reset on save.
func WithCanvas(c Canvas) func(a *Aggregator) {
	return func(a *Aggregator) {
		a.canvas = c
	}
}

// WithLogger sets the logger for the aggregator
func WithLogger(logger *slog.Logger) func(a *Aggregator) {
	return func(a *Aggregator) {
		a.logger = logger.With(slog.String("component", "drawing"))
	}
}

// Aggregator owns the finalized strokes of the drawing in progress.
type Aggregator struct {
	segmenter *stroke.Segmenter
	canvas    Canvas
	strokes   []*stroke.Stroke
	penLifts  int
	logger    *slog.Logger
}

func NewAggregator(segmenter *stroke.Segmenter, options ...func(a *Aggregator)) *Aggregator {
	a := Aggregator{
		segmenter: segmenter,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&a)
	}

	return &a
}

// Handle forwards e to the segmenter and keeps the stroke it finalizes.
func (a *Aggregator) Handle(e pointer.Event) {
	if s, ended := a.segmenter.Handle(e); ended {
		a.collect(s)
	}
}

// Strokes returns the strokes finalized so far for the current drawing.
func (a *Aggregator) Strokes() []*stroke.Stroke {
	strokes := make([]*stroke.Stroke, len(a.strokes))
	copy(strokes, a.strokes)
	return strokes
}

// Save finalizes any active stroke and builds the record for task. A drawing
// without strokes produces no record and no error. Either way the strokes are
// dropped and the canvas is reset afterwards.
func (a *Aggregator) Save(task string) (*Record, error) {
	if s, ended := a.segmenter.Flush(); ended {
		a.collect(s)
	}

	var record *Record
	if len(a.strokes) > 0 {
		data := Summarize(a.strokes, a.penLifts)
		if err := data.Validate(); err != nil {
			return nil, fmt.Errorf("validating %q: %w", task, err)
		}

		var png string
		if a.canvas != nil {
			var err error
			if png, err = a.canvas.Snapshot(); err != nil {
				return nil, fmt.Errorf("taking snapshot of %q: %w", task, err)
			}
		}

		record = &Record{Task: task, StrokeData: data, PNG: png}

		a.logger.Info("drawing saved",
			slog.String("task", task),
			slog.Int("strokes", len(data.Strokes)),
			slog.Int("points", data.TotalPoints),
			slog.String("avgPressure", fmt.Sprintf("%0.3f", data.AvgPressure)))
	} else {
		a.logger.Debug("skipping drawing without strokes", slog.String("task", task))
	}

	a.strokes = nil
	a.penLifts = 0
	if a.canvas != nil {
		if err := a.canvas.Reset(); err != nil {
			return record, fmt.Errorf("resetting canvas: %w", err)
		}
	}

	return record, nil
}

func (a *Aggregator) collect(s *stroke.Stroke) {
	a.strokes = append(a.strokes, s)
	a.penLifts++
}
