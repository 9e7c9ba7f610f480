package stroke

import (
	"io"
	"log/slog"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

// Renderer draws the point stream of the segmenter. It has no influence on
// the recorded metrics.
type Renderer interface {
	BeginStroke(p pointer.Point)
	LineTo(p pointer.Point)
	EndStroke()
}

// WithRenderer attaches a rendering collaborator to the segmenter.
func WithRenderer(r Renderer) func(sg *Segmenter) {
	return func(sg *Segmenter) {
		sg.renderer = r
	}
}

// WithLogger sets the logger for the segmenter
func WithLogger(logger *slog.Logger) func(sg *Segmenter) {
	return func(sg *Segmenter) {
		sg.logger = logger.With(slog.String("component", "segmenter"))
	}
}

// Segmenter groups pointer samples into strokes. It is Idle when it has no
// active stroke and Active while one is open; at most one stroke is active at
// any time. The active stroke is owned by the segmenter until it is returned
// finalized from Handle or Flush.
type Segmenter struct {
	sampler  *pointer.Sampler
	active   *Stroke
	renderer Renderer
	logger   *slog.Logger
}

func NewSegmenter(sampler *pointer.Sampler, options ...func(sg *Segmenter)) *Segmenter {
	sg := Segmenter{
		sampler: sampler,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&sg)
	}

	return &sg
}

// Active reports whether a stroke is currently open.
func (sg *Segmenter) Active() bool {
	return sg.active != nil
}

// Handle applies e to the state machine and returns the stroke it finalized,
// if any. Events that make no sense in the current state (a move or up while
// Idle, a second down while Active, a down from a non-primary button) are
// ignored.
func (sg *Segmenter) Handle(e pointer.Event) (*Stroke, bool) {
	switch e.Type {
	case pointer.EventDown:
		sg.begin(e)
		return nil, false

	case pointer.EventMove:
		sg.extend(e)
		return nil, false

	case pointer.EventUp, pointer.EventOut:
		return sg.Flush()

	default:
		sg.logger.Debug("ignoring unknown event", slog.String("type", e.Type.String()))
		return nil, false
	}
}

// Flush finalizes the active stroke and returns it. It is a no-op while Idle.
func (sg *Segmenter) Flush() (*Stroke, bool) {
	if sg.active == nil {
		return nil, false
	}

	s := sg.active
	sg.active = nil
	s.Finalize()

	if sg.renderer != nil {
		sg.renderer.EndStroke()
	}

	sg.logger.Debug("stroke finalized",
		slog.Int("points", len(s.Points)),
		slog.Int64("duration", s.Duration),
		slog.Float64("distance", s.TotalDistance))

	return s, true
}

func (sg *Segmenter) begin(e pointer.Event) {
	if sg.active != nil {
		sg.logger.Debug("ignoring down while a stroke is active")
		return
	}
	if !pointer.Accepts(e) {
		attrs := []any{slog.String("pointerType", e.PointerType)}
		if e.Button != nil {
			attrs = append(attrs, slog.Int("button", *e.Button))
		}
		sg.logger.Debug("ignoring down from non-primary pointer", attrs...)
		return
	}

	p := sg.sampler.Start(e)
	sg.active = &Stroke{Points: []pointer.Point{p}}

	if sg.renderer != nil {
		sg.renderer.BeginStroke(p)
	}
}

func (sg *Segmenter) extend(e pointer.Event) {
	if sg.active == nil {
		return
	}

	prev, _ := sg.active.Last()
	p := sg.sampler.Next(e, prev)
	if err := sg.active.Append(p); err != nil {
		sg.logger.Warn("dropping sample", slog.String("error", err.Error()))
		return
	}

	if sg.renderer != nil {
		sg.renderer.LineTo(p)
	}
}
