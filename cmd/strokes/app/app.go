package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gogpu/gg"

	"github.com/roman-kulish/pen-strokes/internal/drawing"
	"github.com/roman-kulish/pen-strokes/internal/eventlog"
	"github.com/roman-kulish/pen-strokes/internal/export"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/render"
	"github.com/roman-kulish/pen-strokes/internal/report"
	"github.com/roman-kulish/pen-strokes/internal/session"
	"github.com/roman-kulish/pen-strokes/internal/stroke"
)

// ErrNotSubmitted is returned when a script ends before the session was
// submitted.
var ErrNotSubmitted = errors.New("script ended before the session was submitted")

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.Input); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("script file '%s' does not exist: %w", config.Input, err)
	}

	if config.CaptureOut != "" {
		if err := eventlog.CheckCaptureTarget(config.CaptureOut); err != nil {
			return fmt.Errorf("storing capture: %w", err)
		}
	}

	script, err := eventlog.Open(config.Input, config.InputFormat)
	if err != nil {
		return fmt.Errorf("opening script: %w", err)
	}
	defer script.Close()

	participant, err := config.participant(script.Participant())
	if err != nil {
		return err
	}

	gg.SetLogger(logger)

	canvas := render.NewCanvas(int(config.Canvas.Width), int(config.Canvas.Height))
	defer canvas.Close()

	segmenter := stroke.NewSegmenter(
		pointer.NewSampler(config.Canvas),
		stroke.WithRenderer(canvas),
		stroke.WithLogger(logger))

	aggregator := drawing.NewAggregator(segmenter,
		drawing.WithCanvas(canvas),
		drawing.WithLogger(logger))

	sess, err := session.New(participant, aggregator,
		session.WithPresenter(&logPresenter{logger: logger}),
		session.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("starting session: %w", err)
	}

	steps, err := replay(ctx, script, sess, logger)
	if err != nil {
		return err
	}

	rec, ok := sess.Record()
	if !ok {
		return ErrNotSubmitted
	}

	if _, err = fmt.Fprint(config.Stdout, report.Text(rec)); err != nil {
		return fmt.Errorf("printing report: %w", err)
	}

	if err = writeExport(ctx, config, rec, logger); err != nil {
		return err
	}

	if config.CaptureOut != "" {
		if err = eventlog.WriteSQLite(ctx, config.CaptureOut, participant, steps); err != nil {
			return fmt.Errorf("storing capture: %w", err)
		}
		logger.Info("capture stored", slog.String("path", config.CaptureOut), slog.Int("steps", len(steps)))
	}

	return nil
}

// replay feeds every step of the script into the session and returns the
// steps it read.
func replay(ctx context.Context, script eventlog.Reader, sess *session.Session, logger *slog.Logger) ([]eventlog.Step, error) {
	origin := time.Now()

	var steps []eventlog.Step
	for script.Next(ctx) {
		step := *script.Current()
		steps = append(steps, step)

		if sess.Locked() {
			logger.Warn("step after submit ignored", slog.String("kind", step.Kind.String()), slog.Int64("at", step.AtMs))
			continue
		}

		switch step.Kind {
		case eventlog.KindEvent:
			sess.Handle(step.PointerEvent(origin))

		case eventlog.KindAdvance:
			if _, err := sess.Advance(); err != nil {
				return steps, fmt.Errorf("advancing task at %dms: %w", step.AtMs, err)
			}

		case eventlog.KindSubmit:
			if _, err := sess.Submit(); err != nil {
				return steps, fmt.Errorf("submitting session at %dms: %w", step.AtMs, err)
			}
		}
	}
	if err := script.Error(); err != nil {
		return steps, fmt.Errorf("reading script: %w", err)
	}

	return steps, nil
}

func writeExport(ctx context.Context, config *Config, rec *session.Record, logger *slog.Logger) error {
	options := []func(w *export.Writer){export.WithLogger(logger)}
	if config.PDF {
		options = append(options, export.WithPDF())
	}
	if config.Pressure {
		options = append(options, export.WithPressureColors())
	}
	if config.Sheet {
		sheet, err := render.NewSheet(render.SheetConfig{})
		if err != nil {
			return fmt.Errorf("creating review sheet: %w", err)
		}
		options = append(options, export.WithSheet(sheet))
	}

	files, err := export.NewWriter(config.OutputDir, options...).Write(ctx, rec, time.Now())
	if err != nil {
		return fmt.Errorf("exporting session: %w", err)
	}

	logger.Info("session exported", slog.String("dir", config.OutputDir), slog.Int("files", len(files)))
	return nil
}

// participant merges the configured overrides over the script header.
func (c *Config) participant(header session.Participant) (session.Participant, error) {
	name, age, profile := header.Name, header.Age, header.Profile
	if c.Participant.Name != "" {
		name = c.Participant.Name
	}
	if c.Participant.Age != "" {
		age = c.Participant.Age
	}
	if c.Participant.Profile != "" {
		profile = session.Profile(c.Participant.Profile)
	}

	p, err := session.NewParticipant(name, age, profile)
	if err != nil {
		return session.Participant{}, fmt.Errorf("invalid participant: %w", err)
	}
	return p, nil
}
