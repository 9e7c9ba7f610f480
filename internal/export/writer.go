// Package export writes a submitted session to a local directory: the
// structured data document, one PNG per drawing and optional PDF and review
// sheet renditions.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/pen-strokes/internal/render"
	"github.com/roman-kulish/pen-strokes/internal/report"
	"github.com/roman-kulish/pen-strokes/internal/session"
)

// WithPDF enables the vector PDF of all strokes.
func WithPDF() func(w *Writer) {
	return func(w *Writer) {
		w.pdf = true
	}
}

// WithPressureColors tints PDF strokes by pressure.
func WithPressureColors() func(w *Writer) {
	return func(w *Writer) {
		w.pressureColors = true
	}
}

// WithSheet enables the review sheet, rendered by s.
func WithSheet(s *render.Sheet) func(w *Writer) {
	return func(w *Writer) {
		w.sheet = s
	}
}

// WithLogger sets the logger for the writer
func WithLogger(logger *slog.Logger) func(w *Writer) {
	return func(w *Writer) {
		w.logger = logger.With(slog.String("component", "export"))
	}
}

// Writer exports session records into a directory.
type Writer struct {
	dir            string
	pdf            bool
	pressureColors bool
	sheet          *render.Sheet
	logger         *slog.Logger
}

func NewWriter(dir string, options ...func(w *Writer)) *Writer {
	w := Writer{
		dir:    dir,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&w)
	}

	return &w
}

// Write exports rec with file names stamped with at and returns the paths of
// the written files.
func (w *Writer) Write(ctx context.Context, rec *session.Record, at time.Time) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory '%s': %w", w.dir, err)
	}

	names := report.NamesFor(rec, at)

	steps := []struct {
		msg     string
		enabled bool
		fn      func(*session.Record, report.Names) ([]string, error)
	}{
		{msg: "writing data document", enabled: true, fn: w.writeData},
		{msg: "writing drawing images", enabled: true, fn: w.writeImages},
		{msg: "writing stroke pdf", enabled: w.pdf, fn: w.writePDF},
		{msg: "writing review sheet", enabled: w.sheet != nil, fn: w.writeSheet},
	}

	var written []string
	for _, s := range steps {
		if !s.enabled {
			continue
		}
		if err := ctx.Err(); err != nil {
			return written, err
		}

		files, err := s.fn(rec, names)
		written = append(written, files...)
		if err != nil {
			return written, fmt.Errorf("%s: %w", s.msg, err)
		}
	}

	return written, nil
}

func (w *Writer) writeData(rec *session.Record, names report.Names) ([]string, error) {
	data, err := report.Export(rec)
	if err != nil {
		return nil, err
	}

	path, err := w.writeFile(names.Data(), data)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (w *Writer) writeImages(rec *session.Record, names report.Names) ([]string, error) {
	var written []string
	for i, d := range rec.Drawings {
		if d.PNG == "" {
			w.logger.Debug("drawing has no raster", slog.String("task", d.Task))
			continue
		}

		data, err := render.DecodeDataURI(d.PNG)
		if err != nil {
			return written, fmt.Errorf("drawing %d (%s): %w", i+1, d.Task, err)
		}

		path, err := w.writeFile(names.Image(d.Task, i), data)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (w *Writer) writeSheet(rec *session.Record, names report.Names) ([]string, error) {
	var entries []render.SheetEntry
	for i, d := range rec.Drawings {
		if d.PNG == "" {
			continue
		}

		img, err := render.DecodeImage(d.PNG)
		if err != nil {
			return nil, fmt.Errorf("drawing %d (%s): %w", i+1, d.Task, err)
		}
		entries = append(entries, render.SheetEntry{Image: img, Caption: render.Caption(i, d)})
	}
	if len(entries) == 0 {
		w.logger.Info("no rasters to put on the review sheet")
		return nil, nil
	}

	img, err := w.sheet.Render(entries)
	if err != nil {
		return nil, err
	}

	data, err := encodePNG(img)
	if err != nil {
		return nil, err
	}

	path, err := w.writeFile(names.Sheet(), data)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (w *Writer) writeFile(name string, data []byte) (string, error) {
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing '%s': %w", path, err)
	}

	w.logger.Info("file written",
		slog.String("path", path),
		slog.String("size", humanize.Bytes(uint64(len(data)))))

	return path, nil
}
