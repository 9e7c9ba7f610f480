package app

import (
	"log/slog"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

// logPresenter stands in for the drawing screen and reports every UI
// change to the log.
type logPresenter struct {
	logger *slog.Logger
}

func (p *logPresenter) TaskChanged(index int, prompt string) {
	p.logger.Info("task shown",
		slog.Int("task", index+1),
		slog.Int("of", session.TaskCount),
		slog.String("prompt", prompt))
}

func (p *logPresenter) SubmitReady() {
	p.logger.Info("submit enabled")
}

func (p *logPresenter) Submitted(rec *session.Record) {
	p.logger.Info("session submitted",
		slog.String("name", rec.Name),
		slog.Int("drawings", len(rec.Drawings)))
}
