// Package session drives a participant through the fixed sequence of drawing
// tasks and collects one drawing record per completed task.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/roman-kulish/pen-strokes/internal/drawing"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

// TaskCount is the number of drawing tasks in every session.
const TaskCount = 3

// Prompts are the drawing instructions, in task order.
var Prompts = [TaskCount]string{
	"Draw a House",
	"Draw a Sun",
	"Draw a Boy",
}

// Presenter is the UI side of a session. It is told when the prompt changes,
// when the advance affordance should be swapped for submit, and when the
// session is complete.
type Presenter interface {
	TaskChanged(index int, prompt string)
	SubmitReady()
	Submitted(rec *Record)
}

type nopPresenter struct{}

func (nopPresenter) TaskChanged(int, string) {}
func (nopPresenter) SubmitReady()            {}
func (nopPresenter) Submitted(*Record)       {}

// Record is the exportable result of a session.
type Record struct {
	Name     string           `json:"name"`
	Age      string           `json:"age"`
	Profile  Profile          `json:"profile"`
	Drawings []drawing.Record `json:"drawings"`
}

// WithPresenter sets the UI collaborator of the session.
func WithPresenter(p Presenter) func(s *Session) {
	return func(s *Session) {
		s.presenter = p
	}
}

// WithLogger sets the logger for the session
func WithLogger(logger *slog.Logger) func(s *Session) {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session holds all state of one participant's run: metadata, task index,
// lock flag and the drawing in progress. It is driven from a single event
// dispatcher and is not safe for concurrent use.
type Session struct {
	id          string
	participant Participant
	drawing     *drawing.Aggregator
	presenter   Presenter

	task     int
	locked   bool
	drawings []drawing.Record

	logger *slog.Logger
}

// New starts a session at the first task. It fails with ErrNameRequired when
// the participant has no name or a blank one.
func New(participant Participant, aggregator *drawing.Aggregator, options ...func(s *Session)) (*Session, error) {
	if strings.TrimSpace(participant.Name) == "" {
		return nil, ErrNameRequired
	}

	s := Session{
		id:          uuid.NewString(),
		participant: participant,
		drawing:     aggregator,
		presenter:   nopPresenter{},
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	s.logger = s.logger.With(slog.String("session", s.id))
	s.logger.Info("session started",
		slog.Group("participant",
			slog.String("name", participant.Name),
			slog.String("age", participant.Age),
			slog.String("profile", participant.Profile.String())))

	s.presenter.TaskChanged(s.task, Prompts[s.task])
	return &s, nil
}

// ID is a random identifier used to correlate log lines of one session.
func (s *Session) ID() string {
	return s.id
}

func (s *Session) Participant() Participant {
	return s.participant
}

// Task returns the current task index and its prompt.
func (s *Session) Task() (int, string) {
	return s.task, Prompts[s.task]
}

// Locked reports whether the session has been submitted.
func (s *Session) Locked() bool {
	return s.locked
}

// Handle feeds a pointer event to the drawing in progress. Events are dropped
// once the session is locked.
func (s *Session) Handle(e pointer.Event) {
	if s.locked {
		return
	}
	s.drawing.Handle(e)
}

// Advance saves the current drawing and moves on to the next task. It does
// nothing once the session is locked or on the final task, where only Submit
// is offered.
func (s *Session) Advance() (bool, error) {
	if s.locked || s.task >= TaskCount-1 {
		s.logger.Debug("advance ignored", slog.Int("task", s.task), slog.Bool("locked", s.locked))
		return false, nil
	}

	if err := s.save(); err != nil {
		return false, err
	}

	s.task++
	s.logger.Info("task changed", slog.Int("task", s.task), slog.String("prompt", Prompts[s.task]))

	if s.task == TaskCount-1 {
		s.presenter.SubmitReady()
	}
	s.presenter.TaskChanged(s.task, Prompts[s.task])

	return true, nil
}

// Submit saves the final drawing and locks the session. It does nothing when
// the session is already locked or the final task hasn't been reached.
func (s *Session) Submit() (bool, error) {
	if s.locked || s.task != TaskCount-1 {
		s.logger.Debug("submit ignored", slog.Int("task", s.task), slog.Bool("locked", s.locked))
		return false, nil
	}

	if err := s.save(); err != nil {
		return false, err
	}

	s.locked = true
	s.logger.Info("session submitted", slog.Int("drawings", len(s.drawings)))

	rec, _ := s.Record()
	s.presenter.Submitted(rec)

	return true, nil
}

// Record returns the session record once the session has been submitted.
func (s *Session) Record() (*Record, bool) {
	if !s.locked {
		return nil, false
	}

	drawings := make([]drawing.Record, len(s.drawings))
	copy(drawings, s.drawings)

	return &Record{
		Name:     s.participant.Name,
		Age:      s.participant.Age,
		Profile:  s.participant.Profile,
		Drawings: drawings,
	}, true
}

func (s *Session) save() error {
	prompt := Prompts[s.task]

	// a record may come back together with a canvas reset error
	rec, err := s.drawing.Save(prompt)
	if rec != nil {
		s.drawings = append(s.drawings, *rec)
	}
	if err != nil {
		return fmt.Errorf("saving task %d: %w", s.task+1, err)
	}

	return nil
}
