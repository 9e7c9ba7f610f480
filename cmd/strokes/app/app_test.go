package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roman-kulish/pen-strokes/internal/eventlog"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/session"
)

// house and boy are drawn, the sun is left empty.
const script = `{"participant":{"name":"Ann","age":"7","profile":"typical"}}
{"type":"down","clientX":10,"clientY":10,"pressure":0.5,"pointerType":"pen","at":0}
{"type":"move","clientX":40,"clientY":50,"pressure":0.5,"pointerType":"pen","at":10}
{"type":"move","clientX":80,"clientY":50,"pressure":0.7,"pointerType":"pen","at":30}
{"type":"up","clientX":80,"clientY":50,"pointerType":"pen","at":35}
{"kind":"advance","at":1000}
{"kind":"advance","at":2000}
{"type":"down","clientX":20,"clientY":20,"pointerType":"mouse","button":0,"at":2100}
{"type":"move","clientX":20,"clientY":60,"pointerType":"mouse","at":2120}
{"type":"out","clientX":20,"clientY":60,"pointerType":"mouse","at":2130}
{"kind":"submit","at":3000}
{"type":"down","clientX":1,"clientY":1,"at":3100}
`

func newTestConfig(t *testing.T, content string) (*Config, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	input := filepath.Join(dir, "ann.jsonl")
	if err := os.WriteFile(input, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	var stdout bytes.Buffer
	c := NewConfig()
	c.Input = input
	c.OutputDir = filepath.Join(dir, "out")
	c.Canvas.Width = 200
	c.Canvas.Height = 100
	c.Stdout = &stdout
	return c, &stdout
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun(t *testing.T) {
	config, stdout := newTestConfig(t, script)
	config.PDF = true
	config.Pressure = true
	config.Sheet = true
	config.CaptureOut = filepath.Join(t.TempDir(), "ann.db")

	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Failed to run: %v", err)
	}

	text := stdout.String()
	for _, expected := range []string{
		"--- USER DATA ---\nName: Ann\nAge: 7\nDevelopment Profile: typical\n",
		"Drawing 1: Draw a House\n",
		"Drawing 2: Draw a Boy\n",
		"    Duration: 30 ms\n",
	} {
		if !strings.Contains(text, expected) {
			t.Errorf("Expected report to contain %q, got:\n%s", expected, text)
		}
	}
	if strings.Contains(text, "Draw a Sun") {
		t.Error("Expected the empty task to be left out of the report")
	}

	patterns := map[string]int{
		"Ann-typical-*-data.json":          1,
		"Ann-typical-*-Draw_a_House-1.png": 1,
		"Ann-typical-*-Draw_a_Boy-2.png":   1,
		"Ann-typical-*-strokes.pdf":        1,
		"Ann-typical-*-review.png":         1,
	}
	for pattern, expected := range patterns {
		matches, err := filepath.Glob(filepath.Join(config.OutputDir, pattern))
		if err != nil {
			t.Fatalf("Failed to glob %s: %v", pattern, err)
		}
		if len(matches) != expected {
			t.Errorf("Expected %d file(s) matching %s, got %v", expected, pattern, matches)
		}
	}

	capture, err := eventlog.Open(config.CaptureOut, "")
	if err != nil {
		t.Fatalf("Failed to open capture: %v", err)
	}
	defer capture.Close()

	var steps []eventlog.Step
	for capture.Next(context.Background()) {
		steps = append(steps, *capture.Current())
	}
	if err = capture.Error(); err != nil {
		t.Fatalf("Failed to read capture: %v", err)
	}
	if len(steps) != 11 {
		t.Fatalf("Expected 11 captured steps, got %d", len(steps))
	}
	if last := steps[10]; last.Kind != eventlog.KindEvent || last.Type != pointer.EventDown || last.AtMs != 3100 {
		t.Errorf("Expected the down after submit to be captured, got %+v", last)
	}
	if capture.Participant().Name != "Ann" {
		t.Errorf("Expected captured participant Ann, got %+v", capture.Participant())
	}
}

func TestRun_CaptureExists(t *testing.T) {
	config, _ := newTestConfig(t, script)
	config.CaptureOut = filepath.Join(t.TempDir(), "ann.db")

	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Failed to run: %v", err)
	}

	again, stdout := newTestConfig(t, script)
	again.CaptureOut = config.CaptureOut

	err := Run(context.Background(), again, discardLogger())
	if !errors.Is(err, eventlog.ErrCaptureExists) {
		t.Fatalf("Expected ErrCaptureExists, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no report, got:\n%s", stdout.String())
	}
	if _, err = os.Stat(again.OutputDir); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected nothing exported, got %v", err)
	}
}

func TestRun_ParticipantOverride(t *testing.T) {
	config, stdout := newTestConfig(t, script)
	config.Participant = ParticipantConfig{Name: "Bo", Profile: "delayed"}

	if err := Run(context.Background(), config, discardLogger()); err != nil {
		t.Fatalf("Failed to run: %v", err)
	}
	if !strings.Contains(stdout.String(), "Name: Bo\nAge: 7\nDevelopment Profile: delayed\n") {
		t.Errorf("Expected overridden participant, got:\n%s", stdout.String())
	}

	matches, _ := filepath.Glob(filepath.Join(config.OutputDir, "Bo-delayed-*-data.json"))
	if len(matches) != 1 {
		t.Errorf("Expected data document named after the override, got %v", matches)
	}
}

func TestRun_InvalidParticipant(t *testing.T) {
	config, _ := newTestConfig(t, script)
	config.Participant.Age = "3"

	err := Run(context.Background(), config, discardLogger())
	if !errors.Is(err, session.ErrInvalidAge) {
		t.Errorf("Expected ErrInvalidAge, got %v", err)
	}
}

func TestRun_NotSubmitted(t *testing.T) {
	lines := strings.Split(script, "\n")
	config, stdout := newTestConfig(t, strings.Join(lines[:6], "\n")+"\n")

	err := Run(context.Background(), config, discardLogger())
	if !errors.Is(err, ErrNotSubmitted) {
		t.Errorf("Expected ErrNotSubmitted, got %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("Expected no report, got:\n%s", stdout.String())
	}
}

func TestRun_MissingScript(t *testing.T) {
	config := NewConfig()
	config.Input = filepath.Join(t.TempDir(), "missing.jsonl")

	if err := Run(context.Background(), config, discardLogger()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected os.ErrNotExist, got %v", err)
	}
}
