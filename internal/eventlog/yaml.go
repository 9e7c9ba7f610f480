package eventlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

type yamlScript struct {
	Participant *session.Participant `yaml:"participant"`
	Steps       []Step               `yaml:"steps"`
}

// YAMLReader reads a YAML script document with a participant mapping and a
// steps sequence. The document is decoded in full when opened.
type YAMLReader struct {
	script yamlScript
	pos    int
	err    error
}

func openYAML(path string) (r *YAMLReader, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer closeWithError(f, &err)

	var script yamlScript
	if err = yaml.NewDecoder(f).Decode(&script); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, NewFormatError("decoding script: %v", err)
	}
	if script.Participant == nil {
		return nil, ErrNoData
	}
	for i, s := range script.Steps {
		if err = s.validate(); err != nil {
			return nil, NewFormatError("step %d: %v", i+1, err)
		}
	}

	return &YAMLReader{script: script}, nil
}

func (r *YAMLReader) Participant() session.Participant {
	return *r.script.Participant
}

func (r *YAMLReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if r.err = ctx.Err(); r.err != nil {
		return false
	}
	if r.pos >= len(r.script.Steps) {
		return false
	}
	r.pos++
	return true
}

func (r *YAMLReader) Current() *Step {
	if r.pos == 0 || r.pos > len(r.script.Steps) {
		return nil
	}
	return &r.script.Steps[r.pos-1]
}

func (r *YAMLReader) Error() error {
	return r.err
}

func (r *YAMLReader) Close() error {
	r.script.Steps = nil
	r.pos = 0
	return nil
}
