package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

const maxLineSize = 1 << 20

type jsonlHeader struct {
	Participant *session.Participant `json:"participant"`
}

// JSONLReader reads a JSON Lines script: a participant header line followed
// by one step per line. Blank lines are skipped.
type JSONLReader struct {
	file        *os.File
	scanner     *bufio.Scanner
	line        int
	participant session.Participant
	current     *Step
	err         error
}

func openJSONL(path string) (*JSONLReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	r := &JSONLReader{file: f, scanner: scanner}
	if err = r.readHeader(); err != nil {
		_ = f.Close()
		return nil, err
	}
	return r, nil
}

func (r *JSONLReader) readHeader() error {
	line, ok := r.nextLine()
	if !ok {
		if err := r.scanner.Err(); err != nil {
			return fmt.Errorf("reading header: %w", err)
		}
		return ErrNoData
	}

	var header jsonlHeader
	if err := json.Unmarshal(line, &header); err != nil {
		return NewFormatError("line %d: decoding header: %v", r.line, err)
	}
	if header.Participant == nil {
		return NewFormatError("line %d: %v", r.line, ErrNoData)
	}

	r.participant = *header.Participant
	return nil
}

func (r *JSONLReader) nextLine() ([]byte, bool) {
	for r.scanner.Scan() {
		r.line++
		if line := bytes.TrimSpace(r.scanner.Bytes()); len(line) > 0 {
			return line, true
		}
	}
	return nil, false
}

func (r *JSONLReader) Participant() session.Participant {
	return r.participant
}

func (r *JSONLReader) Next(ctx context.Context) bool {
	if r.err != nil || r.file == nil {
		return false
	}
	if r.err = ctx.Err(); r.err != nil {
		return false
	}

	line, ok := r.nextLine()
	if !ok {
		r.err = r.scanner.Err()
		r.current = nil
		return false
	}

	var step Step
	if err := json.Unmarshal(line, &step); err != nil {
		r.err = NewFormatError("line %d: %v", r.line, err)
		return false
	}
	if err := step.validate(); err != nil {
		r.err = NewFormatError("line %d: %v", r.line, err)
		return false
	}

	r.current = &step
	return true
}

func (r *JSONLReader) Current() *Step {
	return r.current
}

func (r *JSONLReader) Error() error {
	return r.err
}

func (r *JSONLReader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	r.current = nil
	return err
}
