package eventlog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

const (
	FormatJSONL  Format = "jsonl"
	FormatYAML   Format = "yaml"
	FormatSQLite Format = "sqlite"
)

// ErrNoData indicates that a script holds no participant header.
var ErrNoData = errors.New("no session data")

// ErrCaptureExists is returned when a capture would overwrite a file.
var ErrCaptureExists = errors.New("capture file already exists")

// Format names the encoding of a session script.
type Format string

// FormatError reports a malformed session script.
type FormatError struct {
	msg string
}

func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{fmt.Sprintf(format, args...)}
}

func (e *FormatError) Error() string {
	return e.msg
}

// Reader iterates over the steps of a session script.
type Reader interface {
	// Participant returns the participant header of the script.
	Participant() session.Participant

	// Next advances to the next step and returns false when the script is
	// exhausted or an error occurred.
	Next(context.Context) bool

	// Current returns the step Next advanced to.
	Current() *Step

	// Error returns the error that stopped the iteration, if any.
	Error() error

	// Close releases the underlying file or database.
	Close() error
}

// DetectFormat guesses the format of a script from its file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", NewFormatError("cannot detect script format of '%s'", path)
	}
}

// Open opens the script at path. An empty format is detected from the file
// extension.
func Open(path string, format Format) (Reader, error) {
	if format == "" {
		var err error
		if format, err = DetectFormat(path); err != nil {
			return nil, err
		}
	}

	switch format {
	case FormatJSONL:
		return openJSONL(path)
	case FormatYAML:
		return openYAML(path)
	case FormatSQLite:
		return openSQLite(context.Background(), path)
	default:
		return nil, NewFormatError("unsupported script format '%s'", format)
	}
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}
