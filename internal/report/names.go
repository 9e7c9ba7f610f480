package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/roman-kulish/pen-strokes/internal/session"
)

// isoMillis is ISO 8601 in UTC with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Names builds the file names of an export made at a given time.
type Names struct {
	Name    string
	Profile session.Profile
	At      time.Time
}

// NamesFor returns the export names of rec at time at.
func NamesFor(rec *session.Record, at time.Time) Names {
	return Names{Name: rec.Name, Profile: rec.Profile, At: at}
}

// Base is "{name}-{profile}-{timestamp}" with ':' and '.' of the timestamp
// replaced by '-'.
func (n Names) Base() string {
	ts := strings.NewReplacer(":", "-", ".", "-").Replace(n.At.UTC().Format(isoMillis))
	return fmt.Sprintf("%s-%s-%s", n.Name, n.Profile, ts)
}

// Data is the name of the structured export file.
func (n Names) Data() string {
	return n.Base() + "-data.json"
}

// Image is the name of the raster file of the drawing at index.
func (n Names) Image(task string, index int) string {
	return fmt.Sprintf("%s-%s-%d.png", n.Base(), strings.ReplaceAll(task, " ", "_"), index+1)
}

// PDF is the name of the vector stroke export.
func (n Names) PDF() string {
	return n.Base() + "-strokes.pdf"
}

// Sheet is the name of the review contact sheet.
func (n Names) Sheet() string {
	return n.Base() + "-review.png"
}
