package render

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/roman-kulish/pen-strokes/internal/drawing"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/stroke"
)

func luminance(img image.Image, x, y int) uint8 {
	return color.GrayModel.Convert(img.At(x, y)).(color.Gray).Y
}

func drawLine(c *Canvas) {
	c.BeginStroke(pointer.Point{X: 20, Y: 50, Pressure: 0.5})
	c.LineTo(pointer.Point{X: 60, Y: 50, Pressure: 0.5})
	c.LineTo(pointer.Point{X: 100, Y: 50, Pressure: 0.5})
	c.EndStroke()
}

func TestCanvas_SnapshotAndReset(t *testing.T) {
	c := NewCanvas(200, 100)
	defer c.Close()

	drawLine(c)

	uri, err := c.Snapshot()
	if err != nil {
		t.Fatalf("Failed to take snapshot: %v", err)
	}
	if !strings.HasPrefix(uri, "data:image/png;base64,") {
		t.Fatalf("Expected a png data uri, got %.40q", uri)
	}

	img, err := DecodeImage(uri)
	if err != nil {
		t.Fatalf("Failed to decode snapshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Errorf("Expected 200x100 image, got %dx%d", b.Dx(), b.Dy())
	}
	if l := luminance(img, 60, 50); l > 64 {
		t.Errorf("Expected ink on the stroke, got luminance %d", l)
	}
	if l := luminance(img, 150, 10); l < 250 {
		t.Errorf("Expected white background away from the stroke, got luminance %d", l)
	}

	if err = c.Reset(); err != nil {
		t.Fatalf("Failed to reset canvas: %v", err)
	}
	if l := luminance(c.Image(), 60, 50); l < 250 {
		t.Errorf("Expected a blank canvas after reset, got luminance %d", l)
	}
}

func TestCanvas_IgnoresLineWithoutBegin(t *testing.T) {
	c := NewCanvas(100, 100)
	defer c.Close()

	c.LineTo(pointer.Point{X: 50, Y: 50, Pressure: 1})
	if l := luminance(c.Image(), 50, 50); l < 250 {
		t.Errorf("Expected nothing to be drawn, got luminance %d", l)
	}
}

func TestCanvas_Closed(t *testing.T) {
	c := NewCanvas(10, 10)
	if err := c.Close(); err != nil {
		t.Fatalf("Failed to close canvas: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Expected second close to succeed, got %v", err)
	}
	if _, err := c.Snapshot(); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestCanvas_DefaultSize(t *testing.T) {
	c := NewCanvas(0, -1)
	defer c.Close()

	if c.Width() != DefaultWidth || c.Height() != DefaultHeight {
		t.Errorf("Expected %dx%d, got %dx%d", DefaultWidth, DefaultHeight, c.Width(), c.Height())
	}
}

func TestDecodeDataURI(t *testing.T) {
	data := []byte{0x89, 'P', 'N', 'G'}
	got, err := DecodeDataURI(EncodeDataURI(data))
	if err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Expected %v, got %v", data, got)
	}

	if _, err = DecodeDataURI("data:image/jpeg;base64,AAAA"); !errors.Is(err, ErrNotPNGDataURI) {
		t.Errorf("Expected ErrNotPNGDataURI, got %v", err)
	}
	if _, err = DecodeDataURI("data:image/png;base64,!!"); err == nil {
		t.Error("Expected an error for a broken payload")
	}
}

func TestSheet_Render(t *testing.T) {
	sheet, err := NewSheet(SheetConfig{ThumbWidth: 100, Columns: 2, Margin: 10})
	if err != nil {
		t.Fatalf("Failed to create sheet: %v", err)
	}

	c := NewCanvas(200, 100)
	defer c.Close()
	drawLine(c)

	s := &stroke.Stroke{Points: []pointer.Point{{X: 1, Y: 1, Pressure: 0.5}}}
	s.Finalize()
	rec := drawing.Record{Task: "Draw a Sun", StrokeData: drawing.Summarize([]*stroke.Stroke{s}, 1)}

	entries := []SheetEntry{
		{Image: c.Image(), Caption: Caption(0, rec)},
		{Image: c.Image(), Caption: Caption(1, rec)},
		{Image: c.Image(), Caption: Caption(2, rec)},
	}
	img, err := sheet.Render(entries)
	if err != nil {
		t.Fatalf("Failed to render sheet: %v", err)
	}

	// two columns of 100px thumbnails, two rows
	if got := img.Bounds().Dx(); got != 2*(100+10)+10 {
		t.Errorf("Unexpected sheet width %d", got)
	}
	if img.Bounds().Dy() <= 2*50 {
		t.Errorf("Expected room for two rows with captions, got height %d", img.Bounds().Dy())
	}

	if _, err = sheet.Render(nil); !errors.Is(err, ErrNoEntries) {
		t.Errorf("Expected ErrNoEntries, got %v", err)
	}
}

func TestCaption(t *testing.T) {
	rec := drawing.Record{Task: "Draw a Boy", StrokeData: drawing.StrokeData{TotalPoints: 12345, AvgPressure: 0.25}}
	got := Caption(2, rec)

	if got[0] != "3. Draw a Boy" {
		t.Errorf("Unexpected first caption line %q", got[0])
	}
	if got[1] != "0 strokes, 12,345 points, pressure 0.250" {
		t.Errorf("Unexpected second caption line %q", got[1])
	}
}

func TestPressureColor(t *testing.T) {
	lr, _, lb := RGB255(PressureColor(0))
	if lb <= lr {
		t.Errorf("Expected light pressure to be blue, got r=%d b=%d", lr, lb)
	}

	fr, _, fb := RGB255(PressureColor(1))
	if fr <= fb {
		t.Errorf("Expected full pressure to be red, got r=%d b=%d", fr, fb)
	}

	if !sameRGB(PressureColor(-3), PressureColor(0)) {
		t.Error("Expected negative pressure to clamp to zero")
	}
}

func sameRGB(a, b color.Color) bool {
	ar, ag, ab := RGB255(a)
	br, bg, bb := RGB255(b)
	return ar == br && ag == bg && ab == bb
}
