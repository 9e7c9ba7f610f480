package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/pen-strokes/internal/drawing"
)

const (
	sheetDPI     = 72.0
	sheetSpacing = 1.4

	defaultThumbWidth = 320
	defaultColumns    = 3
	defaultFontSize   = 14.0
	defaultMargin     = 16
)

// ErrNoEntries is returned when rendering a sheet with nothing on it.
var ErrNoEntries = errors.New("no entries to render")

// SheetConfig holds the layout options of a review sheet.
type SheetConfig struct {
	ThumbWidth int     // width of every thumbnail in pixels
	Columns    int     // thumbnails per row
	FontSize   float64 // caption font size in points
	Margin     int     // space around thumbnails and captions
}

// SheetEntry is one thumbnail of the sheet with its caption lines.
type SheetEntry struct {
	Image   image.Image
	Caption []string
}

// Sheet lays out drawings side by side with captions underneath, for a quick
// visual review of a session.
type Sheet struct {
	context *freetype.Context
	config  SheetConfig
}

func NewSheet(config SheetConfig) (*Sheet, error) {
	if config.ThumbWidth <= 0 {
		config.ThumbWidth = defaultThumbWidth
	}
	if config.Columns <= 0 {
		config.Columns = defaultColumns
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}
	if config.Margin == 0 {
		config.Margin = defaultMargin
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	context := freetype.NewContext()
	context.SetDPI(sheetDPI)
	context.SetFont(parsedFont)
	context.SetFontSize(config.FontSize)
	context.SetSrc(image.Black)
	context.SetHinting(font.HintingFull)

	return &Sheet{context: context, config: config}, nil
}

// Caption describes a drawing record in two lines: its position and task,
// then its stroke and point counts.
func Caption(index int, rec drawing.Record) []string {
	return []string{
		fmt.Sprintf("%d. %s", index+1, rec.Task),
		fmt.Sprintf("%s strokes, %s points, pressure %0.3f",
			humanize.Comma(int64(len(rec.StrokeData.Strokes))),
			humanize.Comma(int64(rec.StrokeData.TotalPoints)),
			rec.StrokeData.AvgPressure),
	}
}

// Render draws all entries onto a white image.
func (s *Sheet) Render(entries []SheetEntry) (*image.RGBA, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	thumbW := s.config.ThumbWidth
	thumbH := thumbW * 3 / 4
	if b := entries[0].Image.Bounds(); b.Dx() > 0 {
		thumbH = thumbW * b.Dy() / b.Dx()
	}

	lineHeight := int(s.config.FontSize * sheetSpacing)
	lines := 0
	for _, e := range entries {
		lines = max(lines, len(e.Caption))
	}

	margin := s.config.Margin
	columns := min(s.config.Columns, len(entries))
	rows := (len(entries) + columns - 1) / columns

	cellW := thumbW + margin
	cellH := thumbH + lines*lineHeight + 2*margin

	img := image.NewRGBA(image.Rect(0, 0, columns*cellW+margin, rows*cellH+margin))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	s.context.SetClip(img.Bounds())
	s.context.SetDst(img)

	for i, e := range entries {
		x := margin + (i%columns)*cellW
		y := margin + (i/columns)*cellH

		thumb := image.Rect(x, y, x+thumbW, y+thumbH)
		draw.CatmullRom.Scale(img, thumb, e.Image, e.Image.Bounds(), draw.Over, nil)
		s.frame(img, thumb)

		pt := freetype.Pt(x, y+thumbH+margin)
		for _, line := range e.Caption {
			if _, err := s.context.DrawString(line, pt); err != nil {
				return nil, fmt.Errorf("drawing caption of entry %d: %w", i+1, err)
			}
			pt.Y += s.context.PointToFixed(s.config.FontSize * sheetSpacing)
		}
	}

	return img, nil
}

// frame outlines r with a 1px grey border.
func (s *Sheet) frame(img *image.RGBA, r image.Rectangle) {
	grey := image.NewUniform(color.Gray{Y: 0xaa})
	edges := []image.Rectangle{
		image.Rect(r.Min.X-1, r.Min.Y-1, r.Max.X+1, r.Min.Y),
		image.Rect(r.Min.X-1, r.Max.Y, r.Max.X+1, r.Max.Y+1),
		image.Rect(r.Min.X-1, r.Min.Y, r.Min.X, r.Max.Y),
		image.Rect(r.Max.X, r.Min.Y, r.Max.X+1, r.Max.Y),
	}
	for _, edge := range edges {
		draw.Draw(img, edge, grey, image.Point{}, draw.Src)
	}
}
