package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/roman-kulish/pen-strokes/internal/drawing"
	"github.com/roman-kulish/pen-strokes/internal/pointer"
	"github.com/roman-kulish/pen-strokes/internal/render"
	"github.com/roman-kulish/pen-strokes/internal/report"
	"github.com/roman-kulish/pen-strokes/internal/session"
)

const (
	pdfMargin   = 36.0 // pt
	pdfTitleGap = 28.0 // pt reserved for the page title
)

func (w *Writer) writePDF(rec *session.Record, names report.Names) ([]string, error) {
	data, err := StrokesPDF(rec, w.pressureColors)
	if err != nil {
		return nil, err
	}

	path, err := w.writeFile(names.PDF(), data)
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

// StrokesPDF renders every drawing of rec on its own landscape A4 page as
// vector polylines, scaled to fit the page. With pressureColors every
// segment is tinted by its pressure instead of drawn in black.
func StrokesPDF(rec *session.Record, pressureColors bool) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "A4", "")
	pdf.SetTitle(fmt.Sprintf("%s (%s)", rec.Name, rec.Profile), true)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")

	for i, d := range rec.Drawings {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 14)
		pdf.Text(pdfMargin, pdfMargin, fmt.Sprintf("Drawing %d: %s", i+1, d.Task))

		pageW, pageH := pdf.GetPageSize()
		drawStrokes(pdf, d.StrokeData, pressureColors, pdfMargin, pdfMargin+pdfTitleGap, pageW-2*pdfMargin, pageH-2*pdfMargin-pdfTitleGap)
	}

	if len(rec.Drawings) == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// drawStrokes fits the bounding box of all points into the given area.
func drawStrokes(pdf *gofpdf.Fpdf, data drawing.StrokeData, pressureColors bool, x, y, w, h float64) {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range data.Strokes {
		for _, p := range s.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return
	}

	scale := 1.0
	if bw, bh := maxX-minX, maxY-minY; bw > 0 || bh > 0 {
		scale = math.Min(w/math.Max(bw, 1), h/math.Max(bh, 1))
		scale = math.Min(scale, 1)
	}

	tx := func(p pointer.Point) (float64, float64) {
		return x + (p.X-minX)*scale, y + (p.Y-minY)*scale
	}

	for _, s := range data.Strokes {
		for i := 1; i < len(s.Points); i++ {
			x1, y1 := tx(s.Points[i-1])
			x2, y2 := tx(s.Points[i])
			if pressureColors {
				pdf.SetDrawColor(render.RGB255(render.PressureColor(s.Points[i].Pressure)))
			}
			pdf.SetLineWidth(pointer.LineWidth(s.Points[i].Pressure) * scale)
			pdf.Line(x1, y1, x2, y2)
		}
	}
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}
