// Package render draws pen strokes onto raster images and encodes them for
// export.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gg"

	"github.com/roman-kulish/pen-strokes/internal/pointer"
)

const (
	DefaultWidth  = 1024
	DefaultHeight = 768
)

// ErrClosed is returned when using a canvas after Close.
var ErrClosed = errors.New("canvas is closed")

// Canvas is a white raster that draws strokes in black as their points
// arrive. Each segment is drawn with the width of its end point's pressure,
// with round caps and joins.
//
// Canvas implements stroke.Renderer and drawing.Canvas.
type Canvas struct {
	dc     *gg.Context
	last   pointer.Point
	active bool
	closed bool
	err    error // first drawing error, reported by Snapshot
}

// NewCanvas creates a blank canvas. Non-positive dimensions fall back to the
// defaults.
func NewCanvas(width, height int) *Canvas {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	c := Canvas{dc: gg.NewContext(width, height)}
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineJoin(gg.LineJoinRound)
	c.clear()

	return &c
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

func (c *Canvas) BeginStroke(p pointer.Point) {
	c.last = p
	c.active = true
}

func (c *Canvas) LineTo(p pointer.Point) {
	if !c.active || c.closed {
		return
	}

	c.dc.SetRGB(0, 0, 0)
	c.dc.SetLineWidth(pointer.LineWidth(p.Pressure))
	c.dc.MoveTo(c.last.X, c.last.Y)
	c.dc.LineTo(p.X, p.Y)
	if err := c.dc.Stroke(); err != nil && c.err == nil {
		c.err = fmt.Errorf("stroking segment: %w", err)
	}

	c.last = p
}

func (c *Canvas) EndStroke() {
	c.active = false
	c.dc.ClearPath()
}

// Image returns the current raster.
func (c *Canvas) Image() image.Image {
	return c.dc.Image()
}

// PNG encodes the current raster.
func (c *Canvas) PNG() ([]byte, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.err != nil {
		return nil, c.err
	}

	var buf bytes.Buffer
	if err := c.dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// Snapshot returns the current raster as a PNG data URI.
func (c *Canvas) Snapshot() (string, error) {
	data, err := c.PNG()
	if err != nil {
		return "", err
	}
	return EncodeDataURI(data), nil
}

// Reset clears the raster and forgets any drawing error.
func (c *Canvas) Reset() error {
	if c.closed {
		return ErrClosed
	}

	c.active = false
	c.err = nil
	c.clear()
	return nil
}

// Close releases the drawing context. It is safe to call Close multiple times.
func (c *Canvas) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.dc.Close()
}

func (c *Canvas) clear() {
	c.dc.ClearPath()
	c.dc.ClearWithColor(gg.White)
}
