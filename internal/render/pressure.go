package render

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	hueLight = 236.0 // blue, no pressure
	hueFirm  = 0.0   // red, full pressure
)

// PressureColor maps a pressure ratio onto a cold-to-hot hue ramp. Values
// outside [0,1] are clamped.
func PressureColor(pressure float64) color.Color {
	p := math.Min(math.Max(pressure, 0), 1)
	hue := hueLight - p*(hueLight-hueFirm)
	return colorful.Hsv(hue, 1, 0.90)
}

// RGB255 returns the 8-bit channels of c.
func RGB255(c color.Color) (r, g, b int) {
	cr, cg, cb, _ := c.RGBA()
	return int(cr >> 8), int(cg >> 8), int(cb >> 8)
}
