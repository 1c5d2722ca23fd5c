// Package colors converts hex colors and percentage opacities into drawing colors.
package colors

import (
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Fallback is used when a hex string cannot be parsed.
var Fallback = color.RGBA{A: 255}

// Resolve converts a hex color ("#rrggbb", "rrggbb" or "#rgb") and an
// opacity percentage into a premultiplied color. Opacity is clamped to
// [0, 100]; an unparsable hex resolves to black at the requested opacity.
func Resolve(hex string, opacityPct float64) color.RGBA {
	r, g, b, ok := parseHex(hex)
	if !ok {
		r, g, b = Fallback.R, Fallback.G, Fallback.B
	}
	nrgba := color.NRGBA{R: r, G: g, B: b, A: alpha(opacityPct)}
	return color.RGBAModel.Convert(nrgba).(color.RGBA)
}

// Valid reports whether hex is a color Resolve understands.
func Valid(hex string) bool {
	_, _, _, ok := parseHex(hex)
	return ok
}

func parseHex(hex string) (r, g, b uint8, ok bool) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	if len(hex) != 7 && len(hex) != 4 {
		return 0, 0, 0, false
	}
	c, err := colorful.Hex(strings.ToLower(hex))
	if err != nil {
		return 0, 0, 0, false
	}
	r, g, b = c.RGB255()
	return r, g, b, true
}

func alpha(opacityPct float64) uint8 {
	if math.IsNaN(opacityPct) || opacityPct <= 0 {
		return 0
	}
	if opacityPct >= 100 {
		return 255
	}
	return uint8(math.Round(opacityPct / 100 * 255))
}
