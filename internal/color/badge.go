// Package color picks display colors for type badges.
package color

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	black = "#000000"
	white = "#FFFFFF"
)

// Badge returns the background and text colors for a type badge. apiColor
// is used when it parses as #RRGGBB or #RGB; otherwise the background is
// derived from the type name so the same type always gets the same color.
func Badge(typeName, apiColor string) (bg, fg string) {
	r, g, b, ok := Parse(apiColor)
	if !ok {
		r, g, b = ForName(typeName)
	}
	bg = fmt.Sprintf("#%02X%02X%02X", r, g, b)
	return bg, TextOn(r, g, b)
}

// Parse reads a #RRGGBB or #RGB hex color.
func Parse(hex string) (r, g, b uint8, ok bool) {
	s, found := strings.CutPrefix(strings.TrimSpace(hex), "#")
	if !found {
		return 0, 0, 0, false
	}
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return 0, 0, 0, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), true
}

// ForName hashes name onto the hue wheel at fixed saturation and
// lightness.
func ForName(name string) (r, g, b uint8) {
	h := 0
	for _, c := range strings.ToLower(name) {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return hslToRGB(float64(h%360), 0.45, 0.5)
}

// TextOn returns black or white, whichever reads better on r, g, b.
func TextOn(r, g, b uint8) string {
	// ITU-R BT.601 luma.
	luma := 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
	if luma > 150 {
		return black
	}
	return white
}

// hslToRGB converts h in [0,360) and s, l in [0,1] to 8-bit RGB.
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	h /= 360.0
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}

	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q

	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 1.0/2.0:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
