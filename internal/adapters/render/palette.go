package render

import (
	"image/color"
	"math"
)

// Bands is the number of discrete colors on the score scale.
const Bands = 5

// Score scale bounds.
const (
	MinScore = 1
	MaxScore = 5
)

// gradientStops run from red at "no evidence" to green at "strong".
var gradientStops = []color.RGBA{
	{R: 0xd7, G: 0x30, B: 0x27, A: 0xff},
	{R: 0xfc, G: 0x8d, B: 0x59, A: 0xff},
	{R: 0xfe, G: 0xe0, B: 0x8b, A: 0xff},
	{R: 0xd9, G: 0xef, B: 0x8b, A: 0xff},
	{R: 0x91, G: 0xcf, B: 0x60, A: 0xff},
	{R: 0x1a, G: 0x98, B: 0x50, A: 0xff},
}

// Border and separator colors.
var (
	UncontestedColor  = color.RGBA{R: 0x21, G: 0x66, B: 0xac, A: 0xff}
	BattlegroundColor = color.RGBA{R: 0xb2, G: 0x18, B: 0x2b, A: 0xff}
	SeparatorColor    = color.Black
	MissingColor      = color.White
)

// ScaleLabels names each score band.
var ScaleLabels = [Bands]string{"No Evidence", "Weak", "Moderate", "Good", "Strong"}

// bandPalette adapts a color slice to palette.Palette.
type bandPalette []color.Color

func (p bandPalette) Colors() []color.Color { return p }

// Palette samples the gradient at Bands evenly spaced points.
func Palette() []color.Color {
	out := make([]color.Color, Bands)
	segs := len(gradientStops) - 1
	for b := 0; b < Bands; b++ {
		// Position b/(Bands-1) along segs segments, kept as a ratio so band
		// boundaries land exactly on stops.
		num, den := b*segs, Bands-1
		i, frac := num/den, float64(num%den)/float64(den)
		if i >= segs {
			out[b] = gradientStops[segs]
			continue
		}
		out[b] = lerp(gradientStops[i], gradientStops[i+1], frac)
	}
	return out
}

// ColorFor returns the band color of a score; out of range scores clamp.
func ColorFor(score int) color.Color {
	pal := Palette()
	i := score - MinScore
	if i < 0 {
		i = 0
	}
	if i >= len(pal) {
		i = len(pal) - 1
	}
	return pal[i]
}

// TextColor picks a readable cell text color for the score.
func TextColor(score int) color.Color {
	if score <= 2 || score >= 4 {
		return color.White
	}
	return color.Black
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t))
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 0xff}
}
