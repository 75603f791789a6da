// Package ring computes the circular countdown indicator.
package ring

import (
	"math"
	"strings"
)

// Geometry of the ring in a 240x240 coordinate system.
const (
	Radius = 120
	Stroke = 8
)

// Fraction returns the remaining share timeLeft/total clamped to [0, 1].
// A zero or negative total yields 0.
func Fraction(timeLeft, total int) float64 {
	if total <= 0 {
		return 0
	}
	f := float64(timeLeft) / float64(total)
	return math.Max(0, math.Min(1, f))
}

// NormalizedRadius is the radius of the stroke centre line.
func NormalizedRadius() float64 {
	return Radius - Stroke*2
}

// Circumference of the drawn circle.
func Circumference() float64 {
	return NormalizedRadius() * 2 * math.Pi
}

// DashOffset returns the stroke-dashoffset that leaves fraction of the ring
// drawn: 0 for a full ring, the circumference for an empty one.
func DashOffset(fraction float64) float64 {
	fraction = math.Max(0, math.Min(1, fraction))
	c := Circumference()
	return c - fraction*c
}

// Glyphs used by Render.
const (
	FilledGlyph = "●"
	EmptyGlyph  = "·"
)

// Render draws an ASCII ring of the given radius (in rows) with fraction of
// it filled clockwise from twelve o'clock. Cells are doubled horizontally to
// compensate for terminal character aspect ratio. label, if any, is centred
// on the middle row.
func Render(fraction float64, radius int, label string) string {
	if radius < 2 {
		radius = 2
	}
	fraction = math.Max(0, math.Min(1, fraction))

	size := radius*2 + 1
	rows := make([][]string, size)
	for y := range rows {
		rows[y] = make([]string, size*2)
		for x := range rows[y] {
			rows[y][x] = " "
		}
	}

	// Sample enough points to close the circle without gaps.
	steps := int(2 * math.Pi * float64(radius) * 4)
	filled := int(math.Round(fraction * float64(steps)))
	for i := 0; i < steps; i++ {
		angle := 2 * math.Pi * float64(i) / float64(steps)
		x := int(math.Round(float64(radius) + float64(radius)*math.Sin(angle)))
		y := int(math.Round(float64(radius) - float64(radius)*math.Cos(angle)))
		glyph := EmptyGlyph
		if i < filled {
			glyph = FilledGlyph
		}
		// First writer wins so the filled arc is not overdrawn by the tail.
		if rows[y][x*2] == " " || glyph == FilledGlyph {
			rows[y][x*2] = glyph
		}
	}

	if label != "" {
		mid := rows[radius]
		runes := []rune(label)
		start := len(mid)/2 - len(runes)/2
		for i, r := range runes {
			if pos := start + i; pos > 0 && pos < len(mid)-1 {
				mid[pos] = string(r)
			}
		}
	}

	var b strings.Builder
	for y, row := range rows {
		b.WriteString(strings.TrimRight(strings.Join(row, ""), " "))
		if y < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
