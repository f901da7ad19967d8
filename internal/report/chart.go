package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

const (
	chartSize   = 600.0
	chartMargin = 90.0
	gridRings   = 4
)

// RadarChartSVG renders the twelve-axis archetype profile as an SVG document.
// Rasterization stays outside the bot; an SVG embeds directly into the HTML
// report and Telegram accepts it as a document.
func RadarChartSVG(board entities.ScoreBoard) string {
	center := chartSize / 2
	radius := center - chartMargin

	maxScore := 1
	for _, a := range entities.AllArchetypes() {
		if s := board.Get(a); s > maxScore {
			maxScore = s
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">`,
		chartSize, chartSize, chartSize, chartSize)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>`)

	// Concentric grid.
	for ring := 1; ring <= gridRings; ring++ {
		r := radius * float64(ring) / gridRings
		b.WriteString(gridPolygon(center, r))
	}

	// Axes and labels.
	for i, a := range entities.AllArchetypes() {
		x, y := pointAt(center, radius, i)
		fmt.Fprintf(&b, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#d0d0d0" stroke-width="1"/>`,
			center, center, x, y)

		lx, ly := pointAt(center, radius+28, i)
		anchor := "middle"
		if lx < center-radius/2 {
			anchor = "end"
		} else if lx > center+radius/2 {
			anchor = "start"
		}
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="13" font-family="sans-serif" text-anchor="%s">%s</text>`,
			lx, ly, anchor, a.UkrainianName())
	}

	// Score polygon.
	var points []string
	for i, a := range entities.AllArchetypes() {
		r := radius * float64(board.Get(a)) / float64(maxScore)
		x, y := pointAt(center, r, i)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	fmt.Fprintf(&b, `<polygon points="%s" fill="#1E90FF" fill-opacity="0.25" stroke="#1E90FF" stroke-width="2"/>`,
		strings.Join(points, " "))

	b.WriteString(`</svg>`)
	return b.String()
}

func gridPolygon(center, r float64) string {
	var points []string
	for i := 0; i < entities.NumArchetypes; i++ {
		x, y := pointAt(center, r, i)
		points = append(points, fmt.Sprintf("%.1f,%.1f", x, y))
	}
	return fmt.Sprintf(`<polygon points="%s" fill="none" stroke="#e5e5e5" stroke-width="1"/>`,
		strings.Join(points, " "))
}

// pointAt places axis i of twelve, starting at twelve o'clock and going
// clockwise.
func pointAt(center, r float64, i int) (float64, float64) {
	angle := 2*math.Pi*float64(i)/float64(entities.NumArchetypes) - math.Pi/2
	return center + r*math.Cos(angle), center + r*math.Sin(angle)
}
