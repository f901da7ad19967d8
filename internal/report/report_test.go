package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

func TestRadarChartSVG(t *testing.T) {
	var board entities.ScoreBoard
	board[entities.Hero] = 20
	board[entities.Sage] = 10

	svg := RadarChartSVG(board)

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))

	// One label and one axis line per archetype.
	for _, a := range entities.AllArchetypes() {
		assert.Contains(t, svg, ">"+a.UkrainianName()+"<")
	}
	assert.Equal(t, entities.NumArchetypes, strings.Count(svg, "<line "))

	// Four grid rings plus the score polygon.
	assert.Equal(t, gridRings+1, strings.Count(svg, "<polygon "))
}

func TestRadarChartSVG_ZeroBoard(t *testing.T) {
	var board entities.ScoreBoard
	svg := RadarChartSVG(board)

	// A zero board must not divide by zero; the score polygon collapses to
	// the center instead.
	assert.Contains(t, svg, "<polygon ")
	assert.Contains(t, svg, "300.0,300.0")
}

func TestRenderMarkdown(t *testing.T) {
	md := "## Ваша стратегія\n" +
		"Перший абзац із **жирним** текстом.\n" +
		"\n" +
		"- пункт один\n" +
		"- пункт два\n" +
		"\n" +
		"Фінальний абзац."

	html := string(renderMarkdown(md))

	assert.Contains(t, html, "<h3>Ваша стратегія</h3>")
	assert.Contains(t, html, "<b>жирним</b>")
	assert.Contains(t, html, "<ul>\n<li>пункт один</li>\n<li>пункт два</li>\n</ul>")
	assert.Contains(t, html, "<p>Фінальний абзац.</p>")
}

func TestRenderMarkdown_EscapesHTML(t *testing.T) {
	html := string(renderMarkdown(`<script>alert("x")</script>`))
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestBoldPattern_UnbalancedMarkers(t *testing.T) {
	assert.Equal(t, "a <b>b</b>", boldPattern("a **b"))
	assert.Equal(t, "plain", boldPattern("plain"))
	assert.Equal(t, "<b>x</b> y <b>z</b>", boldPattern("**x** y **z**"))
}

func TestGenerateDocument(t *testing.T) {
	var board entities.ScoreBoard
	board[entities.Hero] = 12
	board[entities.Ruler] = 11

	result := entities.ClusterResult{
		Scores:    board,
		Primary:   []entities.Archetype{entities.Hero, entities.Ruler},
		Secondary: []entities.Archetype{entities.Sage},
		MetaTitle: "Лідер-завойовник",
	}
	lead := entities.Lead{Name: "Олена", Phone: "+380501234567", Email: "olena@example.com"}
	info := map[string]ArchetypeInfo{
		"Hero": {Title: "Герой (Hero)", Motto: "Де воля, там і шлях.", CoreDesire: "Довести цінність"},
	}

	doc, err := GenerateDocument(lead, result, "## Стратегія\nТекст.", RadarChartSVG(board), info)
	require.NoError(t, err)

	assert.Equal(t, "Archetype_Strategy.html", doc.Filename)
	html := string(doc.HTML)
	assert.Contains(t, html, "Олена")
	assert.Contains(t, html, "Лідер-завойовник")
	assert.Contains(t, html, "Герой (Hero)")
	assert.Contains(t, html, "<svg ")
	assert.Contains(t, html, "<h3>Стратегія</h3>")
	// Ruler has no info entry and silently drops out of the deep dive.
	assert.Equal(t, 1, strings.Count(html, "Архетип:"))
}

func TestLoadArchetypeInfo_ShippedFile(t *testing.T) {
	info, err := LoadArchetypeInfo("../../assets/data/archetype_info.json")
	require.NoError(t, err)

	require.Len(t, info, entities.NumArchetypes)
	for _, a := range entities.AllArchetypes() {
		entry, ok := info[a.String()]
		require.True(t, ok, "missing info for %s", a)
		assert.NotEmpty(t, entry.Title)
		assert.NotEmpty(t, entry.Motto)
		assert.NotEmpty(t, entry.Strategy)
	}
}
