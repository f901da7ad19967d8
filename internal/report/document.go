package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/NCobrimark/Archetype-UA/internal/domain/entities"
)

// Document is a generated report ready for delivery.
type Document struct {
	Filename string
	HTML     []byte
}

type documentData struct {
	ClientName string
	Phone      string
	Date       string
	MetaTitle  string
	Chart      template.HTML
	Primary    []archetypeSection
	Strategy   template.HTML
}

type archetypeSection struct {
	Name string
	Info ArchetypeInfo
}

var documentTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="uk">
<head>
<meta charset="utf-8">
<title>Бренд-стратегія за архетипами</title>
<style>
body { font-family: sans-serif; max-width: 800px; margin: 0 auto; padding: 2em; color: #1a1a2e; }
h1 { color: #16213e; text-align: center; }
h2 { color: #16213e; border-bottom: 2px solid #1E90FF; padding-bottom: 4px; }
.cover { text-align: center; margin: 3em 0; }
.meta-title { font-size: 1.4em; color: #1E90FF; }
.motto { font-style: italic; }
.chart { text-align: center; }
</style>
</head>
<body>
<div class="cover">
<h1>БРЕНД-СТРАТЕГІЯ ЗА АРХЕТИПАМИ</h1>
{{if .MetaTitle}}<p class="meta-title">Ваш персональний профіль: {{.MetaTitle}}</p>{{end}}
<p><b>Клієнт:</b> {{.ClientName}}</p>
{{if .Phone}}<p><b>Телефон:</b> {{.Phone}}</p>{{end}}
<p><b>Дата:</b> {{.Date}}</p>
</div>

<h2>Ваша архітектура особистості</h2>
<p>Цей графік відображає баланс 12 базових архетипів у вашому поточному стані.
Домінантні архетипи визначають вашу стратегію поведінки та сприйняття світу.</p>
<div class="chart">{{.Chart}}</div>

<h2>Глибинний аналіз домінантних архетипів</h2>
{{range .Primary}}
<h3>Архетип: {{.Info.Title}}</h3>
<p class="motto">&laquo;{{.Info.Motto}}&raquo;</p>
<p><b>Головне бажання:</b> {{.Info.CoreDesire}}</p>
<p><b>Ціль:</b> {{.Info.Goal}}</p>
<p><b>Стратегія:</b> {{.Info.Strategy}}</p>
<p><b>Тіньовий аспект:</b> {{.Info.Shadow}}</p>
{{if .Info.Vocabulary}}<p><b>Словник бренду:</b> {{range $i, $w := .Info.Vocabulary}}{{if $i}}, {{end}}{{$w}}{{end}}</p>{{end}}
{{end}}

<h2>Персоналізована стратегія бренду</h2>
<p>Цей розділ згенеровано нейромережею на основі вашої унікальної комбінації архетипів.</p>
{{.Strategy}}
</body>
</html>
`))

// GenerateDocument builds the HTML report from the finalized result, the
// AI strategy markdown and the rendered chart.
func GenerateDocument(
	lead entities.Lead,
	result entities.ClusterResult,
	strategyMarkdown string,
	chartSVG string,
	info map[string]ArchetypeInfo,
) (Document, error) {
	data := documentData{
		ClientName: lead.Name,
		Phone:      lead.Phone,
		Date:       time.Now().Format("02.01.2006"),
		MetaTitle:  result.MetaTitle,
		Chart:      template.HTML(chartSVG),
		Strategy:   renderMarkdown(strategyMarkdown),
	}

	for _, a := range result.Primary {
		sec, ok := info[a.String()]
		if !ok {
			continue
		}
		data.Primary = append(data.Primary, archetypeSection{Name: a.String(), Info: sec})
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return Document{}, fmt.Errorf("render report template: %w", err)
	}

	return Document{
		Filename: "Archetype_Strategy.html",
		HTML:     buf.Bytes(),
	}, nil
}

// renderMarkdown converts the small markdown subset the model emits
// (headers, bold, bullets) into HTML. Input is escaped first.
func renderMarkdown(md string) template.HTML {
	var b strings.Builder
	inList := false

	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		escaped := template.HTMLEscapeString(line)
		escaped = boldPattern(escaped)

		switch {
		case line == "":
			if inList {
				b.WriteString("</ul>\n")
				inList = false
			}
		case strings.HasPrefix(line, "##"):
			if inList {
				b.WriteString("</ul>\n")
				inList = false
			}
			b.WriteString("<h3>" + strings.TrimSpace(strings.TrimLeft(escaped, "#")) + "</h3>\n")
		case strings.HasPrefix(line, "- ") || strings.HasPrefix(line, "* "):
			if !inList {
				b.WriteString("<ul>\n")
				inList = true
			}
			b.WriteString("<li>" + strings.TrimSpace(escaped[2:]) + "</li>\n")
		default:
			if inList {
				b.WriteString("</ul>\n")
				inList = false
			}
			b.WriteString("<p>" + escaped + "</p>\n")
		}
	}
	if inList {
		b.WriteString("</ul>\n")
	}

	return template.HTML(b.String())
}

// boldPattern rewrites **text** pairs into <b>text</b>.
func boldPattern(s string) string {
	var b strings.Builder
	open := false
	for {
		i := strings.Index(s, "**")
		if i == -1 {
			b.WriteString(s)
			break
		}
		b.WriteString(s[:i])
		if open {
			b.WriteString("</b>")
		} else {
			b.WriteString("<b>")
		}
		open = !open
		s = s[i+2:]
	}
	if open {
		b.WriteString("</b>")
	}
	return b.String()
}
