// Package digest renders a highlight selection into an HTML email document.
package digest

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/mrlokans/kindle-digest/internal/entities"
)

// Document is a rendered digest ready for delivery.
type Document struct {
	Subject string
	HTML    string
}

// Render formats a selection as an HTML document. The selection is used
// as-is: rendering never mutates, filters or reorders it. An empty
// selection produces a document with header and footer but no highlight
// blocks.
func Render(selection []entities.Highlight, date time.Time) Document {
	var sb strings.Builder

	sb.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><style>
body { font-family: Georgia, 'Times New Roman', serif; line-height: 1.6; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #fafafa; color: #333; }
.header { text-align: center; padding-bottom: 20px; border-bottom: 2px solid #e0e0e0; margin-bottom: 30px; }
.header h1 { font-size: 24px; color: #2c3e50; margin: 0; }
.header p { color: #7f8c8d; margin: 5px 0 0 0; font-size: 14px; }
.highlight { background: white; border-left: 4px solid #3498db; padding: 20px; margin-bottom: 25px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
.highlight-text { font-size: 16px; font-style: italic; color: #2c3e50; margin: 0 0 15px 0; }
.highlight-source { font-size: 13px; color: #7f8c8d; margin: 0; }
.highlight-source strong { color: #34495e; }
.theme { color: #95a5a6; }
.footer { text-align: center; padding-top: 20px; border-top: 1px solid #e0e0e0; font-size: 12px; color: #95a5a6; }
</style></head><body>`)

	sb.WriteString(`<div class="header"><h1>📚 Your Daily Highlights</h1>`)
	sb.WriteString(fmt.Sprintf("<p>%s</p></div>", date.Format("January 2, 2006")))

	for _, h := range selection {
		sb.WriteString(`<div class="highlight">`)
		sb.WriteString(fmt.Sprintf(`<p class="highlight-text">&quot;%s&quot;</p>`, htmlText(h.Text)))
		sb.WriteString(fmt.Sprintf(`<p class="highlight-source">— <strong>%s</strong> by %s`,
			html.EscapeString(h.Title), html.EscapeString(h.Author)))
		if h.Theme != "" {
			sb.WriteString(fmt.Sprintf(` <span class="theme">· %s</span>`, html.EscapeString(h.Theme)))
		}
		sb.WriteString(`</p></div>`)
	}

	sb.WriteString(`<div class="footer"><p>Powered by your personal Kindle Highlights system</p></div>`)
	sb.WriteString("</body></html>")

	return Document{
		Subject: fmt.Sprintf("📚 Your Daily Kindle Highlights - %s", date.Format("January 2")),
		HTML:    sb.String(),
	}
}

// htmlText escapes a multi-line highlight body for HTML output.
func htmlText(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}
