// Package email renders the Daily 5 digest as HTML and delivers it.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"daily5/internal/core"
)

// Template configures the digest's visual style.
type Template struct {
	Subject         string
	HeaderColor     string
	BackgroundColor string
	TextColor       string
	LinkColor       string
	BorderColor     string
	MaxWidth        string
	FontFamily      string
}

// DefaultTemplate returns a responsive single-column digest template.
func DefaultTemplate() *Template {
	return &Template{
		Subject:         "Your Daily 5 - %s",
		HeaderColor:     "#2563eb",
		BackgroundColor: "#f8fafc",
		TextColor:       "#1e293b",
		LinkColor:       "#3b82f6",
		BorderColor:     "#e2e8f0",
		MaxWidth:        "640px",
		FontFamily:      "-apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif",
	}
}

// digestData is the template rendering context.
type digestData struct {
	Template  *Template
	Name      string
	Date      string
	Items     []core.GeneratedItem
	ItemCount int
}

const digestHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<style>
body { margin: 0; padding: 0; background-color: {{.Template.BackgroundColor}}; font-family: {{.Template.FontFamily}}; color: {{.Template.TextColor}}; }
.container { max-width: {{.Template.MaxWidth}}; margin: 0 auto; padding: 24px 16px; }
.header { background-color: {{.Template.HeaderColor}}; color: #ffffff; padding: 24px; border-radius: 8px 8px 0 0; }
.header h1 { margin: 0; font-size: 22px; }
.header p { margin: 8px 0 0; opacity: 0.85; font-size: 14px; }
.item { background-color: #ffffff; border: 1px solid {{.Template.BorderColor}}; border-top: none; padding: 20px 24px; }
.item:last-of-type { border-radius: 0 0 8px 8px; }
.item h2 { margin: 0 0 4px; font-size: 17px; }
.item h2 a { color: {{.Template.LinkColor}}; text-decoration: none; }
.category { font-size: 12px; text-transform: uppercase; letter-spacing: 0.05em; color: #64748b; }
.body { font-size: 14px; line-height: 1.6; margin: 12px 0; }
.action { font-size: 13px; font-weight: 600; margin: 0; }
.source { font-size: 12px; color: #94a3b8; margin-top: 8px; }
.footer { text-align: center; font-size: 12px; color: #94a3b8; padding: 24px 0; }
</style>
</head>
<body>
<div class="container">
  <div class="header">
    <h1>Your Daily 5{{if .Name}}, {{.Name}}{{end}}</h1>
    <p>{{.Date}} &middot; {{.ItemCount}} picks</p>
  </div>
  {{range .Items}}
  <div class="item">
    <div class="category">{{.Category}}</div>
    <h2><a href="{{.URL}}">{{.Title}}</a></h2>
    <div class="body">{{.Body}}</div>
    {{if .Action}}<p class="action">Next step: {{.Action}}</p>{{end}}
    <div class="source">{{.Source}}</div>
  </div>
  {{end}}
  <div class="footer">You receive this digest because of your configured interests.</div>
</div>
</body>
</html>`

var digestTemplate = template.Must(template.New("digest").Parse(digestHTML))

// Render produces the HTML body and subject line for a digest.
func Render(tmpl *Template, profile core.UserProfile, items []core.GeneratedItem, now time.Time) (subject, html string, err error) {
	if tmpl == nil {
		tmpl = DefaultTemplate()
	}
	date := now.UTC().Format("Monday, January 2, 2006")

	data := digestData{
		Template:  tmpl,
		Name:      profile.Name,
		Date:      date,
		Items:     items,
		ItemCount: len(items),
	}

	var buf bytes.Buffer
	if err := digestTemplate.Execute(&buf, data); err != nil {
		return "", "", fmt.Errorf("failed to render digest: %w", err)
	}

	return fmt.Sprintf(tmpl.Subject, now.UTC().Format("January 2")), buf.String(), nil
}
