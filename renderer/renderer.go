// Package renderer renders portfolio reports as markdown.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
	"time"

	"github.com/etnz/cryptofolio"
	"github.com/etnz/cryptofolio/journal"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates, _ = fs.Sub(templateFS, "templates")

// Portfolio is the data rendered by PortfolioMarkdown.
type Portfolio struct {
	Date time.Time
	cryptofolio.Portfolio
}

// PortfolioMarkdown renders the portfolio summary: one row per asset, most
// profitable first, followed by the portfolio totals.
func PortfolioMarkdown(on time.Time, p cryptofolio.Portfolio) string {
	partials := map[string]string{
		"portfolio_title":  "portfolio_title.md",
		"portfolio_assets": "portfolio_assets.md",
		"portfolio_total":  "portfolio_total.md",
	}
	// Without assets there is nothing to tabulate.
	if len(p.Assets) == 0 {
		partials["portfolio_assets"] = ""
	}
	return renderTemplate("portfolio", "portfolio.md", partials, Portfolio{Date: on, Portfolio: p})
}

// HistoryMarkdown renders the journal runs, in the given order.
func HistoryMarkdown(runs []journal.Run) string {
	return renderTemplate("history", "history.md", nil, runs)
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
