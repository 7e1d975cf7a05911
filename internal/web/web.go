// Package web holds the page layout shared by every module and the template
// functions available to all of them.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"strconv"

	"nimbus-web/internal/escape"
)

//go:embed templates/*.html
var layoutFS embed.FS

const (
	SectionWeather = "clima"
	SectionNews    = "noticias"
)

// Page is the data every full page passes to the "base" layout.
type Page struct {
	Title   string
	Section string
}

// Funcs returns the functions shared by all templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		// esc is for upstream-sourced text; its output is already escaped.
		"esc": func(v any) template.HTML {
			return template.HTML(escape.HTML(v))
		},
		"num": FormatNumber,
	}
}

// FormatNumber prints f with the shortest representation that round-trips,
// so 21 renders as "21" and 21.5 as "21.5".
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Parse builds a template set from the shared layout plus the files in fsys
// matching patterns.
func Parse(fsys fs.FS, patterns ...string) (*template.Template, error) {
	return parse(layoutFS, fsys, patterns...)
}

func parse(layout, fsys fs.FS, patterns ...string) (*template.Template, error) {
	t, err := template.New("").Funcs(Funcs()).ParseFS(layout, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return t.ParseFS(fsys, patterns...)
}
