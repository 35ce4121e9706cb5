package web

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var content embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"km": func(meters float64) string {
			return fmt.Sprintf("%.1f", meters/1000)
		},
	}).ParseFS(content, "templates/*.html"))
}
