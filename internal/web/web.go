// Package web holds the HTML views rendered by the route handlers.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every view. Each page is addressed by its file name, e.g. "login.html".
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(files, "templates/*.html")
}
