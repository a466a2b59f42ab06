package api

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.New("pages").ParseFS(templatesFS, "templates/*.html"))

// renderer executes the embedded page templates by file name.
type renderer struct {
	tmpl *template.Template
}

func (r renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
