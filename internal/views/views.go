package views

import (
	"embed"
	"html/template"
	"time"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded template set. Template names are the file
// base names ("login.html", "admin.html", ...).
func Templates() *template.Template {
	return template.Must(
		template.New("").Funcs(template.FuncMap{
			"formatDate": FormatDate,
		}).ParseFS(files, "templates/*.html"),
	)
}

// FormatDate renders timestamps the way the views expect them.
func FormatDate(t time.Time) string {
	return t.Format("02/01/2006")
}
