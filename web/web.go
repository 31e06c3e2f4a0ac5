// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"

	"tortas-web/internal/views"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Pages lists the page templates; each is parsed together with base.html.
var Pages = []string{"login", "register", "dishes"}

var funcs = template.FuncMap{
	"price": views.FormatPrice,
}

func Templates() (map[string]*template.Template, error) {
	out := make(map[string]*template.Template, len(Pages))
	for _, page := range Pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

// Static returns the static asset tree rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
