// Package web holds the embedded HTML templates and static assets.
package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Templates parses every page with the helpers from Funcs. Pages are looked
// up by file name, e.g. "ranking.html".
func Templates(loc *time.Location) (*template.Template, error) {
	return template.New("").Funcs(Funcs(loc)).ParseFS(templateFS, "templates/*.html")
}

func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}

	return http.FS(sub)
}

// Funcs renders times in loc, the camp time zone.
func Funcs(loc *time.Location) template.FuncMap {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	return template.FuncMap{
		// raw HTML in the source is dropped by goldmark
		"markdown": func(s string) template.HTML {
			var buf bytes.Buffer
			if err := md.Convert([]byte(s), &buf); err != nil {
				return template.HTML(template.HTMLEscapeString(s))
			}

			return template.HTML(buf.String())
		},
		"localTime": func(t time.Time) string {
			return t.In(loc).Format("02/01/2006 15:04")
		},
		"inputTime": func(t time.Time) string {
			return t.In(loc).Format("2006-01-02T15:04")
		},
		"json": func(v any) (template.JS, error) {
			b, err := json.Marshal(v)
			return template.JS(b), err
		},
		"join": strings.Join,
		"seq": func(n int) []int {
			s := make([]int, n)
			for i := range s {
				s[i] = i + 1
			}

			return s
		},
	}
}
