package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

type Templates struct {
	fs   fs.FS
	base *template.Template
}

var templateFuncs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "-"
		}
		return t.Format("02 Jan 2006")
	},
	"rupiah": rupiah,
	"join":   strings.Join,
}

func NewTemplates(fsys fs.FS) (*Templates, error) {
	base, err := template.New("layout").Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{fs: fsys, base: base}, nil
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fs, "templates/"+name); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "layout", data)
}

func (t *Templates) RenderPartial(w http.ResponseWriter, name string, data any) error {
	tmpl, err := t.base.Clone()
	if err != nil {
		return err
	}
	if _, err := tmpl.ParseFS(t.fs, "templates/partials/"+name); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, name, data)
}

// rupiah formats 150000 as "Rp 150.000".
func rupiah(amount int) string {
	digits := fmt.Sprintf("%d", max(amount, 0))
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return "Rp " + sb.String()
}
