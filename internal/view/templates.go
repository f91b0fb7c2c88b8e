package view

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"proximart/webclient/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title       string
	CurrentPath string
	CSRFToken   string
	Page        any
}

// NewEngine parses the embedded templates with f's formatting helpers.
func NewEngine(f *Formatter) (*Engine, error) {
	funcMap := template.FuncMap{
		"formatTime":     f.Time,
		"formatPrice":    f.Price,
		"formatQuantity": f.Quantity,
		"formatFloat":    f.Float,
		"statusTone":     StatusTone,
		"statusLabel":    StatusLabel,
		"orNA":           orNA,
		"add":            func(a, b int) int { return a + b },
	}
	tpl, err := template.New("root").Funcs(funcMap).ParseFS(web.Templates, "templates/layouts/*.html", "templates/partials/*.html", "templates/pages/*.html")
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template and writes it with status. Nothing is
// written when execution fails.
func (e *Engine) Render(w http.ResponseWriter, status int, name string, data TemplateData) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
