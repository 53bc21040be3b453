// Package render turns overview snapshots into text for the dashboard and the CLI.
package render

import (
	"embed"
	"encoding/json"
	"fmt"
	htmltemplate "html/template"
	"io"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed templates
var files embed.FS

// Template names.
const (
	Index  = "index"
	Report = "report"
)

// Renderer writes the named template executed against data to w.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

type executor interface {
	ExecuteTemplate(w io.Writer, name string, data any) error
}

// Templates is a Renderer backed by a parsed template set.
type Templates struct {
	set executor
}

var _ Renderer = (*Templates)(nil)

// Render executes the template called name.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	if err := t.set.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

var funcs = map[string]any{
	"epoch": epoch,
	"unix":  unix,
	"json":  toJSON,
	"join":  strings.Join,
}

// HTML returns the dashboard templates. Output is escaped for HTML.
func HTML() (*Templates, error) {
	set, err := htmltemplate.New("html").Funcs(funcs).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// Text returns the plain-text report templates.
func Text() (*Templates, error) {
	set, err := texttemplate.New("text").Funcs(funcs).ParseFS(files, "templates/*.txt")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	return &Templates{set: set}, nil
}

// epoch formats fractional epoch seconds as UTC RFC 3339.
func epoch(sec float64) string {
	whole := int64(sec)
	nsec := int64((sec - float64(whole)) * float64(time.Second))
	return time.Unix(whole, nsec).UTC().Format(time.RFC3339)
}

func unix(sec int64) string {
	return time.Unix(sec, 0).UTC().Format(time.RFC3339)
}

func toJSON(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
