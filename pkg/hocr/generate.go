package hocr

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/hocr.tmpl
var templateFS embed.FS

var hocrTemplate = template.Must(template.New("hocr.tmpl").Funcs(template.FuncMap{
	"trim":   strings.TrimSpace,
	"escape": template.HTMLEscapeString,
}).ParseFS(templateFS, "templates/hocr.tmpl"))

// Generate renders the Document as hOCR HTML.
func Generate(doc *Document) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("nil hOCR document")
	}
	var buf bytes.Buffer
	if err := hocrTemplate.Execute(&buf, doc); err != nil {
		return "", fmt.Errorf("error rendering hOCR template: %w", err)
	}
	return buf.String(), nil
}
