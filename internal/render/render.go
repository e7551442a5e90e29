package render

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	FixtureTemplate = "fixture.php"
	DataTemplate    = "data.php"
)

// Params is everything a template may see. Templates have no other state.
type Params struct {
	TableName       string
	ClassName       string
	ModelClassName  string
	Namespace       string
	ModelsNamespace string
	BaseClass       string
	Dependencies    []string
	Columns         []string
	Rows            []map[string]interface{}
}

type Renderer interface {
	Render(name string, params Params) (string, error)
}

type TemplateRenderer struct {
	templates *template.Template
}

func New() (*TemplateRenderer, error) {
	tmpl, err := template.New("").Funcs(funcMap()).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &TemplateRenderer{templates: tmpl}, nil
}

func (r *TemplateRenderer) Render(name string, params Params) (string, error) {
	tmpl := r.templates.Lookup(name + ".tmpl")
	if tmpl == nil {
		return "", fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"shortName": ShortClassName,
		"unique":    Unique,
		"phpString": QuoteString,
		"phpValue":  ExportValue,
	}
}

// ShortClassName returns the last segment of a namespaced class name.
func ShortClassName(class string) string {
	class = strings.TrimRight(class, `\`)
	if i := strings.LastIndex(class, `\`); i >= 0 {
		return class[i+1:]
	}
	return class
}

// Unique drops repeated entries, keeping the first occurrence.
func Unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	return result
}
