// Package render turns normalized collections into TypeScript declarations.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"pbextract/internal/schema"
	"pbextract/internal/translate"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var declarations = template.Must(template.New("declarations.d.ts.tmpl").
	Funcs(template.FuncMap{"names": names, "quote": quote}).
	ParseFS(templateFS, "templates/declarations.d.ts.tmpl"))

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options control the shape of the generated file.
type Options struct {
	// Module wraps the declarations in `declare module '<Module>'` when set.
	Module string
}

type fieldView struct {
	Property string
	Type     string
}

type collectionView struct {
	Name     string
	Property string
	TypeName string
	Fields   []fieldView
}

type data struct {
	Module      string
	P           string
	Collections []collectionView
}

// Render returns one interface per collection, in input order, followed by
// the Collections map and the CollectionNames list. The output depends only
// on its input.
func Render(collections []schema.Collection, opts Options) ([]byte, error) {
	d := data{Module: opts.Module}
	if opts.Module != "" {
		d.P = "  "
	}
	for _, c := range collections {
		v := collectionView{
			Name:     c.Name,
			Property: property(c.Name),
			TypeName: translate.TypeName(c.Name),
			Fields:   make([]fieldView, len(c.Schema)),
		}
		for i, f := range c.Schema {
			v.Fields[i] = fieldView{Property: property(f.Name), Type: f.TargetType}
		}
		d.Collections = append(d.Collections, v)
	}

	var buf bytes.Buffer
	if err := declarations.Execute(&buf, d); err != nil {
		return nil, fmt.Errorf("render declarations: %w", err)
	}
	return buf.Bytes(), nil
}

// property quotes names that are not valid identifiers.
func property(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	return quote(name)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, `'`, `\'`) + "'"
}

func names(collections []collectionView) string {
	quoted := make([]string, len(collections))
	for i, c := range collections {
		quoted[i] = quote(c.Name)
	}
	return strings.Join(quoted, ", ")
}
