// Package emit renders generated artifacts for validated container shapes.
package emit

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"litgen/config"
	"litgen/misc"
	"litgen/shape"
)

//go:embed artifacts.go.tmpl
var artifactsTmpl string

// File is a single generated artifact ready to be written out.
type File struct {
	Path    string // where the artifact should be written
	Content []byte // gofmt formatted Go source
}

// Values is a struct that holds variables we make available for template expansion
type Values struct {
	Package    string
	Version    string
	HeaderNote string
	Imports    []string

	Kind    config.LitKind
	Type    string
	Builder string
	Pair    string
	Count   string
	Seq     string
	SeqType string
	Elem    string
	Key     string
	Val     string
}

// Generate renders all three artifacts for the shape into a single output
// file placed next to the annotated struct.
func Generate(dir, pkgName string, s *shape.Shape, conf *config.GeneratorConfig) (*File, error) {
	content, err := Render(pkgName, s, conf)
	if err != nil {
		return nil, err
	}
	return &File{
		Path:    OutputPath(dir, s.Name, conf),
		Content: content,
	}, nil
}

// Render expands the artifacts template for the shape and returns formatted
// Go source. Output is fully determined by the shape and configuration, so
// repeated runs produce identical bytes.
func Render(pkgName string, s *shape.Shape, conf *config.GeneratorConfig) ([]byte, error) {
	tmpl, err := template.New("artifacts").Funcs(sprig.FuncMap()).Parse(artifactsTmpl)
	if err != nil {
		return nil, fmt.Errorf("unable to parse artifacts template: %w", err)
	}

	values := Values{
		Package:    pkgName,
		Version:    misc.GetVersion(),
		HeaderNote: conf.HeaderNote,
		Imports:    s.Imports,
		Kind:       s.Kind,
		Type:       s.Name,
		Builder:    builderName(s),
		Pair:       s.Name + "Pair",
		Count:      s.Count,
		Seq:        s.Seq,
		SeqType:    s.SeqType,
		Elem:       s.ElemOrKey(),
		Key:        s.Key,
		Val:        s.Val,
	}

	buf := new(bytes.Buffer)
	if err := tmpl.Execute(buf, values); err != nil {
		return nil, fmt.Errorf("unable to expand artifacts template for %s: %w", s.Name, err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("unable to format generated code for %s: %w", s.Name, err)
	}
	return src, nil
}

func builderName(s *shape.Shape) string {
	if s.Kind.Keyed() {
		return s.Name + "FromPairs"
	}
	return s.Name + "Of"
}
