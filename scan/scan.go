// Package scan discovers structs annotated for literal constructor
// generation in loaded Go packages.
package scan

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/multierr"
	"golang.org/x/tools/go/packages"

	"litgen/config"
)

// Candidate is a single annotated struct type found during the scan.
type Candidate struct {
	PkgPath  string
	PkgName  string
	Dir      string
	TypeName string
	Kind     config.LitKind
	Obj      *types.TypeName
	Pos      token.Position
}

// Load loads and type checks packages matching patterns. Full syntax and
// type information is requested - the validator needs resolved types, not
// just declarations.
func Load(ctx context.Context, patterns, tags []string) ([]*packages.Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo | packages.NeedImports,
	}
	if len(tags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(tags, ",")}
	}
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("unable to load packages: %w", err)
	}

	var errs error
	packages.Visit(pkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = multierr.Append(errs, fmt.Errorf("%s: %s", p.PkgPath, e))
		}
	})
	if errs != nil {
		return nil, fmt.Errorf("unable to load packages: %w", errs)
	}
	return pkgs, nil
}

// Candidates walks package syntax looking for the marker in type doc
// comments and returns annotated structs in natural order of package path
// and type name, so repeated runs always process them the same way.
func Candidates(marker string, pkgs []*packages.Package) ([]Candidate, error) {
	re, err := markerPattern(marker)
	if err != nil {
		return nil, err
	}

	var (
		found []Candidate
		errs  error
	)
	for _, pkg := range pkgs {
		cs, err := collect(re, pkg.Fset, pkg.Syntax, pkg.Types, pkg.PkgPath)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		found = append(found, cs...)
	}
	if errs != nil {
		return nil, errs
	}

	sort.Slice(found, func(i, j int) bool {
		return natural.Less(found[i].PkgPath+"."+found[i].TypeName, found[j].PkgPath+"."+found[j].TypeName)
	})
	return found, nil
}

// markerPattern builds matcher for "MARKER(kind)" lines in doc comment text.
// Same comment grammar go-enum uses for its ENUM(...) annotations.
func markerPattern(marker string) (*regexp.Regexp, error) {
	if len(marker) == 0 {
		return nil, fmt.Errorf("marker must not be empty")
	}
	re, err := regexp.Compile(`(?m)^\s*` + regexp.QuoteMeta(marker) + `\(([^)]*)\)\s*$`)
	if err != nil {
		return nil, fmt.Errorf("unable to compile marker pattern for %q: %w", marker, err)
	}
	return re, nil
}

func collect(re *regexp.Regexp, fset *token.FileSet, files []*ast.File, tpkg *types.Package, pkgPath string) ([]Candidate, error) {
	var (
		found []Candidate
		errs  error
	)

	for _, file := range files {
		if ast.IsGenerated(file) {
			continue
		}
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}

				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				if doc == nil {
					continue
				}

				m := re.FindStringSubmatch(doc.Text())
				if m == nil {
					continue
				}

				name := ts.Name.Name
				kind, err := config.ParseLitKind(strings.TrimSpace(m[1]))
				if err != nil {
					errs = multierr.Append(errs, fmt.Errorf("%s.%s: unknown literal kind %q (supported kinds: %s)",
						pkgPath, name, strings.TrimSpace(m[1]), strings.Join(config.LitKindNames(), ", ")))
					continue
				}

				obj, ok := tpkg.Scope().Lookup(name).(*types.TypeName)
				if !ok {
					errs = multierr.Append(errs, fmt.Errorf("%s.%s: unable to resolve annotated type", pkgPath, name))
					continue
				}

				pos := fset.Position(ts.Pos())
				found = append(found, Candidate{
					PkgPath:  pkgPath,
					PkgName:  tpkg.Name(),
					Dir:      filepath.Dir(pos.Filename),
					TypeName: name,
					Kind:     kind,
					Obj:      obj,
					Pos:      pos,
				})
			}
		}
	}
	return found, errs
}
