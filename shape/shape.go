// Package shape captures the structural signature container structs must
// present to be eligible for literal constructor generation, and validates
// candidate structs against it.
package shape

import (
	"sort"

	"github.com/maruel/natural"

	"litgen/config"
)

// Shape is everything the emitter needs to know about a validated container
// struct: field roles and rendered type names.
type Shape struct {
	Name string // struct type name
	Kind config.LitKind

	Count   string // name of the count field
	Seq     string // name of the sequence field
	SeqType string // rendered type of the sequence field

	Elem string // rendered element type (vec, vecFront)
	Key  string // rendered key type (set, map)
	Val  string // rendered value type (set, map)

	// import paths of packages referenced by the rendered types
	Imports []string
}

// ElemOrKey returns the type of a single builder argument for element kinds.
func (s *Shape) ElemOrKey() string {
	if s.Kind.Mapped() {
		return s.Key
	}
	return s.Elem
}

func (s *Shape) addImports(paths map[string]struct{}) {
	s.Imports = make([]string, 0, len(paths))
	for p := range paths {
		s.Imports = append(s.Imports, p)
	}
	sort.Sort(natural.StringSlice(s.Imports))
}

// String renders a readable tree of the shape. It exists solely for the
// debug report.
func (s *Shape) String() string {
	tw := &treeWriter{}
	tw.line(0, "%s (%s)", s.Name, s.Kind)
	tw.field(1, "count", s.Count)
	tw.field(1, "sequence", s.Seq)
	tw.field(1, "sequence type", s.SeqType)
	if s.Kind.Mapped() {
		tw.field(1, "key", s.Key)
		tw.field(1, "value", s.Val)
	} else {
		tw.field(1, "element", s.Elem)
	}
	for _, p := range s.Imports {
		tw.line(1, "import %q", p)
	}
	return tw.String()
}
