package shape

import (
	"fmt"
	"go/types"

	"litgen/config"
)

// Resolve validates the annotated struct against the expected shape for the
// requested kind and captures everything needed for emission. All returned
// errors are build time diagnostics addressed to the author of the struct.
func Resolve(name string, named *types.Named, kind config.LitKind, current *types.Package) (*Shape, error) {
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("%s: generic struct types are not supported, sequence element type would be ambiguous", name)
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return nil, fmt.Errorf("%s: expected a struct, have %s", name, named.Underlying())
	}
	if st.NumFields() != 2 {
		return nil, fmt.Errorf("%s: expected exactly 2 fields (count and sequence), have %d", name, st.NumFields())
	}

	want := "a slice"
	if kind.Mapped() {
		want = "a map"
	}

	imports := make(map[string]struct{})
	qual := func(p *types.Package) string {
		if p == current {
			return ""
		}
		imports[p.Path()] = struct{}{}
		return p.Name()
	}

	s := &Shape{Name: name, Kind: kind}

	for i := range st.NumFields() {
		f := st.Field(i)
		switch u := f.Type().Underlying().(type) {
		case *types.Basic:
			if u.Info()&types.IsInteger == 0 {
				return nil, fmt.Errorf("%s: unsupported field %q of type %s: count field must be integral, sequence field must be %s",
					name, f.Name(), u, want)
			}
			if len(s.Count) > 0 {
				return nil, fmt.Errorf("%s: ambiguous count field, both %q and %q are integral", name, s.Count, f.Name())
			}
			s.Count = f.Name()
		case *types.Slice:
			if kind.Mapped() {
				return nil, fmt.Errorf("%s: kind %s requires a map sequence field, %q is a slice", name, kind, f.Name())
			}
			if len(s.Seq) > 0 {
				return nil, fmt.Errorf("%s: ambiguous sequence field, both %q and %q are sequences", name, s.Seq, f.Name())
			}
			s.Seq = f.Name()
			s.SeqType = types.TypeString(f.Type(), qual)
			s.Elem = types.TypeString(u.Elem(), qual)
		case *types.Map:
			if !kind.Mapped() {
				return nil, fmt.Errorf("%s: kind %s requires a slice sequence field, %q is a map", name, kind, f.Name())
			}
			if len(s.Seq) > 0 {
				return nil, fmt.Errorf("%s: ambiguous sequence field, both %q and %q are sequences", name, s.Seq, f.Name())
			}
			if kind == config.LitKindSet {
				if es, ok := u.Elem().Underlying().(*types.Struct); !ok || es.NumFields() != 0 {
					return nil, fmt.Errorf("%s: kind set requires a map with empty struct values, %q has %s values",
						name, f.Name(), u.Elem())
				}
			}
			s.Seq = f.Name()
			s.SeqType = types.TypeString(f.Type(), qual)
			s.Key = types.TypeString(u.Key(), qual)
			s.Val = types.TypeString(u.Elem(), qual)
		default:
			return nil, fmt.Errorf("%s: unsupported field %q of type %s: count field must be integral, sequence field must be %s",
				name, f.Name(), f.Type(), want)
		}
	}

	if len(s.Count) == 0 {
		return nil, fmt.Errorf("%s: missing integral count field", name)
	}
	if len(s.Seq) == 0 {
		return nil, fmt.Errorf("%s: missing sequence field (%s of elements)", name, want)
	}

	s.addImports(imports)
	return s, nil
}
