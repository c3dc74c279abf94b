package config

// Specification of requested literal constructor flavor.
// ENUM(vec, vecFront, set, map)
type LitKind int

// AppendOp returns the name of the generated append operation for the kind.
func (k LitKind) AppendOp() string {
	switch k {
	case LitKindVec:
		return "Push"
	case LitKindVecFront:
		return "PushFront"
	case LitKindSet, LitKindMap:
		return "Insert"
	default:
		// this should never happen
		panic("unsupported kind requested")
	}
}

// Mapped reports whether the kind stores its sequence in a map.
func (k LitKind) Mapped() bool {
	return k == LitKindSet || k == LitKindMap
}

// Keyed reports whether the kind appends key/value pairs rather than single
// elements.
func (k LitKind) Keyed() bool {
	return k == LitKindMap
}
