package shape

import (
	"fmt"
	"strconv"
	"strings"
)

// treeWriter renders indented key/value trees for debug report dumps.
type treeWriter struct {
	b strings.Builder
}

func (tw *treeWriter) String() string {
	return tw.b.String()
}

func (tw *treeWriter) line(depth int, format string, args ...any) {
	for range depth {
		tw.b.WriteString("  ")
	}
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

func (tw *treeWriter) field(depth int, label, value string) {
	for range depth {
		tw.b.WriteString("  ")
	}
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	if len(value) > 0 {
		value = strconv.Quote(value)
	}
	tw.b.WriteString(value)
	tw.b.WriteByte('\n')
}
