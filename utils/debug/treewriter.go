// Package debug formats intermediate compilation state as indented text.
package debug

import (
	"fmt"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines, two spaces per level.
type TreeWriter struct {
	b strings.Builder
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) indent(depth int) {
	for range depth {
		tw.b.WriteString("  ")
	}
}

// Line writes formatted line at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.indent(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// Field writes "label: value" line, value is quoted when it has leading or
// trailing spaces or non-printable characters. Empty values are skipped.
func (tw *TreeWriter) Field(depth int, label, value string) {
	if value == "" {
		return
	}
	tw.indent(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(encodeText(value))
	tw.b.WriteByte('\n')
}

// List writes label followed by items one level deeper, nothing for empty
// list.
func (tw *TreeWriter) List(depth int, label string, items []string) {
	if len(items) == 0 {
		return
	}
	tw.Line(depth, "%s:", label)
	for _, it := range items {
		tw.Line(depth+1, "%s", encodeText(it))
	}
}

func encodeText(raw string) string {
	if strings.TrimSpace(raw) != raw {
		return strconv.Quote(raw)
	}
	for _, r := range raw {
		if !strconv.IsPrint(r) {
			return strconv.Quote(raw)
		}
	}
	return raw
}
