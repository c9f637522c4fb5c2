// Package rosjson is the JSON bridge: a thin adapter that walks the same
// compiled field tree as package walker, either decoding a binary payload
// directly into a JSON document or parsing a JSON document into a
// walker.Cursor for the encode-direction walker to drive.
package rosjson

import (
	"math"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Options controls the shape of emitted JSON - compact or pretty-printed
// with a configurable indent - and whether constant fields (elided from the
// wire and the field tree) are rendered alongside the wire fields.
type Options struct {
	// Indent is the number of spaces per nesting level. Zero means compact
	// (no inserted whitespace).
	Indent int
	// IgnoreConstants, when true, omits a message's constant fields from
	// the JSON document. When false, each constant is rendered using its
	// literal definition-text value.
	IgnoreConstants bool
}

// writer accumulates a JSON document by direct text construction rather than
// via a generic tree, so the field-tree's declaration order is preserved
// exactly and NaN/Infinity can be emitted as bare (non-standard) tokens -
// neither of which encoding/json-shaped marshalers support.
type writer struct {
	sb     strings.Builder
	indent int
	depth  int
}

func newWriter(indent int) *writer { return &writer{indent: indent} }

func (w *writer) pretty() bool { return w.indent > 0 }

func (w *writer) newline() {
	if !w.pretty() {
		return
	}
	w.sb.WriteByte('\n')
	w.sb.WriteString(strings.Repeat(" ", w.indent*w.depth))
}

func (w *writer) beginObject() {
	w.sb.WriteByte('{')
	w.depth++
}

func (w *writer) endObject() {
	w.depth--
	w.newline()
	w.sb.WriteByte('}')
}

func (w *writer) beginArray() {
	w.sb.WriteByte('[')
	w.depth++
}

func (w *writer) endArray() {
	w.depth--
	w.newline()
	w.sb.WriteByte(']')
}

func (w *writer) comma() { w.sb.WriteByte(',') }

// key writes "name": (with the colon-following space only in pretty mode),
// preceded by a newline+indent in pretty mode.
func (w *writer) key(name string) {
	w.newline()
	w.sb.WriteString(quote(name))
	w.sb.WriteByte(':')
	if w.pretty() {
		w.sb.WriteByte(' ')
	}
}

func (w *writer) raw(s string) { w.sb.WriteString(s) }

func (w *writer) String() string { return w.sb.String() }

// quote renders s as a JSON string literal using the same escaping rules the
// rest of the engine's JSON output follows, reusing goccy/go-json rather
// than hand-rolling escape logic.
func quote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		// Marshal(string) cannot fail for a valid Go string.
		return `""`
	}
	return string(b)
}

// formatFloat renders a float as a JSON number, permitting the non-standard
// NaN/Infinity literals since ROS floats can take either value.
func formatFloat(v float64, bitSize int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	default:
		return strconv.FormatFloat(v, 'g', -1, bitSize)
	}
}
