// Package cfgpatch patches solver configuration documents.
//
// The document format is the solver's own: one `KEY= value` option per
// line, `%` comment lines, and blank lines. The patcher parses the document
// into a line model, substitutes values for keys that are present, and
// serializes it back with every untouched line byte-identical to the input.
// Keys absent from the document are never inserted; substitution, not
// insertion, is the contract.
package cfgpatch

import (
	"fmt"
	"strings"
)

type lineKind int

const (
	lineOption lineKind = iota
	lineComment
	lineBlank
)

// line is one physical line of the document. raw holds the original text
// for lines the patcher has not touched.
type line struct {
	kind  lineKind
	key   string
	value string
	raw   string
}

// Document is a parsed solver configuration document.
type Document struct {
	lines []line
}

// Parse reads a configuration document into its line model. Lines that
// contain no `=` or start with `%` are carried through verbatim.
func Parse(data []byte) *Document {
	text := strings.TrimSuffix(string(data), "\n")
	doc := &Document{}
	if text == "" {
		return doc
	}

	for _, raw := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(raw)
		switch {
		case trimmed == "":
			doc.lines = append(doc.lines, line{kind: lineBlank, raw: raw})
		case strings.HasPrefix(trimmed, "%") || !strings.Contains(raw, "="):
			doc.lines = append(doc.lines, line{kind: lineComment, raw: raw})
		default:
			key, value, _ := strings.Cut(raw, "=")
			doc.lines = append(doc.lines, line{
				kind:  lineOption,
				key:   strings.TrimSpace(key),
				value: strings.TrimSpace(value),
				raw:   raw,
			})
		}
	}
	return doc
}

// Bytes serializes the document. Untouched lines come back byte-identical;
// patched option lines are written as "KEY= value".
func (d *Document) Bytes() []byte {
	var b strings.Builder
	for _, l := range d.lines {
		b.WriteString(l.raw)
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// Set replaces the value of the first option line with the given key.
// It reports whether the key was present; a missing key is a no-op.
func (d *Document) Set(key, value string) bool {
	for i := range d.lines {
		if d.lines[i].kind == lineOption && d.lines[i].key == key {
			d.lines[i].value = value
			d.lines[i].raw = fmt.Sprintf("%s= %s", key, value)
			return true
		}
	}
	return false
}

// Get returns the value of the first option line with the given key.
func (d *Document) Get(key string) (string, bool) {
	for _, l := range d.lines {
		if l.kind == lineOption && l.key == key {
			return l.value, true
		}
	}
	return "", false
}

// Keys returns every option key in document order.
func (d *Document) Keys() []string {
	var keys []string
	for _, l := range d.lines {
		if l.kind == lineOption {
			keys = append(keys, l.key)
		}
	}
	return keys
}

// Options returns all option key/value pairs.
func (d *Document) Options() map[string]string {
	opts := make(map[string]string)
	for _, l := range d.lines {
		if l.kind == lineOption {
			if _, seen := opts[l.key]; !seen {
				opts[l.key] = l.value
			}
		}
	}
	return opts
}

// Clone returns an independent copy of the document.
func (d *Document) Clone() *Document {
	clone := &Document{lines: make([]line, len(d.lines))}
	copy(clone.lines, d.lines)
	return clone
}
