// Package convert renders edit scripts for people and other tools.
package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/PixelogicMedia/worddiff/pkg/diff"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// XML wraps additions in <ins> and removals in <del>, escaping the text.
func XML(script diff.EditScript) string {
	var b strings.Builder
	for _, c := range script {
		switch {
		case c.Added:
			b.WriteString("<ins>")
			htmlEscaper.WriteString(&b, c.Value)
			b.WriteString("</ins>")
		case c.Removed:
			b.WriteString("<del>")
			htmlEscaper.WriteString(&b, c.Value)
			b.WriteString("</del>")
		default:
			htmlEscaper.WriteString(&b, c.Value)
		}
	}
	return b.String()
}

// DMP operation codes, as used by diff-match-patch.
const (
	DMPDelete = -1
	DMPEqual  = 0
	DMPInsert = 1
)

// DMPTuple is one [operation, text] pair.
type DMPTuple struct {
	Op   int
	Text string
}

// MarshalJSON encodes the tuple as a two element array.
func (t DMPTuple) MarshalJSON() ([]byte, error) {
	return marshal([]any{t.Op, t.Text})
}

// marshal encodes v as compact JSON, leaving <, > and & unescaped.
func marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DMP converts a script to diff-match-patch style tuples.
func DMP(script diff.EditScript) []DMPTuple {
	out := make([]DMPTuple, len(script))
	for i, c := range script {
		op := DMPEqual
		switch {
		case c.Added:
			op = DMPInsert
		case c.Removed:
			op = DMPDelete
		}
		out[i] = DMPTuple{Op: op, Text: c.Value}
	}
	return out
}

// Plain renders a git --word-diff=plain style string: [-removed-]{+added+}.
func Plain(script diff.EditScript) string {
	var b strings.Builder
	for _, c := range script {
		switch {
		case c.Added:
			fmt.Fprintf(&b, "{+%s+}", c.Value)
		case c.Removed:
			fmt.Fprintf(&b, "[-%s-]", c.Value)
		default:
			b.WriteString(c.Value)
		}
	}
	return b.String()
}

var (
	addedColor   = color.New(color.FgGreen, color.Underline)
	removedColor = color.New(color.FgRed, color.CrossedOut)
)

// Color renders additions in green and removals in red. Colouring follows
// color.NoColor, so output to a non-terminal stays plain text.
func Color(script diff.EditScript) string {
	var b strings.Builder
	for _, c := range script {
		switch {
		case c.Added:
			b.WriteString(addedColor.Sprint(c.Value))
		case c.Removed:
			b.WriteString(removedColor.Sprint(c.Value))
		default:
			b.WriteString(c.Value)
		}
	}
	return b.String()
}

// Format names an output format accepted by Render.
type Format string

// Supported formats.
const (
	FormatXML   Format = "xml"
	FormatJSON  Format = "json"
	FormatDMP   Format = "dmp"
	FormatPlain Format = "plain"
	FormatColor Format = "color"
)

// Formats lists every supported format.
var Formats = []Format{FormatXML, FormatJSON, FormatDMP, FormatPlain, FormatColor}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Render renders script in the requested format.
func Render(script diff.EditScript, format Format) (string, error) {
	switch format {
	case FormatXML:
		return XML(script), nil
	case FormatPlain:
		return Plain(script), nil
	case FormatColor:
		return Color(script), nil
	case FormatJSON:
		if script == nil {
			script = diff.EditScript{}
		}
		data, err := marshal(script)
		if err != nil {
			return "", fmt.Errorf("encoding edit script: %w", err)
		}
		return string(data), nil
	case FormatDMP:
		data, err := marshal(DMP(script))
		if err != nil {
			return "", fmt.Errorf("encoding dmp tuples: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}
