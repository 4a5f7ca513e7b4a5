// Package etree renders extraction output as XML using beevik/etree.
package etree

import (
	"sort"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/fwojciec/domgrab"
)

// Compile-time interface verification.
var _ domgrab.Formatter = (*Formatter)(nil)

// Formatter renders the xml format itself and delegates every other format
// to domgrab.FormatOutput.
type Formatter struct {
	indent int
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithIndent sets the number of spaces per nesting level. Zero disables
// indentation.
func WithIndent(n int) Option {
	return func(f *Formatter) {
		f.indent = n
	}
}

// NewFormatter creates a Formatter indenting with two spaces by default.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{indent: 2}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format renders out. An empty format falls back to out.Format.
//
// The xml layout is:
//
//	<extraction url="..." timestamp="...">
//	  <single><field name="title">Hello</field></single>
//	  <object name="meta"><field name="lang">en</field></object>
//	  <array name="rows"><row index="1"><field name="cell">A</field></row></array>
//	</extraction>
//
// Null values render as empty fields with null="true".
func (f *Formatter) Format(out *domgrab.Output, format domgrab.Format, rs *domgrab.RuleSet) (string, error) {
	if out == nil {
		return "", domgrab.Errorf(domgrab.EINVALID, "output required")
	}
	if format == "" {
		format = out.Format
	}
	if format != domgrab.FormatXML {
		return domgrab.FormatOutput(out, format, rs)
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("extraction")
	root.CreateAttr("url", out.SourceURL)
	root.CreateAttr("timestamp", out.Timestamp.UTC().Format(time.RFC3339Nano))
	if out.ContentHash != "" {
		root.CreateAttr("contentHash", out.ContentHash)
	}

	single := root.CreateElement("single")
	var fieldOrder []domgrab.FieldRule
	if rs != nil {
		fieldOrder = rs.Fields
	}
	writeRecord(single, out.SingleResults, fieldOrder)

	for _, name := range objectNames(out, rs) {
		el := root.CreateElement("object")
		el.CreateAttr("name", name)
		writeRecord(el, out.ObjectResults[name], objectChildren(rs, name))
	}

	for _, name := range arrayNames(out, rs) {
		el := root.CreateElement("array")
		el.CreateAttr("name", name)
		children := arrayChildren(rs, name)
		for i, rec := range out.ArrayResults[name] {
			row := el.CreateElement("row")
			row.CreateAttr("index", strconv.Itoa(i+1))
			writeRecord(row, rec, children)
		}
	}

	if f.indent > 0 {
		doc.Indent(f.indent)
	}
	return doc.WriteToString()
}

// writeRecord appends one field element per key in rule order.
func writeRecord(parent *etree.Element, rec domgrab.Record, rules []domgrab.FieldRule) {
	for _, key := range recordKeys(rec, rules) {
		el := parent.CreateElement("field")
		el.CreateAttr("name", key)
		v := rec[key]
		if v == nil {
			el.CreateAttr("null", "true")
			continue
		}
		el.SetText(*v)
	}
}

func recordKeys(rec domgrab.Record, rules []domgrab.FieldRule) []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return orderedKeys(rec, names)
}

func objectNames(out *domgrab.Output, rs *domgrab.RuleSet) []string {
	var ordered []string
	if rs != nil {
		for _, o := range rs.Objects {
			ordered = append(ordered, o.Name)
		}
	}
	return orderedKeys(out.ObjectResults, ordered)
}

func arrayNames(out *domgrab.Output, rs *domgrab.RuleSet) []string {
	var ordered []string
	if rs != nil {
		for _, a := range rs.Arrays {
			ordered = append(ordered, a.Name)
		}
	}
	return orderedKeys(out.ArrayResults, ordered)
}

// orderedKeys returns the keys of m in the given order, followed by any
// remaining keys sorted.
func orderedKeys[V any](m map[string]V, ordered []string) []string {
	seen := make(map[string]bool, len(m))
	keys := make([]string, 0, len(m))
	for _, name := range ordered {
		if _, ok := m[name]; ok && !seen[name] {
			seen[name] = true
			keys = append(keys, name)
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func objectChildren(rs *domgrab.RuleSet, name string) []domgrab.FieldRule {
	if rs == nil {
		return nil
	}
	for _, o := range rs.Objects {
		if o.Name == name {
			return o.Children
		}
	}
	return nil
}

func arrayChildren(rs *domgrab.RuleSet, name string) []domgrab.FieldRule {
	if rs == nil {
		return nil
	}
	for _, a := range rs.Arrays {
		if a.Name == name {
			return a.Children
		}
	}
	return nil
}
