// Package extract executes extraction rule sets against parsed documents and
// builds locators for elements picked by a user.
package extract

import (
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// Ensure Engine implements domgrab.Extractor at compile time.
var _ domgrab.Extractor = (*Engine)(nil)

// Engine evaluates field, object and array rules and assembles an Output.
// It holds no state between calls.
type Engine struct {
	Resolver domgrab.PathResolver
	Logger   *slog.Logger

	// Now stamps each output. Defaults to the current UTC time.
	Now func() time.Time
}

// NewEngine creates an Engine. A nil logger discards log output.
func NewEngine(resolver domgrab.PathResolver, logger *slog.Logger) *Engine {
	return &Engine{Resolver: resolver, Logger: logger}
}

// Extract runs every rule in rs against doc.
//
// Unresolved or invalid field paths yield nil values and a warning. Array
// rules whose container path matches nothing yield an empty slice. When names repeat
// within a result group, the later rule wins.
func (e *Engine) Extract(rs *domgrab.RuleSet, doc *domgrab.Document) (*domgrab.Output, error) {
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	if doc == nil || doc.Root == nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "document required")
	}

	format := rs.Format
	if format == "" {
		format = domgrab.FormatJSON
	}

	out := &domgrab.Output{
		SingleResults: domgrab.Record{},
		ObjectResults: make(map[string]domgrab.Record),
		ArrayResults:  make(map[string][]domgrab.Record),
		Format:        format,
		SourceURL:     doc.URL,
		Timestamp:     e.now(),
	}

	for _, rule := range rs.Rules() {
		switch r := rule.(type) {
		case domgrab.FieldRule:
			out.SingleResults[r.Name] = e.value(r, doc.Root)
		case domgrab.ObjectRule:
			out.ObjectResults[r.Name] = e.record(r.Children, doc.Root)
		case domgrab.ArrayRule:
			out.ArrayResults[r.Name] = e.rows(r, doc.Root)
		default:
			return nil, domgrab.Errorf(domgrab.EINTERNAL, "unsupported rule kind %T", rule)
		}
	}

	return out, nil
}

func (e *Engine) value(r domgrab.FieldRule, root *html.Node) *string {
	res := e.Resolver.ResolveOne(r.Path, root)
	if res.Status != domgrab.Found {
		e.logger().Warn("field not resolved",
			"rule", r.Name,
			"path", r.Path,
			"status", res.Status.String(),
			"reason", res.Reason,
		)
		return nil
	}
	return e.Resolver.ReadValue(res.Node(), r.Attribute)
}

func (e *Engine) record(children []domgrab.FieldRule, root *html.Node) domgrab.Record {
	rec := make(domgrab.Record, len(children))
	for _, c := range children {
		rec[c.Name] = e.value(c, root)
	}
	return rec
}

func (e *Engine) rows(r domgrab.ArrayRule, root *html.Node) []domgrab.Record {
	res := e.Resolver.ResolveAll(r.ContainerPath, root)
	if res.Status != domgrab.Found {
		e.logger().Warn("no containers found",
			"rule", r.Name,
			"path", r.ContainerPath,
			"status", res.Status.String(),
			"reason", res.Reason,
		)
		return []domgrab.Record{}
	}

	rows := make([]domgrab.Record, 0, len(res.Nodes))
	for _, container := range res.Nodes {
		rows = append(rows, e.record(r.Children, container))
	}
	return rows
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now().UTC()
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
