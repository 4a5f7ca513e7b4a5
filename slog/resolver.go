// Package slog provides log/slog decorators for domgrab services.
package slog

import (
	"log/slog"

	"github.com/fwojciec/domgrab"
	"golang.org/x/net/html"
)

// Ensure LoggingResolver implements domgrab.PathResolver.
var _ domgrab.PathResolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a PathResolver and traces every evaluation at debug
// level. Unresolved rules are reported by the extraction engine.
type LoggingResolver struct {
	next   domgrab.PathResolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next domgrab.PathResolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// ResolveOne delegates to the wrapped resolver.
func (r *LoggingResolver) ResolveOne(expr string, root *html.Node) domgrab.Resolution {
	res := r.next.ResolveOne(expr, root)
	r.log("resolve one", expr, res)
	return res
}

// ResolveAll delegates to the wrapped resolver.
func (r *LoggingResolver) ResolveAll(expr string, root *html.Node) domgrab.Resolution {
	res := r.next.ResolveAll(expr, root)
	r.log("resolve all", expr, res)
	return res
}

// ReadValue delegates to the wrapped resolver.
func (r *LoggingResolver) ReadValue(n *html.Node, attr domgrab.Attribute) *string {
	return r.next.ReadValue(n, attr)
}

func (r *LoggingResolver) log(msg, expr string, res domgrab.Resolution) {
	attrs := []any{
		"expr", expr,
		"status", res.Status.String(),
		"matches", len(res.Nodes),
	}
	if res.Status == domgrab.Invalid {
		attrs = append(attrs, "reason", res.Reason)
	}
	r.logger.Debug(msg, attrs...)
}
