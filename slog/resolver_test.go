package slog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/mock"
	dgslog "github.com/fwojciec/domgrab/slog"
	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func resolverReturning(res domgrab.Resolution) *mock.PathResolver {
	return &mock.PathResolver{
		ResolveOneFn: func(string, *html.Node) domgrab.Resolution { return res },
		ResolveAllFn: func(string, *html.Node) domgrab.Resolution { return res },
		ReadValueFn:  func(*html.Node, domgrab.Attribute) *string { return domgrab.String("v") },
	}
}

func TestLoggingResolver(t *testing.T) {
	t.Parallel()

	debug := &slog.HandlerOptions{Level: slog.LevelDebug}

	t.Run("traces matches at debug level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, debug))
		node := &html.Node{Type: html.ElementNode, Data: "h1"}
		r := dgslog.NewLoggingResolver(resolverReturning(domgrab.Resolution{Status: domgrab.Found, Nodes: []*html.Node{node}}), logger)

		res := r.ResolveOne("//h1", node)

		assert.Equal(t, domgrab.Found, res.Status)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "expr=//h1")
		assert.Contains(t, output, "status=found")
		assert.Contains(t, output, "matches=1")
	})

	t.Run("leaves warnings to the engine", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		r := dgslog.NewLoggingResolver(resolverReturning(domgrab.Resolution{Status: domgrab.NotFound}), logger)

		res := r.ResolveAll("//tr", nil)

		assert.Equal(t, domgrab.NotFound, res.Status)
		assert.Empty(t, buf.String())
	})

	t.Run("traces reason when invalid", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, debug))
		r := dgslog.NewLoggingResolver(resolverReturning(domgrab.Resolution{Status: domgrab.Invalid, Reason: "bad"}), logger)

		r.ResolveOne("//div[", nil)

		output := buf.String()
		assert.Contains(t, output, "status=invalid")
		assert.Contains(t, output, "reason=bad")
		assert.Contains(t, output, "matches=0")
	})

	t.Run("delegates value reads", func(t *testing.T) {
		t.Parallel()

		r := dgslog.NewLoggingResolver(resolverReturning(domgrab.Resolution{}), slog.New(slog.DiscardHandler))

		assert.Equal(t, "v", *r.ReadValue(nil, domgrab.AttrText))
	})
}
