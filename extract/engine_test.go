package extract_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/extract"
	"github.com/fwojciec/domgrab/htmlquery"
	"github.com/fwojciec/domgrab/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

// Ensure Engine implements domgrab.Extractor at compile time.
var _ domgrab.Extractor = (*extract.Engine)(nil)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const page = `<!DOCTYPE html>
<html lang="en">
<head><title>Catalog</title></head>
<body>
<h1>Hello</h1>
<p class="byline">by <a href="/people/ada">Ada</a></p>
<table>
	<tr><td>A</td><td>1</td></tr>
	<tr><td>B</td><td>2</td></tr>
</table>
</body>
</html>`

func document(t *testing.T, s string) *domgrab.Document {
	t.Helper()
	root, err := htmlquery.ParseString(s)
	require.NoError(t, err)
	return &domgrab.Document{Root: root, URL: "https://example.com/catalog"}
}

func newEngine() *extract.Engine {
	e := extract.NewEngine(htmlquery.NewResolver(), nil)
	e.Now = func() time.Time { return fixedTime }
	return e
}

func TestEngine_Extract(t *testing.T) {
	t.Parallel()

	t.Run("extracts a field", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{{Name: "title", Path: "//h1"}}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		require.NotNil(t, out.SingleResults["title"])
		assert.Equal(t, "Hello", *out.SingleResults["title"])
	})

	t.Run("extracts one row per container in document order", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{
			Name:          "rows",
			ContainerPath: "//tr",
			Children:      []domgrab.FieldRule{{Name: "cell", Path: "./td"}},
		}}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Equal(t, []domgrab.Record{
			{"cell": domgrab.String("A")},
			{"cell": domgrab.String("B")},
		}, out.ArrayResults["rows"])
	})

	t.Run("scopes absolute child paths to the container", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{
			Name:          "rows",
			ContainerPath: "//tr",
			Children:      []domgrab.FieldRule{{Name: "count", Path: "//td[2]"}},
		}}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		require.Len(t, out.ArrayResults["rows"], 2)
		assert.Equal(t, "1", *out.ArrayResults["rows"][0]["count"])
		assert.Equal(t, "2", *out.ArrayResults["rows"][1]["count"])
	})

	t.Run("zero containers yield an empty array and keep other results", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		e := newEngine()
		e.Logger = slog.New(slog.NewTextHandler(&logs, nil))
		rs := &domgrab.RuleSet{
			Fields: []domgrab.FieldRule{{Name: "title", Path: "//h1"}},
			Arrays: []domgrab.ArrayRule{{
				Name:          "items",
				ContainerPath: "//li",
				Children:      []domgrab.FieldRule{{Name: "x", Path: "."}},
			}},
		}

		out, err := e.Extract(rs, document(t, page))

		require.NoError(t, err)
		require.NotNil(t, out.ArrayResults["items"])
		assert.Empty(t, out.ArrayResults["items"])
		assert.Equal(t, "Hello", *out.SingleResults["title"])
		assert.Contains(t, logs.String(), "no containers found")
		assert.Contains(t, logs.String(), "rule=items")
	})

	t.Run("warns about unresolved and invalid field paths", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		e := extract.NewEngine(htmlquery.NewResolver(), slog.New(slog.NewTextHandler(&logs, nil)))
		rs := &domgrab.RuleSet{
			Fields:  []domgrab.FieldRule{{Name: "missing", Path: "//article"}},
			Objects: []domgrab.ObjectRule{{Name: "meta", Children: []domgrab.FieldRule{{Name: "broken", Path: "//div["}}}},
		}

		out, err := e.Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Nil(t, out.SingleResults["missing"])
		assert.Nil(t, out.ObjectResults["meta"]["broken"])
		output := logs.String()
		assert.Contains(t, output, "level=WARN")
		assert.Contains(t, output, "field not resolved")
		assert.Contains(t, output, "rule=missing")
		assert.Contains(t, output, `status="not found"`)
		assert.Contains(t, output, "rule=broken")
		assert.Contains(t, output, "status=invalid")
	})

	t.Run("stays quiet when every field resolves", func(t *testing.T) {
		t.Parallel()

		var logs bytes.Buffer
		e := extract.NewEngine(htmlquery.NewResolver(), slog.New(slog.NewTextHandler(&logs, nil)))
		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{{Name: "title", Path: "//h1"}}}

		_, err := e.Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Empty(t, logs.String())
	})

	t.Run("unresolved and invalid paths yield nil", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{
			{Name: "missing", Path: "//article"},
			{Name: "broken", Path: "//div["},
			{Name: "title", Path: "//h1"},
		}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Contains(t, out.SingleResults, "missing")
		assert.Nil(t, out.SingleResults["missing"])
		assert.Contains(t, out.SingleResults, "broken")
		assert.Nil(t, out.SingleResults["broken"])
		assert.Equal(t, "Hello", *out.SingleResults["title"])
	})

	t.Run("invalid container path yields an empty array", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{Name: "rows", ContainerPath: "//tr[", Children: []domgrab.FieldRule{{Name: "c", Path: "."}}}}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Equal(t, []domgrab.Record{}, out.ArrayResults["rows"])
	})

	t.Run("reads attributes", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{
			{Name: "author", Path: "//p[@class='byline']/a", Attribute: "href"},
			{Name: "byline", Path: "//p[@class='byline']", Attribute: domgrab.AttrHTML},
			{Name: "lang", Path: "/html", Attribute: "lang"},
		}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Equal(t, "/people/ada", *out.SingleResults["author"])
		assert.Equal(t, `by <a href="/people/ada">Ada</a>`, *out.SingleResults["byline"])
		assert.Equal(t, "en", *out.SingleResults["lang"])
	})

	t.Run("object children resolve against the document", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Objects: []domgrab.ObjectRule{{
			Name: "meta",
			Children: []domgrab.FieldRule{
				{Name: "title", Path: "//title"},
				{Name: "heading", Path: "//h1"},
				{Name: "missing", Path: "//nav"},
			},
		}}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		meta := out.ObjectResults["meta"]
		assert.Equal(t, "Catalog", *meta["title"])
		assert.Equal(t, "Hello", *meta["heading"])
		assert.Contains(t, meta, "missing")
		assert.Nil(t, meta["missing"])
	})

	t.Run("last rule wins on repeated names", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{
			{Name: "title", Path: "//h1"},
			{Name: "title", Path: "//title"},
		}}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Len(t, out.SingleResults, 1)
		assert.Equal(t, "Catalog", *out.SingleResults["title"])
	})

	t.Run("sets metadata", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Format: domgrab.FormatCSV}

		out, err := newEngine().Extract(rs, document(t, page))

		require.NoError(t, err)
		assert.Equal(t, domgrab.FormatCSV, out.Format)
		assert.Equal(t, "https://example.com/catalog", out.SourceURL)
		assert.Equal(t, fixedTime, out.Timestamp)
		assert.Empty(t, out.SingleResults)
		assert.Empty(t, out.ObjectResults)
		assert.Empty(t, out.ArrayResults)
	})

	t.Run("defaults format to json", func(t *testing.T) {
		t.Parallel()

		out, err := newEngine().Extract(&domgrab.RuleSet{}, document(t, page))

		require.NoError(t, err)
		assert.Equal(t, domgrab.FormatJSON, out.Format)
	})

	t.Run("defaults clock to current time", func(t *testing.T) {
		t.Parallel()

		before := time.Now()
		out, err := extract.NewEngine(htmlquery.NewResolver(), nil).Extract(&domgrab.RuleSet{}, document(t, page))

		require.NoError(t, err)
		assert.False(t, out.Timestamp.Before(before.Truncate(time.Second)))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{
			Fields: []domgrab.FieldRule{{Name: "title", Path: "//h1"}},
			Arrays: []domgrab.ArrayRule{{Name: "rows", ContainerPath: "//tr", Children: []domgrab.FieldRule{
				{Name: "name", Path: "./td[1]"},
				{Name: "count", Path: "./td[2]"},
			}}},
		}
		doc := document(t, page)
		e := newEngine()

		first, err := e.Extract(rs, doc)
		require.NoError(t, err)
		second, err := e.Extract(rs, doc)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("rejects malformed rule sets", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{ID: "a1", Name: "rows"}}}

		out, err := newEngine().Extract(rs, document(t, page))

		assert.Nil(t, out)
		var rse *domgrab.RuleSetError
		require.True(t, errors.As(err, &rse))
		assert.Equal(t, domgrab.KindArray, rse.Kind)
		assert.Equal(t, "a1", rse.RuleID)
	})

	t.Run("rejects missing document", func(t *testing.T) {
		t.Parallel()

		_, err := newEngine().Extract(&domgrab.RuleSet{}, nil)

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(err))
	})

	t.Run("uses the configured resolver", func(t *testing.T) {
		t.Parallel()

		var exprs []string
		resolver := &mock.PathResolver{
			ResolveOneFn: func(expr string, root *html.Node) domgrab.Resolution {
				exprs = append(exprs, expr)
				return domgrab.Resolution{Status: domgrab.Found, Nodes: []*html.Node{root}}
			},
			ReadValueFn: func(_ *html.Node, attr domgrab.Attribute) *string {
				return domgrab.String(string(attr))
			},
		}
		e := extract.NewEngine(resolver, nil)
		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{{Name: "a", Path: "x", Attribute: "data-a"}}}

		out, err := e.Extract(rs, &domgrab.Document{Root: &html.Node{Type: html.DocumentNode}})

		require.NoError(t, err)
		assert.Equal(t, []string{"x"}, exprs)
		assert.Equal(t, "data-a", *out.SingleResults["a"])
	})
}
