package main_test

import (
	"path/filepath"
	"testing"

	"github.com/fwojciec/domgrab"
	main "github.com/fwojciec/domgrab/cmd/domgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRuleFile(t *testing.T) {
	t.Parallel()

	t.Run("loads yaml", func(t *testing.T) {
		t.Parallel()

		rs, err := main.LoadRuleFile(writeFile(t, t.TempDir(), "rules.yaml", articleRules))

		require.NoError(t, err)
		assert.Equal(t, domgrab.FormatCSV, rs.Format)
		require.Len(t, rs.Fields, 2)
		assert.Equal(t, "//span[@class='author']", rs.Fields[1].Path)
		require.Len(t, rs.Arrays, 1)
		assert.Equal(t, "//tr", rs.Arrays[0].ContainerPath)
		assert.Len(t, rs.Arrays[0].Children, 2)
	})

	t.Run("loads json", func(t *testing.T) {
		t.Parallel()

		path := writeFile(t, t.TempDir(), "rules.json", `{
			"urlPattern": "example.com",
			"objects": [{"name": "meta", "children": [{"name": "lang", "path": "/html", "attribute": "lang"}]}]
		}`)

		rs, err := main.LoadRuleFile(path)

		require.NoError(t, err)
		assert.Equal(t, "example.com", rs.URLPattern)
		require.Len(t, rs.Objects, 1)
		assert.Equal(t, domgrab.Attribute("lang"), rs.Objects[0].Children[0].Attribute)
	})

	t.Run("reports missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadRuleFile(filepath.Join(t.TempDir(), "none.yaml"))

		assert.Equal(t, domgrab.ENOTFOUND, domgrab.ErrorCode(err))
	})

	t.Run("reports malformed file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadRuleFile(writeFile(t, t.TempDir(), "rules.yaml", "fields: [unclosed"))

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(err))
	})

	t.Run("validates rules", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadRuleFile(writeFile(t, t.TempDir(), "rules.yaml", "arrays:\n  - name: rows\n"))

		var rse *domgrab.RuleSetError
		require.ErrorAs(t, err, &rse)
		assert.Equal(t, "container path required", rse.Message)
	})
}
