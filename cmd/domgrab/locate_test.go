package main_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/domgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocateCmd(t *testing.T) {
	t.Parallel()

	t.Run("locates by xpath", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, t.TempDir(), "page.html", articlePage)

		stdout, _, err := run(t, newTestMain(t), "locate", page, "--xpath", "//span")

		require.NoError(t, err)
		assert.Equal(t, "path:     /html/body/span\n"+
			"selector: body > span.author\n"+
			"text:     Ann\n"+
			"verified: true\n", stdout)
	})

	t.Run("locates by css as json", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, t.TempDir(), "page.html", articlePage)

		stdout, _, err := run(t, newTestMain(t), "locate", page, "--css", "#footer p", "--json")
		require.NoError(t, err)

		var loc domgrab.Locator
		require.NoError(t, json.Unmarshal([]byte(stdout), &loc))
		assert.Equal(t, `//*[@id="footer"]/p`, loc.Path)
		assert.Equal(t, "#footer > p", loc.Selector)
		assert.Equal(t, "Bye", loc.Text)
		assert.True(t, loc.Verified)
	})

	t.Run("reports no match", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, t.TempDir(), "page.html", articlePage)

		_, stderr, err := run(t, newTestMain(t), "locate", page, "--xpath", "//video")

		assert.Equal(t, domgrab.ENOTFOUND, domgrab.ErrorCode(err))
		assert.Contains(t, stderr, "//video")
	})

	t.Run("reports invalid expression", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, t.TempDir(), "page.html", articlePage)

		_, _, err := run(t, newTestMain(t), "locate", page, "--css", "p[")

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(err))
	})

	t.Run("requires an expression", func(t *testing.T) {
		t.Parallel()

		page := writeFile(t, t.TempDir(), "page.html", articlePage)

		_, _, err := run(t, newTestMain(t), "locate", page)

		require.Error(t, err)
	})
}
