package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/extract"
	"github.com/fwojciec/domgrab/htmlquery"
)

// Run executes the locate command.
func (c *LocateCmd) Run(deps *Dependencies) error {
	source := sourceURL(c.Source)

	page, err := deps.Fetcher.Fetch(deps.Ctx, source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}
	root, err := htmlquery.ParseString(page)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	resolver, expr := deps.XPath, c.XPath
	if c.CSS != "" {
		resolver, expr = deps.CSS, c.CSS
	}

	sel, err := extract.Highlight(domgrab.Selection{}, resolver, expr, root)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	loc, err := deps.Locator.Locate(&domgrab.Document{Root: root, URL: source}, sel.Selected)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	if c.JSON {
		b, err := json.MarshalIndent(loc, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(deps.Stdout, string(b))
		return nil
	}

	fmt.Fprintf(deps.Stdout, "path:     %s\n", loc.Path)
	fmt.Fprintf(deps.Stdout, "selector: %s\n", loc.Selector)
	fmt.Fprintf(deps.Stdout, "text:     %s\n", loc.Text)
	fmt.Fprintf(deps.Stdout, "verified: %t\n", loc.Verified)
	return nil
}
