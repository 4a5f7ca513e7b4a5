package main

import (
	"fmt"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/batch"
	"github.com/fwojciec/domgrab/fs"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	format := domgrab.Format(c.Format)
	if format != "" && !format.Valid() {
		fmt.Fprintf(deps.Stderr, "error: unsupported format %q\n", c.Format)
		return domgrab.Errorf(domgrab.EINVALID, "unsupported format %q", c.Format)
	}

	rs, err := c.ruleSet(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	urls := make([]string, len(c.Sources))
	for i, s := range c.Sources {
		urls[i] = sourceURL(s)
	}

	runner := &batch.Runner{
		Fetcher:     deps.Fetcher,
		Extractor:   deps.Extractor,
		RuleSets:    deps.RuleSets,
		RateLimiter: deps.RateLimiter,
		Submitter:   deps.Submitter,
		BackendURL:  c.Backend,
		RetryDelays: deps.RetryDelays,
		Logger:      deps.Logger,
	}

	progress := newProgress(deps.Stderr, len(urls))
	result, err := runner.Run(deps.Ctx, urls, rs, progress.Report)
	progress.Finish()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	var writer *fs.OutputWriter
	if c.Out != "" {
		writer = fs.NewOutputWriter(c.Out)
	}

	printed := 0
	for _, item := range result.Items {
		if item.Output == nil {
			continue
		}
		itemFormat := format
		if itemFormat == "" {
			itemFormat = item.Output.Format
		}

		content, err := deps.Formatter.Format(item.Output, itemFormat, item.RuleSet)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: format %s: %s\n", item.URL, domgrab.ErrorMessage(err))
			return err
		}

		if writer != nil {
			path, err := writer.Write(item.Output, itemFormat, content)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: write %s: %v\n", item.URL, err)
				return err
			}
			fmt.Fprintln(deps.Stdout, path)
			continue
		}

		if printed > 0 {
			fmt.Fprintln(deps.Stdout)
		}
		fmt.Fprintln(deps.Stdout, content)
		printed++
	}

	for _, item := range result.Items {
		if item.Status == batch.StatusFailed {
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", item.URL, item.Err)
		}
	}

	if result.Extracted == 0 && result.Failed > 0 {
		return domgrab.Errorf(domgrab.EINTERNAL, "no page extracted (%d failed)", result.Failed)
	}
	return nil
}

// ruleSet returns the rule set shared by every source, or nil when each
// source is matched against stored templates.
func (c *ExtractCmd) ruleSet(deps *Dependencies) (*domgrab.RuleSet, error) {
	switch {
	case c.Rules != "":
		return LoadRuleFile(c.Rules)
	case c.Template != "":
		return findTemplate(deps, c.Template)
	}
	if deps.RuleSets == nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "--rules or --template required")
	}
	return nil, nil
}

func findTemplate(deps *Dependencies, name string) (*domgrab.RuleSet, error) {
	sets, err := deps.RuleSets.FindRuleSets(deps.Ctx, domgrab.RuleSetFilter{Name: &name})
	if err != nil {
		return nil, err
	}
	if len(sets) == 0 {
		return nil, domgrab.Errorf(domgrab.ENOTFOUND, "template %q not found. Use 'domgrab rules list' to see stored templates", name)
	}
	return sets[0], nil
}
