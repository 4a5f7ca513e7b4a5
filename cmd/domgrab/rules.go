package main

import (
	"fmt"

	"github.com/fwojciec/domgrab"
)

// Run executes the rules add command.
func (c *RulesAddCmd) Run(deps *Dependencies) error {
	rs, err := LoadRuleFile(c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}
	rs.ID = ""
	rs.Name = c.Name
	if c.Pattern != "" {
		rs.URLPattern = c.Pattern
	}

	if c.Force {
		existing, err := deps.RuleSets.FindRuleSets(deps.Ctx, domgrab.RuleSetFilter{Name: &c.Name})
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
			return err
		}
		for _, e := range existing {
			if err := deps.RuleSets.DeleteRuleSet(deps.Ctx, e.ID); err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
				return err
			}
		}
	}

	if err := deps.RuleSets.CreateRuleSet(deps.Ctx, rs); err != nil {
		if domgrab.ErrorCode(err) == domgrab.ECONFLICT {
			fmt.Fprintf(deps.Stderr, "error: template %q already exists. Use --force to replace it.\n", c.Name)
			return err
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Added template %q (%s)\n", rs.Name, rs.ID)
	return nil
}

// Run executes the rules list command.
func (c *RulesListCmd) Run(deps *Dependencies) error {
	sets, err := deps.RuleSets.FindRuleSets(deps.Ctx, domgrab.RuleSetFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	if len(sets) == 0 {
		fmt.Fprintln(deps.Stdout, "No templates found. Use 'domgrab rules add' to create one.")
		return nil
	}

	for _, rs := range sets {
		pattern := rs.URLPattern
		if pattern == "" {
			pattern = "-"
		}
		rules := len(rs.Fields) + len(rs.Objects) + len(rs.Arrays)
		fmt.Fprintf(deps.Stdout, "%s  %s  %s  %d rules\n", rs.ID, rs.Name, pattern, rules)
	}
	return nil
}

// Run executes the rules delete command.
func (c *RulesDeleteCmd) Run(deps *Dependencies) error {
	rs, err := findTemplate(deps, c.Name)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	if err := deps.RuleSets.DeleteRuleSet(deps.Ctx, rs.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", domgrab.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted template %q\n", rs.Name)
	return nil
}
