package main

import (
	"errors"
	"os"

	"github.com/fwojciec/domgrab"
	"gopkg.in/yaml.v3"
)

// LoadRuleFile reads and validates a rule set from a YAML or JSON file.
func LoadRuleFile(path string) (*domgrab.RuleSet, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domgrab.Errorf(domgrab.ENOTFOUND, "rule file not found: %s", path)
	} else if err != nil {
		return nil, err
	}

	var rs domgrab.RuleSet
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return nil, domgrab.Errorf(domgrab.EINVALID, "parse rule file %s: %v", path, err)
	}
	if err := rs.Validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}
