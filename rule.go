package domgrab

import (
	"context"
	"strconv"
	"strings"
	"time"
)

// RuleKind identifies the shape of a rule.
type RuleKind string

// Rule shapes.
const (
	KindField  RuleKind = "field"
	KindObject RuleKind = "object"
	KindArray  RuleKind = "array"
)

// Attribute selects which value is read from a resolved node.
// Any value outside the fixed vocabulary names a node attribute.
type Attribute string

// Fixed attribute vocabulary.
const (
	AttrText      Attribute = "text"
	AttrHTML      Attribute = "html"
	AttrOuterHTML Attribute = "outerHtml"

	// AttrMarkdown converts inner HTML to Markdown when a Converter is configured.
	AttrMarkdown Attribute = "markdown"
)

// Normalize maps empty and legacy DOM spellings onto the fixed vocabulary.
func (a Attribute) Normalize() Attribute {
	switch a {
	case "", "innerText":
		return AttrText
	case "innerHTML":
		return AttrHTML
	case "outerHTML":
		return AttrOuterHTML
	}
	return a
}

// Rule is implemented by FieldRule, ObjectRule and ArrayRule only.
type Rule interface {
	Kind() RuleKind
	RuleName() string
	rule()
}

// FieldRule extracts a single value.
type FieldRule struct {
	ID        string    `json:"id,omitempty" yaml:"id,omitempty"`
	Name      string    `json:"name" yaml:"name"`
	Path      string    `json:"path" yaml:"path"`
	Attribute Attribute `json:"attribute,omitempty" yaml:"attribute,omitempty"`
}

// ObjectRule groups field rules under one output key. Children resolve
// against the whole document.
type ObjectRule struct {
	ID       string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string      `json:"name" yaml:"name"`
	Children []FieldRule `json:"children" yaml:"children"`
}

// ArrayRule extracts one row per container node. Children resolve relative
// to their container.
type ArrayRule struct {
	ID            string      `json:"id,omitempty" yaml:"id,omitempty"`
	Name          string      `json:"name" yaml:"name"`
	ContainerPath string      `json:"containerPath" yaml:"containerPath"`
	Children      []FieldRule `json:"children" yaml:"children"`
}

func (FieldRule) Kind() RuleKind  { return KindField }
func (ObjectRule) Kind() RuleKind { return KindObject }
func (ArrayRule) Kind() RuleKind  { return KindArray }

func (r FieldRule) RuleName() string  { return r.Name }
func (r ObjectRule) RuleName() string { return r.Name }
func (r ArrayRule) RuleName() string  { return r.Name }

func (FieldRule) rule()  {}
func (ObjectRule) rule() {}
func (ArrayRule) rule()  {}

// RuleSet is a complete extraction configuration. Persisted rule sets act as
// templates matched against page URLs by URLPattern.
type RuleSet struct {
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
	Name       string       `json:"name,omitempty" yaml:"name,omitempty"`
	URLPattern string       `json:"urlPattern,omitempty" yaml:"urlPattern,omitempty"`
	Format     Format       `json:"format,omitempty" yaml:"format,omitempty"`
	Fields     []FieldRule  `json:"fields,omitempty" yaml:"fields,omitempty"`
	Objects    []ObjectRule `json:"objects,omitempty" yaml:"objects,omitempty"`
	Arrays     []ArrayRule  `json:"arrays,omitempty" yaml:"arrays,omitempty"`
	CreatedAt  time.Time    `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt  time.Time    `json:"updatedAt,omitzero" yaml:"-"`
}

// Rules returns every rule as a variant: fields first, then objects, then arrays.
func (rs *RuleSet) Rules() []Rule {
	rules := make([]Rule, 0, len(rs.Fields)+len(rs.Objects)+len(rs.Arrays))
	for _, r := range rs.Fields {
		rules = append(rules, r)
	}
	for _, r := range rs.Objects {
		rules = append(rules, r)
	}
	for _, r := range rs.Arrays {
		rules = append(rules, r)
	}
	return rules
}

// Validate returns a *RuleSetError for the first rule missing a required
// property. Duplicate names are allowed; the last write wins at extraction.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return Errorf(EINVALID, "rule set required")
	}
	if rs.Format != "" && !rs.Format.Valid() {
		return Errorf(EINVALID, "unsupported format %q", rs.Format)
	}
	for i, r := range rs.Fields {
		if msg := validateField(r); msg != "" {
			return &RuleSetError{Kind: KindField, Index: i, RuleID: r.ID, RuleName: r.Name, Message: msg}
		}
	}
	for i, r := range rs.Objects {
		if strings.TrimSpace(r.Name) == "" {
			return &RuleSetError{Kind: KindObject, Index: i, RuleID: r.ID, Message: "name required"}
		}
		for j, c := range r.Children {
			if msg := validateField(c); msg != "" {
				return &RuleSetError{Kind: KindObject, Index: i, RuleID: r.ID, RuleName: r.Name, Message: childMessage(j, c, msg)}
			}
		}
	}
	for i, r := range rs.Arrays {
		if strings.TrimSpace(r.Name) == "" {
			return &RuleSetError{Kind: KindArray, Index: i, RuleID: r.ID, Message: "name required"}
		}
		if strings.TrimSpace(r.ContainerPath) == "" {
			return &RuleSetError{Kind: KindArray, Index: i, RuleID: r.ID, RuleName: r.Name, Message: "container path required"}
		}
		for j, c := range r.Children {
			if msg := validateField(c); msg != "" {
				return &RuleSetError{Kind: KindArray, Index: i, RuleID: r.ID, RuleName: r.Name, Message: childMessage(j, c, msg)}
			}
		}
	}
	return nil
}

func validateField(r FieldRule) string {
	if strings.TrimSpace(r.Name) == "" {
		return "name required"
	}
	if strings.TrimSpace(r.Path) == "" {
		return "path required"
	}
	return ""
}

func childMessage(index int, child FieldRule, msg string) string {
	if child.Name != "" {
		return "child " + child.Name + ": " + msg
	}
	return "child #" + strconv.Itoa(index) + ": " + msg
}

// RuleSetService represents a service for managing rule set templates.
type RuleSetService interface {
	// CreateRuleSet validates and stores a new rule set.
	CreateRuleSet(ctx context.Context, rs *RuleSet) error

	// FindRuleSetByID retrieves a rule set by ID.
	// Returns ENOTFOUND if the rule set does not exist.
	FindRuleSetByID(ctx context.Context, id string) (*RuleSet, error)

	// FindRuleSets retrieves rule sets matching the filter.
	FindRuleSets(ctx context.Context, filter RuleSetFilter) ([]*RuleSet, error)

	// FindRuleSetForURL returns the first rule set whose URL pattern matches
	// the URL's host and path. Returns ENOTFOUND if none matches.
	FindRuleSetForURL(ctx context.Context, url string) (*RuleSet, error)

	// DeleteRuleSet permanently removes a rule set.
	// Returns ENOTFOUND if the rule set does not exist.
	DeleteRuleSet(ctx context.Context, id string) error
}

// RuleSetFilter represents a filter for FindRuleSets.
type RuleSetFilter struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
