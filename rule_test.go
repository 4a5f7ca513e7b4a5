package domgrab_test

import (
	"testing"

	"github.com/fwojciec/domgrab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleSet_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts a complete rule set", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{
			Fields:  []domgrab.FieldRule{{Name: "title", Path: "//h1"}},
			Objects: []domgrab.ObjectRule{{Name: "meta", Children: []domgrab.FieldRule{{Name: "lang", Path: "/html", Attribute: "lang"}}}},
			Arrays:  []domgrab.ArrayRule{{Name: "rows", ContainerPath: "//tr", Children: []domgrab.FieldRule{{Name: "cell", Path: ".//td"}}}},
		}

		assert.NoError(t, rs.Validate())
	})

	t.Run("accepts duplicate names", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Fields: []domgrab.FieldRule{
			{Name: "title", Path: "//h1"},
			{Name: "title", Path: "//h2"},
		}}

		assert.NoError(t, rs.Validate())
	})

	t.Run("rejects nil rule set", func(t *testing.T) {
		t.Parallel()

		var rs *domgrab.RuleSet

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(rs.Validate()))
	})

	t.Run("rejects unknown format", func(t *testing.T) {
		t.Parallel()

		rs := &domgrab.RuleSet{Format: "pdf"}

		assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(rs.Validate()))
	})

	tests := []struct {
		name    string
		rs      domgrab.RuleSet
		kind    domgrab.RuleKind
		index   int
		ruleID  string
		message string
	}{
		{
			name:    "field without path",
			rs:      domgrab.RuleSet{Fields: []domgrab.FieldRule{{ID: "f1", Name: "title"}}},
			kind:    domgrab.KindField,
			ruleID:  "f1",
			message: "path required",
		},
		{
			name:    "field without name",
			rs:      domgrab.RuleSet{Fields: []domgrab.FieldRule{{Name: "ok", Path: "//a"}, {Path: "//h1"}}},
			kind:    domgrab.KindField,
			index:   1,
			message: "name required",
		},
		{
			name:    "object without name",
			rs:      domgrab.RuleSet{Objects: []domgrab.ObjectRule{{ID: "o1"}}},
			kind:    domgrab.KindObject,
			ruleID:  "o1",
			message: "name required",
		},
		{
			name:    "object child without path",
			rs:      domgrab.RuleSet{Objects: []domgrab.ObjectRule{{Name: "meta", Children: []domgrab.FieldRule{{Name: "lang"}}}}},
			kind:    domgrab.KindObject,
			message: "child lang: path required",
		},
		{
			name:    "array without container path",
			rs:      domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{ID: "a1", Name: "rows"}}},
			kind:    domgrab.KindArray,
			ruleID:  "a1",
			message: "container path required",
		},
		{
			name:    "array child without name",
			rs:      domgrab.RuleSet{Arrays: []domgrab.ArrayRule{{Name: "rows", ContainerPath: "//tr", Children: []domgrab.FieldRule{{Path: ".//td"}}}}},
			kind:    domgrab.KindArray,
			message: "child #0: name required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.rs.Validate()

			var rse *domgrab.RuleSetError
			require.ErrorAs(t, err, &rse)
			assert.Equal(t, tt.kind, rse.Kind)
			assert.Equal(t, tt.index, rse.Index)
			assert.Equal(t, tt.ruleID, rse.RuleID)
			assert.Equal(t, tt.message, rse.Message)
			assert.Equal(t, domgrab.EINVALID, domgrab.ErrorCode(err))
		})
	}
}

func TestRuleSet_Rules(t *testing.T) {
	t.Parallel()

	rs := &domgrab.RuleSet{
		Arrays:  []domgrab.ArrayRule{{Name: "rows"}},
		Objects: []domgrab.ObjectRule{{Name: "meta"}},
		Fields:  []domgrab.FieldRule{{Name: "title"}, {Name: "body"}},
	}

	rules := rs.Rules()

	require.Len(t, rules, 4)
	assert.Equal(t, domgrab.KindField, rules[0].Kind())
	assert.Equal(t, "body", rules[1].RuleName())
	assert.Equal(t, domgrab.KindObject, rules[2].Kind())
	assert.Equal(t, domgrab.KindArray, rules[3].Kind())
}

func TestAttribute_Normalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   domgrab.Attribute
		want domgrab.Attribute
	}{
		{"", domgrab.AttrText},
		{"innerText", domgrab.AttrText},
		{"innerHTML", domgrab.AttrHTML},
		{"outerHTML", domgrab.AttrOuterHTML},
		{"outerHtml", domgrab.AttrOuterHTML},
		{"href", "href"},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.in.Normalize())
		})
	}
}
