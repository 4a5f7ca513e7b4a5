package slog_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/fwojciec/domgrab"
	"github.com/fwojciec/domgrab/mock"
	dgslog "github.com/fwojciec/domgrab/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingRuleSetService_FindRuleSetForURL(t *testing.T) {
	t.Parallel()

	t.Run("logs matched template", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RuleSetService{
			FindRuleSetForURLFn: func(context.Context, string) (*domgrab.RuleSet, error) {
				return &domgrab.RuleSet{Name: "news"}, nil
			},
		}

		rs, err := dgslog.NewLoggingRuleSetService(inner, logger).FindRuleSetForURL(context.Background(), "https://example.com/a")

		require.NoError(t, err)
		assert.Equal(t, "news", rs.Name)
		output := buf.String()
		assert.Contains(t, output, "template match")
		assert.Contains(t, output, "template=news")
		assert.Contains(t, output, "url=https://example.com/a")
	})

	t.Run("logs missing template", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.RuleSetService{
			FindRuleSetForURLFn: func(context.Context, string) (*domgrab.RuleSet, error) {
				return nil, domgrab.Errorf(domgrab.ENOTFOUND, "no template")
			},
		}

		_, err := dgslog.NewLoggingRuleSetService(inner, logger).FindRuleSetForURL(context.Background(), "https://example.com/a")

		assert.Equal(t, domgrab.ENOTFOUND, domgrab.ErrorCode(err))
		output := buf.String()
		assert.Contains(t, output, "code=not_found")
		assert.Contains(t, output, "message=no template")
	})
}

func TestLoggingRuleSetService_Delegates(t *testing.T) {
	t.Parallel()

	var calls []string
	inner := &mock.RuleSetService{
		CreateRuleSetFn: func(context.Context, *domgrab.RuleSet) error {
			calls = append(calls, "create")
			return nil
		},
		FindRuleSetByIDFn: func(context.Context, string) (*domgrab.RuleSet, error) {
			calls = append(calls, "find")
			return &domgrab.RuleSet{}, nil
		},
		FindRuleSetsFn: func(context.Context, domgrab.RuleSetFilter) ([]*domgrab.RuleSet, error) {
			calls = append(calls, "list")
			return nil, nil
		},
		DeleteRuleSetFn: func(context.Context, string) error {
			calls = append(calls, "delete")
			return nil
		},
	}
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s := dgslog.NewLoggingRuleSetService(inner, logger)
	ctx := context.Background()

	require.NoError(t, s.CreateRuleSet(ctx, &domgrab.RuleSet{Name: "news"}))
	_, err := s.FindRuleSetByID(ctx, "id")
	require.NoError(t, err)
	_, err = s.FindRuleSets(ctx, domgrab.RuleSetFilter{})
	require.NoError(t, err)
	require.NoError(t, s.DeleteRuleSet(ctx, "id"))

	assert.Equal(t, []string{"create", "find", "list", "delete"}, calls)
	assert.Contains(t, buf.String(), "name=news")
}
