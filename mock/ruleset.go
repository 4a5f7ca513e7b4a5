package mock

import (
	"context"

	"github.com/fwojciec/domgrab"
)

var _ domgrab.RuleSetService = (*RuleSetService)(nil)

// RuleSetService is a mock implementation of domgrab.RuleSetService.
type RuleSetService struct {
	CreateRuleSetFn     func(ctx context.Context, rs *domgrab.RuleSet) error
	FindRuleSetByIDFn   func(ctx context.Context, id string) (*domgrab.RuleSet, error)
	FindRuleSetsFn      func(ctx context.Context, filter domgrab.RuleSetFilter) ([]*domgrab.RuleSet, error)
	FindRuleSetForURLFn func(ctx context.Context, url string) (*domgrab.RuleSet, error)
	DeleteRuleSetFn     func(ctx context.Context, id string) error
}

func (s *RuleSetService) CreateRuleSet(ctx context.Context, rs *domgrab.RuleSet) error {
	return s.CreateRuleSetFn(ctx, rs)
}

func (s *RuleSetService) FindRuleSetByID(ctx context.Context, id string) (*domgrab.RuleSet, error) {
	return s.FindRuleSetByIDFn(ctx, id)
}

func (s *RuleSetService) FindRuleSets(ctx context.Context, filter domgrab.RuleSetFilter) ([]*domgrab.RuleSet, error) {
	return s.FindRuleSetsFn(ctx, filter)
}

func (s *RuleSetService) FindRuleSetForURL(ctx context.Context, url string) (*domgrab.RuleSet, error) {
	return s.FindRuleSetForURLFn(ctx, url)
}

func (s *RuleSetService) DeleteRuleSet(ctx context.Context, id string) error {
	return s.DeleteRuleSetFn(ctx, id)
}
