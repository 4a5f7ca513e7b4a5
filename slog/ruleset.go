package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/domgrab"
)

// Ensure LoggingRuleSetService implements domgrab.RuleSetService.
var _ domgrab.RuleSetService = (*LoggingRuleSetService)(nil)

// LoggingRuleSetService wraps a RuleSetService with debug logging.
type LoggingRuleSetService struct {
	next   domgrab.RuleSetService
	logger *slog.Logger
}

// NewLoggingRuleSetService creates a new LoggingRuleSetService.
func NewLoggingRuleSetService(next domgrab.RuleSetService, logger *slog.Logger) *LoggingRuleSetService {
	return &LoggingRuleSetService{next: next, logger: logger}
}

// CreateRuleSet delegates to the wrapped service.
func (s *LoggingRuleSetService) CreateRuleSet(ctx context.Context, rs *domgrab.RuleSet) (err error) {
	defer func(begin time.Time) {
		var name string
		if rs != nil {
			name = rs.Name
		}
		s.logger.Debug("create rule set",
			"name", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateRuleSet(ctx, rs)
}

// FindRuleSetByID delegates to the wrapped service.
func (s *LoggingRuleSetService) FindRuleSetByID(ctx context.Context, id string) (rs *domgrab.RuleSet, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find rule set",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuleSetByID(ctx, id)
}

// FindRuleSets delegates to the wrapped service.
func (s *LoggingRuleSetService) FindRuleSets(ctx context.Context, filter domgrab.RuleSetFilter) (sets []*domgrab.RuleSet, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find rule sets",
			"count", len(sets),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuleSets(ctx, filter)
}

// FindRuleSetForURL logs which template matched the URL.
func (s *LoggingRuleSetService) FindRuleSetForURL(ctx context.Context, url string) (rs *domgrab.RuleSet, err error) {
	defer func(begin time.Time) {
		var name string
		if rs != nil {
			name = rs.Name
		}
		s.logger.Info("template match",
			"url", url,
			"template", name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRuleSetForURL(ctx, url)
}

// DeleteRuleSet delegates to the wrapped service.
func (s *LoggingRuleSetService) DeleteRuleSet(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete rule set",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRuleSet(ctx, id)
}
