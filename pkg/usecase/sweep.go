package usecase

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/model/config"
	"github.com/gigbook/herald/pkg/domain/types"
	"github.com/gigbook/herald/pkg/utils/errutil"
)

// maxConcurrentRules bounds evaluator goroutines within one sweep
const maxConcurrentRules = 8

// readSnapshots fetches every source concurrently. A failing reader leaves
// its slice empty and marks the snapshots degraded.
func (uc *NotificationUseCase) readSnapshots(ctx context.Context, userID types.UserID, now time.Time) *model.Snapshots {
	s := &model.Snapshots{
		UserID:   userID,
		Now:      now,
		Location: uc.cfg.Location,
	}

	// Lookback 0 reads all history so that stale events are never cut off
	from := time.Unix(0, 0).UTC()
	if uc.cfg.Lookback > 0 {
		from = now.Add(-uc.cfg.Lookback)
	}
	to := now.Add(uc.cfg.Horizon)

	var (
		lastSession *time.Time
		failed      [5]bool
	)

	warn := func(i int, reader string, err error) {
		failed[i] = true
		errutil.Warn(ctx, goerr.Wrap(ErrSourceUnavailable, err.Error(), goerr.V(ReaderKey, reader)),
			"snapshot reader unavailable, continuing with empty snapshot")
	}

	var g errgroup.Group
	g.Go(func() error {
		events, err := uc.repo.Event().ListEvents(ctx, userID, from, to)
		if err != nil {
			warn(0, "events", err)
			return nil
		}
		s.Events = events
		return nil
	})
	g.Go(func() error {
		items, err := uc.repo.WorkItem().ListWorkItems(ctx, userID, model.WorkItemFilter{})
		if err != nil {
			warn(1, "work_items", err)
			return nil
		}
		s.WorkItems = items
		return nil
	})
	g.Go(func() error {
		goals, err := uc.repo.Goal().ListGoals(ctx, userID)
		if err != nil {
			warn(2, "goals", err)
			return nil
		}
		s.Goals = goals
		return nil
	})
	g.Go(func() error {
		windows, err := uc.repo.ReleaseWindow().ListReleaseWindows(ctx, userID, from, to)
		if err != nil {
			warn(3, "release_windows", err)
			return nil
		}
		s.ReleaseWindows = windows
		return nil
	})
	g.Go(func() error {
		at, err := uc.repo.Session().LastSessionAt(ctx, userID)
		if err != nil {
			warn(4, "sessions", err)
			return nil
		}
		lastSession = at
		return nil
	})
	_ = g.Wait()

	for _, f := range failed {
		s.Degraded = s.Degraded || f
	}

	s.Activity = BuildActivity(now, uc.cfg.Location, lastSession, s.WorkItems, s.Events)
	s.Index()
	return s
}

// evaluate runs every rule concurrently. It reports whether any rule
// faulted so that the all-clear fallback can be suppressed.
func (uc *NotificationUseCase) evaluate(ctx context.Context, s *model.Snapshots) ([]*model.NotificationDraft, bool) {
	results := make([][]Match, len(uc.rules))
	faults := make([]bool, len(uc.rules))

	var g errgroup.Group
	g.SetLimit(maxConcurrentRules)
	for i, rule := range uc.rules {
		g.Go(func() error {
			matches, err := runRule(rule, s, uc.cfg)
			if err != nil {
				faults[i] = true
				errutil.Handle(ctx, err, "rule evaluator fault, contributing no drafts")
				return nil
			}
			results[i] = matches
			return nil
		})
	}
	_ = g.Wait()

	var (
		drafts  []*model.NotificationDraft
		faulted bool
	)
	for i, rule := range uc.rules {
		faulted = faulted || faults[i]
		for _, m := range results[i] {
			drafts = append(drafts, newDraft(rule, m))
		}
	}
	return drafts, faulted
}

// runRule shields the sweep from a rule that errors or panics
func runRule(rule Rule, s *model.Snapshots, cfg *config.EngineConfig) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches = nil
			err = goerr.Wrap(ErrEvaluatorFault, fmt.Sprintf("panic: %v", r),
				goerr.V(RuleKeyKey, rule.Key), goerr.V("stack", string(debug.Stack())))
		}
	}()

	if rule.Match == nil {
		return nil, goerr.Wrap(ErrEvaluatorFault, "rule has no match function", goerr.V(RuleKeyKey, rule.Key))
	}

	matches, err = rule.Match(s, cfg)
	if err != nil {
		return nil, goerr.Wrap(ErrEvaluatorFault, err.Error(), goerr.V(RuleKeyKey, rule.Key))
	}
	return matches, nil
}

func newDraft(rule Rule, m Match) *model.NotificationDraft {
	return &model.NotificationDraft{
		Category:       rule.Category,
		RuleKey:        rule.Key,
		SourceEntityID: m.SourceEntityID,
		Variables:      m.Variables,
		Urgency:        rule.Urgency,
		ActionLabel:    rule.ActionLabel,
		ActionRef:      m.ActionRef,
	}
}
