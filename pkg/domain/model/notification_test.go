package model_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

func TestNewNotificationID(t *testing.T) {
	t.Run("identical triple yields identical id", func(t *testing.T) {
		a := model.NewNotificationID(types.CategoryLegal, "task-1", types.RuleContractPending)
		b := model.NewNotificationID(types.CategoryLegal, "task-1", types.RuleContractPending)
		gt.Value(t, a).Equal(b)
		gt.Bool(t, strings.HasPrefix(a.String(), "ntf_")).True()
		gt.Value(t, len(a.String())).Equal(4 + 32)
	})

	t.Run("empty source hashes like the none placeholder", func(t *testing.T) {
		a := model.NewNotificationID(types.CategoryGeneral, "", types.RuleAllClear)
		b := model.NewNotificationID(types.CategoryGeneral, model.NoSourceEntity, types.RuleAllClear)
		gt.Value(t, a).Equal(b)
	})

	t.Run("field boundaries are not ambiguous", func(t *testing.T) {
		a := model.NewNotificationID("ab", "c", "d")
		b := model.NewNotificationID("a", "bc", "d")
		gt.Value(t, a).NotEqual(b)
	})

	t.Run("differing triples over the rule set never collide", func(t *testing.T) {
		rules := []types.RuleKey{
			types.RuleInactivity, types.RuleInactivityCritical, types.RuleStaleScheduling,
			types.RuleContractPending, types.RulePaymentPending, types.RuleLogisticsIncomplete,
			types.RuleSetlistMissing, types.RuleMarketingWindow, types.RuleMilestone,
			types.RuleNoUpcomingEvents, types.RuleSingleUpcomingEvent, types.RuleNoChecklist,
			types.RuleGoalBehind, types.RuleGoalAchieved, types.RuleReleaseWindowOpening,
			types.RuleReleaseWindowClosing, types.RuleAllClear,
		}
		sources := []string{"", "evt-1", "evt-2", "task-1", "task-2", "goal-1"}

		seen := make(map[types.NotificationID]string)
		for _, c := range types.AllCategories() {
			for _, s := range sources {
				for _, r := range rules {
					id := model.NewNotificationID(c, s, r)
					triple := c.String() + "|" + s + "|" + r.String()
					prev, dup := seen[id]
					gt.Bool(t, dup).False()
					if dup {
						t.Fatalf("collision between %s and %s", prev, triple)
					}
					seen[id] = triple
				}
			}
		}
	})
}

func TestNotificationDraft_ID(t *testing.T) {
	d := &model.NotificationDraft{
		Category:       types.CategoryProduction,
		RuleKey:        types.RuleSetlistMissing,
		SourceEntityID: "task-9",
	}
	gt.Value(t, d.ID()).Equal(model.NewNotificationID(types.CategoryProduction, "task-9", types.RuleSetlistMissing))
}
