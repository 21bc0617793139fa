package usecase

import (
	"time"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

const day = 24 * time.Hour

// BuildActivity derives the per-user activity summary. A nil lastSessionAt
// means a fresh user: last activity is now and inactivity is zero.
func BuildActivity(now time.Time, loc *time.Location, lastSessionAt *time.Time, items []*model.WorkItem, events []*model.Event) model.ActivitySnapshot {
	if loc == nil {
		loc = time.UTC
	}

	snap := model.ActivitySnapshot{LastActivityAt: now}
	if lastSessionAt != nil {
		snap.LastActivityAt = *lastSessionAt
		snap.HasSessionHistory = true
	}
	snap.InactivityDays = inactivityDays(now, snap.LastActivityAt)

	dayStart, dayEnd := localDay(now, loc)
	for _, w := range items {
		if w.Status.IsOpen() {
			snap.OpenWorkItemCount++
			if w.IsOverdue(now) {
				snap.OverdueWorkItemCount++
			}
		}
		if w.Status == types.WorkItemStatusDone && w.CompletedAt != nil &&
			!w.CompletedAt.Before(dayStart) && w.CompletedAt.Before(dayEnd) {
			snap.CompletedTodayCount++
		}
	}

	for _, e := range events {
		if !e.StartsAt.Before(now) && e.Status.IsActive() {
			snap.ActiveEventCount++
		}
	}

	return snap
}

// inactivityDays floors whole days since last. Clock skew clamps to zero.
func inactivityDays(now, last time.Time) int {
	elapsed := now.Sub(last)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / day)
}

// localDay returns [start, end) of the calendar day containing t in loc.
// The end is computed by date arithmetic so DST days keep their real length.
func localDay(t time.Time, loc *time.Location) (time.Time, time.Time) {
	local := t.In(loc)
	y, m, d := local.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	end := time.Date(y, m, d+1, 0, 0, 0, 0, loc)
	return start, end
}
