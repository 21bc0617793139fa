package usecase

import (
	"sort"

	"github.com/gigbook/herald/pkg/domain/model"
)

// rankNotifications sorts in place: urgency first, newest first within a
// tier, then by id so that equal timestamps keep a stable order.
func rankNotifications(list []*model.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if ra, rb := a.Urgency.Rank(), b.Urgency.Rank(); ra != rb {
			return ra < rb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func truncate(list []*model.Notification, limit int) []*model.Notification {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
