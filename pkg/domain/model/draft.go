package model

import (
	"github.com/gigbook/herald/pkg/domain/types"
)

// NotificationDraft is an unrendered candidate produced by a rule during one sweep
type NotificationDraft struct {
	Category       types.Category
	RuleKey        types.RuleKey
	SourceEntityID string
	Variables      map[string]string
	Urgency        types.Urgency
	ActionLabel    string
	ActionRef      string
}

// ID returns the deterministic identity of the draft
func (d *NotificationDraft) ID() types.NotificationID {
	return NewNotificationID(d.Category, d.SourceEntityID, d.RuleKey)
}
