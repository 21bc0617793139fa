package model

import (
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/gigbook/herald/pkg/domain/types"
)

// NoSourceEntity stands in for an absent source entity when hashing identity
const NoSourceEntity = "none"

// Notification is a rendered, persisted alert. Only LastSeenAt and Dismissed
// change after creation.
type Notification struct {
	ID             types.NotificationID
	UserID         types.UserID
	Category       types.Category
	RuleKey        types.RuleKey
	Urgency        types.Urgency
	Title          string
	Message        string
	ActionLabel    string
	ActionRef      string
	SourceEntityID string
	CreatedAt      time.Time
	LastSeenAt     time.Time
	Dismissed      bool
}

// Clone returns a copy of n
func (n *Notification) Clone() *Notification {
	c := *n
	return &c
}

// NewNotificationID derives a stable identifier from (category, sourceEntityID,
// ruleKey). Fields are NUL-separated so that adjacent values cannot run into
// each other.
func NewNotificationID(category types.Category, sourceEntityID string, ruleKey types.RuleKey) types.NotificationID {
	if sourceEntityID == "" {
		sourceEntityID = NoSourceEntity
	}

	buf := make([]byte, 0, len(category)+len(sourceEntityID)+len(ruleKey)+2)
	buf = append(buf, category...)
	buf = append(buf, 0)
	buf = append(buf, sourceEntityID...)
	buf = append(buf, 0)
	buf = append(buf, ruleKey...)

	sum := blake3.Sum256(buf)
	return types.NotificationID("ntf_" + hex.EncodeToString(sum[:16]))
}
