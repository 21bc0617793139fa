package model

import "time"

// ActivitySnapshot is the per-user activity summary derived at the start of a
// sweep. It is never persisted.
type ActivitySnapshot struct {
	LastActivityAt       time.Time
	HasSessionHistory    bool
	InactivityDays       int
	OpenWorkItemCount    int
	OverdueWorkItemCount int
	CompletedTodayCount  int
	ActiveEventCount     int
}
