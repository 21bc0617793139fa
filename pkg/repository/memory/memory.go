package memory

import (
	"github.com/gigbook/herald/pkg/domain/interfaces"
)

// ErrNotFound is returned (wrapped) when a record does not exist
var ErrNotFound = interfaces.ErrNotFound

// Repository is an alias for Memory to match the pattern
type Repository = Memory

// Memory keeps snapshots and notifications in process memory. It backs
// development runs and the test suites.
type Memory struct {
	event         *eventRepository
	workItem      *workItemRepository
	goal          *goalRepository
	releaseWindow *releaseWindowRepository
	session       *sessionRepository
	notification  *notificationRepository
}

var (
	_ interfaces.Repository = &Memory{}
	_ interfaces.Seeder     = &Memory{}
)

func New() *Memory {
	return &Memory{
		event:         newEventRepository(),
		workItem:      newWorkItemRepository(),
		goal:          newGoalRepository(),
		releaseWindow: newReleaseWindowRepository(),
		session:       newSessionRepository(),
		notification:  newNotificationRepository(),
	}
}

func (m *Memory) Event() interfaces.EventReader {
	return m.event
}

func (m *Memory) WorkItem() interfaces.WorkItemReader {
	return m.workItem
}

func (m *Memory) Goal() interfaces.GoalReader {
	return m.goal
}

func (m *Memory) ReleaseWindow() interfaces.ReleaseWindowReader {
	return m.releaseWindow
}

func (m *Memory) Session() interfaces.SessionReader {
	return m.session
}

func (m *Memory) Notification() interfaces.NotificationRepository {
	return m.notification
}

func (m *Memory) Close() error {
	return nil
}
