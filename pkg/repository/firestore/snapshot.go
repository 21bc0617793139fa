package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

type eventDoc struct {
	ID       string    `firestore:"id"`
	UserID   string    `firestore:"user_id"`
	Title    string    `firestore:"title"`
	Venue    string    `firestore:"venue"`
	Status   string    `firestore:"status"`
	StartsAt time.Time `firestore:"starts_at"`
}

func toEventDoc(e *model.Event) *eventDoc {
	return &eventDoc{
		ID:       e.ID,
		UserID:   e.UserID.String(),
		Title:    e.Title,
		Venue:    e.Venue,
		Status:   string(e.Status),
		StartsAt: e.StartsAt,
	}
}

func fromEventDoc(d *eventDoc) *model.Event {
	return &model.Event{
		ID:       d.ID,
		UserID:   types.UserID(d.UserID),
		Title:    d.Title,
		Venue:    d.Venue,
		Status:   types.EventStatus(d.Status),
		StartsAt: d.StartsAt,
	}
}

type eventRepository struct {
	root *Firestore
}

func (r *eventRepository) ListEvents(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.Event, error) {
	iter := r.root.userCollection(userID.String(), eventsCollection).
		Where("starts_at", ">=", from).
		Where("starts_at", "<=", to).
		OrderBy("starts_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	events := make([]*model.Event, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate events", goerr.V("user_id", userID))
		}

		var d eventDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal event", goerr.V("doc_id", doc.Ref.ID))
		}
		events = append(events, fromEventDoc(&d))
	}
	return events, nil
}

type workItemDoc struct {
	ID          string     `firestore:"id"`
	UserID      string     `firestore:"user_id"`
	Title       string     `firestore:"title"`
	Status      string     `firestore:"status"`
	Category    string     `firestore:"category"`
	EventID     string     `firestore:"event_id"`
	DueAt       *time.Time `firestore:"due_at"`
	CompletedAt *time.Time `firestore:"completed_at"`
}

func toWorkItemDoc(w *model.WorkItem) *workItemDoc {
	return &workItemDoc{
		ID:          w.ID,
		UserID:      w.UserID.String(),
		Title:       w.Title,
		Status:      string(w.Status),
		Category:    string(w.Category),
		EventID:     w.EventID,
		DueAt:       w.DueAt,
		CompletedAt: w.CompletedAt,
	}
}

func fromWorkItemDoc(d *workItemDoc) *model.WorkItem {
	return &model.WorkItem{
		ID:          d.ID,
		UserID:      types.UserID(d.UserID),
		Title:       d.Title,
		Status:      types.WorkItemStatus(d.Status),
		Category:    types.WorkItemCategory(d.Category),
		EventID:     d.EventID,
		DueAt:       d.DueAt,
		CompletedAt: d.CompletedAt,
	}
}

type workItemRepository struct {
	root *Firestore
}

func (r *workItemRepository) ListWorkItems(ctx context.Context, userID types.UserID, filter model.WorkItemFilter) ([]*model.WorkItem, error) {
	query := r.root.userCollection(userID.String(), workItemsCollection).Query
	if filter.Status != nil {
		query = query.Where("status", "==", string(*filter.Status))
	}
	if filter.Category != nil {
		query = query.Where("category", "==", string(*filter.Category))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	items := make([]*model.WorkItem, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate work items", goerr.V("user_id", userID))
		}

		var d workItemDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal work item", goerr.V("doc_id", doc.Ref.ID))
		}
		items = append(items, fromWorkItemDoc(&d))
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

type goalDoc struct {
	ID      string     `firestore:"id"`
	UserID  string     `firestore:"user_id"`
	Title   string     `firestore:"title"`
	Status  string     `firestore:"status"`
	Current float64    `firestore:"current"`
	Target  float64    `firestore:"target"`
	DueAt   *time.Time `firestore:"due_at"`
}

type goalRepository struct {
	root *Firestore
}

func (r *goalRepository) ListGoals(ctx context.Context, userID types.UserID) ([]*model.GoalTracker, error) {
	iter := r.root.userCollection(userID.String(), goalsCollection).Documents(ctx)
	defer iter.Stop()

	goals := make([]*model.GoalTracker, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate goals", goerr.V("user_id", userID))
		}

		var d goalDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal goal", goerr.V("doc_id", doc.Ref.ID))
		}
		goals = append(goals, &model.GoalTracker{
			ID:      d.ID,
			UserID:  types.UserID(d.UserID),
			Title:   d.Title,
			Status:  types.GoalStatus(d.Status),
			Current: d.Current,
			Target:  d.Target,
			DueAt:   d.DueAt,
		})
	}
	sort.Slice(goals, func(i, j int) bool { return goals[i].ID < goals[j].ID })
	return goals, nil
}

type releaseWindowDoc struct {
	ID       string    `firestore:"id"`
	UserID   string    `firestore:"user_id"`
	Title    string    `firestore:"title"`
	Status   string    `firestore:"status"`
	OpensAt  time.Time `firestore:"opens_at"`
	ClosesAt time.Time `firestore:"closes_at"`
}

type releaseWindowRepository struct {
	root *Firestore
}

func (r *releaseWindowRepository) ListReleaseWindows(ctx context.Context, userID types.UserID, from, to time.Time) ([]*model.ReleaseWindow, error) {
	// Firestore allows range filters on a single field only; closes_at is checked here.
	iter := r.root.userCollection(userID.String(), releaseWindowsCollection).
		Where("opens_at", "<=", to).
		OrderBy("opens_at", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	windows := make([]*model.ReleaseWindow, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate release windows", goerr.V("user_id", userID))
		}

		var d releaseWindowDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal release window", goerr.V("doc_id", doc.Ref.ID))
		}
		if d.ClosesAt.Before(from) {
			continue
		}
		windows = append(windows, &model.ReleaseWindow{
			ID:       d.ID,
			UserID:   types.UserID(d.UserID),
			Title:    d.Title,
			Status:   types.ReleaseWindowStatus(d.Status),
			OpensAt:  d.OpensAt,
			ClosesAt: d.ClosesAt,
		})
	}
	return windows, nil
}

type sessionDoc struct {
	UserID        string    `firestore:"user_id"`
	LastSessionAt time.Time `firestore:"last_session_at"`
}

type sessionRepository struct {
	root *Firestore
}

func (r *sessionRepository) LastSessionAt(ctx context.Context, userID types.UserID) (*time.Time, error) {
	doc, err := r.root.topCollection(sessionsCollection).Doc(userID.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get session", goerr.V("user_id", userID))
	}

	var d sessionDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal session", goerr.V("user_id", userID))
	}
	return &d.LastSessionAt, nil
}
