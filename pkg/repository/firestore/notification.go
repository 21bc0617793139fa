package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// notificationDoc is the Firestore persistence model
type notificationDoc struct {
	ID             string    `firestore:"id"`
	UserID         string    `firestore:"user_id"`
	Category       string    `firestore:"category"`
	RuleKey        string    `firestore:"rule_key"`
	Urgency        string    `firestore:"urgency"`
	Title          string    `firestore:"title"`
	Message        string    `firestore:"message"`
	ActionLabel    string    `firestore:"action_label"`
	ActionRef      string    `firestore:"action_ref"`
	SourceEntityID string    `firestore:"source_entity_id"`
	CreatedAt      time.Time `firestore:"created_at"`
	LastSeenAt     time.Time `firestore:"last_seen_at"`
	Dismissed      bool      `firestore:"dismissed"`
}

func toNotificationDoc(userID types.UserID, n *model.Notification) *notificationDoc {
	return &notificationDoc{
		ID:             n.ID.String(),
		UserID:         userID.String(),
		Category:       n.Category.String(),
		RuleKey:        n.RuleKey.String(),
		Urgency:        n.Urgency.String(),
		Title:          n.Title,
		Message:        n.Message,
		ActionLabel:    n.ActionLabel,
		ActionRef:      n.ActionRef,
		SourceEntityID: n.SourceEntityID,
		CreatedAt:      n.CreatedAt,
		LastSeenAt:     n.LastSeenAt,
		Dismissed:      n.Dismissed,
	}
}

func fromNotificationDoc(d *notificationDoc) *model.Notification {
	return &model.Notification{
		ID:             types.NotificationID(d.ID),
		UserID:         types.UserID(d.UserID),
		Category:       types.Category(d.Category),
		RuleKey:        types.RuleKey(d.RuleKey),
		Urgency:        types.Urgency(d.Urgency),
		Title:          d.Title,
		Message:        d.Message,
		ActionLabel:    d.ActionLabel,
		ActionRef:      d.ActionRef,
		SourceEntityID: d.SourceEntityID,
		CreatedAt:      d.CreatedAt,
		LastSeenAt:     d.LastSeenAt,
		Dismissed:      d.Dismissed,
	}
}

type notificationRepository struct {
	root *Firestore
}

func (r *notificationRepository) collection(userID types.UserID) *firestore.CollectionRef {
	return r.root.userCollection(userID.String(), notificationsCollection)
}

func (r *notificationRepository) list(ctx context.Context, userID types.UserID, query firestore.Query) ([]*model.Notification, error) {
	iter := query.Documents(ctx)
	defer iter.Stop()

	result := make([]*model.Notification, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notifications", goerr.V("user_id", userID))
		}

		var d notificationDoc
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal notification", goerr.V("doc_id", doc.Ref.ID))
		}
		result = append(result, fromNotificationDoc(&d))
	}
	return result, nil
}

func (r *notificationRepository) List(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	return r.list(ctx, userID, r.collection(userID).Query)
}

func (r *notificationRepository) ListActive(ctx context.Context, userID types.UserID) ([]*model.Notification, error) {
	return r.list(ctx, userID, r.collection(userID).
		Where("dismissed", "==", false).
		OrderBy("created_at", firestore.Desc))
}

func (r *notificationRepository) Get(ctx context.Context, userID types.UserID, id types.NotificationID) (*model.Notification, error) {
	doc, err := r.collection(userID).Doc(id.String()).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "notification not found",
				goerr.V("user_id", userID), goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get notification",
			goerr.V("user_id", userID), goerr.V("id", id))
	}

	var d notificationDoc
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal notification", goerr.V("id", id))
	}
	return fromNotificationDoc(&d), nil
}

// CreateMany uses Create so that an existing document (possibly dismissed)
// rejects the write with AlreadyExists instead of being replaced.
func (r *notificationRepository) CreateMany(ctx context.Context, userID types.UserID, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	bw := r.root.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(notifications))
	for _, n := range notifications {
		job, err := bw.Create(r.collection(userID).Doc(n.ID.String()), toNotificationDoc(userID, n))
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue notification", goerr.V("id", n.ID))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			if status.Code(err) == codes.AlreadyExists {
				continue
			}
			return goerr.Wrap(err, "failed to create notification",
				goerr.V("user_id", userID), goerr.V("id", notifications[i].ID))
		}
	}
	return nil
}

func (r *notificationRepository) Touch(ctx context.Context, userID types.UserID, ids []types.NotificationID, seenAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	bw := r.root.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(ids))
	for _, id := range ids {
		job, err := bw.Update(r.collection(userID).Doc(id.String()), []firestore.Update{
			{Path: "last_seen_at", Value: seenAt},
		})
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue touch", goerr.V("id", id))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			if status.Code(err) == codes.NotFound {
				continue
			}
			return goerr.Wrap(err, "failed to touch notification",
				goerr.V("user_id", userID), goerr.V("id", ids[i]))
		}
	}
	return nil
}

func (r *notificationRepository) Dismiss(ctx context.Context, userID types.UserID, id types.NotificationID) error {
	_, err := r.collection(userID).Doc(id.String()).Update(ctx, []firestore.Update{
		{Path: "dismissed", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "notification not found",
				goerr.V("user_id", userID), goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to dismiss notification",
			goerr.V("user_id", userID), goerr.V("id", id))
	}
	return nil
}
