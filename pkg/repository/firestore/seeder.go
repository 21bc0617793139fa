package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/gigbook/herald/pkg/domain/model"
	"github.com/gigbook/herald/pkg/domain/types"
)

// setAll writes every document through one BulkWriter and reports the first failure
func (f *Firestore) setAll(ctx context.Context, refs []*firestore.DocumentRef, docs []any) error {
	if len(refs) == 0 {
		return nil
	}

	bw := f.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(refs))
	for i, ref := range refs {
		job, err := bw.Set(ref, docs[i])
		if err != nil {
			bw.End()
			return goerr.Wrap(err, "failed to enqueue write", goerr.V("path", ref.Path))
		}
		jobs = append(jobs, job)
	}
	bw.End()

	for i, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerr.Wrap(err, "failed to write document", goerr.V("path", refs[i].Path))
		}
	}
	return nil
}

func (f *Firestore) PutEvents(ctx context.Context, events []*model.Event) error {
	refs := make([]*firestore.DocumentRef, 0, len(events))
	docs := make([]any, 0, len(events))
	for _, e := range events {
		refs = append(refs, f.userCollection(e.UserID.String(), eventsCollection).Doc(e.ID))
		docs = append(docs, toEventDoc(e))
	}
	return f.setAll(ctx, refs, docs)
}

func (f *Firestore) PutWorkItems(ctx context.Context, items []*model.WorkItem) error {
	refs := make([]*firestore.DocumentRef, 0, len(items))
	docs := make([]any, 0, len(items))
	for _, w := range items {
		refs = append(refs, f.userCollection(w.UserID.String(), workItemsCollection).Doc(w.ID))
		docs = append(docs, toWorkItemDoc(w))
	}
	return f.setAll(ctx, refs, docs)
}

func (f *Firestore) PutGoals(ctx context.Context, goals []*model.GoalTracker) error {
	refs := make([]*firestore.DocumentRef, 0, len(goals))
	docs := make([]any, 0, len(goals))
	for _, g := range goals {
		refs = append(refs, f.userCollection(g.UserID.String(), goalsCollection).Doc(g.ID))
		docs = append(docs, &goalDoc{
			ID:      g.ID,
			UserID:  g.UserID.String(),
			Title:   g.Title,
			Status:  string(g.Status),
			Current: g.Current,
			Target:  g.Target,
			DueAt:   g.DueAt,
		})
	}
	return f.setAll(ctx, refs, docs)
}

func (f *Firestore) PutReleaseWindows(ctx context.Context, windows []*model.ReleaseWindow) error {
	refs := make([]*firestore.DocumentRef, 0, len(windows))
	docs := make([]any, 0, len(windows))
	for _, w := range windows {
		refs = append(refs, f.userCollection(w.UserID.String(), releaseWindowsCollection).Doc(w.ID))
		docs = append(docs, &releaseWindowDoc{
			ID:       w.ID,
			UserID:   w.UserID.String(),
			Title:    w.Title,
			Status:   string(w.Status),
			OpensAt:  w.OpensAt,
			ClosesAt: w.ClosesAt,
		})
	}
	return f.setAll(ctx, refs, docs)
}

// PutSession records a session start, keeping the later of the stored and given time
func (f *Firestore) PutSession(ctx context.Context, userID types.UserID, startedAt time.Time) error {
	ref := f.topCollection(sessionsCollection).Doc(userID.String())
	err := f.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil && status.Code(err) != codes.NotFound {
			return goerr.Wrap(err, "failed to get session")
		}
		if err == nil {
			var d sessionDoc
			if err := doc.DataTo(&d); err != nil {
				return goerr.Wrap(err, "failed to unmarshal session")
			}
			if d.LastSessionAt.After(startedAt) {
				return nil
			}
		}
		return tx.Set(ref, &sessionDoc{UserID: userID.String(), LastSessionAt: startedAt})
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put session", goerr.V("user_id", userID))
	}
	return nil
}
