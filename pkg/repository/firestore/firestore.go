package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"

	"github.com/gigbook/herald/pkg/domain/interfaces"
)

// ErrNotFound is returned (wrapped) when a document does not exist
var ErrNotFound = interfaces.ErrNotFound

const (
	usersCollection          = "users"
	eventsCollection         = "events"
	workItemsCollection      = "work_items"
	goalsCollection          = "goals"
	releaseWindowsCollection = "release_windows"
	notificationsCollection  = "notifications"
	sessionsCollection       = "sessions"
)

type Firestore struct {
	client           *firestore.Client
	collectionPrefix string
	event            *eventRepository
	workItem         *workItemRepository
	goal             *goalRepository
	releaseWindow    *releaseWindowRepository
	session          *sessionRepository
	notification     *notificationRepository
}

var (
	_ interfaces.Repository = &Firestore{}
	_ interfaces.Seeder     = &Firestore{}
)

type Option func(*Firestore)

// WithCollectionPrefix isolates all collections under a prefix. Tests use a
// unique prefix per run.
func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID), goerr.V("databaseID", databaseID))
	}

	f := &Firestore{client: client}
	for _, opt := range opts {
		opt(f)
	}

	f.event = &eventRepository{root: f}
	f.workItem = &workItemRepository{root: f}
	f.goal = &goalRepository{root: f}
	f.releaseWindow = &releaseWindowRepository{root: f}
	f.session = &sessionRepository{root: f}
	f.notification = &notificationRepository{root: f}

	return f, nil
}

// userCollection returns users/{uid}/{name}, honouring the collection prefix
func (f *Firestore) userCollection(userID string, name string) *firestore.CollectionRef {
	users := usersCollection
	if f.collectionPrefix != "" {
		users = f.collectionPrefix + "_" + usersCollection
	}
	return f.client.Collection(users).Doc(userID).Collection(name)
}

func (f *Firestore) topCollection(name string) *firestore.CollectionRef {
	if f.collectionPrefix != "" {
		return f.client.Collection(f.collectionPrefix + "_" + name)
	}
	return f.client.Collection(name)
}

func (f *Firestore) Event() interfaces.EventReader {
	return f.event
}

func (f *Firestore) WorkItem() interfaces.WorkItemReader {
	return f.workItem
}

func (f *Firestore) Goal() interfaces.GoalReader {
	return f.goal
}

func (f *Firestore) ReleaseWindow() interfaces.ReleaseWindowReader {
	return f.releaseWindow
}

func (f *Firestore) Session() interfaces.SessionReader {
	return f.session
}

func (f *Firestore) Notification() interfaces.NotificationRepository {
	return f.notification
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
