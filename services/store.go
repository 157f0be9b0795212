package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tracknest/tracknest/models"
)

// Store is the persistence interface the tracking core consumes. Lookup
// methods return (nil, nil) when no row matches; they never translate
// absence into an error. InsertEntry must return ErrDuplicateEntry when
// the (trackable, day) unique constraint is violated.
//
// The core owns transaction boundaries through WithTx: the callback
// receives a Store bound to a single transaction, and the whole
// callback commits or rolls back as one unit.
type Store interface {
	UserByAPIKey(ctx context.Context, key string) (*models.User, error)

	FindTrackable(ctx context.Context, id, owner uint) (*models.Trackable, error)
	ListTrackables(ctx context.Context, owner uint) ([]models.Trackable, error)
	InsertTrackable(ctx context.Context, t *models.Trackable) error
	DeleteTrackable(ctx context.Context, id, owner uint) (int64, error)

	FindEntryByDay(ctx context.Context, trackableID uint, day time.Time) (*models.Entry, error)
	InsertEntry(ctx context.Context, e *models.Entry) error
	UpdateEntryValue(ctx context.Context, id uint, value json.RawMessage) error
	DeleteEntriesByDay(ctx context.Context, owner uint, day time.Time) (int64, error)
	DeleteEntryByID(ctx context.Context, owner, id uint) (int64, error)
	DeleteEntriesByTrackable(ctx context.Context, owner, trackableID uint) (int64, error)
	QueryEntries(ctx context.Context, owner uint, f HistoryFilter) ([]models.Entry, error)

	WithTx(ctx context.Context, fn func(Store) error) error
}
