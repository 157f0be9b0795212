package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknest/tracknest/models"
)

func TestCreateTrackable(t *testing.T) {
	svc, _, owner := newTestService(t)
	ctx := context.Background()

	trackable, err := svc.CreateTrackable(ctx, owner, "  pushups  ", "number")
	require.NoError(t, err)
	assert.NotZero(t, trackable.ID)
	assert.Equal(t, "pushups", trackable.Name, "name is trimmed")
	assert.Equal(t, models.TypeNumber, trackable.Type)
	assert.Equal(t, owner, trackable.OwnerID)
}

func TestCreateTrackableRejectsUnknownType(t *testing.T) {
	svc, _, owner := newTestService(t)

	_, err := svc.CreateTrackable(context.Background(), owner, "mood", "rating")
	assert.ErrorIs(t, err, ErrInvalidTrackableType)
}

func TestCreateTrackableRejectsEmptyName(t *testing.T) {
	svc, _, owner := newTestService(t)

	_, err := svc.CreateTrackable(context.Background(), owner, "   ", "number")
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "name", verrs[0].Field)
}

func TestListTrackablesScopedToOwner(t *testing.T) {
	svc, store, owner := newTestService(t)
	ctx := context.Background()
	other := store.AddUser("dana", "key-dana")

	createTrackable(t, svc, owner, "pushups", "number")
	createTrackable(t, svc, other.ID, "steps", "number")

	mine, err := svc.ListTrackables(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "pushups", mine[0].Name)
}

func TestListTrackablesRejectsCorruptStoredType(t *testing.T) {
	svc, store, owner := newTestService(t)

	bad := &models.Trackable{OwnerID: owner, Name: "legacy", Type: "rating"}
	require.NoError(t, store.InsertTrackable(context.Background(), bad))

	_, err := svc.ListTrackables(context.Background(), owner)
	assert.ErrorIs(t, err, ErrInvalidTrackableType)
}

func TestDeleteTrackableCascadesEntries(t *testing.T) {
	svc, _, owner := newTestService(t)
	ctx := context.Background()
	item := createTrackable(t, svc, owner, "pushups", "number")
	keep := createTrackable(t, svc, owner, "mood", "score")

	_, err := svc.Track(ctx, owner, item, json.RawMessage(`30`), "2024-05-01")
	require.NoError(t, err)
	_, err = svc.Track(ctx, owner, item, json.RawMessage(`40`), "2024-05-02")
	require.NoError(t, err)
	_, err = svc.Track(ctx, owner, keep, json.RawMessage(`8`), "2024-05-01")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTrackable(ctx, owner, item))

	trackables, err := svc.ListTrackables(ctx, owner)
	require.NoError(t, err)
	require.Len(t, trackables, 1)
	assert.Equal(t, keep, trackables[0].ID)

	// no orphaned entries survive the cascade
	history, err := svc.QueryHistory(ctx, owner, HistoryParams{})
	require.NoError(t, err)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, keep, history.Entries[0].TrackableID)
}

func TestDeleteTrackableNotFound(t *testing.T) {
	svc, store, owner := newTestService(t)
	ctx := context.Background()

	err := svc.DeleteTrackable(ctx, owner, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	// not owned behaves the same as absent
	other := store.AddUser("dana", "key-dana")
	foreign := createTrackable(t, svc, other.ID, "steps", "number")
	err = svc.DeleteTrackable(ctx, owner, foreign)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAPIKey(t *testing.T) {
	svc, _, owner := newTestService(t)
	ctx := context.Background()

	id, err := svc.ResolveAPIKey(ctx, "key-casey")
	require.NoError(t, err)
	assert.Equal(t, owner, id)

	_, err = svc.ResolveAPIKey(ctx, "bogus")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.ResolveAPIKey(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestOperationsRequireOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ListTrackables(ctx, 0)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.CreateTrackable(ctx, 0, "pushups", "number")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.ErrorIs(t, svc.DeleteTrackable(ctx, 0, 1), ErrUnauthenticated)

	_, err = svc.QueryHistory(ctx, 0, HistoryParams{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.DeleteHistory(ctx, 0, DeleteParams{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
