package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/tracknest/tracknest/models"
)

// ListTrackables returns the owner's trackable definitions. A stored
// type outside the closed enum fails the whole listing rather than
// surfacing a trackable later entries could not validate against.
func (s *Service) ListTrackables(ctx context.Context, owner uint) ([]models.Trackable, error) {
	if owner == 0 {
		return nil, ErrUnauthenticated
	}
	trackables, err := s.store.ListTrackables(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, t := range trackables {
		if !t.Type.Valid() {
			return nil, fmt.Errorf("%w: trackable %d has stored type %q", ErrInvalidTrackableType, t.ID, t.Type)
		}
	}
	return trackables, nil
}

// CreateTrackable creates a new metric definition for the owner. The
// type is fixed here for the trackable's lifetime.
func (s *Service) CreateTrackable(ctx context.Context, owner uint, name, typ string) (*models.Trackable, error) {
	if owner == 0 {
		return nil, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ValidationErrors{{Field: "name", Message: "must not be empty"}}
	}
	trackableType, ok := models.ParseTrackableType(typ)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTrackableType, typ)
	}

	trackable := &models.Trackable{
		OwnerID: owner,
		Name:    name,
		Type:    trackableType,
	}
	if err := s.store.InsertTrackable(ctx, trackable); err != nil {
		return nil, err
	}
	s.log.Debugw("created trackable", "owner", owner, "id", trackable.ID, "type", trackable.Type)
	return trackable, nil
}

// DeleteTrackable removes an owned trackable together with all of its
// entries in one transaction, so deletion never leaves orphans behind.
func (s *Service) DeleteTrackable(ctx context.Context, owner, id uint) error {
	if owner == 0 {
		return ErrUnauthenticated
	}
	return s.store.WithTx(ctx, func(tx Store) error {
		rows, err := tx.DeleteTrackable(ctx, id, owner)
		if err != nil {
			return err
		}
		if rows == 0 {
			return fmt.Errorf("%w: trackable %d", ErrNotFound, id)
		}
		_, err = tx.DeleteEntriesByTrackable(ctx, owner, id)
		return err
	})
}

// ResolveAPIKey maps an API key onto the owning user id, implementing
// the API-key half of caller identity resolution.
func (s *Service) ResolveAPIKey(ctx context.Context, key string) (uint, error) {
	if key == "" {
		return 0, ErrUnauthenticated
	}
	user, err := s.store.UserByAPIKey(ctx, key)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, ErrUnauthenticated
	}
	return user.ID, nil
}
