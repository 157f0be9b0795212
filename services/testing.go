package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tracknest/tracknest/models"
)

// MemoryStore is an in-memory Store implementation for tests.
type MemoryStore struct {
	mu           sync.RWMutex
	txMu         sync.Mutex
	users        map[uint]models.User
	trackables   map[uint]models.Trackable
	entries      map[uint]models.Entry
	userSeq      uint
	trackableSeq uint
	entrySeq     uint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[uint]models.User),
		trackables: make(map[uint]models.Trackable),
		entries:    make(map[uint]models.Entry),
	}
}

// AddUser seeds an account and returns it.
func (s *MemoryStore) AddUser(username, apiKey string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userSeq++
	user := models.User{
		ID:        s.userSeq,
		Username:  username,
		APIKey:    apiKey,
		CreatedAt: time.Now().UTC(),
	}
	s.users[user.ID] = user
	return user
}

// WithTx serializes transactional callbacks with a dedicated mutex so
// the check-then-insert sequence in Track stays atomic, mirroring the
// database transaction of the real store.
func (s *MemoryStore) WithTx(ctx context.Context, fn func(Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

func (s *MemoryStore) UserByAPIKey(_ context.Context, key string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.APIKey == key {
			u := user
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) FindTrackable(_ context.Context, id, owner uint) (*models.Trackable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.trackables[id]; ok && t.OwnerID == owner {
		found := t
		return &found, nil
	}
	return nil, nil
}

func (s *MemoryStore) ListTrackables(_ context.Context, owner uint) ([]models.Trackable, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Trackable
	for id := uint(1); id <= s.trackableSeq; id++ {
		if t, ok := s.trackables[id]; ok && t.OwnerID == owner {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStore) InsertTrackable(_ context.Context, t *models.Trackable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackableSeq++
	t.ID = s.trackableSeq
	t.CreatedAt = time.Now().UTC()
	s.trackables[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTrackable(_ context.Context, id, owner uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.trackables[id]; ok && t.OwnerID == owner {
		delete(s.trackables, id)
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryStore) FindEntryByDay(_ context.Context, trackableID uint, day time.Time) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.TrackableID == trackableID && e.Date.Equal(day) {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) InsertEntry(_ context.Context, e *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.entries {
		if existing.TrackableID == e.TrackableID && existing.Date.Equal(e.Date) {
			return ErrDuplicateEntry
		}
	}
	s.entrySeq++
	e.ID = s.entrySeq
	e.CreatedAt = time.Now().UTC()
	e.UpdatedAt = e.CreatedAt
	s.entries[e.ID] = *e
	return nil
}

func (s *MemoryStore) UpdateEntryValue(_ context.Context, id uint, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	e.Value = value
	e.UpdatedAt = time.Now().UTC()
	s.entries[id] = e
	return nil
}

func (s *MemoryStore) DeleteEntriesByDay(_ context.Context, owner uint, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, e := range s.entries {
		if e.OwnerID == owner && e.Date.Equal(day) {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) DeleteEntryByID(_ context.Context, owner, id uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[id]; ok && e.OwnerID == owner {
		delete(s.entries, id)
		return 1, nil
	}
	return 0, nil
}

func (s *MemoryStore) DeleteEntriesByTrackable(_ context.Context, owner, trackableID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for id, e := range s.entries {
		if e.OwnerID == owner && e.TrackableID == trackableID {
			delete(s.entries, id)
			deleted++
		}
	}
	return deleted, nil
}

func (s *MemoryStore) QueryEntries(_ context.Context, owner uint, f HistoryFilter) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Entry
	for id := uint(1); id <= s.entrySeq; id++ {
		e, ok := s.entries[id]
		if !ok || e.OwnerID != owner {
			continue
		}
		if f.Item != nil && e.TrackableID != *f.Item {
			continue
		}
		if f.Day != nil && !e.Date.Equal(*f.Day) {
			continue
		}
		if f.StartDate != nil && !e.Date.After(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !e.Date.Before(*f.EndDate) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
