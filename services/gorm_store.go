package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tracknest/tracknest/models"
)

// GormStore is the MySQL-backed Store. Filter predicates are built with
// GORM's parameterized Where chain only; no SQL is ever assembled from
// request strings.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps an initialized gorm DB.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithTx runs fn against a store bound to a single database
// transaction. Requires TranslateError so duplicate-key violations
// surface as gorm.ErrDuplicatedKey.
func (s *GormStore) WithTx(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) UserByAPIKey(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("api_key = ?", key).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) FindTrackable(ctx context.Context, id, owner uint) (*models.Trackable, error) {
	var trackable models.Trackable
	err := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&trackable).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &trackable, nil
}

func (s *GormStore) ListTrackables(ctx context.Context, owner uint) ([]models.Trackable, error) {
	var trackables []models.Trackable
	err := s.db.WithContext(ctx).Where("owner_id = ?", owner).Order("id ASC").Find(&trackables).Error
	return trackables, err
}

func (s *GormStore) InsertTrackable(ctx context.Context, t *models.Trackable) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) DeleteTrackable(ctx context.Context, id, owner uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&models.Trackable{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) FindEntryByDay(ctx context.Context, trackableID uint, day time.Time) (*models.Entry, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).Where("trackable_id = ? AND date = ?", trackableID, day).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *GormStore) InsertEntry(ctx context.Context, e *models.Entry) error {
	err := s.db.WithContext(ctx).Create(e).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEntry
	}
	return err
}

func (s *GormStore) UpdateEntryValue(ctx context.Context, id uint, value json.RawMessage) error {
	return s.db.WithContext(ctx).Model(&models.Entry{}).Where("id = ?", id).
		Updates(map[string]interface{}{"value": string(value), "updated_at": time.Now()}).Error
}

func (s *GormStore) DeleteEntriesByDay(ctx context.Context, owner uint, day time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND date = ?", owner, day).Delete(&models.Entry{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteEntryByID(ctx context.Context, owner, id uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND id = ?", owner, id).Delete(&models.Entry{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) DeleteEntriesByTrackable(ctx context.Context, owner, trackableID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("owner_id = ? AND trackable_id = ?", owner, trackableID).Delete(&models.Entry{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) QueryEntries(ctx context.Context, owner uint, f HistoryFilter) ([]models.Entry, error) {
	q := s.db.WithContext(ctx).Where("owner_id = ?", owner)
	if f.Item != nil {
		q = q.Where("trackable_id = ?", *f.Item)
	}
	if f.Day != nil {
		q = q.Where("date = ?", *f.Day)
	}
	if f.StartDate != nil {
		q = q.Where("date > ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("date < ?", *f.EndDate)
	}

	var entries []models.Entry
	err := q.Order("date ASC").Find(&entries).Error
	return entries, err
}
