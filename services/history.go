package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/tracknest/tracknest/models"
)

// ParseDay parses a YYYY-MM-DD string into midnight UTC of that day.
// Impossible calendar days (2024-02-30) are rejected.
func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(models.DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, valid dates follow the format YYYY-MM-DD", ErrInvalidDate, s)
	}
	return t, nil
}

// Track records a value for a trackable on a calendar day and returns
// the entry id. The load, validate, and upsert steps run in one store
// transaction so concurrent tracks for the same (trackable, day) cannot
// produce duplicate rows. When an entry already exists for the pair its
// value is overwritten in place and its id returned.
func (s *Service) Track(ctx context.Context, owner, trackableID uint, value json.RawMessage, day string) (uint, error) {
	if owner == 0 {
		return 0, ErrUnauthenticated
	}
	date, err := ParseDay(day)
	if err != nil {
		return 0, err
	}

	var entryID uint
	err = s.store.WithTx(ctx, func(tx Store) error {
		trackable, err := tx.FindTrackable(ctx, trackableID, owner)
		if err != nil {
			return err
		}
		if trackable == nil {
			return fmt.Errorf("%w: trackable %d", ErrNotFound, trackableID)
		}
		if !trackable.Type.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidTrackableType, trackable.Type)
		}
		if !trackable.ValidateValue(value) {
			return fmt.Errorf("%w: %s is not a valid %s", ErrInvalidValue, value, trackable.Type)
		}

		existing, err := tx.FindEntryByDay(ctx, trackableID, date)
		if err != nil {
			return err
		}
		if existing != nil {
			entryID = existing.ID
			return tx.UpdateEntryValue(ctx, existing.ID, value)
		}

		entry := &models.Entry{
			TrackableID: trackableID,
			OwnerID:     owner,
			Date:        date,
			Value:       value,
		}
		if err := tx.InsertEntry(ctx, entry); err != nil {
			if errors.Is(err, ErrDuplicateEntry) {
				// Lost the race with a concurrent track for the same
				// (trackable, day); fall through to the overwrite branch.
				winner, ferr := tx.FindEntryByDay(ctx, trackableID, date)
				if ferr != nil {
					return ferr
				}
				if winner == nil {
					return err
				}
				entryID = winner.ID
				return tx.UpdateEntryValue(ctx, winner.ID, value)
			}
			return err
		}
		entryID = entry.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.log.Debugw("tracked entry", "owner", owner, "trackable", trackableID, "day", day, "entry", entryID)
	return entryID, nil
}

// HistoryParams carries raw, unvalidated history query parameters.
type HistoryParams struct {
	Day       string
	StartDate string
	EndDate   string
	Item      string
}

// HistoryFilter is the validated predicate set produced from
// HistoryParams. All present fields are AND-combined; the range bounds
// are exclusive on both ends.
type HistoryFilter struct {
	Day       *time.Time
	StartDate *time.Time
	EndDate   *time.Time
	Item      *uint
}

// PlanHistoryFilter validates and normalizes raw query parameters. Day
// is mutually exclusive with the range bounds; every date parameter is
// validated independently and all failures are returned together.
func PlanHistoryFilter(p HistoryParams) (HistoryFilter, error) {
	if p.Day != "" && (p.StartDate != "" || p.EndDate != "") {
		return HistoryFilter{}, ErrConflictingFilters
	}

	var errs ValidationErrors
	parseDate := func(field, raw string) *time.Time {
		if raw == "" {
			return nil
		}
		t, err := ParseDay(raw)
		if err != nil {
			errs = append(errs, FieldError{
				Field:   field,
				Message: fmt.Sprintf("invalid date %q, valid dates follow the format YYYY-MM-DD", raw),
			})
			return nil
		}
		return &t
	}

	f := HistoryFilter{
		Day:       parseDate("day", p.Day),
		StartDate: parseDate("start_date", p.StartDate),
		EndDate:   parseDate("end_date", p.EndDate),
	}
	if p.Item != "" {
		id, err := strconv.ParseUint(p.Item, 10, 32)
		if err != nil {
			errs = append(errs, FieldError{Field: "tracked_item", Message: "must be a trackable id"})
		} else {
			item := uint(id)
			f.Item = &item
		}
	}
	if len(errs) > 0 {
		return HistoryFilter{}, errs
	}
	return f, nil
}

// QueryHistory returns the owner's entries matching the given filters,
// shaped into a History bundle.
func (s *Service) QueryHistory(ctx context.Context, owner uint, p HistoryParams) (*models.History, error) {
	if owner == 0 {
		return nil, ErrUnauthenticated
	}
	f, err := PlanHistoryFilter(p)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.QueryEntries(ctx, owner, f)
	if err != nil {
		return nil, err
	}
	return models.NewHistory(entries, p.StartDate, p.EndDate), nil
}

// DeleteParams selects entries to delete. Exactly one selector is
// honored per call: day first, then id, then tracked item.
type DeleteParams struct {
	Day  string
	ID   *uint
	Item *uint
}

// DeleteHistory deletes the owner's entries matching the first present
// selector and returns the number of rows removed. With no selector it
// deletes nothing.
func (s *Service) DeleteHistory(ctx context.Context, owner uint, p DeleteParams) (int64, error) {
	if owner == 0 {
		return 0, ErrUnauthenticated
	}
	switch {
	case p.Day != "":
		day, err := ParseDay(p.Day)
		if err != nil {
			return 0, err
		}
		return s.store.DeleteEntriesByDay(ctx, owner, day)
	case p.ID != nil:
		return s.store.DeleteEntryByID(ctx, owner, *p.ID)
	case p.Item != nil:
		return s.store.DeleteEntriesByTrackable(ctx, owner, *p.Item)
	}
	return 0, nil
}
