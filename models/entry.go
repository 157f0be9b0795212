package models

import (
	"encoding/json"
	"time"
)

// Entry is one recorded value for a trackable on a calendar day. The
// composite unique index enforces at most one entry per (trackable,
// day); a second track for the same pair overwrites the value instead
// of inserting. OwnerID is denormalized from the trackable so deletes
// and queries stay owner-scoped without a join.
type Entry struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	TrackableID uint            `gorm:"index:idx_entries_item_day,unique;not null" json:"item"`
	OwnerID     uint            `gorm:"index;not null" json:"owner"`
	Date        time.Time       `gorm:"index:idx_entries_item_day,unique;type:date;not null" json:"-"`
	Value       json.RawMessage `gorm:"type:varchar(64);not null" json:"value"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}

// Day returns the entry's calendar day in YYYY-MM-DD form.
func (e Entry) Day() string {
	return e.Date.UTC().Format(DateFormat)
}

// MarshalJSON serializes the date with day precision.
func (e Entry) MarshalJSON() ([]byte, error) {
	type alias Entry
	return json.Marshal(struct {
		alias
		Date string `json:"date"`
	}{alias(e), e.Day()})
}

// History is a response-shaping bundle over a query window. It is never
// persisted; items and values run parallel to the entries they were
// built from.
type History struct {
	Items     []uint            `json:"items"`
	Values    []json.RawMessage `json:"values"`
	StartDate string            `json:"start_date,omitempty"`
	EndDate   string            `json:"end_date,omitempty"`
	Entries   []Entry           `json:"entries"`
}

// NewHistory assembles a History view from stored entries.
func NewHistory(entries []Entry, startDate, endDate string) *History {
	h := &History{
		Items:     make([]uint, 0, len(entries)),
		Values:    make([]json.RawMessage, 0, len(entries)),
		StartDate: startDate,
		EndDate:   endDate,
		Entries:   entries,
	}
	for _, e := range entries {
		h.Items = append(h.Items, e.TrackableID)
		h.Values = append(h.Values, e.Value)
	}
	return h
}
