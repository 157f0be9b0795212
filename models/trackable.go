package models

import (
	"encoding/json"
	"strconv"
	"time"
)

// DateFormat is the wire format for calendar days across the API.
const DateFormat = "2006-01-02"

// MaxScore is the upper bound for score-typed values. There is no lower
// bound; negative scores are accepted.
const MaxScore = 10

// TrackableType enumerates the value kinds a trackable can record. The
// set is closed; anything else read from storage is rejected.
type TrackableType string

const (
	TypeNumber  TrackableType = "number"
	TypeBoolean TrackableType = "boolean"
	TypeScore   TrackableType = "score"
)

// ParseTrackableType maps a raw string onto the closed enum.
func ParseTrackableType(s string) (TrackableType, bool) {
	switch TrackableType(s) {
	case TypeNumber, TypeBoolean, TypeScore:
		return TrackableType(s), true
	}
	return "", false
}

// Valid reports whether the type is one of the closed enum values.
func (t TrackableType) Valid() bool {
	_, ok := ParseTrackableType(string(t))
	return ok
}

// ValidateValue checks a raw JSON value against the type's rule:
// number accepts integers (numeric or quoted), score accepts reals up
// to MaxScore, boolean accepts only the JSON literals true/false.
// Quoted booleans like "true" are rejected.
func (t TrackableType) ValidateValue(raw json.RawMessage) bool {
	switch t {
	case TypeNumber:
		if s, ok := unquoted(raw); ok {
			_, err := strconv.ParseInt(s, 10, 64)
			return err == nil
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return false
		}
		_, err := strconv.ParseInt(n.String(), 10, 64)
		return err == nil
	case TypeScore:
		var v float64
		if s, ok := unquoted(raw); ok {
			parsed, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return false
			}
			v = parsed
		} else if err := json.Unmarshal(raw, &v); err != nil {
			return false
		}
		return v <= MaxScore
	case TypeBoolean:
		var b bool
		return json.Unmarshal(raw, &b) == nil
	}
	return false
}

// unquoted extracts the contents of a JSON string value.
func unquoted(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// Trackable is a user-defined metric: a named definition whose type is
// fixed at creation and governs the validation of every later entry.
type Trackable struct {
	ID        uint          `gorm:"primaryKey" json:"id"`
	OwnerID   uint          `gorm:"index;not null" json:"owner"`
	Name      string        `gorm:"size:128;not null" json:"name"`
	Type      TrackableType `gorm:"size:16;not null" json:"type"`
	CreatedAt time.Time     `json:"-"`
	UpdatedAt time.Time     `json:"-"`
}

// Created returns the creation day in YYYY-MM-DD form.
func (t Trackable) Created() string {
	return t.CreatedAt.UTC().Format(DateFormat)
}

// ValidateValue delegates to the trackable's type rule.
func (t Trackable) ValidateValue(raw json.RawMessage) bool {
	return t.Type.ValidateValue(raw)
}

// MarshalJSON serializes created with date-only precision.
func (t Trackable) MarshalJSON() ([]byte, error) {
	type alias Trackable
	return json.Marshal(struct {
		alias
		Created string `json:"created"`
	}{alias(t), t.Created()})
}
