package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTrackableType(t *testing.T) {
	for _, raw := range []string{"number", "boolean", "score"} {
		parsed, ok := ParseTrackableType(raw)
		require.True(t, ok, raw)
		assert.True(t, parsed.Valid())
	}

	for _, raw := range []string{"", "Number", "integer", "bool", "rating"} {
		_, ok := ParseTrackableType(raw)
		assert.False(t, ok, raw)
	}
}

func TestValidateValueNumber(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"integer", `5`, true},
		{"zero", `0`, true},
		{"negative", `-12`, true},
		{"large", `99999999`, true},
		{"quoted integer", `"42"`, true},
		{"fractional", `5.9`, false},
		{"quoted fractional", `"5.9"`, false},
		{"non-numeric string", `"abc"`, false},
		{"boolean", `true`, false},
		{"null", `null`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, TypeNumber.ValidateValue(json.RawMessage(tc.raw)))
		})
	}
}

func TestValidateValueScore(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"at upper bound", `10`, true},
		{"above upper bound", `11`, false},
		{"fractional", `7.5`, true},
		{"fractional above bound", `10.1`, false},
		{"negative allowed", `-3`, true},
		{"quoted real", `"9.5"`, true},
		{"non-numeric string", `"great"`, false},
		{"boolean", `false`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, TypeScore.ValidateValue(json.RawMessage(tc.raw)))
		})
	}
}

func TestValidateValueBoolean(t *testing.T) {
	assert.True(t, TypeBoolean.ValidateValue(json.RawMessage(`true`)))
	assert.True(t, TypeBoolean.ValidateValue(json.RawMessage(`false`)))

	// string coercions of booleans are rejected
	assert.False(t, TypeBoolean.ValidateValue(json.RawMessage(`"true"`)))
	assert.False(t, TypeBoolean.ValidateValue(json.RawMessage(`"false"`)))
	assert.False(t, TypeBoolean.ValidateValue(json.RawMessage(`1`)))
	assert.False(t, TypeBoolean.ValidateValue(json.RawMessage(`null`)))
}

func TestValidateValueUnknownType(t *testing.T) {
	assert.False(t, TrackableType("rating").ValidateValue(json.RawMessage(`5`)))
}

func TestEntryMarshalDate(t *testing.T) {
	entry := Entry{
		ID:          3,
		TrackableID: 7,
		OwnerID:     1,
		Date:        mustDay(t, "2024-05-01"),
		Value:       json.RawMessage(`7.5`),
	}

	b, err := json.Marshal(entry)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "2024-05-01", decoded["date"])
	assert.Equal(t, 7.5, decoded["value"])
	assert.Equal(t, float64(7), decoded["item"])
}

func TestNewHistoryParallelSlices(t *testing.T) {
	entries := []Entry{
		{ID: 1, TrackableID: 2, Value: json.RawMessage(`1`)},
		{ID: 2, TrackableID: 4, Value: json.RawMessage(`true`)},
	}
	h := NewHistory(entries, "2024-05-01", "2024-05-10")

	assert.Equal(t, []uint{2, 4}, h.Items)
	require.Len(t, h.Values, 2)
	assert.Equal(t, json.RawMessage(`true`), h.Values[1])
	assert.Equal(t, "2024-05-01", h.StartDate)
	assert.Equal(t, "2024-05-10", h.EndDate)
}

func mustDay(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation(DateFormat, s, time.UTC)
	require.NoError(t, err)
	return parsed
}
