package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracknest/tracknest/middleware"
	"github.com/tracknest/tracknest/services"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestRouter wires the trackable and history controllers behind a
// stub auth middleware that pins the caller to user 1.
func newTestRouter(t *testing.T) (*gin.Engine, *services.MemoryStore) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	store := services.NewMemoryStore()
	store.AddUser("casey", "key-casey")
	svc := services.New(store, nil)

	r := gin.New()
	r.Use(func(ctx *gin.Context) {
		ctx.Set(middleware.ContextUserIDKey, uint(1))
		ctx.Next()
	})

	trackables := NewTrackableController(svc)
	history := NewHistoryController(svc)
	r.GET("/trackables", trackables.List)
	r.POST("/trackables", trackables.Create)
	r.DELETE("/trackables/:id", trackables.Delete)
	r.GET("/history", history.Query)
	r.PUT("/history", history.Track)
	r.DELETE("/history", history.Delete)

	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func createTrackableHTTP(t *testing.T, r *gin.Engine, name, typ string) uint {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/trackables", gin.H{"name": name, "type": typ})
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func TestTrackAndQueryHistoryHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	item := createTrackableHTTP(t, r, "pushups", "number")

	w, env := doJSON(t, r, http.MethodPut, "/history", gin.H{
		"item":  item,
		"value": 30,
		"day":   "2024-05-01",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, env.Code)

	w, env = doJSON(t, r, http.MethodGet, "/history?day=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Items   []uint            `json:"items"`
		Values  []json.RawMessage `json:"values"`
		Entries []struct {
			Date  string          `json:"date"`
			Value json.RawMessage `json:"value"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Equal(t, []uint{item}, history.Items)
	require.Len(t, history.Entries, 1)
	assert.Equal(t, "2024-05-01", history.Entries[0].Date)
	assert.Equal(t, json.RawMessage(`30`), history.Entries[0].Value)
}

func TestTrackRejectsMalformedPayload(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodPut, "/history", gin.H{"item": 1, "value": 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40001, env.Code)
}

func TestTrackErrorMapping(t *testing.T) {
	r, _ := newTestRouter(t)
	item := createTrackableHTTP(t, r, "pushups", "number")

	w, env := doJSON(t, r, http.MethodPut, "/history", gin.H{
		"item": item, "value": "thirty", "day": "2024-05-01",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40005, env.Code)

	w, env = doJSON(t, r, http.MethodPut, "/history", gin.H{
		"item": item, "value": 30, "day": "2024-02-30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40004, env.Code)

	w, env = doJSON(t, r, http.MethodPut, "/history", gin.H{
		"item": item + 1, "value": 30, "day": "2024-05-01",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40401, env.Code)
}

func TestQueryHistoryConflictingFiltersHTTP(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/history?day=2024-05-01&start_date=2024-05-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40003, env.Code)
}

func TestQueryHistoryReportsAllBadDates(t *testing.T) {
	r, _ := newTestRouter(t)

	w, env := doJSON(t, r, http.MethodGet, "/history?start_date=nope&end_date=2024-13-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40002, env.Code)

	var fields []struct {
		Field string `json:"field"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	require.Len(t, fields, 2)
	assert.Equal(t, "start_date", fields[0].Field)
	assert.Equal(t, "end_date", fields[1].Field)
}

func TestDeleteHistoryByDayHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	item := createTrackableHTTP(t, r, "pushups", "number")

	_, _ = doJSON(t, r, http.MethodPut, "/history", gin.H{"item": item, "value": 1, "day": "2024-05-01"})
	_, _ = doJSON(t, r, http.MethodPut, "/history", gin.H{"item": item, "value": 2, "day": "2024-05-02"})

	w, env := doJSON(t, r, http.MethodDelete, "/history?day=2024-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(1), data.Deleted)

	w, env = doJSON(t, r, http.MethodDelete, "/history?id=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 40008, env.Code)
}

func TestDeleteTrackableCascadeHTTP(t *testing.T) {
	r, _ := newTestRouter(t)
	item := createTrackableHTTP(t, r, "pushups", "number")
	_, _ = doJSON(t, r, http.MethodPut, "/history", gin.H{"item": item, "value": 1, "day": "2024-05-01"})

	w, _ := doJSON(t, r, http.MethodDelete, "/trackables/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := doJSON(t, r, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Entries []json.RawMessage `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &history))
	assert.Empty(t, history.Entries)

	w, env = doJSON(t, r, http.MethodDelete, "/trackables/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 40401, env.Code)
}
