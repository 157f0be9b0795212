package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

// HistoryController exposes the entry tracking, query, and deletion
// operations.
type HistoryController struct {
	svc *services.Service
}

// NewHistoryController creates a HistoryController.
func NewHistoryController(svc *services.Service) *HistoryController {
	return &HistoryController{svc: svc}
}

// Track records a value for a trackable on a day, overwriting any
// previous value for the same (trackable, day).
func (h *HistoryController) Track(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Item  uint            `json:"item" binding:"required"`
		Value json.RawMessage `json:"value" binding:"required"`
		Day   string          `json:"day" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	entryID, err := h.svc.Track(ctx.Request.Context(), userID, req.Item, req.Value, req.Day)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"id": entryID})
}

// Query returns the caller's history filtered by day, date range, and
// trackable.
func (h *HistoryController) Query(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	params := services.HistoryParams{
		Day:       ctx.Query("day"),
		StartDate: ctx.Query("start_date"),
		EndDate:   ctx.Query("end_date"),
		Item:      ctx.Query("tracked_item"),
	}

	history, err := h.svc.QueryHistory(ctx.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, history)
}

// Delete removes entries by the first present selector: day, then
// entry id, then tracked item.
func (h *HistoryController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	params := services.DeleteParams{Day: ctx.Query("day")}
	if raw := ctx.Query("id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40008, "invalid entry id")
			return
		}
		entryID := uint(id)
		params.ID = &entryID
	}
	if raw := ctx.Query("tracked_item"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40007, "invalid trackable id")
			return
		}
		item := uint(id)
		params.Item = &item
	}

	deleted, err := h.svc.DeleteHistory(ctx.Request.Context(), userID, params)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.Success(ctx, gin.H{"deleted": deleted})
}
