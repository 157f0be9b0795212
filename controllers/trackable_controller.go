package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

const trackableCacheNS = "cache:trackables:"

// TrackableController manages owner-scoped CRUD for metric definitions.
type TrackableController struct {
	svc *services.Service
}

// NewTrackableController creates a TrackableController.
func NewTrackableController(svc *services.Service) *TrackableController {
	return &TrackableController{svc: svc}
}

// List returns the caller's trackables. Listings are cached per owner
// and invalidated on create/delete.
func (t *TrackableController) List(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := trackableCacheNS + strconv.FormatUint(uint64(userID), 10)
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", b)
		return
	}

	trackables, err := t.svc.ListTrackables(ctx.Request.Context(), userID)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: trackables}
	utils.CacheSetJSON(cacheKey, wrapper, 10*time.Minute)
	utils.Success(ctx, trackables)
}

// Create defines a new trackable for the caller.
func (t *TrackableController) Create(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required,min=1"`
		Type string `json:"type" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	trackable, err := t.svc.CreateTrackable(ctx.Request.Context(), userID, req.Name, req.Type)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.CacheDelete(trackableCacheNS + strconv.FormatUint(uint64(userID), 10))
	utils.Success(ctx, gin.H{"id": trackable.ID})
}

// Delete removes an owned trackable and all of its entries.
func (t *TrackableController) Delete(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40007, "invalid trackable id")
		return
	}

	if err := t.svc.DeleteTrackable(ctx.Request.Context(), userID, uint(id)); err != nil {
		respondServiceError(ctx, err)
		return
	}

	utils.CacheDelete(trackableCacheNS + strconv.FormatUint(uint64(userID), 10))
	utils.Success(ctx, gin.H{"deleted": id})
}
