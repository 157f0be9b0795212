package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tracknest/tracknest/middleware"
	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

// getUserID extracts the authenticated owner id placed in the context
// by the auth middleware.
func getUserID(ctx *gin.Context) (uint, bool) {
	v, ok := ctx.Get(middleware.ContextUserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok && id != 0
}

// respondServiceError maps core error kinds onto HTTP statuses and the
// numeric application codes used across the API.
func respondServiceError(ctx *gin.Context, err error) {
	var verrs services.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		utils.Respond(ctx, http.StatusBadRequest, 40002, "invalid request parameters", verrs)
	case errors.Is(err, services.ErrConflictingFilters):
		utils.Error(ctx, http.StatusBadRequest, 40003, err.Error())
	case errors.Is(err, services.ErrInvalidDate):
		utils.Error(ctx, http.StatusBadRequest, 40004, err.Error())
	case errors.Is(err, services.ErrInvalidValue):
		utils.Error(ctx, http.StatusBadRequest, 40005, err.Error())
	case errors.Is(err, services.ErrInvalidTrackableType):
		utils.Error(ctx, http.StatusBadRequest, 40006, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
	case errors.Is(err, services.ErrNotFound):
		utils.Error(ctx, http.StatusNotFound, 40401, err.Error())
	default:
		if utils.Sugar != nil {
			utils.Sugar.Errorw("request failed", "path", ctx.FullPath(), "err", err)
		}
		utils.Error(ctx, http.StatusInternalServerError, 50000, "internal error")
	}
}
