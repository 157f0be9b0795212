package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tracknest/tracknest/services"
	"github.com/tracknest/tracknest/utils"
)

const (
	// ContextUserIDKey is the key used to store the resolved owner ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"

	apiKeyHeader  = "X-API-Key"
	apiKeyCacheNS = "cache:apikey:"
)

// AuthRequired resolves the caller's identity from either a bearer JWT
// or an API key header, exactly once per request. Handlers read the
// owner id out of the context and pass it explicitly into the core;
// nothing downstream touches credentials again.
func AuthRequired(svc *services.Service) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if key := strings.TrimSpace(ctx.GetHeader(apiKeyHeader)); key != "" {
			authenticateAPIKey(ctx, svc, key)
			return
		}

		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
			ctx.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
			ctx.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
			ctx.Abort()
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// authenticateAPIKey resolves an API key to an owner id, consulting the
// cache before the store.
func authenticateAPIKey(ctx *gin.Context, svc *services.Service, key string) {
	if b, ok := utils.CacheGetBytes(apiKeyCacheNS + key); ok {
		if id, err := strconv.ParseUint(string(b), 10, 32); err == nil && id != 0 {
			ctx.Set(ContextUserIDKey, uint(id))
			ctx.Next()
			return
		}
	}

	ownerID, err := svc.ResolveAPIKey(ctx.Request.Context(), key)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid api key")
		ctx.Abort()
		return
	}

	utils.CacheSetBytes(apiKeyCacheNS+key, []byte(strconv.FormatUint(uint64(ownerID), 10)), 10*time.Minute)
	ctx.Set(ContextUserIDKey, ownerID)
	ctx.Next()
}
