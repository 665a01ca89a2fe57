package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/habitflow/habitflow/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
)

// AuthRequired ensures the request is authenticated via a user JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := bearerClaims(ctx)
		if !ok {
			return
		}

		if claims.IsAdmin || claims.UserID == 0 {
			utils.Error(ctx, http.StatusUnauthorized, 40106, "user token required")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Next()
	}
}

// AdminRequired ensures the request carries an admin token.
func AdminRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := bearerClaims(ctx)
		if !ok {
			return
		}

		if !claims.IsAdmin {
			utils.Error(ctx, http.StatusForbidden, 40301, "admin token required")
			ctx.Abort()
			return
		}

		ctx.Next()
	}
}

// bearerClaims extracts and validates the bearer token, aborting the request
// with the matching error response when it is missing or invalid.
func bearerClaims(ctx *gin.Context) (*utils.Claims, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
		ctx.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
		ctx.Abort()
		return nil, false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
		ctx.Abort()
		return nil, false
	}

	if utils.IsTokenBlacklisted(tokenString) {
		utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
		ctx.Abort()
		return nil, false
	}

	claims, err := utils.ParseToken(tokenString)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		ctx.Abort()
		return nil, false
	}

	return claims, true
}
