package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"ats-backend/internal/auth"
	"ats-backend/internal/utilities"
)

// checkRevoked aborts the request and reports true when the token id is on the blacklist.
func checkRevoked(ctx *gin.Context, bl auth.JwtBlacklistStore, claims *auth.Claims) bool {
	if bl == nil {
		return false
	}

	isBlacklisted, err := bl.IsBlacklisted(ctx.Request.Context(), claims.ID)
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to validate token: %s", err.Error()),
		})
		return true
	}

	if isBlacklisted {
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, utilities.ErrorResponse{
			Error: "Token has been revoked",
		})
		return true
	}
	return false
}
