package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vidtube/vidtube_backend/internal/apperrors"
	"github.com/vidtube/vidtube_backend/internal/core/domain"
	"github.com/vidtube/vidtube_backend/internal/dto"
	"github.com/vidtube/vidtube_backend/internal/utils"
)

// AccessTokenCookieName is the cookie carrying the access token.
const AccessTokenCookieName = "accessToken"

// TokenVerifier validates an access token string.
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (*utils.AccessTokenClaims, error)
}

// IdentityResolver loads the identity behind a verified token.
type IdentityResolver interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// AuthMiddleware creates a Gin middleware that authenticates requests. The
// credential is read from the access token cookie or the Authorization header
// (Bearer form), verified, and resolved to a live identity; the sanitized
// user is attached to the request context. No token rotation happens here.
func AuthMiddleware(tokens TokenVerifier, users IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		tokenString := extractAccessToken(c)
		if tokenString == "" {
			logger.Warn("Access token missing")
			abortUnauthorized(c, "Authentication required")
			return
		}

		claims, err := tokens.VerifyAccessToken(tokenString)
		if err != nil {
			logger.Warn("Invalid access token", slog.String("error", err.Error()))
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		user, err := users.GetUserByID(c.Request.Context(), claims.Subject)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				logger.Warn("Access token subject no longer exists", slog.String("user_id", claims.Subject))
				abortUnauthorized(c, "Invalid access token")
				return
			}
			logger.Error("Failed to resolve token subject", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(http.StatusInternalServerError, "Failed to authenticate request"))
			return
		}

		sanitized := user.Sanitized()

		ctx := context.WithValue(c.Request.Context(), userIDKey, sanitized.UserID)
		ctx = context.WithValue(ctx, currentUserKey, &sanitized)

		enrichedLogger := logger.With(slog.String("user_id", sanitized.UserID))
		ctx = context.WithValue(ctx, loggerCtxKey, enrichedLogger)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractAccessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(http.StatusUnauthorized, message))
}
