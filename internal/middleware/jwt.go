package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hostelflow-api/internal/models"
	appErrors "github.com/noah-isme/hostelflow-api/pkg/errors"
	"github.com/noah-isme/hostelflow-api/pkg/response"
)

// Gin context keys set by JWT.
const (
	ContextUserKey   = "currentUser"
	ContextClaimsKey = "currentClaims"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type sessionLookup interface {
	CurrentUser(ctx context.Context) (*models.User, error)
}

// JWT requires a valid access token that belongs to the live session. The token id
// must equal the session id, so tokens from an earlier login stop working.
func JWT(tokens tokenValidator, sessions sessionLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		user, err := sessions.CurrentUser(c.Request.Context())
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if user.ID != claims.UserID || user.SessionID == "" || claims.ID != user.SessionID {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "session no longer active"))
			c.Abort()
			return
		}

		c.Set(ContextClaimsKey, claims)
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// UserFromContext returns the session user stored by JWT.
func UserFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}
