package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"person-registry/internal/shared/response"
	"person-registry/pkg/jwt"
	"person-registry/pkg/logger"
)

const principalKey = "principal"

// Auth is the authentication gate. Every rejection is classified so the
// client can tell a missing header from a malformed one, and an expired
// token from an invalid signature. A failure inside verification itself is
// reported as an internal error, not a client error.
func Auth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorResponse(c, 401, "CREDENTIAL_MISSING", "token required, send 'Authorization: Bearer <token>'")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorResponse(c, 400, "CREDENTIAL_MALFORMED", "invalid authorization format, use 'Authorization: Bearer <token>'")
			c.Abort()
			return
		}

		token := strings.TrimSpace(parts[1])
		if token == "" {
			response.ErrorResponse(c, 400, "CREDENTIAL_EMPTY", "empty token, send the token after 'Bearer'")
			c.Abort()
			return
		}

		claims, err := manager.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				response.ErrorResponse(c, 403, "CREDENTIAL_EXPIRED", "token has expired, log in again")
			case errors.Is(err, jwt.ErrTokenInvalid):
				response.ErrorResponse(c, 403, "CREDENTIAL_INVALID", "invalid or expired token")
			default:
				logger.Error("token verification fault", err)
				response.InternalServerError(c, "could not validate token")
			}
			c.Abort()
			return
		}

		c.Set(principalKey, claims)
		c.Next()
	}
}

// PrincipalFromContext returns the claims the auth gate attached to this
// request.
func PrincipalFromContext(c *gin.Context) (*jwt.Claims, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*jwt.Claims)
	return claims, ok
}
