package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/BhanuBurman/career-page-builder/internal/metrics"
	"github.com/BhanuBurman/career-page-builder/pkg/jwtutil"
	"github.com/BhanuBurman/career-page-builder/pkg/logger"
)

// JWTAuthMiddleware creates a middleware that validates bearer tokens and
// stores the verified claims in the request context. Public routes simply
// do not mount it.
func JWTAuthMiddleware(verifier *jwtutil.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			// Extract the token from the Authorization header
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Missing authorization header")
				metrics.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				log.Warn("Invalid authorization header format")
				metrics.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization header format, expected Bearer token"})
			}

			claims, err := verifier.ValidateToken(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, jwtutil.ErrMissingSecret):
					// Operator misconfiguration, not a caller problem
					log.Error("JWT secret is not configured")
					metrics.RecordAuthError("missing_secret")
					return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authentication is not configured"})
				case errors.Is(err, jwtutil.ErrTokenExpired):
					log.Warn("Expired token", zap.Error(err))
					metrics.RecordAuthError("expired_token")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "token has expired"})
				default:
					log.Warn("Invalid token", zap.Error(err))
					metrics.RecordAuthError("invalid_token")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
				}
			}

			// Store the claims in the context for later use
			c.Set("claims", claims)
			log.Debug("JWT token validated successfully",
				zap.String("subject", claims.Subject),
				zap.String("email", claims.Email))

			return next(c)
		}
	}
}
