package middleware

import (
	"net/http"
	"strings"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// UserContextKey is where the authenticated claims are stored on the echo context
const UserContextKey = "user"

// TokenParser verifies a local session token
type TokenParser interface {
	Parse(tokenString string) (*models.JwtCustomClaims, error)
}

// JWTAuthMiddleware checks for a valid local JWT, falling back to a Firebase ID token
// when firebase is non-nil. Requests without valid credentials never reach the handler.
func JWTAuthMiddleware(tokens TokenParser, firebase FirebaseUserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString, err := bearerToken(c.Request())
			if err != nil {
				return err
			}

			claims, err := tokens.Parse(tokenString)
			if err != nil {
				if firebase == nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
				claims, err = firebaseClaims(c, firebase, tokenString)
				if err != nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
			}

			c.Set(UserContextKey, claims)
			return next(c)
		}
	}
}

func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Missing Authorization header")
	}
	// Expecting "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization header format")
	}
	return parts[1], nil
}

// CurrentUser returns the claims stored by JWTAuthMiddleware
func CurrentUser(c echo.Context) (*models.JwtCustomClaims, bool) {
	claims, ok := c.Get(UserContextKey).(*models.JwtCustomClaims)
	return claims, ok && claims != nil
}
