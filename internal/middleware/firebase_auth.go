package middleware

import (
	"context"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/labstack/echo/v4"
)

// FirebaseUserResolver verifies a Firebase ID token and maps it to a local user
type FirebaseUserResolver interface {
	ResolveFirebaseUser(ctx context.Context, idToken string) (*models.User, error)
}

func firebaseClaims(c echo.Context, firebase FirebaseUserResolver, idToken string) (*models.JwtCustomClaims, error) {
	user, err := firebase.ResolveFirebaseUser(c.Request().Context(), idToken)
	if err != nil {
		return nil, err
	}
	c.Set("firebaseUID", derefString(user.FirebaseUID))
	return &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
	}, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
