package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{}

func (stubParser) Parse(token string) (*models.JwtCustomClaims, error) {
	if token == "good" {
		return &models.JwtCustomClaims{UserID: 7, Username: "alice"}, nil
	}
	return nil, errors.New("bad token")
}

type stubResolver struct{}

func (stubResolver) ResolveFirebaseUser(_ context.Context, idToken string) (*models.User, error) {
	if idToken == "firebase" {
		uid := "fb-9"
		return &models.User{ID: 9, Username: "fbuser", FirebaseUID: &uid}, nil
	}
	return nil, errors.New("bad firebase token")
}

func TestJWTAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		firebase   FirebaseUserResolver
		wantStatus int
		wantUserID uint
	}{
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic good", wantStatus: http.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", wantStatus: http.StatusUnauthorized},
		{name: "valid jwt", header: "Bearer good", wantStatus: http.StatusOK, wantUserID: 7},
		{name: "invalid jwt without firebase", header: "Bearer firebase", wantStatus: http.StatusUnauthorized},
		{name: "firebase fallback", header: "Bearer firebase", firebase: stubResolver{}, wantStatus: http.StatusOK, wantUserID: 9},
		{name: "firebase rejects", header: "Bearer junk", firebase: stubResolver{}, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var gotUserID uint
			handler := JWTAuthMiddleware(stubParser{}, tt.firebase)(func(c echo.Context) error {
				claims, ok := CurrentUser(c)
				require.True(t, ok)
				gotUserID = claims.UserID
				return c.NoContent(http.StatusOK)
			})

			err := handler(c)
			if tt.wantStatus == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
				assert.Equal(t, tt.wantUserID, gotUserID)
				return
			}
			var he *echo.HTTPError
			require.True(t, errors.As(err, &he))
			assert.Equal(t, tt.wantStatus, he.Code)
			assert.Zero(t, gotUserID)
		})
	}
}

func TestCurrentUser_Missing(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	_, ok := CurrentUser(c)
	assert.False(t, ok)
}
