package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	tokens map[string]*auth.Token
}

func (v *stubVerifier) VerifyIDToken(_ context.Context, idToken string) (*auth.Token, error) {
	if tok, ok := v.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("bad token")
}

func newAuthService(env *testEnv, verifier IDTokenVerifier) *AuthService {
	tokens := NewTokenManager("test-secret", time.Hour, time.Now)
	return NewAuthService(env.store, tokens, verifier, env.clock.Now)
}

func TestAuthService_RegisterAndSignIn(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := newAuthService(env, nil)

	resp, err := svc.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User.Profile)
	assert.Equal(t, models.DefaultAvatar, resp.User.Profile.AvatarURL)
	assert.Equal(t, int64(1), testutil.CountRows(t, env.db, &models.Profile{}, "user_id = ?", resp.User.ID))

	_, err = svc.Register(ctx, RegisterInput{Username: "alice", Password: "password123"})
	assertAppError(t, err, models.CodeConflict)

	_, err = svc.Register(ctx, RegisterInput{Username: "bob", Password: "short"})
	assertAppError(t, err, models.CodeValidation)

	signed, err := svc.SignIn(ctx, "alice", "password123")
	require.NoError(t, err)
	claims, err := svc.tokens.Parse(signed.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)

	_, err = svc.SignIn(ctx, "alice", "wrong-password")
	assertAppError(t, err, models.CodeUnauthorized)
	_, err = svc.SignIn(ctx, "ghost", "password123")
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestTokenManager_RejectsForeignAndExpiredTokens(t *testing.T) {
	t.Parallel()
	user := &models.User{ID: 5, Username: "eve"}

	other := NewTokenManager("other-secret", time.Hour, time.Now)
	foreign, err := other.Issue(user)
	require.NoError(t, err)

	mine := NewTokenManager("test-secret", time.Hour, time.Now)
	_, err = mine.Parse(foreign)
	assert.Error(t, err)

	stale := NewTokenManager("test-secret", time.Hour, func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expired, err := stale.Issue(user)
	require.NoError(t, err)
	_, err = mine.Parse(expired)
	assert.Error(t, err)
}

func TestAuthService_FirebaseLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	verifier := &stubVerifier{tokens: map[string]*auth.Token{
		"new":  {UID: "fb-1", Claims: map[string]interface{}{"email": "jane@example.com", "name": "Jane Doe"}},
		"link": {UID: "fb-2", Claims: map[string]interface{}{"email": "known@example.com"}},
	}}
	svc := newAuthService(env, verifier)

	first, err := svc.FirebaseLogin(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, "janedoe", first.User.Username)
	require.NotNil(t, first.User.FirebaseUID)
	assert.Equal(t, "fb-1", *first.User.FirebaseUID)

	again, err := svc.FirebaseLogin(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, again.User.ID)

	email := "known@example.com"
	_, err = svc.Register(ctx, RegisterInput{Username: "known", Password: "password123", Email: &email})
	require.NoError(t, err)
	linked, err := svc.FirebaseLogin(ctx, "link")
	require.NoError(t, err)
	assert.Equal(t, "known", linked.User.Username)
	require.NotNil(t, linked.User.FirebaseUID)
	assert.Equal(t, "fb-2", *linked.User.FirebaseUID)

	_, err = svc.FirebaseLogin(ctx, "forged")
	assertAppError(t, err, models.CodeUnauthorized)

	_, err = newAuthService(env, nil).FirebaseLogin(ctx, "new")
	assertAppError(t, err, models.CodeUnauthorized)
}

func TestUsernameBase(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "janedoe", usernameBase("Jane Doe", "", "uid"))
	assert.Equal(t, "jsmith", usernameBase("", "j.smith@example.com", "uid"))
	assert.Equal(t, "userab", usernameBase("", "", "ab"))
}
