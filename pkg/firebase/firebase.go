// Package firebase verifies Firebase ID tokens for the login exchange and the auth middleware.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when no credentials path is set
var ErrNotConfigured = errors.New("firebase credentials path not provided")

// tokenClient is the part of *auth.Client the verifier uses
type tokenClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

// Verifier checks ID tokens against Firebase Auth
type Verifier struct {
	client       tokenClient
	checkRevoked bool
	logger       *slog.Logger
}

// NewVerifier builds a Verifier from a service-account credentials file. With
// checkRevoked every token is also checked against Firebase's revocation list.
func NewVerifier(ctx context.Context, credentialsPath string, checkRevoked bool, logger *slog.Logger) (*Verifier, error) {
	if credentialsPath == "" {
		return nil, ErrNotConfigured
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file %s: %w", credentialsPath, err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase auth client: %w", err)
	}

	logger.Info("firebase token verification enabled", "check_revoked", checkRevoked)
	return newVerifier(client, checkRevoked, logger), nil
}

func newVerifier(client tokenClient, checkRevoked bool, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{client: client, checkRevoked: checkRevoked, logger: logger}
}

// VerifyIDToken returns the decoded token, or an error for expired, forged or revoked tokens
func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	verify := v.client.VerifyIDToken
	if v.checkRevoked {
		verify = v.client.VerifyIDTokenAndCheckRevoked
	}
	token, err := verify(ctx, idToken)
	if err != nil {
		v.logger.DebugContext(ctx, "firebase token rejected", "error", err)
		return nil, err
	}
	return token, nil
}
