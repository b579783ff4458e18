package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/pixora/backend/internal/models"
	"github.com/anonto42/pixora/backend/internal/repositories"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// IDTokenVerifier is the part of the Firebase auth client the server needs
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// TokenManager issues and verifies the local HS256 session tokens
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    Clock
}

func NewTokenManager(secret string, ttl time.Duration, now Clock) *TokenManager {
	if now == nil {
		now = SystemClock
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: now}
}

// Issue signs a token for user
func (m *TokenManager) Issue(user *models.User) (string, error) {
	now := m.now()
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		IsStaff:  user.IsStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates tokenString and returns its claims
func (m *TokenManager) Parse(tokenString string) (*models.JwtCustomClaims, error) {
	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

type AuthService struct {
	store    *repositories.Store
	tokens   *TokenManager
	firebase IDTokenVerifier
	now      Clock
}

type RegisterInput struct {
	Username string
	Password string
	Email    *string
}

func NewAuthService(store *repositories.Store, tokens *TokenManager, firebase IDTokenVerifier, now Clock) *AuthService {
	if now == nil {
		now = SystemClock
	}
	return &AuthService{store: store, tokens: tokens, firebase: firebase, now: now}
}

// Register creates the account and its profile together and signs the user in
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.AuthResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, models.NewValidationError("Username is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("Password must be at least 8 characters")
	}

	if _, err := s.store.Users.GetUserByUsername(ctx, username); err == nil {
		return nil, models.NewConflictError("Username already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := s.newUser(username)
	user.Password = string(hash)
	user.Email = in.Email
	if err := s.store.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, models.NewConflictError("Username or email already taken")
		}
		return nil, err
	}
	return s.session(user)
}

// SignIn checks the password and issues a token
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	user, err := s.store.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewUnauthorizedError("Invalid username or password")
		}
		return nil, err
	}
	if user.Password == "" || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, models.NewUnauthorizedError("Invalid username or password")
	}
	return s.session(user)
}

// FirebaseLogin exchanges a Firebase ID token for a local token. The account is
// found by Firebase UID, then linked by email, and otherwise created.
func (s *AuthService) FirebaseLogin(ctx context.Context, idToken string) (*models.AuthResponse, error) {
	user, err := s.ResolveFirebaseUser(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return s.session(user)
}

// ResolveFirebaseUser verifies idToken and returns the matching local user, creating it on first login
func (s *AuthService) ResolveFirebaseUser(ctx context.Context, idToken string) (*models.User, error) {
	if s.firebase == nil {
		return nil, models.NewUnauthorizedError("Firebase login is not configured")
	}
	token, err := s.firebase.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid Firebase ID token")
	}

	uid := token.UID
	email, _ := token.Claims["email"].(string)
	name, _ := token.Claims["name"].(string)

	var user *models.User
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		found, err := tx.Users.GetUserByFirebaseUID(ctx, uid)
		if err == nil {
			user = found
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if email != "" {
			found, err = tx.Users.GetUserByEmail(ctx, email)
			if err == nil {
				found.FirebaseUID = &uid
				if err := tx.Users.UpdateUser(ctx, found); err != nil {
					return err
				}
				user = found
				return nil
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		username, err := s.availableUsername(ctx, tx, usernameBase(name, email, uid))
		if err != nil {
			return err
		}
		created := s.newUser(username)
		created.FirebaseUID = &uid
		if email != "" {
			created.Email = &email
		}
		if err := tx.Users.CreateUser(ctx, created); err != nil {
			return err
		}
		user = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) newUser(username string) *models.User {
	now := s.now()
	return &models.User{
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
		Profile:   &models.Profile{AvatarURL: models.DefaultAvatar, UpdatedAt: now},
	}
}

func (s *AuthService) session(user *models.User) (*models.AuthResponse, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &models.AuthResponse{Token: token, User: user}, nil
}

func (s *AuthService) availableUsername(ctx context.Context, tx *repositories.Store, base string) (string, error) {
	candidate := base
	for i := 0; i < 5; i++ {
		_, err := tx.Users.GetUserByUsername(ctx, candidate)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		candidate = base + strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	}
	return "", models.NewConflictError("Could not allocate a username")
}

// usernameBase derives an alphanumeric handle from the Firebase profile
func usernameBase(name, email, uid string) string {
	source := name
	if source == "" && email != "" {
		source = strings.SplitN(email, "@", 2)[0]
	}
	if source == "" {
		source = uid
	}
	var b strings.Builder
	for _, r := range strings.ToLower(source) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	base := b.String()
	if len(base) > 30 {
		base = base[:30]
	}
	if len(base) < 3 {
		base = "user" + base
	}
	return base
}
