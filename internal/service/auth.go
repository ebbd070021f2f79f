package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/folioapi/folio/internal/model"
	"github.com/folioapi/folio/internal/store"
)

// ErrInvalidCredentials is returned for unknown usernames, wrong passwords,
// and bad or expired tokens alike, so callers can't distinguish the cases.
var ErrInvalidCredentials = errors.New("invalid credentials")

// DefaultTokenTTL is the token lifetime used when none is configured.
const DefaultTokenTTL = 24 * time.Hour

// AuthService authenticates admin users and issues/verifies the signed
// bearer tokens protecting the dashboard endpoints.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
}

// NewAuthService creates an AuthService. A zero ttl falls back to
// DefaultTokenTTL.
func NewAuthService(st *store.Store, jwtSecret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  ttl,
	}
}

// TokenTTL returns the configured token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.tokenTTL
}

// Login checks the username/password pair and, on success, returns a signed
// token plus the account. Unknown usernames and wrong passwords both return
// ErrInvalidCredentials.
//
// The bcrypt comparison only runs when the user exists, which leaks a small
// timing difference between "no such user" and "wrong password". Carried
// over as-is; see the open issues list in DESIGN.md.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *model.AdminUser, error) {
	admin, err := s.store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(admin.ID, admin.Username)
	if err != nil {
		return "", nil, err
	}

	// Best effort: a failed stamp shouldn't fail the login.
	_ = s.store.UpdateAdminLastLogin(ctx, admin.ID)

	return token, admin, nil
}

// IssueToken creates a signed HS256 token embedding the admin identity.
func (s *AuthService) IssueToken(userID int64, username string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			Issuer:    "folio",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken validates a bearer token's signature and expiry, then
// re-checks that the embedded username still exists so a deleted admin is
// rejected even while their token is otherwise valid. Returns the current
// account on success.
func (s *AuthService) VerifyToken(ctx context.Context, tokenStr string) (*model.AdminUser, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	admin, err := s.store.GetAdminByUsername(ctx, claims.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	return admin, nil
}

// HashPassword bcrypt-hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

type tokenClaims struct {
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
