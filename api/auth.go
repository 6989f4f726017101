/*
auth.go - Admin authentication

PURPOSE:
  Protects the /api/admin routes. An admin logs in with the username and
  bcrypt password hash from the config and receives a short-lived HS256
  JWT; RequireAdmin checks the bearer token on every admin request.

FLOW:
  1. POST /api/admin/login {"username": "...", "password": "..."}
  2. Authenticator.Login compares credentials, signs Claims
  3. Client sends "Authorization: Bearer <token>"
  4. RequireAdmin validates signature, issuer and expiry

DISABLED ADMIN:
  Without a JWT secret or password hash nobody can log in and every admin
  route answers 401. Public calculator routes are unaffected.

SEE ALSO:
  - config/config.go: AuthConfig
  - cmd/hukuk: hash-password command
*/
package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hukukrehberi/calc-engine/config"
	"github.com/hukukrehberi/calc-engine/generic"
	"golang.org/x/crypto/bcrypt"
)

const roleAdmin = "admin"

// Claims are the JWT claims of an admin token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator issues and validates admin tokens.
type Authenticator struct {
	cfg config.AuthConfig
	now func() time.Time
}

// NewAuthenticator creates an authenticator from the auth config.
func NewAuthenticator(cfg config.AuthConfig) *Authenticator {
	return &Authenticator{cfg: cfg, now: time.Now}
}

// Enabled reports whether logins are possible at all.
func (a *Authenticator) Enabled() bool {
	return a.cfg.JWTSecret != "" && a.cfg.AdminPasswordHash != ""
}

// Login checks credentials and returns a signed token.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	if !a.Enabled() {
		return "", time.Time{}, generic.ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.cfg.AdminUsername)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(a.cfg.AdminPasswordHash), []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, generic.ErrInvalidCredentials
	}

	now := a.now()
	expiresAt := now.Add(a.cfg.TokenTTL.Duration)
	claims := &Claims{
		Username: username,
		Role:     roleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    a.cfg.Issuer,
			Subject:   username,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.JWTSecret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token. Every failure wraps ErrUnauthorized.
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	if !a.Enabled() {
		return nil, generic.ErrUnauthorized
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	}
	if a.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.cfg.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(a.cfg.JWTSecret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", generic.ErrUnauthorized, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != roleAdmin {
		return nil, generic.ErrUnauthorized
	}
	return claims, nil
}

type claimsKey struct{}

// RequireAdmin rejects requests without a valid admin bearer token.
func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, generic.ErrUnauthorized)
			return
		}
		claims, err := a.ValidateToken(raw)
		if err != nil {
			unauthorized(w, err)
			return
		}
		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromContext returns the admin claims RequireAdmin stored.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	msg := "Could not validate credentials"
	if errors.Is(err, generic.ErrInvalidCredentials) {
		msg = "Incorrect username or password"
	}
	writeError(w, http.StatusUnauthorized, msg, nil)
}

// HashPassword returns a bcrypt hash suitable for auth.admin_password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
