// Package session keeps the authenticated username in a signed cookie.
//
// The cookie value is an HS256 JWT carrying the username and a unique session
// ID. Sessions end when the token expires or when Destroy is called; with a
// Revoker configured, destroyed session IDs are also refused until they would
// have expired anyway. DestroyAll refuses every token of a user issued up to
// that moment, which covers other browsers of a deleted account.
package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultCookieName is the cookie used when WithCookieName is not given.
const DefaultCookieName = "session"

var (
	ErrNoSession      = errors.New("no session")
	ErrInvalidSession = errors.New("invalid session")
	ErrRevokedSession = errors.New("session revoked")
)

// Claims are the JWT claims stored in the session cookie.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

//go:generate mockgen -source=session.go -destination=session_mock.go -package=session

// Revoker remembers session IDs that were explicitly ended, and the moment
// all sessions of a user were ended.
type Revoker interface {
	Revoke(ctx context.Context, sessionID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
	// RevokeUser refuses tokens of username issued at or before at.
	RevokeUser(ctx context.Context, username string, at time.Time, ttl time.Duration) error
	// UserRevokedAt returns the zero time when username was never revoked.
	UserRevokedAt(ctx context.Context, username string) (time.Time, error)
}

// Manager issues, reads and destroys session cookies.
type Manager struct {
	secretKey  []byte
	exp        time.Duration
	cookieName string
	secure     bool
	revoker    Revoker
}

// Opt configures a Manager.
type Opt func(*Manager)

// WithSecretKey sets the HMAC key the cookie is signed with.
func WithSecretKey(key string) Opt {
	return func(m *Manager) {
		m.secretKey = []byte(key)
	}
}

// WithExpiration sets how long a session stays valid.
func WithExpiration(exp time.Duration) Opt {
	return func(m *Manager) {
		m.exp = exp
	}
}

// WithCookieName overrides DefaultCookieName.
func WithCookieName(name string) Opt {
	return func(m *Manager) {
		m.cookieName = name
	}
}

// WithSecureCookie marks the cookie as HTTPS only.
func WithSecureCookie(secure bool) Opt {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithRevoker enables server-side revocation on Destroy.
func WithRevoker(r Revoker) Opt {
	return func(m *Manager) {
		m.revoker = r
	}
}

// New creates a Manager. Without options sessions last 24 hours.
func New(opts ...Opt) *Manager {
	m := &Manager{
		exp:        24 * time.Hour,
		cookieName: DefaultCookieName,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Generate signs a new session token for username.
func (m *Manager) Generate(ctx context.Context, username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.exp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}

// GetClaims parses and verifies a session token.
func (m *Manager) GetClaims(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Username == "" || claims.ID == "" || claims.IssuedAt == nil {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// Create starts a session for username by setting the session cookie.
func (m *Manager) Create(ctx context.Context, w http.ResponseWriter, username string) error {
	token, err := m.Generate(ctx, username)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.exp.Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// GetUsername returns the username of the request's session.
// It fails with ErrNoSession when the request carries no session cookie.
func (m *Manager) GetUsername(ctx context.Context, r *http.Request) (string, error) {
	claims, err := m.claimsFromRequest(ctx, r)
	if err != nil {
		return "", err
	}

	if m.revoker != nil {
		revoked, err := m.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return "", err
		}
		if revoked {
			return "", ErrRevokedSession
		}

		revokedAt, err := m.revoker.UserRevokedAt(ctx, claims.Username)
		if err != nil {
			return "", err
		}
		// iat has second precision, so a token from the revocation second is refused too.
		if !revokedAt.IsZero() && !claims.IssuedAt.After(revokedAt) {
			return "", ErrRevokedSession
		}
	}

	return claims.Username, nil
}

// Destroy clears the session cookie and, with a Revoker configured, refuses
// the session ID for the rest of its lifetime.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	m.clearCookie(w)

	if m.revoker == nil {
		return nil
	}

	claims, err := m.claimsFromRequest(ctx, r)
	if err != nil {
		// Nothing valid to revoke.
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return m.revoker.Revoke(ctx, claims.ID, ttl)
}

// DestroyAll clears the session cookie and, with a Revoker configured, refuses
// every token of username issued so far. Tokens issued later are accepted.
func (m *Manager) DestroyAll(ctx context.Context, w http.ResponseWriter, username string) error {
	m.clearCookie(w)

	if m.revoker == nil {
		return nil
	}
	// No token issued before now outlives one full session lifetime.
	return m.revoker.RevokeUser(ctx, username, time.Now().Truncate(time.Second), m.exp)
}

func (m *Manager) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) claimsFromRequest(ctx context.Context, r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, ErrNoSession
	}
	return m.GetClaims(ctx, cookie.Value)
}
