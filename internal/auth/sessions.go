// Package auth is the session provider the HTTP layer consults before any
// store access. Credentials and sessions live in process memory, matching
// the seeded-user setup of the rest of the system.
package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionCookie is the cookie carrying the session token. A bearer token
// in the Authorization header works too.
const SessionCookie = "ore_session"

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type credential struct {
	user     User
	password string
}

type session struct {
	userID    string
	expiresAt time.Time
}

// Provider issues and validates session tokens for a fixed set of users.
type Provider struct {
	mu       sync.Mutex
	users    []credential
	sessions map[string]session
	ttl      time.Duration
	now      func() time.Time
}

func NewProvider(ttl time.Duration) *Provider {
	return &Provider{
		users: []credential{
			{user: User{ID: "1", Email: "m.abbas@example.com", Name: "Mohammad Abbas"}, password: "password123"},
			{user: User{ID: "2", Email: "ali.ahmed@example.com", Name: "Ali Ahmed"}, password: "password123"},
		},
		sessions: make(map[string]session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login checks credentials and issues a fresh session token.
func (p *Provider) Login(email, password string) (string, User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, c := range p.users {
		if c.user.Email != email {
			continue
		}
		if subtle.ConstantTimeCompare([]byte(c.password), []byte(password)) != 1 {
			break
		}
		token := uuid.NewString()
		p.sessions[token] = session{userID: c.user.ID, expiresAt: p.now().Add(p.ttl)}
		return token, c.user, nil
	}
	return "", User{}, ErrInvalidCredentials
}

// Logout discards the session if it exists.
func (p *Provider) Logout(token string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.sessions, token)
}

// LogoutRequest discards whatever session the request carries. Requests
// without a token are a no-op.
func (p *Provider) LogoutRequest(r *http.Request) {
	if token := tokenFromRequest(r); token != "" {
		p.Logout(token)
	}
}

// Authenticate answers "is there a valid session for this request",
// returning the user identity or ErrUnauthorized.
func (p *Provider) Authenticate(r *http.Request) (User, error) {
	token := tokenFromRequest(r)
	if token == "" {
		return User{}, ErrUnauthorized
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[token]
	if !ok {
		return User{}, ErrUnauthorized
	}
	if p.now().After(s.expiresAt) {
		delete(p.sessions, token)
		return User{}, ErrUnauthorized
	}

	for _, c := range p.users {
		if c.user.ID == s.userID {
			return c.user, nil
		}
	}
	return User{}, ErrUnauthorized
}

func tokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
