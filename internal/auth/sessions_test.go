package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	p := NewProvider(time.Hour)

	token, user, err := p.Login("m.abbas@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" || user.Name != "Mohammad Abbas" {
		t.Fatalf("unexpected login result: %q %+v", token, user)
	}

	// Email comparison is case/space insensitive.
	if _, _, err := p.Login("  M.Abbas@Example.com ", "password123"); err != nil {
		t.Fatalf("normalized login: %v", err)
	}

	for _, tc := range [][2]string{
		{"m.abbas@example.com", "wrong"},
		{"nobody@example.com", "password123"},
		{"", ""},
	} {
		if _, _, err := p.Login(tc[0], tc[1]); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("login(%q): expected ErrInvalidCredentials, got %v", tc[0], err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	p := NewProvider(time.Hour)
	token, user, err := p.Login("ali.ahmed@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// Bearer header.
	r := httptest.NewRequest("GET", "/timesheets", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	got, err := p.Authenticate(r)
	if err != nil || got.ID != user.ID {
		t.Fatalf("bearer auth: %v %+v", err, got)
	}

	// Cookie.
	r = httptest.NewRequest("GET", "/timesheets", nil)
	r.Header.Set("Cookie", SessionCookie+"="+token)
	if _, err := p.Authenticate(r); err != nil {
		t.Fatalf("cookie auth: %v", err)
	}

	// No token at all.
	r = httptest.NewRequest("GET", "/timesheets", nil)
	if _, err := p.Authenticate(r); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	// Garbage token.
	r = httptest.NewRequest("GET", "/timesheets", nil)
	r.Header.Set("Authorization", "Bearer nope")
	if _, err := p.Authenticate(r); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSessionExpiry(t *testing.T) {
	p := NewProvider(time.Minute)
	current := time.Now()
	p.now = func() time.Time { return current }

	token, _, err := p.Login("m.abbas@example.com", "password123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	r := httptest.NewRequest("GET", "/timesheets", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if _, err := p.Authenticate(r); err != nil {
		t.Fatalf("fresh session: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := p.Authenticate(r); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected expiry, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	p := NewProvider(time.Hour)
	token, _, _ := p.Login("m.abbas@example.com", "password123")

	p.Logout(token)

	r := httptest.NewRequest("GET", "/timesheets", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	if _, err := p.Authenticate(r); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized after logout, got %v", err)
	}
}
