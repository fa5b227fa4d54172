// Package http wires the JSON API for timesheets on top of the backend
// ports, auth provider, and middleware stack.
package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"ore/internal/auth"
	"ore/internal/backend"
	"ore/internal/cache"
	"ore/internal/core"
	"ore/internal/middleware/ratelimit"
	"ore/internal/middleware/security"
	"ore/internal/middleware/trace"
)

type Server struct {
	http.Server

	backend  backend.Backend
	sessions *auth.Provider

	tracer      *trace.Middleware
	rateLimiter *ratelimit.Limiter
	headers     *security.HeadersMiddleware

	// listCache holds filtered list pages keyed by the raw query string.
	// Any mutation purges it whole since one write can move a timesheet
	// across status filters.
	listCache    *cache.LRU[core.TimesheetPage]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// Options tunes server construction. Zero values take defaults.
type Options struct {
	RateLimitPerMinute int
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, b backend.Backend, sessions *auth.Provider, opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		backend:  b,
		sessions: sessions,

		tracer:      trace.NewMiddleware(clientIP),
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		headers:     security.NewHeadersMiddleware(security.DefaultHeadersConfig()),

		listCache:    cache.NewLRU[core.TimesheetPage](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.listCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("POST /logout", s.handleLogout)

	mux.HandleFunc("GET /reference", s.requireAuth(s.handleReference))
	mux.HandleFunc("GET /timesheets", s.requireAuth(s.handleListTimesheets))
	mux.HandleFunc("GET /timesheets/{id}", s.requireAuth(s.handleGetTimesheet))
	mux.HandleFunc("GET /timesheets/{id}/entries", s.requireAuth(s.handleListEntries))
	mux.HandleFunc("GET /timesheets/{id}/budget", s.requireAuth(s.handleBudget))
	mux.HandleFunc("POST /timesheets/{id}/entries", s.requireAuth(s.handleCreateEntry))
	mux.HandleFunc("PUT /timesheets/{id}/entries/{entryId}", s.requireAuth(s.handleUpdateEntry))
	mux.HandleFunc("DELETE /timesheets/{id}/entries/{entryId}", s.requireAuth(s.handleDeleteEntry))

	rateLimited := s.rateLimiter.Middleware(clientIP, rateLimitedResponse)
	s.Handler = s.tracer.Middleware(s.headers.Middleware(rateLimited(recoverPanics(mux))))

	return s
}

// Shutdown stops the HTTP server and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// requireAuth rejects the request before any store access when the session
// is missing or expired.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := s.sessions.Authenticate(r); err != nil {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// backend reachability check: the seeded store always lists
	if _, err := s.backend.ListTimesheets(r.Context(), core.ListFilter{}, 1, 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "not ready")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// clientIP extracts the caller address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		if i := strings.IndexByte(ip, ','); i >= 0 {
			ip = ip[:i]
		}
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
