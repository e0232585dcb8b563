// Package http exposes the JSON API the mobile client talks to: auth,
// the transaction log, reports, calendar, profile and device settings.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"thuchi/internal/log"
	"thuchi/internal/mirror"
	"thuchi/internal/services"
	"thuchi/internal/session"
)

type Server struct {
	http.Server

	gate         *session.Gate
	sessions     *session.Keeper
	transactions *services.TransactionService
	home         *services.HomeService
	profiles     *services.ProfileService
	settings     *services.SettingsService
	mirror       *mirror.Mirror

	rateLimiter  *rateLimiter
	log          *log.Logger
	shutdownOnce sync.Once
}

// Deps carries the service layer the server fronts.
type Deps struct {
	Gate         *session.Gate
	Sessions     *session.Keeper
	Transactions *services.TransactionService
	Home         *services.HomeService
	Profiles     *services.ProfileService
	Settings     *services.SettingsService
	Mirror       *mirror.Mirror
}

// NewServer configures routes and returns a ready-to-run server.
func NewServer(addr string, deps Deps, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		gate:         deps.Gate,
		sessions:     deps.Sessions,
		transactions: deps.Transactions,
		home:         deps.Home,
		profiles:     deps.Profiles,
		settings:     deps.Settings,
		mirror:       deps.Mirror,
		rateLimiter:  newRateLimiter(),
		log:          logger.WithComponent(log.ComponentHTTP),
	}

	mux.HandleFunc("GET /healthz", handleHealth)

	// Auth endpoints are rate limited per client IP.
	mux.HandleFunc("POST /api/auth/signup", s.withCommon(s.handleSignUp, limited))
	mux.HandleFunc("POST /api/auth/login", s.withCommon(s.handleSignIn, limited))
	mux.HandleFunc("POST /api/auth/logout", s.withCommon(s.handleSignOut))
	mux.HandleFunc("POST /api/auth/reset", s.withCommon(s.handlePasswordReset, limited))
	mux.HandleFunc("POST /api/auth/password", s.withCommon(s.handleChangePassword, limited))

	mux.HandleFunc("GET /api/home", s.withCommon(s.requireSession(s.handleHome)))

	mux.HandleFunc("GET /api/transactions", s.withCommon(s.requireSession(s.handleListTransactions)))
	mux.HandleFunc("GET /api/transactions/stream", s.withCommon(s.requireSession(s.handleStreamTransactions)))
	mux.HandleFunc("POST /api/transactions", s.withCommon(s.requireSession(s.handleAddTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withCommon(s.requireSession(s.handleEditTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.requireSession(s.handleRemoveTransaction)))

	mux.HandleFunc("GET /api/report", s.withCommon(s.requireSession(s.handleReport)))
	mux.HandleFunc("GET /api/calendar", s.withCommon(s.requireSession(s.handleCalendar)))
	mux.HandleFunc("GET /api/calendar/day", s.withCommon(s.requireSession(s.handleCalendarDay)))

	mux.HandleFunc("GET /api/profile", s.withCommon(s.requireSession(s.handleGetProfile)))
	mux.HandleFunc("PUT /api/profile", s.withCommon(s.requireSession(s.handleSaveProfile)))
	mux.HandleFunc("POST /api/profile/avatar", s.withCommon(s.requireSession(s.handleSaveAvatar)))

	mux.HandleFunc("GET /api/settings", s.withCommon(s.handleGetSettings))
	mux.HandleFunc("PUT /api/settings", s.withCommon(s.handleSaveSettings))
	mux.HandleFunc("POST /api/settings/pin", s.withCommon(s.handleSetPIN))
	mux.HandleFunc("POST /api/settings/unlock", s.withCommon(s.handleUnlock))

	return s
}

// Shutdown stops the server and its background routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

type middlewareOption int

const limited middlewareOption = iota

// withCommon adds request logging, security headers and optional rate
// limiting to a handler.
func (s *Server) withCommon(next http.HandlerFunc, opts ...middlewareOption) http.HandlerFunc {
	rateLimited := false
	for _, o := range opts {
		if o == limited {
			rateLimited = true
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.log.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP)

		if rateLimited && !s.rateLimiter.allow(clientIP) {
			s.log.WarnContext(ctx, "Rate limit exceeded",
				log.FieldRequestID, requestID,
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeErrorStatus(w, http.StatusTooManyRequests, "too many requests, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)

		s.log.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, sw.status,
			log.FieldDuration, time.Since(start))
	}
}

// requireSession rejects requests while signed out and hands the handler
// the session identity.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.gate.Current(); !ok {
			writeErrorStatus(w, http.StatusUnauthorized, "not signed in")
			return
		}
		next(w, r)
	}
}

// sessionContext derives a context that ends with either the request or the
// session, so signing out cancels in-flight store work.
func (s *Server) sessionContext(r *http.Request) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(s.gate.Context())
	stop := context.AfterFunc(r.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
