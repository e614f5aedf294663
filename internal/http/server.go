package http

import (
	"context"
	"encoding/json"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"tracker/internal/chart"
	applog "tracker/internal/log"
	"tracker/internal/services"
	appweb "tracker/web"
)

// Server carries the web UI state. Like the desktop ledgers it replaces, the
// app serves one signed-in account at a time: the session is server state,
// not a per-browser cookie.
type Server struct {
	http.Server
	templates *template.Template
	accounts  *services.AccountService
	ledger    *services.LedgerService
	charts    chart.Renderer
	logger    *applog.Logger

	rateLimiter *rateLimiter

	// openViewer launches the OS image viewer after rendering a chart.
	openViewer bool

	// stateMu serializes handler execution. The domain model is a strictly
	// sequential single-writer over one shared document, so the lock lives
	// at the presentation edge and the services stay lock-free.
	stateMu sync.Mutex

	mu      sync.Mutex
	session services.Session

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, accounts *services.AccountService, ledger *services.LedgerService, charts chart.Renderer, logger *applog.Logger, openViewer bool) *Server {
	mux := http.NewServeMux()

	if logger == nil {
		logger = applog.New(applog.ComponentHTTP, 0)
	}

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		accounts:    accounts,
		ledger:      ledger,
		charts:      charts,
		logger:      logger,
		rateLimiter: newRateLimiter(),
		openViewer:  openViewer,
	}

	// Parse embedded templates at startup.
	t, err := template.ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", applog.FieldError, err)
	}
	s.templates = t

	// Static assets (served from embedded FS)
	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Tiny cache for static assets
			w.Header().Set("Cache-Control", "public, max-age=3600, immutable")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	mux.HandleFunc("/healthz", s.handleHealth)

	mux.HandleFunc("/login", s.withSecurityHeaders(s.handleLogin))
	mux.HandleFunc("/register", s.withSecurityHeaders(s.handleRegister))
	mux.HandleFunc("/logout", s.withSecurityHeaders(s.handleLogout))

	mux.HandleFunc("/", s.withSecurityHeaders(s.handleIndex))
	mux.HandleFunc("/ui/summary", s.withSecurityHeaders(s.handleSummary))
	mux.HandleFunc("/expenses", s.withSecurityHeaders(s.handleAddExpense))
	mux.HandleFunc("/expenses/delete", s.withSecurityHeaders(s.handleDeleteExpense))
	mux.HandleFunc("/budget", s.withSecurityHeaders(s.handleSetBudget))
	mux.HandleFunc("/export.csv", s.withSecurityHeaders(s.handleExportCSV))
	mux.HandleFunc("/chart", s.withSecurityHeaders(s.handleChart))

	return s
}

// currentSession returns the signed-in session, possibly inactive.
func (s *Server) currentSession() services.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Server) setSession(sess services.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = sess
}

// handleHealth performs a basic liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	health := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(health)
}

// withSecurityHeaders adds security headers, rate limiting, and request
// logging to responses.
func (s *Server) withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldClientIP, clientIP)

		// Rate limit POSTs; auth endpoints draw from a tighter budget.
		if r.Method == http.MethodPost {
			limit := postLimitPerMinute
			if r.URL.Path == "/login" || r.URL.Path == "/register" {
				limit = authLimitPerMinute
			}
			if !s.rateLimiter.allow(clientIP, limit) {
				s.logger.WarnContext(ctx, "Rate limit exceeded",
					applog.FieldClientIP, clientIP,
					applog.FieldMethod, r.Method,
					applog.FieldPath, r.URL.Path)
				w.Header().Set("Retry-After", "60")
				http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				return
			}
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; script-src 'self' https://unpkg.com; style-src 'self' 'unsafe-inline'; img-src 'self' data:; connect-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		s.stateMu.Lock()
		next(rw, r)
		s.stateMu.Unlock()

		duration := time.Since(start)
		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, duration.Milliseconds(),
			applog.FieldClientIP, clientIP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// render executes a template, reporting a 500 on failure.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	s.renderStatus(w, r, http.StatusOK, name, data)
}

// renderStatus executes a template with an explicit status code.
func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, code int, name string, data interface{}) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded", applog.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err, "template", name)
	}
}

// isHTMX reports whether the request came from an htmx-driven element.
func isHTMX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("HX-Request"), "true")
}

// Shutdown gracefully shuts down the server and cleanup routines.
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
