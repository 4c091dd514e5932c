package api

import (
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type authMiddleware struct {
	sessions   *SessionManager
	renderer   *Renderer
	adminEmail string
}

func newAuthMiddleware(sessions *SessionManager, renderer *Renderer, adminEmail string) authMiddleware {
	return authMiddleware{sessions: sessions, renderer: renderer, adminEmail: adminEmail}
}

// resolveUser looks the session's identity up once per request and hands it
// to handlers through the request context.
func (m authMiddleware) resolveUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := m.sessions.CurrentUser(r)
		next.ServeHTTP(w, r.WithContext(ctxWithUser(r.Context(), user)))
	})
}

// requireAdmin denies every request whose identity does not exactly match the
// configured administrator email. Anonymous requests are denied the same way.
// This wraps the whole post-mutation route group; there is no other path to
// those handlers.
func (m authMiddleware) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := ctxUser(r.Context())
		if user == nil {
			log.Warn().
				Str("path", r.URL.Path).
				Str("adminEmail", m.adminEmail).
				Msg("anonymous user tried to access admin-only endpoint")
			m.renderer.Forbidden(w, r)
			return
		}
		if m.adminEmail == "" || user.Email != m.adminEmail {
			log.Warn().
				Uint("userID", user.ID).
				Str("userEmail", user.Email).
				Str("adminEmail", m.adminEmail).
				Str("path", r.URL.Path).
				Msg("user tried to access admin-only endpoint")
			m.renderer.Forbidden(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

// RecoverPanics converts handler panics into 500 responses with a logged
// stack trace instead of a dropped connection.
func RecoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				if !srw.wroteHeader {
					srw.WriteHeader(http.StatusInternalServerError)
				}
			}
		}()

		next.ServeHTTP(srw, r)
	})
}

// LogRequests logs every request with colored output graded by status class.
func LogRequests(next http.Handler) http.Handler {
	colorLogger := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		duration := time.Since(start)

		var logEvent *zerolog.Event
		switch {
		case srw.status >= 500:
			logEvent = colorLogger.Error()
		case srw.status >= 400:
			logEvent = colorLogger.Warn()
		default:
			logEvent = colorLogger.Info()
		}

		logEvent.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", srw.status).
			Dur("duration", duration).
			Str("remote_addr", r.RemoteAddr).
			Msg("HTTP Request")
	})
}
