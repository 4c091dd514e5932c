package api

import (
	"crypto/sha256"
	"net/http"

	"github.com/ATMackay/website-go/database"
	"github.com/ATMackay/website-go/models"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog/log"
)

const sessionName = "blog_session"

const userIDKey = "user_id"

// SessionManager owns the cookie-backed session state. A session holds at
// most one value, the authenticated user's id; everything else is resolved
// against the database on each request.
type SessionManager struct {
	store *sessions.CookieStore
	users *database.UserRepo
}

// NewSessionManager derives a signing key and an encryption key from the
// configured secret. Cookies are HttpOnly, SameSite=Lax and live for seven
// days; expiry beyond that is whatever the cookie transport provides.
func NewSessionManager(secret string, users *database.UserRepo) *SessionManager {
	h := sha256.Sum256([]byte("auth:" + secret))
	e := sha256.Sum256([]byte("enc:" + secret))

	store := sessions.NewCookieStore(h[:], e[:])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   7 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionManager{store: store, users: users}
}

func (sm *SessionManager) session(r *http.Request) *sessions.Session {
	// Get never fails for a CookieStore with a valid name; a tampered cookie
	// just yields a fresh session.
	s, _ := sm.store.Get(r, sessionName)
	return s
}

// SignIn establishes a session identifying the given user.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, userID uint) error {
	s := sm.session(r)
	s.Values[userIDKey] = userID
	return s.Save(r, w)
}

// SignOut invalidates the session. Idempotent: signing out an anonymous
// session succeeds.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	s := sm.session(r)
	delete(s.Values, userIDKey)
	s.Options.MaxAge = -1
	return s.Save(r, w)
}

// CurrentUser resolves the session's identity. A session referencing a user
// id that no longer exists degrades to anonymous with a warning, never an
// error page.
func (sm *SessionManager) CurrentUser(r *http.Request) *models.User {
	s := sm.session(r)
	id, ok := s.Values[userIDKey].(uint)
	if !ok {
		return nil
	}
	user, err := sm.users.FindByID(id)
	if err != nil {
		log.Error().Err(err).Uint("userID", id).Msg("session user lookup failed")
		return nil
	}
	if user == nil {
		log.Warn().Uint("userID", id).Msg("session references a deleted user, treating as anonymous")
		return nil
	}
	return user
}

// Flash queues a one-time notice for the next rendered page.
func (sm *SessionManager) Flash(w http.ResponseWriter, r *http.Request, msg string) {
	s := sm.session(r)
	s.AddFlash(msg)
	if err := s.Save(r, w); err != nil {
		log.Error().Err(err).Msg("failed to save flash message")
	}
}

// PopFlashes drains and returns any queued notices.
func (sm *SessionManager) PopFlashes(w http.ResponseWriter, r *http.Request) []string {
	s := sm.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := s.Save(r, w); err != nil {
		log.Error().Err(err).Msg("failed to clear flash messages")
	}
	msgs := make([]string, 0, len(raw))
	for _, f := range raw {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}
