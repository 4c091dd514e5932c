package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ATMackay/website-go/database"
	"github.com/ATMackay/website-go/errs"
	"github.com/ATMackay/website-go/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// loginFailedMessage is deliberately identical for an unknown email and a
// wrong password so login attempts cannot probe which emails are registered.
const loginFailedMessage = "Email/password combination incorrect, please try again."

type authHandler struct {
	logger   zerolog.Logger
	renderer *Renderer
	sessions *SessionManager
	userRepo *database.UserRepo
}

func newAuthHandler(userRepo *database.UserRepo, sessions *SessionManager, renderer *Renderer) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()

	return authHandler{
		logger:   logger,
		renderer: renderer,
		sessions: sessions,
		userRepo: userRepo,
	}
}

// registerUser hashes the password and persists the new account.
func (h authHandler) registerUser(email, name, password string) (*models.User, error) {
	existing, err := h.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errs.Database("find", "user", err)
	}
	if existing != nil {
		return nil, errs.DuplicateEmail()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: email, Name: name, PasswordHash: string(hash)}
	if err := h.userRepo.Add(user); err != nil {
		return nil, errs.Database("create", "user", err)
	}
	return user, nil
}

// authenticate resolves credentials to a user. The unknown-email and
// bad-password cases stay distinct errors for the logs; callers surface one
// combined message for both.
func (h authHandler) authenticate(email, password string) (*models.User, error) {
	user, err := h.userRepo.FindByEmail(email)
	if err != nil {
		return nil, errs.Database("find", "user", err)
	}
	if user == nil {
		return nil, errs.New(http.StatusUnauthorized, errs.ErrUnknownEmail)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errs.New(http.StatusUnauthorized, errs.ErrBadCredentials)
	}
	return user, nil
}

func (h authHandler) registerForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "register", http.StatusOK, map[string]any{
			"Title": "Register", "Email": "", "Name": "",
		})
	}
}

// register creates an account and signs the new user straight in.
func (h authHandler) register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderer.Render(w, r, "register", http.StatusBadRequest, map[string]any{
				"Title": "Register", "Flashes": []string{"Could not read the form, please try again."},
				"Email": "", "Name": "",
			})
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		name := strings.TrimSpace(r.FormValue("name"))
		password := r.FormValue("password")
		if email == "" || name == "" || password == "" {
			h.renderer.Render(w, r, "register", http.StatusBadRequest, map[string]any{
				"Title": "Register", "Flashes": []string{"All fields are required."},
				"Email": email, "Name": name,
			})
			return
		}

		user, err := h.registerUser(email, name, password)
		if errors.Is(err, errs.ErrDuplicateEmail) {
			h.sessions.Flash(w, r, "You've already signed up with that email, log in instead!")
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err != nil {
			h.logger.Error().Err(err).Msg("registration failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := h.sessions.SignIn(w, r, user.ID); err != nil {
			h.logger.Error().Err(err).Msg("register: session save failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Info().Str("name", name).Str("email", email).Msg("new user registered")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h authHandler) loginForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "login", http.StatusOK, map[string]any{"Title": "Log In"})
	}
}

func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderer.Render(w, r, "login", http.StatusBadRequest, map[string]any{
				"Title": "Log In", "Flashes": []string{"Could not read the form, please try again."},
			})
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")

		user, err := h.authenticate(email, password)
		switch {
		case errors.Is(err, errs.ErrUnknownEmail):
			h.logger.Debug().Str("email", email).Msg("login attempt for unknown email")
			h.sessions.Flash(w, r, loginFailedMessage)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case errors.Is(err, errs.ErrBadCredentials):
			h.logger.Debug().Str("email", email).Msg("login attempt with wrong password")
			h.sessions.Flash(w, r, loginFailedMessage)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		case err != nil:
			h.logger.Error().Err(err).Msg("login failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		if err := h.sessions.SignIn(w, r, user.ID); err != nil {
			h.logger.Error().Err(err).Msg("login: session save failed")
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		h.logger.Info().Str("name", user.Name).Str("email", user.Email).Msg("user logged in")
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.sessions.SignOut(w, r); err != nil {
			h.logger.Error().Err(err).Msg("logout: session clear failed")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}
