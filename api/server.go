package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ATMackay/website-go/config"
	"github.com/ATMackay/website-go/database"
	"github.com/ATMackay/website-go/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Server struct {
	*http.Server
	router      *chi.Mux
	startupTime time.Time
}

type routerOptions struct {
	mailer       services.Mailer
	templatesDir string
}

// WithMailer substitutes the SMTP mailer, used by tests to avoid a live relay.
func WithMailer(m services.Mailer) func(*routerOptions) {
	return func(o *routerOptions) {
		o.mailer = m
	}
}

// WithTemplatesDir overrides the default web/templates location.
func WithTemplatesDir(dir string) func(*routerOptions) {
	return func(o *routerOptions) {
		o.templatesDir = dir
	}
}

func NewServer(db database.Database, c map[string]string, opts ...func(*routerOptions)) (Server, error) {
	port := config.GetString(c, "PORT", "5001")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router, err := newRouter(db, c, opts...)
	if err != nil {
		return Server{}, err
	}

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, router, startupTime}, nil
}

func newRouter(db database.Database, c map[string]string, opts ...func(*routerOptions)) (*chi.Mux, error) {
	options := routerOptions{templatesDir: "web/templates"}
	for _, opt := range opts {
		opt(&options)
	}

	secret := config.GetString(c, "SECRET_KEY", "")
	if secret == "" {
		secret = "dev-insecure-secret-change-me"
		log.Warn().Msg("SECRET_KEY not set, sessions are signed with an insecure development key")
	}
	adminEmail := config.GetString(c, "ADMIN_EMAIL", "")
	if adminEmail == "" {
		log.Warn().Msg("ADMIN_EMAIL not set, every admin route will deny access")
	}

	sessionManager := NewSessionManager(secret, db.UserRepo())

	renderer, err := NewRenderer(options.templatesDir, sessionManager, adminEmail)
	if err != nil {
		return nil, err
	}

	if options.mailer == nil {
		options.mailer = services.NewSMTPMailer(
			config.GetString(c, "SMTP_HOST", "smtp-mail.outlook.com"),
			config.GetInt(c, "SMTP_PORT", 587),
			config.GetString(c, "MAIL_ADDRESS", ""),
			config.GetString(c, "MAIL_APP_PASSWORD", ""),
			time.Duration(config.GetInt(c, "SMTP_TIMEOUT_SECONDS", 10))*time.Second,
		)
	}

	handlers := initializeHandlers(db, sessionManager, renderer, options.mailer)
	auth := newAuthMiddleware(sessionManager, renderer, adminEmail)

	chiRouter := chi.NewRouter()
	setupRoutes(chiRouter, handlers, auth)
	return chiRouter, nil
}

// ServeHTTP lets tests drive the full middleware and routing stack without a
// listening socket.
func (s Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
