package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ATMackay/website-go/errs"
	"github.com/ATMackay/website-go/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type pagesHandler struct {
	logger   zerolog.Logger
	renderer *Renderer
	mailer   services.Mailer
}

func newPagesHandler(mailer services.Mailer, renderer *Renderer) pagesHandler {
	logger := log.With().Str("handlerName", "pagesHandler").Logger()

	return pagesHandler{
		logger:   logger,
		renderer: renderer,
		mailer:   mailer,
	}
}

func (h pagesHandler) landing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "landing", http.StatusOK, map[string]any{"Title": "Home"})
	}
}

func (h pagesHandler) about() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "about", http.StatusOK, map[string]any{"Title": "About"})
	}
}

func (h pagesHandler) contactForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.Render(w, r, "contact", http.StatusOK, map[string]any{
			"Title": "Contact",
			"Form":  map[string]string{},
		})
	}
}

// submitContact relays the message synchronously within the request. A relay
// failure is surfaced as a 502 with the form re-rendered; the success page is
// only ever shown after the relay confirmed the send.
func (h pagesHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			h.renderer.Render(w, r, "contact", http.StatusBadRequest, map[string]any{
				"Title": "Contact", "Flashes": []string{"Could not read the form, please try again."},
				"Form": map[string]string{},
			})
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		email := strings.TrimSpace(r.FormValue("email"))
		phone := strings.TrimSpace(r.FormValue("phone"))
		message := strings.TrimSpace(r.FormValue("message"))
		if name == "" || email == "" || phone == "" || message == "" {
			h.renderer.Render(w, r, "contact", http.StatusBadRequest, map[string]any{
				"Title":   "Contact",
				"Flashes": []string{"All fields are required."},
				"Form":    map[string]string{"Name": name, "Email": email, "Phone": phone, "Message": message},
			})
			return
		}

		if err := h.mailer.SendContact(name, email, phone, message); err != nil {
			h.logger.Error().Err(err).Str("sender", email).Msg("contact message delivery failed")
			status := http.StatusInternalServerError
			var webErr *errs.WebErr
			if errors.As(err, &webErr) {
				status = webErr.StatusCode
			}
			h.renderer.Render(w, r, "contact", status, map[string]any{
				"Title":   "Contact",
				"Flashes": []string{"Sorry, your message could not be sent. Please try again later."},
				"Form":    map[string]string{"Name": name, "Email": email, "Phone": phone, "Message": message},
			})
			return
		}

		h.logger.Info().Str("sender", email).Msg("contact message relayed")
		h.renderer.Render(w, r, "contact", http.StatusOK, map[string]any{
			"Title":   "Contact",
			"MsgSent": true,
			"Form":    map[string]string{},
		})
	}
}
