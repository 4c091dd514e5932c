package services

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"time"

	"github.com/ATMackay/website-go/errs"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Mailer delivers a single contact-form submission. The HTTP layer depends on
// this interface so tests can substitute a fake for the SMTP transport.
type Mailer interface {
	SendContact(name, email, phone, message string) error
}

// Relay is a single-use SMTP connection: one Connect, one Send, one Close.
// It is constructed per contact submission and never shared between requests.
type Relay struct {
	host     string
	port     int
	user     string
	password string
	timeout  time.Duration

	client *smtp.Client
}

func NewRelay(host string, port int, user, password string, timeout time.Duration) *Relay {
	return &Relay{host: host, port: port, user: user, password: password, timeout: timeout}
}

// Connect dials the relay with a deadline, upgrades to TLS and authenticates.
func (r *Relay) Connect() error {
	addr := net.JoinHostPort(r.host, fmt.Sprintf("%d", r.port))
	conn, err := net.DialTimeout("tcp", addr, r.timeout)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if err := conn.SetDeadline(time.Now().Add(r.timeout)); err != nil {
		conn.Close()
		return fmt.Errorf("smtp set deadline: %w", err)
	}

	client, err := smtp.NewClient(conn, r.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	if err := client.StartTLS(&tls.Config{ServerName: r.host}); err != nil {
		client.Close()
		return fmt.Errorf("smtp starttls: %w", err)
	}
	if err := client.Auth(smtp.PlainAuth("", r.user, r.password, r.host)); err != nil {
		client.Close()
		return fmt.Errorf("smtp auth: %w", err)
	}

	r.client = client
	return nil
}

// Send transmits one message through the connected relay.
func (r *Relay) Send(from, to, msg string) error {
	if r.client == nil {
		return fmt.Errorf("smtp connection not established")
	}
	if err := r.client.Mail(from); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := r.client.Rcpt(to); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := r.client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return nil
}

// Close terminates the connection. Safe to call after a failed Connect.
func (r *Relay) Close() error {
	if r.client == nil {
		return nil
	}
	err := r.client.Quit()
	r.client = nil
	return err
}

// SMTPMailer sends contact-form messages from the configured mailbox to
// itself, opening and closing a fresh relay per call.
type SMTPMailer struct {
	host     string
	port     int
	address  string
	password string
	timeout  time.Duration
	logger   zerolog.Logger
}

func NewSMTPMailer(host string, port int, address, password string, timeout time.Duration) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		address:  address,
		password: password,
		timeout:  timeout,
		logger:   log.With().Str("service", "mailer").Logger(),
	}
}

func (m *SMTPMailer) SendContact(name, email, phone, message string) (err error) {
	msg := BuildContactMessage(m.address, m.address, name, email, phone, message)

	relay := NewRelay(m.host, m.port, m.address, m.password, m.timeout)
	if cerr := relay.Connect(); cerr != nil {
		m.logger.Error().Err(cerr).Str("host", m.host).Msg("contact mail connect failed")
		return errs.MailTransport(cerr)
	}
	defer func() {
		if cerr := relay.Close(); cerr != nil {
			m.logger.Error().Err(cerr).Msg("contact mail close failed")
			if err == nil {
				err = errs.MailTransport(cerr)
			}
		}
	}()

	if serr := relay.Send(m.address, m.address, msg); serr != nil {
		m.logger.Error().Err(serr).Msg("contact mail send failed")
		return errs.MailTransport(serr)
	}

	m.logger.Info().Str("sender", email).Msg("contact email sent")
	return nil
}

// BuildContactMessage renders the plain-text mail for a contact submission.
// The body lines mirror the form fields one to one.
func BuildContactMessage(from, to, name, email, phone, message string) string {
	return fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: New Message\r\n"+
			"Message-ID: <%s@%s>\r\n"+
			"Date: %s\r\n"+
			"\r\n"+
			"Name: %s\nEmail: %s\nPhone: %s\nMessage: %s\n",
		from, to, uuid.NewString(), "website-go", time.Now().Format(time.RFC1123Z),
		name, email, phone, message,
	)
}
