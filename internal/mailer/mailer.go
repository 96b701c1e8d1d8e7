package mailer

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

var ErrNotConfigured = errors.New("smtp is not configured")

// Mailer sends the shared expired-items report by email.
type Mailer interface {
	Send(to, subject, body string) error
}

type smtpMailer struct {
	host     string
	port     int
	email    string
	password string
}

// NewFromEnv builds a mailer from SMTP_* environment variables. Sharing
// by email is optional; with no SMTP host configured Send reports
// ErrNotConfigured and the rest of the app is unaffected.
func NewFromEnv() Mailer {
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	return &smtpMailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		email:    os.Getenv("SMTP_AUTH_EMAIL"),
		password: os.Getenv("SMTP_AUTH_PASSWORD"),
	}
}

func (m *smtpMailer) Send(to, subject, body string) error {
	if m.host == "" {
		return ErrNotConfigured
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.email)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.host, m.port, m.email, m.password)
	return dialer.DialAndSend(msg)
}
