package infra

import (
	"bytes"
	"errors"
	"fmt"
	"net/smtp"

	"github.com/xjoule42/quicksale-pos/internal/config"

	"github.com/jordan-wright/email"
)

// ErrSMTPNoConfigurado is returned when SMTP_HOST is empty.
var ErrSMTPNoConfigurado = errors.New("mailer: SMTP no configurado")

// Adjunto is an in-memory email attachment.
type Adjunto struct {
	Nombre    string
	Tipo      string
	Contenido []byte
}

// Mailer sends plain-text emails (tickets, stock alerts, daily reports).
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *Mailer) Configurado() bool { return m != nil && m.host != "" }

// Enviar sends body to one recipient with optional attachments.
func (m *Mailer) Enviar(to, subject, body string, adjuntos ...Adjunto) error {
	if !m.Configurado() {
		return ErrSMTPNoConfigurado
	}
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	for _, a := range adjuntos {
		if _, err := e.Attach(bytes.NewReader(a.Contenido), a.Nombre, a.Tipo); err != nil {
			return fmt.Errorf("mailer: adjuntar %s: %w", a.Nombre, err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
