// Package mail envía correos de texto plano por SMTP.
package mail

import (
	"context"
	"errors"

	"gopkg.in/gomail.v2"

	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/pkg/config"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

var _ ports.Mailer = (*SMTPMailer)(nil)

// ErrDisabled se devuelve cuando SMTP_HOST no está configurado.
var ErrDisabled = errors.New("mail: envío deshabilitado (SMTP_HOST vacío)")

// dialer abstrae gomail.Dialer para poder sustituirlo en tests.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer adaptador de ports.Mailer sobre gomail.
type SMTPMailer struct {
	from   string
	dialer dialer
	log    *logger.Logger
}

// NewSMTPMailer construye el mailer. Con Host vacío el mailer queda deshabilitado:
// Send registra el intento y devuelve ErrDisabled.
func NewSMTPMailer(cfg config.MailConfig, log *logger.Logger) *SMTPMailer {
	if log == nil {
		log = logger.Nop()
	}
	m := &SMTPMailer{from: cfg.From, log: log.Component("mail")}
	if cfg.Host != "" {
		m.dialer = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// Enabled indica si hay servidor SMTP configurado.
func (m *SMTPMailer) Enabled() bool {
	return m.dialer != nil
}

// Send envía un correo de texto plano. gomail no acepta contexto: solo se respeta la cancelación previa.
func (m *SMTPMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if len(to) == 0 {
		return errors.New("mail: sin destinatarios")
	}
	if m.dialer == nil {
		m.log.Warn().Strs("to", to).Str("subject", subject).Msg("correo descartado: SMTP no configurado")
		return ErrDisabled
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return err
	}
	m.log.Debug().Strs("to", to).Str("subject", subject).Msg("correo enviado")
	return nil
}
