package services

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/jcamil/bienes-raices/internal/config"
)

// Mailer delivers account emails. Delivery is an external concern; the
// application only needs fire-and-report semantics.
type Mailer interface {
	SendConfirmation(to, name, confirmURL string) error
	SendPasswordReset(to, name, resetURL string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	var auth smtp.Auth
	if cfg.SMTPUser != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		addr: cfg.SMTPHost + ":" + cfg.SMTPPort,
		auth: auth,
		from: cfg.SMTPFrom,
	}
}

func (m *SMTPMailer) SendConfirmation(to, name, confirmURL string) error {
	body := fmt.Sprintf("Hola %s,\r\n\r\nConfirma tu cuenta en Bienes Raices:\r\n%s\r\n", name, confirmURL)
	return m.send(to, "Confirma tu cuenta en BienesRaices.com", body)
}

func (m *SMTPMailer) SendPasswordReset(to, name, resetURL string) error {
	body := fmt.Sprintf("Hola %s,\r\n\r\nReestablece tu password en Bienes Raices:\r\n%s\r\n", name, resetURL)
	return m.send(to, "Reestablece tu password en BienesRaices.com", body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body))
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer logs instead of sending, for development and tests.
type LogMailer struct{}

func (LogMailer) SendConfirmation(to, name, confirmURL string) error {
	log.Printf("mail (confirmation) to=%s url=%s", to, confirmURL)
	return nil
}

func (LogMailer) SendPasswordReset(to, name, resetURL string) error {
	log.Printf("mail (password reset) to=%s url=%s", to, resetURL)
	return nil
}
