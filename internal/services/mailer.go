package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/shahbazzubair/hair-follicle-detection-system/internal/config"
)

// Mailer delivers password-reset links. Abstracted so handlers can be tested
// without an SMTP server.
type Mailer interface {
	SendPasswordReset(to, name, link string) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (s *SMTPMailer) SendPasswordReset(to, name, link string) error {
	if name == "" {
		name = "User"
	}
	body := fmt.Sprintf(`
	<div style="font-family: Arial, sans-serif; padding: 20px; border: 1px solid #eee; border-radius: 10px;">
		<h2 style="color: #2563eb;">HairCare AI Password Reset</h2>
		<p>Hello %s,</p>
		<p>Click the button below to reset your password:</p>
		<a href="%s" style="display: inline-block; padding: 10px 20px; background: #2563eb; color: white; text-decoration: none; border-radius: 5px; font-weight: bold;">Reset Password</a>
		<p style="margin-top: 20px; color: #666; font-size: 12px;">This link expires in 30 minutes.</p>
	</div>`, name, link)

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Password Reset Request - HairCare AI")
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	return d.DialAndSend(m)
}
