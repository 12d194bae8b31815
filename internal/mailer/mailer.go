// Package mailer delivers transactional email (confirmation links, password
// reset links) over SMTP.
package mailer

import (
	"gopkg.in/gomail.v2"

	"innoshop/internal/config"
)

// Sender abstracts email delivery so services can be tested without SMTP.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(m)
}
