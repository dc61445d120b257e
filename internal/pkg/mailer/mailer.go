// Package mailer sends transactional mail over SMTP.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text messages from a configured sender.
type Mailer struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func New(host string, port int, user, password, fromEmail, fromName string) *Mailer {
	return &Mailer{
		dialer:    gomail.NewDialer(host, port, user, password),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

// Send delivers a single plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
