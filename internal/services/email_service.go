package services

import (
	"context"
	"fmt"
	"html"

	"gopkg.in/gomail.v2"

	"apexcrm/internal/models"
)

type EmailService interface {
	Send(to []string, subject, htmlBody string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) Send(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email %q: %w", subject, err)
	}
	return nil
}

// EmailNotifier mails closed-won deals and overdue digests to a fixed list.
type EmailNotifier struct {
	email      EmailService
	recipients []string
}

func NewEmailNotifier(email EmailService, recipients []string) *EmailNotifier {
	return &EmailNotifier{email: email, recipients: recipients}
}

func (e *EmailNotifier) Notify(_ context.Context, n models.Notification) error {
	if !externalKind(n.Kind) {
		return nil
	}
	body := fmt.Sprintf(`
		<h3>%s</h3>
		<p>%s</p>
		<p>Best regards,<br>ApexCRM</p>
	`, html.EscapeString(n.Title), html.EscapeString(n.Message))
	return e.email.Send(e.recipients, "[ApexCRM] "+n.Title, body)
}
