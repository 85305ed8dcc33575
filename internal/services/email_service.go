package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, name, confirmationLink string) error
	SendVerificationEmail(email, name, confirmationLink string) error
	SendPasswordResetEmail(email, name, resetLink string) error
	SendPasswordChangedEmail(email, name, undoLink string) error
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

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}
	return nil
}

func (s *emailService) SendWelcomeEmail(email, name, confirmationLink string) error {
	body := fmt.Sprintf(`
		<h2>Welcome to Ghosts-API, %s!</h2>
		<p>Thank you for registering with us. We're excited to have you on board.</p>
		<p>Please confirm your email address by following this link:</p>
		<p><a href="%s">%s</a></p>
		<p>Best regards,<br>The Ghosts-API Team</p>
	`, name, confirmationLink, confirmationLink)

	return s.send(email, "Confirm your email for Ghosts-API", body)
}

func (s *emailService) SendVerificationEmail(email, name, confirmationLink string) error {
	body := fmt.Sprintf(`
		<h3>Hello %s,</h3>
		<p>Please confirm your email address by following this link:</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not request this email, you can ignore it.</p>
	`, name, confirmationLink, confirmationLink)

	return s.send(email, "Confirm your email for Ghosts-API", body)
}

func (s *emailService) SendPasswordResetEmail(email, name, resetLink string) error {
	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>Hello %s,</p>
		<p>We received a request to reset the password for your account.</p>
		<p>Use the following link to choose a new password:</p>
		<p><a href="%s">%s</a></p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, name, resetLink, resetLink)

	return s.send(email, "Reset your password for Ghosts-API", body)
}

func (s *emailService) SendPasswordChangedEmail(email, name, undoLink string) error {
	body := fmt.Sprintf(`
		<h3>Your password has been changed</h3>
		<p>Hello %s,</p>
		<p>The password for your account was just changed.</p>
		<p>If this wasn't you, you can undo the change here:</p>
		<p><a href="%s">%s</a></p>
	`, name, undoLink, undoLink)

	return s.send(email, "Your password has been changed for Ghosts-API", body)
}
