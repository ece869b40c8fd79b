// Package notify tells the site owner about new contact messages.
package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"portfolio-site/internal/config"
	"portfolio-site/internal/models"
)

// sendMail is swapped in tests.
var sendMail = smtp.SendMail

// EmailNotifier sends one email per new message through SMTP.
type EmailNotifier struct {
	config *config.EmailConfig
}

func NewEmailNotifier(cfg *config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{config: cfg}
}

// MessageReceived emails the configured owner address.
func (e *EmailNotifier) MessageReceived(ctx context.Context, m models.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject := "New portfolio message"
	if m.Subject != "" {
		subject += ": " + m.Subject
	}
	return e.sendEmail(e.config.NotifyEmail, m.Email, subject, messageBody(m))
}

func messageBody(m models.Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", headerSafe(m.Name), headerSafe(m.Email))
	if m.Phone != "" {
		fmt.Fprintf(&b, "Phone: %s\r\n", headerSafe(m.Phone))
	}
	if m.Subject != "" {
		fmt.Fprintf(&b, "Subject: %s\r\n", headerSafe(m.Subject))
	}
	fmt.Fprintf(&b, "Received: %s\r\n\r\n", m.CreatedAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(m.Message)
	return b.String()
}

func (e *EmailNotifier) sendEmail(to, replyTo, subject, body string) error {
	if e.config.SMTPUsername == "" || e.config.SMTPPassword == "" {
		return fmt.Errorf("email credentials not configured")
	}
	if to == "" {
		return fmt.Errorf("notification address not configured")
	}

	auth := smtp.PlainAuth("", e.config.SMTPUsername, e.config.SMTPPassword, e.config.SMTPHost)

	fromEmail := e.config.FromEmail
	if fromEmail == "" {
		fromEmail = e.config.SMTPUsername
	}

	message := []byte(fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Reply-To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n",
		e.config.FromName, fromEmail, to, headerSafe(replyTo), headerSafe(subject), body))

	addr := e.config.SMTPHost + ":" + e.config.SMTPPort
	if err := sendMail(addr, auth, fromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// headerSafe strips line breaks so visitor input cannot add headers.
func headerSafe(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
