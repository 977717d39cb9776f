package services

import (
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net/smtp"
	"strings"

	"github.com/foxxcyber/holiday-menu/internal/config"
)

// ErrSMTPNotConfigured is returned when mail is disabled or incomplete
var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// EmailService handles sending emails via SMTP
type EmailService struct {
	cfg *config.Config
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// IsConfigured returns true if SMTP is properly configured
func (s *EmailService) IsConfigured() bool {
	return s.cfg.SMTPConfigured()
}

// SendEmail sends an email using SMTP
func (s *EmailService) SendEmail(to, subject, htmlBody, textBody string) error {
	if !s.IsConfigured() {
		return ErrSMTPNotConfigured
	}

	msg := BuildMessage(s.cfg.SMTPFromName, s.cfg.SMTPFromAddr, []string{to}, subject, htmlBody, textBody)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	// Create authentication if credentials provided
	var auth smtp.Auth
	if s.cfg.SMTPUser != "" && s.cfg.SMTPPassword != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}

	// For ports 465, use implicit TLS
	if s.cfg.SMTPPort == 465 {
		return s.sendMailWithTLS(addr, auth, []string{to}, msg)
	}

	// For other ports (587, 25), use STARTTLS
	return s.sendMailWithSTARTTLS(addr, auth, []string{to}, msg)
}

// BuildMessage assembles a multipart/alternative message with text and HTML parts
func BuildMessage(fromName, fromAddr string, to []string, subject, htmlBody, textBody string) string {
	boundary := "boundary-holidaymenu-email"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s <%s>\r\n", encodeHeader(fromName), stripLineBreaks(fromAddr)))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", stripLineBreaks(strings.Join(to, ", "))))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", encodeHeader(subject)))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary))
	msg.WriteString("\r\n")

	// Plain text part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(textBody)
	msg.WriteString("\r\n")

	// HTML part
	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return msg.String()
}

// encodeHeader makes s safe for a single header line, RFC 2047 encoding
// anything that is not plain ASCII
func encodeHeader(s string) string {
	return mime.QEncoding.Encode("utf-8", stripLineBreaks(s))
}

func stripLineBreaks(s string) string {
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == '\r' || r == '\n'
	}), " ")
}

// sendMailWithTLS sends mail using implicit TLS (port 465)
func (s *EmailService) sendMailWithTLS(addr string, auth smtp.Auth, to []string, msg string) error {
	conn, err := tls.Dial("tcp", addr, &tls.Config{ServerName: s.cfg.SMTPHost})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.cfg.SMTPHost)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Close()

	return s.deliver(client, auth, to, msg)
}

// sendMailWithSTARTTLS sends mail using STARTTLS (ports 587, 25)
func (s *EmailService) sendMailWithSTARTTLS(addr string, auth smtp.Auth, to []string, msg string) error {
	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Close()

	// Try STARTTLS if available
	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: s.cfg.SMTPHost}); err != nil {
			return fmt.Errorf("STARTTLS failed: %w", err)
		}
	}

	return s.deliver(client, auth, to, msg)
}

func (s *EmailService) deliver(client *smtp.Client, auth smtp.Auth, to []string, msg string) error {
	if auth != nil {
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(s.cfg.SMTPFromAddr); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	for _, recipient := range to {
		if err := client.Rcpt(recipient); err != nil {
			return fmt.Errorf("failed to set recipient %s: %w", recipient, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}

	if _, err = w.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}
