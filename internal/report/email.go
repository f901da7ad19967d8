package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"mime"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/NCobrimark/Archetype-UA/internal/config"
)

// EmailSender delivers generated reports over SMTP. With empty credentials
// every send is skipped with a warning instead of failing the flow.
type EmailSender struct {
	cfg    config.SMTP
	logger *zap.Logger
}

// NewEmailSender creates an EmailSender for the configured SMTP account.
func NewEmailSender(cfg config.SMTP, logger *zap.Logger) *EmailSender {
	return &EmailSender{cfg: cfg, logger: logger}
}

// Send mails the report to the captured address and a copy to the admin.
func (s *EmailSender) Send(toEmail, userName string, doc Document) error {
	if s.cfg.User == "" || s.cfg.Password == "" {
		s.logger.Warn("SMTP settings missing, skipping email send",
			zap.String("to", toEmail),
		)
		return nil
	}

	subject := fmt.Sprintf("Ваша стратегія Архетипів - %s", userName)
	body := fmt.Sprintf(
		"Вітаємо, %s!\n\nДякуємо за проходження тесту. Ваш персональний звіт додано до цього листа.\n\nЗ повагою,\nКоманда Твій Архетип",
		userName,
	)

	if err := s.send(toEmail, subject, body, doc); err != nil {
		return fmt.Errorf("send report to %s: %w", toEmail, err)
	}

	if s.cfg.AdminEmail != "" && s.cfg.AdminEmail != toEmail {
		adminSubject := fmt.Sprintf("Новий звіт: %s (%s)", userName, toEmail)
		adminBody := fmt.Sprintf("Новий користувач завершив тест: %s (%s)", userName, toEmail)
		if err := s.send(s.cfg.AdminEmail, adminSubject, adminBody, doc); err != nil {
			// The user already has their copy.
			s.logger.Warn("failed to send admin copy", zap.Error(err))
		}
	}

	s.logger.Info("report sent", zap.String("to", toEmail))
	return nil
}

func (s *EmailSender) send(to, subject, body string, doc Document) error {
	msg := buildMessage(s.cfg.User, to, subject, body, doc)
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Password, s.cfg.Host)
	return smtp.SendMail(addr, auth, s.cfg.User, []string{to}, msg)
}

// buildMessage assembles a multipart MIME message with the report attached.
func buildMessage(from, to, subject, body string, doc Document) []byte {
	const boundary = "archetype-report-boundary"

	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/mixed; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n")
	fmt.Fprintf(&b, "Content-Disposition: attachment; filename=%q\r\n\r\n", doc.Filename)

	encoded := base64.StdEncoding.EncodeToString(doc.HTML)
	for len(encoded) > 76 {
		b.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded + "\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return b.Bytes()
}
