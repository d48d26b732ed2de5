package infra

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"

	"github.com/Vebses/GeoAdmin-sub000/internal/config"
)

// Attachment is one file handed to the email transport.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// OutboundEmail is the transport-agnostic message shape the mail service
// builds. Failure crossing the transport is reported as an error value and
// recorded on the send event — never thrown away.
type OutboundEmail struct {
	From        string
	To          string
	CC          []string
	Subject     string
	Body        string
	Attachments []Attachment
}

// EmailTransport is the external transactional-email boundary. Send returns
// the provider's message id when it has one; an empty id on success is valid.
type EmailTransport interface {
	Send(ctx context.Context, msg OutboundEmail) (messageID string, err error)
}

// Mailer implements EmailTransport over plain SMTP.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

func (m *Mailer) Send(_ context.Context, msg OutboundEmail) (string, error) {
	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	e.Cc = msg.CC
	e.Subject = msg.Subject
	e.Text = []byte(msg.Body)

	for _, att := range msg.Attachments {
		if _, err := e.Attach(bytes.NewReader(att.Data), att.Name, att.ContentType); err != nil {
			return "", fmt.Errorf("mailer: attach %s: %w", att.Name, err)
		}
	}

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(m.addr, auth); err != nil {
		return "", err
	}
	// Plain SMTP has no provider message id.
	return "", nil
}
