package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

const (
	smtpHost = "smtp.gmail.com"
	smtpPort = 587
)

// EmailChannel sends over SMTP with STARTTLS. The configured address
// is both sender and recipient — the operator mails themselves.
type EmailChannel struct {
	address  string
	password string

	// send is swapped out by tests; the default dials smtpHost.
	send func(ctx context.Context, msg *mail.Msg) error
}

func NewEmailChannel(address, password string) *EmailChannel {
	c := &EmailChannel{address: address, password: password}
	c.send = c.dialAndSend
	return c
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(c.address); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(c.address); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	return c.send(ctx, msg)
}

func (c *EmailChannel) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(smtpHost,
		mail.WithPort(smtpPort),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(c.address),
		mail.WithPassword(c.password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
