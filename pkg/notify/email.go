package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sharktamer/gtsnotifier/pkg/config"
	"github.com/sharktamer/gtsnotifier/pkg/watch"
)

const defaultEmailTimeout = 15 * time.Second

// EmailSender dispatches notifications as plain-text mail through an
// authenticated SMTP relay.
type EmailSender struct {
	cfg    *config.EmailConfig
	logger *zap.Logger

	// send is swappable for tests; defaults to sendMail, which dials and
	// talks to the relay under the configured request timeout.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailSender creates an SMTP dispatcher.
func NewEmailSender(cfg *config.EmailConfig, logger *zap.Logger) *EmailSender {
	s := &EmailSender{
		cfg:    cfg,
		logger: logger,
	}
	s.send = s.sendMail
	return s
}

// Channel returns the email channel kind.
func (s *EmailSender) Channel() watch.Channel {
	return watch.ChannelEmail
}

// Send delivers the message as a single mail. The subject line repeats the
// message body, matching the notifier's historical mail format.
func (s *EmailSender) Send(ctx context.Context, destination, message string) error {
	if err := ctx.Err(); err != nil {
		return &DispatchError{Channel: watch.ChannelEmail, Destination: destination, Err: err}
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	msg := buildMessage(s.cfg.From, destination, message, message)

	if err := s.send(addr, auth, s.cfg.From, []string{destination}, msg); err != nil {
		return &DispatchError{Channel: watch.ChannelEmail, Destination: destination, Err: err}
	}
	return nil
}

// Validate structurally checks the address when enabled. The relay itself
// is never consulted; there is no remote existence check for email.
func (s *EmailSender) Validate(_ context.Context, destination string) error {
	if !s.cfg.ValidateDestination {
		return nil
	}
	if _, err := mail.ParseAddress(destination); err != nil {
		return fmt.Errorf("invalid email address: %w", err)
	}
	return nil
}

// sendMail speaks SMTP with the relay the way smtp.SendMail does, but with
// a dial timeout and a connection deadline so a relay that accepts TCP and
// then goes silent cannot hold a dispatch forever.
func (s *EmailSender) sendMail(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	timeout := s.cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultEmailTimeout
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		conn.Close()
		return err
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}

	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}

	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return c.Quit()
}

// buildMessage assembles an RFC 5322 plain-text message.
func buildMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
