package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/laptop-resale/internal/config"
	"github.com/spec-kit/laptop-resale/internal/service"
)

// ErrNoTransport marks a notification whose channel has nothing configured to carry it.
var ErrNoTransport = errors.New("no transport configured")

const (
	headerEventType = "X-Event-Type"
	headerEventID   = "X-Event-ID"
)

// WebhookSender POSTs notifications as JSON.
type WebhookSender struct {
	timeout time.Duration
}

// NewWebhookSender returns a sender whose requests never outlive timeout.
func NewWebhookSender(timeout time.Duration) *WebhookSender {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookSender{timeout: timeout}
}

type webhookBody struct {
	Subject   string    `json:"subject"`
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Resource  string    `json:"resource_id"`
	Actor     string    `json:"actor_email,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload,omitempty"`
}

// Send delivers n to n.To. Any non-2xx answer is an error.
func (s *WebhookSender) Send(ctx context.Context, n service.Notification) error {
	if n.To == "" {
		return ErrNoTransport
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	agent := fiber.Post(n.To)
	agent.Timeout(timeout)
	agent.Set(headerEventType, string(n.Event.Type))
	agent.Set(headerEventID, n.Event.ID)
	agent.JSON(webhookBody{
		Subject:   n.Subject,
		EventID:   n.Event.ID,
		EventType: string(n.Event.Type),
		Resource:  n.Event.ResourceID,
		Actor:     n.Event.ActorEmail,
		Timestamp: n.Event.Timestamp,
		Payload:   n.Event.Payload,
	})

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("webhook %s: %w", n.To, errors.Join(errs...))
	}
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return fmt.Errorf("webhook %s answered %d: %s", n.To, code, truncate(body, 200))
	}
	return nil
}

// SendMailFunc matches smtp.SendMail.
type SendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPMailer sends e-mail notifications through one SMTP relay.
type SMTPMailer struct {
	addr     string
	auth     smtp.Auth
	sendMail SendMailFunc
}

// NewSMTPMailer builds a mailer for addr (host:port). Credentials are optional.
func NewSMTPMailer(addr, username, password string) *SMTPMailer {
	m := &SMTPMailer{addr: addr, sendMail: smtp.SendMail}
	if username != "" {
		host, _, err := net.SplitHostPort(addr)
		if err != nil {
			host = addr
		}
		m.auth = smtp.PlainAuth("", username, password, host)
	}
	return m
}

// Send delivers n as a plain text message.
func (m *SMTPMailer) Send(ctx context.Context, n service.Notification) error {
	if n.From == "" || n.To == "" {
		return ErrNoTransport
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := mailBody(n)
	if err != nil {
		return err
	}
	if err := m.sendMail(m.addr, m.auth, n.From, []string{n.To}, mailMessage(n.From, n.To, n.Subject, body)); err != nil {
		return fmt.Errorf("smtp %s: %w", m.addr, err)
	}
	return nil
}

// NewDeliverFunc routes notifications to the webhook sender and, when an SMTP
// relay is configured, the mailer. E-mail without a relay yields ErrNoTransport.
func NewDeliverFunc(cfg config.NotificationConfig) DeliverFunc {
	webhook := NewWebhookSender(cfg.WebhookTimeout())
	var mailer *SMTPMailer
	if strings.TrimSpace(cfg.SMTPAddr) != "" {
		mailer = NewSMTPMailer(strings.TrimSpace(cfg.SMTPAddr), cfg.SMTPUsername, cfg.SMTPPassword)
	}

	return func(ctx context.Context, n service.Notification) error {
		switch n.Channel {
		case service.ChannelWebhook:
			return webhook.Send(ctx, n)
		case service.ChannelEmail:
			if mailer == nil {
				return ErrNoTransport
			}
			return mailer.Send(ctx, n)
		default:
			return fmt.Errorf("unknown notification channel %q", n.Channel)
		}
	}
}

func mailBody(n service.Notification) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\nEvent: %s\nReference: %s\n", n.Subject, n.Event.Type, n.Event.ResourceID)
	if n.Event.Payload != nil {
		details, err := json.MarshalIndent(n.Event.Payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode mail details: %w", err)
		}
		fmt.Fprintf(&b, "\n%s\n", details)
	}
	return b.String(), nil
}

func mailMessage(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return []byte(b.String())
}

func truncate(b []byte, limit int) string {
	if len(b) <= limit {
		return string(b)
	}
	return string(b[:limit]) + "..."
}
