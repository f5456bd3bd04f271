package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"casedocs/internal/domain"
	"casedocs/internal/metrics"

	"github.com/google/uuid"
)

// Status is the outcome of a send request.
type Status string

const (
	StatusSent    Status = "sent"
	StatusSkipped Status = "skipped" // prerequisites missing, transport not called
	StatusFailed  Status = "failed"  // transport rejected the message
)

// MsgMissingPrerequisites is the warning returned when a send lacks a
// recipient, a client name or any documents.
const MsgMissingPrerequisites = "Please enter a valid recipient, client name, and ensure there are suggested documents."

// ErrNotConfigured is reported when no transport could be built at startup.
var ErrNotConfigured = errors.New("messaging is not configured")

// Request carries everything needed to notify one client.
type Request struct {
	ClientName  string             `json:"client_name"`
	Recipient   string             `json:"recipient"`
	Documents   []string           `json:"documents"`
	Appointment domain.Appointment `json:"appointment"`
}

// Complete reports whether req names a recipient, a client and at least one
// document. Send skips incomplete requests without calling the transport.
func (r Request) Complete() bool {
	return strings.TrimSpace(r.Recipient) != "" &&
		strings.TrimSpace(r.ClientName) != "" &&
		len(nonEmpty(r.Documents)) > 0
}

// Delivery is the result of a send request. Callers inspect Status instead of
// handling an error: every outcome carries a user-facing Detail.
type Delivery struct {
	ID        string          `json:"id,omitempty"`
	Status    Status          `json:"status"`
	Recipient string          `json:"recipient,omitempty"`
	Body      string          `json:"body,omitempty"`
	Detail    string          `json:"detail"`
	Receipt   *domain.Receipt `json:"receipt,omitempty"`
}

// OK reports whether the message was accepted by the transport.
func (d Delivery) OK() bool { return d.Status == StatusSent }

// Notifier validates send requests, composes the message and delivers it
// through a single transport. A nil transport disables sending only.
type Notifier struct {
	transport   domain.Transport
	from        string
	unavailable error
	logger      *slog.Logger
}

type Config struct {
	Transport   domain.Transport
	From        string // sender channel identifier passed to the transport
	Unavailable error  // why Transport is nil, e.g. missing credentials
	Logger      *slog.Logger
}

func New(cfg Config) *Notifier {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Transport == nil && cfg.Unavailable == nil {
		cfg.Unavailable = ErrNotConfigured
	}
	return &Notifier{
		transport:   cfg.Transport,
		from:        cfg.From,
		unavailable: cfg.Unavailable,
		logger:      cfg.Logger,
	}
}

// Ready returns nil when a transport is available.
func (n *Notifier) Ready() error {
	if n.transport == nil {
		return n.unavailable
	}
	return nil
}

// TransportName returns the configured transport name, or "none".
func (n *Notifier) TransportName() string {
	if n.transport == nil {
		return "none"
	}
	return n.transport.Name()
}

// Send composes and delivers the message for req. It never retries.
func (n *Notifier) Send(ctx context.Context, req Request) Delivery {
	recipient := strings.TrimSpace(req.Recipient)
	client := strings.TrimSpace(req.ClientName)
	docs := nonEmpty(req.Documents)

	if recipient == "" || client == "" || len(docs) == 0 {
		n.logger.Warn("send skipped, missing prerequisites",
			"has_recipient", recipient != "",
			"has_client", client != "",
			"documents", len(docs),
		)
		return n.record(Delivery{Status: StatusSkipped, Recipient: recipient, Detail: MsgMissingPrerequisites})
	}

	body := Compose(client, docs, req.Appointment)

	if n.transport == nil {
		n.logger.Warn("send skipped, no transport", "err", n.unavailable)
		return n.record(Delivery{
			Status:    StatusSkipped,
			Recipient: recipient,
			Body:      body,
			Detail:    "Messaging is not configured: " + n.unavailable.Error(),
		})
	}

	msg := domain.OutboundMessage{
		ID:   uuid.NewString(),
		From: n.from,
		To:   recipient,
		Body: body,
	}

	start := time.Now()
	receipt, err := n.transport.Send(ctx, msg)
	metrics.SendLatency.WithLabelValues(n.transport.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		n.logger.Error("send failed", "id", msg.ID, "transport", n.transport.Name(), "err", err)
		return n.record(Delivery{
			ID:        msg.ID,
			Status:    StatusFailed,
			Recipient: recipient,
			Body:      body,
			Detail:    "Failed to send message: " + err.Error(),
		})
	}

	n.logger.Info("message sent", "id", msg.ID, "transport", n.transport.Name(), "documents", len(docs))
	return n.record(Delivery{
		ID:        msg.ID,
		Status:    StatusSent,
		Recipient: recipient,
		Body:      body,
		Detail:    "Message sent to " + recipient + ": " + body,
		Receipt:   receipt,
	})
}

func (n *Notifier) record(d Delivery) Delivery {
	metrics.Deliveries.WithLabelValues(n.TransportName(), string(d.Status)).Inc()
	return d
}

func nonEmpty(docs []string) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if d = strings.TrimSpace(d); d != "" {
			out = append(out, d)
		}
	}
	return out
}
