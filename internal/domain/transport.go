package domain

import "context"

// Transport delivers a message to exactly one recipient over an external
// messaging service (Twilio, WhatsApp Cloud, Telegram, Discord, Slack).
type Transport interface {
	Name() string
	Send(ctx context.Context, msg OutboundMessage) (*Receipt, error)
}
