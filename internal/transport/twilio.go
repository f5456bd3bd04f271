package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"casedocs/internal/domain"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

const whatsappPrefix = "whatsapp:"

// messageCreator is the slice of the Twilio REST API used here.
type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Twilio implements domain.Transport over the Twilio Messages API, either as
// WhatsApp ("whatsapp:+1..." addresses) or plain SMS.
type Twilio struct {
	api     messageCreator
	channel string
	logger  *slog.Logger
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	Channel    string // "whatsapp" (default) | "sms"
	Logger     *slog.Logger
}

func NewTwilio(cfg TwilioConfig) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return newTwilio(client.Api, cfg.Channel, cfg.Logger)
}

func newTwilio(api messageCreator, channel string, logger *slog.Logger) *Twilio {
	if channel == "" {
		channel = "whatsapp"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Twilio{api: api, channel: channel, logger: logger}
}

func (t *Twilio) Name() string { return "twilio" }

// Send creates one Twilio message. The Twilio client has no context support,
// so ctx is only checked before the call.
func (t *Twilio) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	to, err := t.address(msg.To)
	if err != nil {
		return nil, err
	}
	from := msg.From
	switch {
	case t.channel == "sms":
		from = strings.TrimPrefix(from, whatsappPrefix)
	case from != "" && !strings.HasPrefix(from, whatsappPrefix):
		from = whatsappPrefix + from
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(from)
	params.SetBody(msg.Body)

	resp, err := t.api.CreateMessage(params)
	if err != nil {
		return nil, fmt.Errorf("twilio: %w", err)
	}

	receipt := &domain.Receipt{Transport: t.Name()}
	if resp != nil {
		if resp.Sid != nil {
			receipt.MessageID = *resp.Sid
		}
		if resp.Status != nil {
			receipt.Status = *resp.Status
		}
	}
	t.logger.Debug("twilio message created", "id", msg.ID, "sid", receipt.MessageID, "status", receipt.Status)
	return receipt, nil
}

// address normalises a recipient to Twilio's addressing for the channel.
func (t *Twilio) address(to string) (string, error) {
	to = strings.TrimSpace(to)
	number := strings.TrimPrefix(to, whatsappPrefix)
	digits, err := phoneDigits(number)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(digits, "+") {
		digits = "+" + digits
	}
	if t.channel == "whatsapp" {
		return whatsappPrefix + digits, nil
	}
	return digits, nil
}
