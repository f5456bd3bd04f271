package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"casedocs/internal/domain"

	"github.com/slack-go/slack"
)

const slackMaxMsgLen = 4000

// Slack implements domain.Transport with chat.postMessage. The recipient is
// a channel or DM conversation ID the bot can post to.
type Slack struct {
	client *slack.Client
	logger *slog.Logger
}

type SlackConfig struct {
	BotToken string
	APIURL   string // default: https://slack.com/api/
	Logger   *slog.Logger
}

func NewSlack(cfg SlackConfig) *Slack {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	opts := []slack.Option{slack.OptionHTTPClient(newHTTPClient(defaultSendTimeout))}
	if cfg.APIURL != "" {
		opts = append(opts, slack.OptionAPIURL(cfg.APIURL))
	}
	return &Slack{
		client: slack.New(cfg.BotToken, opts...),
		logger: cfg.Logger,
	}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	channelID := strings.TrimSpace(msg.To)
	if channelID == "" || strings.ContainsAny(channelID, " \t\n") {
		return nil, fmt.Errorf("%w: slack channel ID %q", ErrInvalidRecipient, msg.To)
	}

	receipt := &domain.Receipt{Transport: s.Name()}
	for _, chunk := range splitMessage(msg.Body, slackMaxMsgLen) {
		_, ts, err := s.client.PostMessageContext(ctx, channelID, slack.MsgOptionText(chunk, false))
		if err != nil {
			return nil, fmt.Errorf("slack send: %w", err)
		}
		if receipt.MessageID == "" {
			receipt.MessageID = ts
		}
	}
	receipt.Status = "delivered"
	s.logger.Debug("slack message sent", "id", msg.ID, "channel", channelID)
	return receipt, nil
}
