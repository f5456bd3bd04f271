package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"casedocs/internal/domain"

	"github.com/bwmarrin/discordgo"
)

const discordMaxMsgLen = 2000

// Discord implements domain.Transport by posting to a Discord channel over
// the REST API; no gateway connection is opened.
type Discord struct {
	session *discordgo.Session
	logger  *slog.Logger
}

type DiscordConfig struct {
	Token  string
	Logger *slog.Logger
}

func NewDiscord(cfg DiscordConfig) (*Discord, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Client = newHTTPClient(defaultSendTimeout)
	return &Discord{session: session, logger: cfg.Logger}, nil
}

func (d *Discord) Name() string { return "discord" }

func (d *Discord) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	channelID := strings.TrimSpace(msg.To)
	if !isSnowflake(channelID) {
		return nil, fmt.Errorf("%w: discord channel ID must be numeric, got %q", ErrInvalidRecipient, msg.To)
	}

	receipt := &domain.Receipt{Transport: d.Name()}
	for _, chunk := range splitMessage(msg.Body, discordMaxMsgLen) {
		sent, err := d.session.ChannelMessageSend(channelID, chunk, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("discord send: %w", err)
		}
		if receipt.MessageID == "" && sent != nil {
			receipt.MessageID = sent.ID
		}
	}
	receipt.Status = "delivered"
	d.logger.Debug("discord message sent", "id", msg.ID, "channel", channelID)
	return receipt, nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
