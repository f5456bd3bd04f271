// Package transport delivers composed client messages over an external
// messaging service. Each transport sends to exactly one recipient.
package transport

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"casedocs/internal/config"
	"casedocs/internal/domain"
)

// ErrInvalidRecipient is returned when a channel identifier cannot be used
// by the selected transport.
var ErrInvalidRecipient = errors.New("invalid recipient")

// New builds the transport selected by cfg.Provider. It fails with an error
// wrapping config.ErrMissingCredentials when the provider cannot
// authenticate.
func New(cfg config.TransportConfig, logger *slog.Logger) (domain.Transport, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderTwilio:
		return NewTwilio(TwilioConfig{
			AccountSID: cfg.Twilio.AccountSID,
			AuthToken:  cfg.Twilio.AuthToken,
			Channel:    cfg.Twilio.Channel,
			Logger:     logger,
		}), nil
	case config.ProviderWhatsApp:
		return NewWhatsApp(WhatsAppConfig{
			AccessToken:   cfg.WhatsApp.AccessToken,
			PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
			APIBase:       cfg.WhatsApp.APIBase,
			Logger:        logger,
		}), nil
	case config.ProviderTelegram:
		return NewTelegram(TelegramConfig{Token: cfg.Telegram.Token, Logger: logger}), nil
	case config.ProviderDiscord:
		d, err := NewDiscord(DiscordConfig{Token: cfg.Discord.Token, Logger: logger})
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.ProviderSlack:
		return NewSlack(SlackConfig{BotToken: cfg.Slack.BotToken, Logger: logger}), nil
	default:
		return nil, fmt.Errorf("unknown transport provider %q", cfg.Provider)
	}
}

// Sender returns the sender channel identifier for cfg, if the provider
// needs one. Bot-based providers send as the bot and return "".
func Sender(cfg config.TransportConfig) string {
	if cfg.Provider == config.ProviderTwilio {
		return cfg.Twilio.From
	}
	return ""
}

// splitMessage splits a message into chunks of at most maxLen bytes, trying
// to split on newlines when possible. Chunks never end mid-rune.
func splitMessage(msg string, maxLen int) []string {
	if len(msg) <= maxLen {
		return []string{msg}
	}

	var chunks []string
	for len(msg) > 0 {
		if len(msg) <= maxLen {
			chunks = append(chunks, msg)
			break
		}

		// Try to split on a newline, else on a rune boundary.
		cut := maxLen
		if idx := strings.LastIndex(msg[:maxLen], "\n"); idx > maxLen/2 {
			cut = idx + 1
		} else {
			for cut > 0 && !utf8.RuneStart(msg[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
		}

		chunks = append(chunks, msg[:cut])
		msg = msg[cut:]
	}
	return chunks
}

// phoneDigits strips formatting from a phone number and keeps a leading '+'.
func phoneDigits(s string) (string, error) {
	s = strings.TrimSpace(s)
	var sb strings.Builder
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '+' && i == 0:
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// formatting
		default:
			return "", fmt.Errorf("%w: unexpected %q in phone number %q", ErrInvalidRecipient, r, s)
		}
	}
	out := sb.String()
	if n := len(strings.TrimPrefix(out, "+")); n < 6 || n > 15 {
		return "", fmt.Errorf("%w: phone number %q must have 6 to 15 digits", ErrInvalidRecipient, s)
	}
	return out, nil
}
