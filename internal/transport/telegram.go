package transport

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"casedocs/internal/domain"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const telegramMaxMsgLen = 4000

// Telegram implements domain.Transport for a Telegram bot. The recipient is
// a numeric chat ID; the client must have started a chat with the bot.
type Telegram struct {
	token       string
	apiEndpoint string
	logger      *slog.Logger

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

type TelegramConfig struct {
	Token       string
	APIEndpoint string // default: tgbotapi.APIEndpoint
	Logger      *slog.Logger
}

func NewTelegram(cfg TelegramConfig) *Telegram {
	if cfg.APIEndpoint == "" {
		cfg.APIEndpoint = tgbotapi.APIEndpoint
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Telegram{
		token:       cfg.Token,
		apiEndpoint: cfg.APIEndpoint,
		logger:      cfg.Logger,
	}
}

func (t *Telegram) Name() string { return "telegram" }

// client connects on first use; NewBotAPI performs a getMe round trip.
func (t *Telegram) client() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot != nil {
		return t.bot, nil
	}
	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.apiEndpoint, newHTTPClient(defaultSendTimeout))
	if err != nil {
		return nil, fmt.Errorf("telegram bot init: %w", err)
	}
	t.logger.Info("telegram bot connected", "username", bot.Self.UserName, "id", bot.Self.ID)
	t.bot = bot
	return bot, nil
}

func (t *Telegram) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.To), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: telegram chat ID must be numeric, got %q", ErrInvalidRecipient, msg.To)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bot, err := t.client()
	if err != nil {
		return nil, err
	}

	receipt := &domain.Receipt{Transport: t.Name()}
	for _, chunk := range splitMessage(msg.Body, telegramMaxMsgLen) {
		sent, err := bot.Send(tgbotapi.NewMessage(chatID, chunk))
		if err != nil {
			return nil, fmt.Errorf("telegram send: %w", err)
		}
		if receipt.MessageID == "" {
			receipt.MessageID = strconv.Itoa(sent.MessageID)
		}
	}
	receipt.Status = "delivered"
	t.logger.Debug("telegram message sent", "id", msg.ID, "chat", chatID)
	return receipt, nil
}
