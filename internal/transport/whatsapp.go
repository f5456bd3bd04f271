package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"casedocs/internal/domain"
)

const (
	whatsappAPIBase   = "https://graph.facebook.com/v21.0"
	whatsappMaxMsgLen = 4096
)

// WhatsApp implements domain.Transport for the WhatsApp Business Cloud API.
type WhatsApp struct {
	accessToken   string
	phoneNumberID string
	apiBase       string
	logger        *slog.Logger
	client        *http.Client
}

type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	APIBase       string // default: Graph API v21.0
	Logger        *slog.Logger
	HTTPClient    *http.Client
}

func NewWhatsApp(cfg WhatsAppConfig) *WhatsApp {
	if cfg.APIBase == "" {
		cfg.APIBase = whatsappAPIBase
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = newHTTPClient(defaultSendTimeout)
	}
	return &WhatsApp{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		apiBase:       strings.TrimRight(cfg.APIBase, "/"),
		logger:        cfg.Logger,
		client:        cfg.HTTPClient,
	}
}

func (w *WhatsApp) Name() string { return "whatsapp" }

// Send posts the body as text messages, split at the API's length limit.
// The Cloud API wants the recipient as digits without '+'.
func (w *WhatsApp) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	to, err := phoneDigits(strings.TrimPrefix(strings.TrimSpace(msg.To), whatsappPrefix))
	if err != nil {
		return nil, err
	}
	to = strings.TrimPrefix(to, "+")

	receipt := &domain.Receipt{Transport: w.Name()}
	for _, chunk := range splitMessage(msg.Body, whatsappMaxMsgLen) {
		id, err := w.sendMessage(ctx, to, chunk)
		if err != nil {
			return nil, err
		}
		if receipt.MessageID == "" {
			receipt.MessageID = id
		}
	}
	receipt.Status = "accepted"
	w.logger.Debug("whatsapp message accepted", "id", msg.ID, "wamid", receipt.MessageID)
	return receipt, nil
}

// sendMessage sends a text message via WhatsApp Cloud API and returns the
// message ID assigned by the API.
func (w *WhatsApp) sendMessage(ctx context.Context, to string, text string) (string, error) {
	url := fmt.Sprintf("%s/%s/messages", w.apiBase, w.phoneNumberID)

	payload := waSendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text:             waText{Body: text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+w.accessToken)

	resp, err := w.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("whatsapp API %d: %s", resp.StatusCode, string(respBody))
	}

	var out waSendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Messages) == 0 {
		return "", nil
	}
	return out.Messages[0].ID, nil
}

// --- WhatsApp Cloud API payload types ---

type waSendRequest struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             waText `json:"text"`
}

type waText struct {
	Body string `json:"body"`
}

type waSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}
