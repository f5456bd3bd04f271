package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"casedocs/internal/domain"
)

func newTelegramServer(t *testing.T, sent *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Case","username":"casedocs_bot"}}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			*sent = append(*sent, r.FormValue("chat_id")+"|"+r.FormValue("text"))
			w.Write([]byte(`{"ok":true,"result":{"message_id":42,"date":1700000000,"chat":{"id":12345,"type":"private"}}}`))
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestTelegram_Send(t *testing.T) {
	var sent []string
	srv := newTelegramServer(t, &sent)
	defer srv.Close()

	tg := NewTelegram(TelegramConfig{
		Token:       "123:abc",
		APIEndpoint: srv.URL + "/bot%s/%s",
		Logger:      testLogger(),
	})

	receipt, err := tg.Send(context.Background(), domain.OutboundMessage{To: "12345", Body: "Hello Asha!"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(sent) != 1 || sent[0] != "12345|Hello Asha!" {
		t.Fatalf("unexpected sends %v", sent)
	}
	if receipt.MessageID != "42" {
		t.Errorf("unexpected receipt %+v", receipt)
	}

	// The bot is reused for later sends.
	if _, err := tg.Send(context.Background(), domain.OutboundMessage{To: "12345", Body: "again"}); err != nil {
		t.Fatalf("second send: %v", err)
	}
	if len(sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(sent))
	}
}

func TestTelegram_InvalidChatID(t *testing.T) {
	tg := NewTelegram(TelegramConfig{Token: "123:abc", APIEndpoint: "http://127.0.0.1:0/bot%s/%s", Logger: testLogger()})
	_, err := tg.Send(context.Background(), domain.OutboundMessage{To: "@someone", Body: "x"})
	if !errors.Is(err, ErrInvalidRecipient) {
		t.Fatalf("expected ErrInvalidRecipient, got %v", err)
	}
}
