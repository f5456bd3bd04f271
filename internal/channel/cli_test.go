package channel

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"casedocs/internal/domain"
	"casedocs/internal/notify"
	"casedocs/internal/scenario"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

func testTable() *scenario.Table {
	return scenario.NewTable([]scenario.Scenario{
		{Description: "divorce custody", Documents: [scenario.MaxDocuments]string{"Marriage certificate", "ID proof"}},
		{Description: "property dispute", Documents: [scenario.MaxDocuments]string{"Sale deed", "ID proof", "Tax receipts"}},
	})
}

type fakeTransport struct {
	mu   sync.Mutex
	sent []domain.OutboundMessage
	err  error
}

func (f *fakeTransport) Name() string { return "fake" }

func (f *fakeTransport) Send(ctx context.Context, msg domain.OutboundMessage) (*domain.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.sent = append(f.sent, msg)
	return &domain.Receipt{Transport: "fake", MessageID: "m1", Status: "queued"}, nil
}

func newTestSession(input string, tr domain.Transport) (*Session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	n := notify.New(notify.Config{Transport: tr, Logger: testLogger()})
	s := NewSession(SessionConfig{
		Table:    testTable(),
		Notifier: n,
		Logger:   testLogger(),
		In:       strings.NewReader(input),
		Out:      out,
	})
	s.now = func() time.Time { return time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC) }
	return s, out
}

func TestSession_SuggestOnly(t *testing.T) {
	s, out := newTestSession("Divorce case\nn\n/quit\n", &fakeTransport{})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "• ID proof") || !strings.Contains(text, "• Marriage certificate") {
		t.Errorf("expected suggestions in output:\n%s", text)
	}
	if strings.Contains(text, "Sale deed") {
		t.Errorf("unrelated scenario leaked into output:\n%s", text)
	}
}

func TestSession_EmptyAndNoMatch(t *testing.T) {
	s, out := newTestSession("\nparking ticket\n", &fakeTransport{})
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, scenario.MsgEmptyDescription) {
		t.Errorf("expected empty description message:\n%s", text)
	}
	if !strings.Contains(text, scenario.MsgNoSuggestions) {
		t.Errorf("expected no suggestions message:\n%s", text)
	}
}

func TestSession_Send(t *testing.T) {
	tr := &fakeTransport{}
	input := strings.Join([]string{
		"property",
		"y",
		"Asha",
		"+15550001111",
		"2024-05-01",
		"10:00",
		"Room 4",
		"/quit",
	}, "\n") + "\n"

	s, out := newTestSession(input, tr)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(tr.sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(tr.sent))
	}
	body := tr.sent[0].Body
	for _, want := range []string{"Asha", "Sale deed", "Tax receipts", "ID proof", "2024-05-01", "10:00", "Room 4"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if tr.sent[0].To != "+15550001111" {
		t.Errorf("unexpected recipient %q", tr.sent[0].To)
	}
	if !strings.Contains(out.String(), "Message sent to +15550001111") {
		t.Errorf("expected confirmation:\n%s", out.String())
	}
}

func TestSession_SendRetriesBadDate(t *testing.T) {
	tr := &fakeTransport{}
	input := "divorce\nyes\nAsha\n+15550001111\n01/05/2024\n10:00\nRoom 4\n\n\nRoom 4\n"

	s, out := newTestSession(input, tr)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "must be YYYY-MM-DD") {
		t.Errorf("expected date error:\n%s", out.String())
	}
	if len(tr.sent) != 1 {
		t.Fatalf("expected 1 message after retry, got %d", len(tr.sent))
	}
	if !strings.Contains(tr.sent[0].Body, "Date: 2024-05-01") || !strings.Contains(tr.sent[0].Body, "Time: 09:30") {
		t.Errorf("expected defaulted appointment:\n%s", tr.sent[0].Body)
	}
}

func TestSession_SendMissingPrerequisites(t *testing.T) {
	tr := &fakeTransport{}
	s, out := newTestSession("divorce\ny\n\n+15550001111\n\n\n\n", tr)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tr.sent) != 0 {
		t.Fatal("transport must not be called without a client name")
	}
	if !strings.Contains(out.String(), "Warning: "+notify.MsgMissingPrerequisites) {
		t.Errorf("expected warning:\n%s", out.String())
	}
}

func TestSession_SendFailureKeepsRunning(t *testing.T) {
	tr := &fakeTransport{err: errors.New("401 unauthorized")}
	s, out := newTestSession("divorce\ny\nAsha\n+15550001111\n\n\n\ndivorce\nn\n", tr)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Error: Failed to send message: 401 unauthorized") {
		t.Errorf("expected failure detail:\n%s", text)
	}
	if strings.Count(text, "Suggested documents:") != 2 {
		t.Errorf("session should continue after a failed send:\n%s", text)
	}
}

func TestSession_NoTransport(t *testing.T) {
	s, out := newTestSession("divorce\ny\nAsha\n+15550001111\n\n\n\n", nil)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "sending is disabled") {
		t.Errorf("expected startup note:\n%s", text)
	}
	if !strings.Contains(text, "Messaging is not configured") {
		t.Errorf("expected skipped send:\n%s", text)
	}
}

func TestSession_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, out := newTestSession("divorce\n", &fakeTransport{})
	if err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if strings.Contains(out.String(), "Suggested documents:") {
		t.Error("no input should be processed after cancellation")
	}
}

func TestSession_MissingPrerequisitesBeforeBadDate(t *testing.T) {
	tr := &fakeTransport{}
	s, out := newTestSession("divorce\ny\nAsha\n\n01/05/2024\n\n\n", tr)
	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if strings.Contains(text, "must be YYYY-MM-DD") {
		t.Errorf("date should not be re-asked when the recipient is missing:\n%s", text)
	}
	if !strings.Contains(text, "Warning: "+notify.MsgMissingPrerequisites) {
		t.Errorf("expected prerequisites warning:\n%s", text)
	}
	if len(tr.sent) != 0 {
		t.Fatal("transport must not be called without a recipient")
	}
}
