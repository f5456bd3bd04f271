package channel

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"casedocs/internal/domain"
	"casedocs/internal/notify"
	"casedocs/internal/scenario"
)

var errQuit = errors.New("quit")

// Session is the interactive terminal form: describe a case, review the
// suggested documents, then optionally send them to the client.
type Session struct {
	table    *scenario.Table
	notifier *notify.Notifier
	logger   *slog.Logger
	scanner  *bufio.Scanner
	out      io.Writer
	now      func() time.Time
}

type SessionConfig struct {
	Table    *scenario.Table
	Notifier *notify.Notifier
	Logger   *slog.Logger
	In       io.Reader
	Out      io.Writer
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.In == nil {
		cfg.In = os.Stdin
	}
	if cfg.Out == nil {
		cfg.Out = os.Stdout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.New(notify.Config{Logger: cfg.Logger})
	}
	return &Session{
		table:    cfg.Table,
		notifier: cfg.Notifier,
		logger:   cfg.Logger,
		scanner:  bufio.NewScanner(cfg.In),
		out:      cfg.Out,
		now:      time.Now,
	}
}

// Run blocks until the input ends, the user types /quit, or ctx is
// cancelled. Only read errors are returned.
func (s *Session) Run(ctx context.Context) error {
	_, _ = fmt.Fprintln(s.out, "casedocs session. Describe the case and press Enter. Type /quit to exit.")
	if err := s.notifier.Ready(); err != nil {
		_, _ = fmt.Fprintf(s.out, "Note: sending is disabled (%v).\n", err)
	}

	for {
		if ctx.Err() != nil {
			return nil
		}

		description, err := s.prompt("Case> ")
		if err != nil {
			return s.end(err)
		}

		result := scenario.Suggest(description, s.table)
		if len(result.Documents) == 0 {
			_, _ = fmt.Fprintln(s.out, result.Message)
			continue
		}

		_, _ = fmt.Fprintln(s.out, "Suggested documents:")
		for _, doc := range result.Documents {
			_, _ = fmt.Fprintln(s.out, notify.Bullet+doc)
		}

		answer, err := s.prompt("Send this checklist to the client? [y/N] ")
		if err != nil {
			return s.end(err)
		}
		if !isYes(answer) {
			continue
		}
		if err := s.send(ctx, result.Documents); err != nil {
			return s.end(err)
		}
	}
}

// send collects the client and appointment details and delivers the
// checklist. A bad date or time is asked for again unless the request is
// already missing a prerequisite.
func (s *Session) send(ctx context.Context, documents []string) error {
	client, err := s.prompt("Client name> ")
	if err != nil {
		return err
	}
	recipient, err := s.prompt("Recipient> ")
	if err != nil {
		return err
	}
	req := notify.Request{ClientName: client, Recipient: recipient, Documents: documents}

	for {
		date, err := s.prompt("Date (YYYY-MM-DD, empty for today)> ")
		if err != nil {
			return err
		}
		clock, err := s.prompt("Time (HH:MM, empty for now)> ")
		if err != nil {
			return err
		}
		location, err := s.prompt("Location> ")
		if err != nil {
			return err
		}
		appt, err := domain.ParseAppointment(date, clock, location, s.now())
		if err == nil || !req.Complete() {
			req.Appointment = appt
			break
		}
		_, _ = fmt.Fprintln(s.out, "Error:", err)
	}

	d := s.notifier.Send(ctx, req)
	switch d.Status {
	case notify.StatusSent:
		_, _ = fmt.Fprintln(s.out, d.Detail)
	case notify.StatusSkipped:
		_, _ = fmt.Fprintln(s.out, "Warning:", d.Detail)
	default:
		_, _ = fmt.Fprintln(s.out, "Error:", d.Detail)
	}
	return nil
}

func (s *Session) prompt(label string) (string, error) {
	_, _ = fmt.Fprint(s.out, label)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	line := strings.TrimSpace(s.scanner.Text())
	switch line {
	case "/quit", "/exit", "/q":
		return "", errQuit
	}
	return line, nil
}

func (s *Session) end(err error) error {
	if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
		_, _ = fmt.Fprintln(s.out)
		s.logger.Info("session ended")
		return nil
	}
	return err
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true
	}
	return false
}
