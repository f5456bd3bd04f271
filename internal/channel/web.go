package channel

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"net/http"
	"time"

	"casedocs/internal/domain"
	"casedocs/internal/metrics"
	"casedocs/internal/notify"
	"casedocs/internal/scenario"
)

const (
	maxBodySize     = 1 << 20 // 1MB
	shutdownTimeout = 10 * time.Second
)

//go:embed web_templates/*.html
var templateFS embed.FS

// Web serves the document checklist form and its JSON API.
type Web struct {
	host        string
	port        int
	table       *scenario.Table
	notifier    *notify.Notifier
	logger      *slog.Logger
	server      *http.Server
	tmpl        *htmltemplate.Template
	version     string
	metricsPath string
	now         func() time.Time
}

type WebConfig struct {
	Host        string
	Port        int
	Table       *scenario.Table
	Notifier    *notify.Notifier
	Logger      *slog.Logger
	Version     string
	MetricsPath string // empty disables the metrics endpoint
}

func NewWeb(cfg WebConfig) *Web {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.New(notify.Config{Logger: cfg.Logger})
	}

	tmpl := htmltemplate.Must(htmltemplate.ParseFS(templateFS, "web_templates/*.html"))

	return &Web{
		host:        cfg.Host,
		port:        cfg.Port,
		table:       cfg.Table,
		notifier:    cfg.Notifier,
		logger:      cfg.Logger,
		tmpl:        tmpl,
		version:     cfg.Version,
		metricsPath: cfg.MetricsPath,
		now:         time.Now,
	}
}

// Handler returns the HTTP routes without starting a listener.
func (w *Web) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", w.handleIndex)
	mux.HandleFunc("POST /suggest", w.handleSuggestForm)
	mux.HandleFunc("POST /send", w.handleSendForm)
	mux.HandleFunc("POST /api/suggest", w.handleSuggestAPI)
	mux.HandleFunc("POST /api/send", w.handleSendAPI)
	mux.HandleFunc("GET /healthz", w.handleHealth)
	if w.metricsPath != "" {
		mux.Handle("GET "+w.metricsPath, metrics.Handler())
	}
	return limitBody(mux)
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (w *Web) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", w.host, w.port)
	w.server = &http.Server{
		Addr:              addr,
		Handler:           w.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	w.logger.Info("web UI started", "addr", "http://"+addr, "transport", w.notifier.TransportName(), "metrics", w.metricsPath)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.logger.Warn("web shutdown", "err", err)
		}
	}()

	if err := w.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	w.logger.Info("web UI stopped")
	return nil
}

func (w *Web) Stop() error {
	if w.server != nil {
		return w.server.Close()
	}
	return nil
}

func limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(rw, r.Body, maxBodySize)
		next.ServeHTTP(rw, r)
	})
}

// --- HTML form ---

// pageData is everything page.html can render. Zero values render the
// empty form.
type pageData struct {
	Title       string
	Version     string
	Transport   string
	SendError   string
	Description string
	Suggestion  *scenario.Suggestion
	ClientName  string
	Recipient   string
	Appointment domain.Appointment
	Delivery    *notify.Delivery
	Error       string
}

func (w *Web) newPage() pageData {
	p := pageData{
		Title:     "Legal Document Checklist",
		Version:   w.version,
		Transport: w.notifier.TransportName(),
	}
	if err := w.notifier.Ready(); err != nil {
		p.SendError = err.Error()
	}
	return p
}

func (w *Web) render(rw http.ResponseWriter, status int, data pageData) {
	rw.Header().Set("Content-Type", "text/html; charset=utf-8")
	rw.WriteHeader(status)
	if err := w.tmpl.ExecuteTemplate(rw, "page.html", data); err != nil {
		w.logger.Error("template error", "template", "page", "err", err)
	}
}

func (w *Web) handleIndex(rw http.ResponseWriter, r *http.Request) {
	w.render(rw, http.StatusOK, w.newPage())
}

func (w *Web) handleSuggestForm(rw http.ResponseWriter, r *http.Request) {
	if !w.parseForm(rw, r) {
		return
	}
	page := w.newPage()
	page.Description = r.FormValue("description")
	result := scenario.Suggest(page.Description, w.table)
	page.Suggestion = &result
	w.render(rw, http.StatusOK, page)
}

// handleSendForm re-derives the documents from the posted description so
// the checklist always comes from the scenario table.
func (w *Web) handleSendForm(rw http.ResponseWriter, r *http.Request) {
	if !w.parseForm(rw, r) {
		return
	}
	page := w.newPage()
	page.Description = r.FormValue("description")
	page.ClientName = r.FormValue("client_name")
	page.Recipient = r.FormValue("recipient")
	page.Appointment = domain.Appointment{
		Date:     r.FormValue("date"),
		Time:     r.FormValue("time"),
		Location: r.FormValue("location"),
	}
	documents := scenario.Match(page.Description, w.table).Sorted()
	if len(documents) > 0 {
		page.Suggestion = &scenario.Suggestion{Documents: documents, Outcome: metrics.OutcomeMatched}
	}

	req := notify.Request{
		ClientName: page.ClientName,
		Recipient:  page.Recipient,
		Documents:  documents,
	}
	appt, err := domain.ParseAppointment(page.Appointment.Date, page.Appointment.Time, page.Appointment.Location, w.now())
	if err != nil && req.Complete() {
		page.Error = err.Error()
		w.render(rw, http.StatusBadRequest, page)
		return
	}
	if err == nil {
		req.Appointment = appt
		page.Appointment = appt
	}

	d := w.notifier.Send(r.Context(), req)
	page.Delivery = &d
	w.render(rw, deliveryStatus(d), page)
}

func (w *Web) parseForm(rw http.ResponseWriter, r *http.Request) bool {
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(rw, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		http.Error(rw, "invalid form: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// --- JSON API ---

type suggestRequest struct {
	Description string `json:"description"`
}

// sendRequest takes either an explicit document list or a description to
// match; documents win when both are present.
type sendRequest struct {
	Description string             `json:"description"`
	ClientName  string             `json:"client_name"`
	Recipient   string             `json:"recipient"`
	Documents   []string           `json:"documents"`
	Appointment domain.Appointment `json:"appointment"`
}

func (w *Web) handleSuggestAPI(rw http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !w.decodeJSON(rw, r, &req) {
		return
	}
	writeJSON(rw, http.StatusOK, scenario.Suggest(req.Description, w.table))
}

func (w *Web) handleSendAPI(rw http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !w.decodeJSON(rw, r, &req) {
		return
	}

	documents := req.Documents
	if len(documents) == 0 && req.Description != "" {
		documents = scenario.Suggest(req.Description, w.table).Documents
	}

	nreq := notify.Request{
		ClientName: req.ClientName,
		Recipient:  req.Recipient,
		Documents:  documents,
	}
	// Missing prerequisites are reported ahead of a malformed appointment.
	appt, err := domain.ParseAppointment(req.Appointment.Date, req.Appointment.Time, req.Appointment.Location, w.now())
	if err != nil && nreq.Complete() {
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	nreq.Appointment = appt

	d := w.notifier.Send(r.Context(), nreq)
	writeJSON(rw, deliveryStatus(d), d)
}

func (w *Web) handleHealth(rw http.ResponseWriter, r *http.Request) {
	ready := w.notifier.Ready() == nil
	writeJSON(rw, http.StatusOK, map[string]any{
		"status":    "ok",
		"version":   w.version,
		"scenarios": w.table.Len(),
		"transport": w.notifier.TransportName(),
		"ready":     ready,
		"time":      w.now().Format(time.RFC3339),
	})
}

func (w *Web) decodeJSON(rw http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(rw, http.StatusRequestEntityTooLarge, map[string]string{"error": "request body too large"})
			return false
		}
		writeJSON(rw, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}

// deliveryStatus maps a delivery outcome onto an HTTP status code.
func deliveryStatus(d notify.Delivery) int {
	switch d.Status {
	case notify.StatusSent:
		return http.StatusOK
	case notify.StatusSkipped:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(rw http.ResponseWriter, status int, v any) {
	rw.Header().Set("Content-Type", "application/json; charset=utf-8")
	rw.WriteHeader(status)
	_ = json.NewEncoder(rw).Encode(v)
}
