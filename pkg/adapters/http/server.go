package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/calc"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/observability"
	"github.com/codmetric/codmetricbot/pkg/runner"
	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var rawSpec []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load OpenAPI spec: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid OpenAPI spec: %w", err)
	}
	return doc, nil
}

// Server serves the chat API over HTTP.
type Server struct {
	responder session.Responder
	sessions  *session.Manager
	streams   *StreamManager
	metrics   *observability.Metrics
	spec      *openapi3.T
	logger    *slog.Logger
	maxInput  int
	version   string
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics records transcript saves and exposes GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize sets the configured input size limit (see runner.ResolveMaxInputSize).
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates the HTTP handler. It fails if the embedded API document is invalid.
func NewHandler(responder session.Responder, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		responder: responder,
		sessions:  sessions,
		streams:   NewStreamManager(),
		spec:      spec,
		logger:    logging.NewNop(),
		version:   "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Post("/chat", s.Chat)
	r.Post("/evaluate", s.Evaluate)
	r.Get("/transcript", s.GetTranscript)
	r.Get("/transcripts", s.ListTranscripts)
	r.Get("/transcripts/{name}", s.GetSavedTranscript)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/rules", s.ListRules)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	SessionID string        `json:"session_id"`
	Response  string        `json:"response"`
	Rule      string        `json:"rule"`
	Signal    domain.Signal `json:"signal,omitempty"`
	SavedAs   string        `json:"saved_as,omitempty"`
	Notice    string        `json:"notice,omitempty"`
}

// Chat handles the POST /chat request.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("Chat: invalid request body", "err", err)
		return
	}

	msg, ok := s.sanitize(w, body.Message)
	if !ok {
		return
	}
	if strings.TrimSpace(msg) == "" {
		writeError(w, http.StatusBadRequest, domain.ErrEmptyMessage.Error())
		return
	}

	id, out, err := s.sessions.Chat(r.Context(), s.responder, body.SessionID, msg)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "chat failed")
		s.logger.Error("Chat failed", "session_id", id, "err", err)
		return
	}

	if s.metrics != nil && out.Reply.Signal == domain.SignalPersistTranscript {
		s.metrics.ObserveSave(saveResult(out))
	}

	resp := ChatResponse{
		SessionID: id,
		Response:  out.Reply.Response,
		Rule:      out.Reply.Rule,
		Signal:    out.Reply.Signal,
		SavedAs:   out.SavedAs,
		Notice:    out.Notice,
	}
	if data, err := json.Marshal(resp); err == nil {
		s.streams.Broadcast(id, string(data))
	}
	writeJSON(w, http.StatusOK, resp)
}

func saveResult(out session.Outcome) string {
	switch {
	case out.SavedAs != "":
		return "saved"
	case errors.Is(out.SaveErr, domain.ErrEmptyTranscript):
		return "empty"
	default:
		return "failed"
	}
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	expr, ok := s.sanitize(w, body.Expression)
	if !ok {
		return
	}

	v, err := calc.Evaluate(expr)
	if err != nil {
		kind := "not_math"
		if errors.Is(err, domain.ErrArithmetic) {
			kind = "arithmetic"
		}
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error(), "kind": kind})
		return
	}

	typ := "float"
	if v.IsInt() {
		typ = "int"
	}
	writeJSON(w, http.StatusOK, map[string]string{"result": v.String(), "type": typ})
}

// GetTranscript handles the GET /transcript request.
func (s *Server) GetTranscript(w http.ResponseWriter, r *http.Request) {
	var id string
	if err := runtime.BindQueryParameter("form", true, true, "session_id", r.URL.Query(), &id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	lines, err := s.sessions.Transcript(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("GetTranscript failed", "session_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": id,
		"lines":      lines,
	})
}

// ListTranscripts handles the GET /transcripts request.
func (s *Server) ListTranscripts(w http.ResponseWriter, r *http.Request) {
	names, err := s.sessions.Store().List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list transcripts")
		s.logger.Error("ListTranscripts failed", "err", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

// GetSavedTranscript handles the GET /transcripts/{name} request.
func (s *Server) GetSavedTranscript(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	content, err := s.sessions.Store().Load(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrTranscriptNotFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}

// ListRules handles the GET /rules request.
func (s *Server) ListRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"rules": intent.Rules()})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "codmetricbot-http",
		"version":     s.version,
		"api_version": apiVersion,
	})
}

// sanitize applies the input policy shared with the REPL and writes a 400 on rejection.
func (s *Server) sanitize(w http.ResponseWriter, input string) (string, bool) {
	clean, err := runner.SanitizeInputLimit(input, runner.ResolveMaxInputSize(s.maxInput))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		s.logger.Warn("Input rejected", "err", err, "size", len(input))
		return "", false
	}
	return clean, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
