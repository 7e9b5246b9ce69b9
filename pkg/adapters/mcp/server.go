package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/codmetric/codmetricbot/internal/logging"
	"github.com/codmetric/codmetricbot/pkg/calc"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
	"github.com/codmetric/codmetricbot/pkg/runner"
	"github.com/codmetric/codmetricbot/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
)

// HelpURI is the resource exposing the bot's command summary.
const HelpURI = "codmetric://help"

// ChatResponse aligns with the HTTP ChatResponse schema.
type ChatResponse struct {
	SessionID string `json:"session_id" jsonschema_description:"Conversation to pass back on the next call"`
	Response  string `json:"response" jsonschema_description:"The bot reply"`
	Rule      string `json:"rule" jsonschema_description:"Name of the rule that produced the reply"`
	Signal    string `json:"signal,omitempty" jsonschema_description:"Side effect requested by the reply"`
	SavedAs   string `json:"saved_as,omitempty" jsonschema_description:"Transcript name when the reply saved the chat"`
	Notice    string `json:"notice,omitempty" jsonschema_description:"System message about the side effect"`
}

// EvaluateResponse is the result of the evaluate tool.
type EvaluateResponse struct {
	Result string `json:"result" jsonschema_description:"The value, formatted as the bot prints it"`
	Type   string `json:"type" jsonschema_description:"int or float"`
}

type chatArgs struct {
	Message   string `mapstructure:"message"`
	SessionID string `mapstructure:"session_id"`
}

type evaluateArgs struct {
	Expression string `mapstructure:"expression"`
}

// Server exposes the chatbot as an MCP server.
type Server struct {
	responder session.Responder
	sessions  *session.Manager
	mcpServer *server.MCPServer
	logger    *slog.Logger
	maxInput  int
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMaxInputSize sets the configured input size limit.
func WithMaxInputSize(n int) Option {
	return func(s *Server) {
		s.maxInput = n
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(responder session.Responder, sessions *session.Manager, version string, opts ...Option) *Server {
	s := &Server{
		responder: responder,
		sessions:  sessions,
		mcpServer: server.NewMCPServer("codmetricbot-mcp", strings.TrimSpace(version)),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: chat
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send one message to CodmetricBot and get its reply. Omit session_id to start a new conversation."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The user message")),
		mcp.WithString("session_id", mcp.Description("Conversation ID returned by a previous call (optional)")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))

	// TOOL: evaluate
	evalTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an arithmetic expression with + - * / // % ** ^ and x for multiplication."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("The expression, e.g. 2^10 or 3.5 x 4")),
		mcp.WithOutputSchema[EvaluateResponse](),
	)
	s.mcpServer.AddTool(evalTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: list_rules
	s.mcpServer.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the reply rules in the order they are tried."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText(strings.Join(intent.Rules(), "\n")), nil
	})
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (ChatResponse, error) {
	var args chatArgs
	if err := mapstructure.Decode(raw, &args); err != nil {
		return ChatResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	clean, err := runner.SanitizeInputLimit(args.Message, runner.ResolveMaxInputSize(s.maxInput))
	if err != nil {
		s.logger.Warn("MCP chat: input rejected", "err", err, "size", len(args.Message))
		return ChatResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	if strings.TrimSpace(clean) == "" {
		return ChatResponse{}, domain.ErrEmptyMessage
	}

	id, out, err := s.sessions.Chat(ctx, s.responder, args.SessionID, clean)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat failed: %w", err)
	}

	return ChatResponse{
		SessionID: id,
		Response:  out.Reply.Response,
		Rule:      out.Reply.Rule,
		Signal:    string(out.Reply.Signal),
		SavedAs:   out.SavedAs,
		Notice:    out.Notice,
	}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, raw map[string]any) (EvaluateResponse, error) {
	var args evaluateArgs
	if err := mapstructure.Decode(raw, &args); err != nil {
		return EvaluateResponse{}, fmt.Errorf("invalid arguments: %w", err)
	}

	clean, err := runner.SanitizeInputLimit(args.Expression, runner.ResolveMaxInputSize(s.maxInput))
	if err != nil {
		return EvaluateResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	v, err := calc.Evaluate(clean)
	if err != nil {
		if !errors.Is(err, domain.ErrArithmetic) {
			s.logger.Debug("MCP evaluate: not math", "input", clean)
		}
		return EvaluateResponse{}, err
	}

	typ := "float"
	if v.IsInt() {
		typ = "int"
	}
	return EvaluateResponse{Result: v.String(), Type: typ}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: codmetric://help
	s.mcpServer.AddResource(mcp.NewResource(HelpURI, "CodmetricBot commands",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      HelpURI,
				MIMEType: "text/plain",
				Text:     intent.HelpText,
			},
		}, nil
	})
}
