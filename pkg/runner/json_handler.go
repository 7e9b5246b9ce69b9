package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// JSONRequest is one line of input in JSON mode.
type JSONRequest struct {
	Message string `json:"message"`
}

// JSONEvent is one line of output in JSON mode.
// Exactly one of Response or System is set.
type JSONEvent struct {
	Response string        `json:"response,omitempty"`
	Signal   domain.Signal `json:"signal,omitempty"`
	Rule     string        `json:"rule,omitempty"`
	System   string        `json:"system,omitempty"`
	Error    string        `json:"error,omitempty"`
}

// JSONHandler implements the IOHandler interface for JSON-Lines communication.
// Input lines may be {"message": "..."}, a JSON string, or plain text.
type JSONHandler struct {
	Reader *bufio.Reader

	mu       sync.Mutex
	encoder  *json.Encoder
	maxInput int
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		encoder: enc,
	}
}

// SetMaxInput sets the configured input size limit (see ResolveMaxInputSize).
func (h *JSONHandler) SetMaxInput(limit int) {
	h.maxInput = limit
}

func (h *JSONHandler) emit(ev JSONEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.encoder.Encode(ev)
}

func (h *JSONHandler) Output(ctx context.Context, reply domain.Reply) error {
	return h.emit(JSONEvent{
		Response: reply.Response,
		Signal:   reply.Signal,
		Rule:     reply.Rule,
	})
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.emit(JSONEvent{System: msg})
}

// Input reads lines until one carries a non-blank, valid message.
// Invalid lines are answered with an error event instead of ending the session.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		line, err := h.Reader.ReadString('\n')
		if err != nil && (err != io.EOF || strings.TrimSpace(line) == "") {
			return "", err
		}

		msg := decodeMessage(strings.TrimSpace(line))
		if strings.TrimSpace(msg) == "" {
			continue
		}

		clean, serr := SanitizeInputLimit(msg, ResolveMaxInputSize(h.maxInput))
		if serr != nil {
			if eerr := h.emit(JSONEvent{Error: fmt.Sprintf("invalid input: %v", serr)}); eerr != nil {
				return "", eerr
			}
			continue
		}
		return clean, nil
	}
}

func decodeMessage(line string) string {
	var req JSONRequest
	if err := json.Unmarshal([]byte(line), &req); err == nil {
		return req.Message
	}

	var s string
	if err := json.Unmarshal([]byte(line), &s); err == nil {
		return s
	}

	return line
}
