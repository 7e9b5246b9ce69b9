package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/intent"
)

// Prompt is printed before every read in text mode.
const Prompt = "You: "

// TextHandler implements the interactive line-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	maxInput  int
	inputChan chan inputResult
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the renderer used for multi-line replies.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerMaxInput sets the configured input size limit (see ResolveMaxInputSize).
func WithTextHandlerMaxInput(limit int) TextHandlerOption {
	return func(h *TextHandler) {
		h.maxInput = limit
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor ctx cancellation.
func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')

		if text != "" {
			select {
			case h.inputChan <- inputResult{text: text}:
			case <-h.done:
				return
			}
		}

		if err != nil {
			if err != io.EOF {
				select {
				case h.inputChan <- inputResult{err: err}:
				case <-h.done:
				}
			}
			return
		}
	}
}

// Close stops the background reader once its current read returns.
func (h *TextHandler) Close() error {
	h.closeOnce.Do(func() { close(h.done) })
	return nil
}

// Output prints the reply prefixed with the bot name.
// Multi-line replies go through the renderer when one is configured.
func (h *TextHandler) Output(ctx context.Context, reply domain.Reply) error {
	text := reply.Response
	if h.Renderer != nil && strings.Contains(text, "\n") {
		if rendered, err := h.Renderer(text); err == nil {
			text = "\n" + strings.Trim(rendered, "\n")
		}
	}
	_, err := fmt.Fprintf(h.Writer, "%s: %s\n\n", intent.BotName, strings.TrimRight(text, "\n"))
	return err
}

// Input prompts and returns the next non-blank, sanitized line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}

			text := strings.TrimRight(res.text, "\r\n")
			if strings.TrimSpace(text) == "" {
				continue
			}

			clean, err := SanitizeInputLimit(text, ResolveMaxInputSize(h.maxInput))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}

// SystemOutput prints a meta-message on its own line.
func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n\n", msg)
	return err
}
