package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/codmetric/codmetricbot/internal/presentation/tui"
	"github.com/codmetric/codmetricbot/pkg/runner"
	"github.com/codmetric/codmetricbot/pkg/transcript"
)

// ChatOptions configures an interactive conversation.
type ChatOptions struct {
	// JSON switches to NDJSON on In/Out (one request object per line).
	JSON bool

	// Fancy enables the banner and markdown rendering; meant for terminals.
	Fancy bool

	Version string
	In      io.Reader
	Out     io.Writer
}

// RunChat runs one conversation until farewell, end of input or interruption.
// Interruptions are a normal exit.
func RunChat(ctx context.Context, app *App, opts ChatOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	maxInput := runner.ResolveMaxInputSize(app.Config.MaxInputSize)

	var handler runner.IOHandler
	if opts.JSON {
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.SetMaxInput(maxInput)
		handler = h
	} else {
		textOpts := []runner.TextHandlerOption{runner.WithTextHandlerMaxInput(maxInput)}
		if opts.Fancy {
			tui.PrintBanner(opts.Out, opts.Version)
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
		}
		handler = runner.NewTextHandler(opts.In, opts.Out, textOpts...)
	}

	r := runner.NewRunner(
		runner.WithLogger(app.Logger),
		runner.WithResponder(app.Dispatcher),
		runner.WithSession(transcript.NewSession(app.Store, app.Clock)),
		runner.WithInputHandler(handler),
		runner.WithSaveObserver(app.Metrics.ObserveSave),
	)

	return handleExecutionError(r.Run(ctx))
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil // Exit 0 for interruptions
	}
	return err
}
