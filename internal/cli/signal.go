package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/codmetric/codmetricbot/internal/logging"
)

// ExitError reports that a command stopped because the process was signalled.
// Code follows the shell convention of 128 plus the signal number.
type ExitError struct {
	Signal os.Signal
	Code   int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("stopped by %s", e.Signal)
}

// SignalContext is cancelled on SIGINT or SIGTERM and remembers which one arrived.
type SignalContext struct {
	context.Context

	cancel context.CancelFunc
	sigCh  chan os.Signal
	stop   sync.Once

	mu  sync.Mutex
	sig os.Signal
}

// NewSignalContext starts watching for SIGINT and SIGTERM until Stop is called
// or parent is done. A nil logger discards the shutdown notice.
func NewSignalContext(parent context.Context, logger *slog.Logger) *SignalContext {
	if logger == nil {
		logger = logging.NewNop()
	}
	ctx, cancel := context.WithCancel(parent)
	sc := &SignalContext{
		Context: ctx,
		cancel:  cancel,
		sigCh:   make(chan os.Signal, 1),
	}

	signal.Notify(sc.sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sc.sigCh:
			sc.mu.Lock()
			sc.sig = sig
			sc.mu.Unlock()
			logger.Info("Received signal, shutting down", "signal", sig.String())
			sc.cancel()
		case <-ctx.Done():
		}
		sc.stop.Do(func() { signal.Stop(sc.sigCh) })
	}()
	return sc
}

// Stop cancels the context and stops signal delivery.
func (sc *SignalContext) Stop() {
	sc.cancel()
	sc.stop.Do(func() { signal.Stop(sc.sigCh) })
}

// Signal returns the signal that cancelled the context, or nil.
func (sc *SignalContext) Signal() os.Signal {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.sig
}

// Result turns the outcome of a command run under sc into its final error:
// an *ExitError when a signal stopped it, err otherwise.
func (sc *SignalContext) Result(err error) error {
	sig := sc.Signal()
	if sig == nil {
		return err
	}
	code := 1
	if s, ok := sig.(syscall.Signal); ok {
		code = 128 + int(s)
	}
	return &ExitError{Signal: sig, Code: code}
}
