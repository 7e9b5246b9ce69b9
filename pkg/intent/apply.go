package intent

import (
	"context"
	"fmt"

	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
)

// Apply performs the side effect requested by reply.Signal on sink.
// For SignalPersistTranscript it returns the name the transcript was stored under.
// Replies without a signal are a no-op.
func Apply(ctx context.Context, reply domain.Reply, sink ports.TranscriptSink) (string, error) {
	switch reply.Signal {
	case domain.SignalNone:
		return "", nil
	case domain.SignalClearTranscript:
		return "", sink.Clear(ctx)
	case domain.SignalPersistTranscript:
		return sink.Persist(ctx)
	case domain.SignalTerminateSession:
		return "", sink.Terminate(ctx)
	default:
		return "", fmt.Errorf("unknown signal %q", reply.Signal)
	}
}
