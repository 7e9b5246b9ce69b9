package observability

import (
	"context"
	"log/slog"

	"github.com/codmetric/codmetricbot/pkg/domain"
)

// LogHooks logs every rule match and evaluation at debug level.
func LogHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnRuleMatch: func(ctx context.Context, e *domain.RuleEvent) {
			logger.DebugContext(ctx, "rule_match",
				"rule", e.Rule,
				"index", e.Index,
				"signal", string(e.Signal),
				"took", e.Took,
			)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvalEvent) {
			attrs := []any{"outcome", string(e.Outcome)}
			if e.Result != "" {
				attrs = append(attrs, "result", e.Result)
			}
			if e.Err != nil {
				attrs = append(attrs, "err", e.Err)
			}
			logger.DebugContext(ctx, "evaluate", attrs...)
		},
	}
}
