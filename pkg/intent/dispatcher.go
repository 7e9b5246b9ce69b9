package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/codmetric/codmetricbot/pkg/calc"
	"github.com/codmetric/codmetricbot/pkg/domain"
	"github.com/codmetric/codmetricbot/pkg/ports"
)

// Dispatcher maps one raw message to exactly one reply using the ordered rule table.
// It holds no conversation state and is safe for concurrent use as long as
// its RandomSource is.
type Dispatcher struct {
	clock    ports.Clock
	rng      ports.RandomSource
	evaluate Evaluator
	hooks    domain.Hooks
	logger   *slog.Logger
}

// Option defines a functional option for configuring the Dispatcher.
type Option func(*Dispatcher)

// WithClock sets the time source used by Handle.
func WithClock(c ports.Clock) Option {
	return func(d *Dispatcher) {
		d.clock = c
	}
}

// WithRandom sets the source used to pick among canned replies.
func WithRandom(r ports.RandomSource) Option {
	return func(d *Dispatcher) {
		d.rng = r
	}
}

// WithEvaluator replaces the math evaluator (default: calc.Evaluate).
func WithEvaluator(e Evaluator) Option {
	return func(d *Dispatcher) {
		d.evaluate = e
	}
}

// WithHooks registers observability hooks.
func WithHooks(h domain.Hooks) Option {
	return func(d *Dispatcher) {
		d.hooks = d.hooks.Merge(h)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// New creates a Dispatcher with the built-in rule table.
func New(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		clock:    ports.SystemClock,
		rng:      ports.GlobalRandom,
		evaluate: calc.Evaluate,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return d
}

// Rules returns the rule names in priority order.
func Rules() []string {
	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	return names
}

// Handle answers raw using the configured clock for time and date replies.
func (d *Dispatcher) Handle(ctx context.Context, raw string) domain.Reply {
	return d.respond(ctx, raw, d.clock.Now())
}

// Respond answers raw as of now. It never fails: input no rule understands
// gets the fallback reply.
func (d *Dispatcher) Respond(raw string, now time.Time) domain.Reply {
	return d.respond(context.Background(), raw, now)
}

func (d *Dispatcher) respond(ctx context.Context, raw string, now time.Time) (reply domain.Reply) {
	start := time.Now()
	turn := &Turn{
		Text:     strings.ToLower(strings.TrimSpace(raw)),
		Now:      now,
		rng:      d.rng,
		evaluate: d.evaluate,
	}

	last := len(rules) - 1
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("rule panicked, using fallback", "panic", r)
			reply = domain.Reply{Response: fallbackText, Rule: rules[last].Name}
		}
	}()

	for i, rule := range rules {
		matched := rule.Match(turn)
		d.reportEval(ctx, turn, rule.Name)
		if !matched {
			continue
		}

		reply = domain.Reply{
			Response: rule.Produce(turn),
			Signal:   rule.Signal,
			Rule:     rule.Name,
		}
		d.logger.Debug("rule matched", "rule", rule.Name, "index", i)
		if d.hooks.OnRuleMatch != nil {
			d.hooks.OnRuleMatch(ctx, &domain.RuleEvent{
				EventBase: domain.EventBase{Timestamp: now, Type: domain.EventRuleMatch},
				Rule:      rule.Name,
				Index:     i,
				Signal:    rule.Signal,
				Took:      time.Since(start),
			})
		}
		return reply
	}

	// Unreachable while the table ends with the catch-all fallback.
	return domain.Reply{Response: fallbackText, Rule: rules[last].Name}
}

// reportEval emits the evaluation outcome right after the math rule runs.
func (d *Dispatcher) reportEval(ctx context.Context, t *Turn, rule string) {
	if rule != "math" || !t.evaluated {
		return
	}

	ev := &domain.EvalEvent{
		EventBase: domain.EventBase{Timestamp: t.Now, Type: domain.EventEvaluate},
		Err:       t.evalErr,
	}
	switch {
	case t.evalErr == nil:
		ev.Outcome = domain.EvalValue
		ev.Result = t.value.String()
	case errors.Is(t.evalErr, domain.ErrArithmetic):
		ev.Outcome = domain.EvalFault
		d.logger.Debug("arithmetic fault", "input", t.Text, "err", t.evalErr)
	default:
		ev.Outcome = domain.EvalNotMath
	}

	if d.hooks.OnEvaluate != nil {
		d.hooks.OnEvaluate(ctx, ev)
	}
}
