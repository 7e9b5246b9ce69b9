package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRuleMatch EventType = "rule_match"
	EventEvaluate  EventType = "evaluate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// RuleEvent is emitted once per message, for the rule that produced the reply.
type RuleEvent struct {
	EventBase
	Rule   string        `json:"rule"`
	Index  int           `json:"index"`
	Signal Signal        `json:"signal,omitempty"`
	Took   time.Duration `json:"took"`
}

// EvalOutcome classifies a math evaluation attempt.
type EvalOutcome string

const (
	EvalValue   EvalOutcome = "value"
	EvalNotMath EvalOutcome = "not_math"
	EvalFault   EvalOutcome = "fault"
)

// EvalEvent is emitted whenever the math rule runs the evaluator.
type EvalEvent struct {
	EventBase
	Outcome EvalOutcome `json:"outcome"`
	Result  string      `json:"result,omitempty"`
	Err     error       `json:"-"`
}

// Hooks defines callbacks for dispatcher observability.
type Hooks struct {
	OnRuleMatch func(context.Context, *RuleEvent)
	OnEvaluate  func(context.Context, *EvalEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnRuleMatch: chain(h.OnRuleMatch, other.OnRuleMatch),
		OnEvaluate:  chain(h.OnEvaluate, other.OnEvaluate),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
