package intent

import (
	"time"

	"github.com/codmetric/codmetricbot/pkg/calc"
	"github.com/codmetric/codmetricbot/pkg/ports"
)

// Evaluator computes the value of a math candidate.
type Evaluator func(raw string) (calc.Number, error)

// Turn is the read-only view of one message handed to rule predicates and producers.
type Turn struct {
	// Text is the input lowercased and trimmed.
	Text string

	// Now is the reference timestamp for time and date replies.
	Now time.Time

	rng      ports.RandomSource
	evaluate Evaluator

	evaluated bool
	value     calc.Number
	evalErr   error
}

// Math evaluates the input at most once per turn and caches the outcome.
func (t *Turn) Math() (calc.Number, error) {
	if !t.evaluated {
		t.value, t.evalErr = t.evaluate(t.Text)
		t.evaluated = true
	}
	return t.value, t.evalErr
}
