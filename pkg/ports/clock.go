package ports

import (
	"math/rand/v2"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in the local time zone.
var SystemClock Clock = ClockFunc(time.Now)

// RandomSource picks an index in [0, n).
// Implementations must be safe for concurrent use if the dispatcher is shared.
type RandomSource interface {
	IntN(n int) int
}

// RandomFunc adapts a function to the RandomSource interface.
type RandomFunc func(n int) int

func (f RandomFunc) IntN(n int) int { return f(n) }

// GlobalRandom uses the process-wide math/rand/v2 source.
var GlobalRandom RandomSource = RandomFunc(rand.IntN)
