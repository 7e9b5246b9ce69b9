package domain

import (
	"errors"
	"fmt"
)

// ErrNotMath is returned when an input is not a safe, well-formed arithmetic expression.
// It covers both gatekeeper rejections and parse failures.
var ErrNotMath = errors.New("not a math expression")

// ErrArithmetic is returned when a valid expression faults while being computed.
var ErrArithmetic = errors.New("arithmetic error")

var (
	// ErrDivisionByZero is an arithmetic fault raised by /, // and % with a zero divisor.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrArithmetic)

	// ErrOverflow is an arithmetic fault raised when a result leaves the representable range.
	ErrOverflow = fmt.Errorf("%w: numerical result out of range", ErrArithmetic)

	// ErrDomain is an arithmetic fault raised when a result would not be a real number.
	ErrDomain = fmt.Errorf("%w: math domain error", ErrArithmetic)
)

// ErrSessionNotFound is returned when a session ID cannot be found.
var ErrSessionNotFound = errors.New("session not found")

// ErrTranscriptNotFound is returned when a stored transcript cannot be found.
var ErrTranscriptNotFound = errors.New("transcript not found")

// ErrEmptyTranscript is returned when persisting a transcript with no content.
var ErrEmptyTranscript = errors.New("nothing to save yet")

// ErrEmptyMessage is returned when a chat message is blank.
var ErrEmptyMessage = errors.New("message is empty")
