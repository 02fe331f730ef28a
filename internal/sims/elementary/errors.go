package elementary

import (
	"errors"
	"fmt"
)

// Kind categorizes engine failures.
type Kind string

const (
	// KindOutOfRange reports a neighborhood code, output value, rule code or
	// history index outside its bounds.
	KindOutOfRange Kind = "OUT_OF_RANGE"

	// KindInvalidGeneration reports a generation whose width the engine
	// cannot hold.
	KindInvalidGeneration Kind = "INVALID_GENERATION"

	// KindAllocation reports that the history or a working generation could
	// not be allocated.
	KindAllocation Kind = "ALLOCATION_FAILURE"
)

// Error is the typed failure returned by the engine.
type Error struct {
	Kind    Kind
	Op      string
	Message string
}

// Sentinels for use with errors.Is.
var (
	ErrOutOfRange        = &Error{Kind: KindOutOfRange}
	ErrInvalidGeneration = &Error{Kind: KindInvalidGeneration}
	ErrAllocation        = &Error{Kind: KindAllocation}
)

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return string(e.Kind)
	}
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsOutOfRange reports whether err is an out-of-range failure.
func IsOutOfRange(err error) bool { return kindOf(err) == KindOutOfRange }

// IsInvalidGeneration reports whether err is an invalid generation failure.
func IsInvalidGeneration(err error) bool { return kindOf(err) == KindInvalidGeneration }

// IsAllocationFailure reports whether err is an allocation failure.
func IsAllocationFailure(err error) bool { return kindOf(err) == KindAllocation }

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
