package civiltime

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an [Error].
type Kind int

const (
	// KindRange reports a value outside representable bounds, an overflow
	// under [Reject], an ambiguous time under [DisambiguationReject], a
	// mixed-sign duration or incompatible calendars and time zones.
	KindRange Kind = iota + 1
	// KindType reports a malformed input shape or a missing required option.
	KindType
	// KindSyntax reports an unparseable ISO 8601 string.
	KindSyntax
)

func (k Kind) String() string {
	switch k {
	case KindRange:
		return "range"
	case KindType:
		return "type"
	case KindSyntax:
		return "syntax"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors for use with errors.Is.
var (
	ErrRange  = errors.New("civiltime: range error")
	ErrType   = errors.New("civiltime: type error")
	ErrSyntax = errors.New("civiltime: syntax error")
)

// Error is the error type returned by every operation of this package.
// It matches the sentinel of its kind under errors.Is.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Op == "" {
		return "civiltime: " + msg
	}
	return "civiltime: " + e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindRange:
		return target == ErrRange
	case KindType:
		return target == ErrType
	case KindSyntax:
		return target == ErrSyntax
	}
	return false
}

func newError(kind Kind, op, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)})
}

func rangeErrorf(op, format string, args ...any) error {
	return newError(KindRange, op, format, args...)
}

func typeErrorf(op, format string, args ...any) error {
	return newError(KindType, op, format, args...)
}

func syntaxErrorf(op, format string, args ...any) error {
	return newError(KindSyntax, op, format, args...)
}

// withOp returns err with its Op set when it is an *Error without one.
func withOp(err error, op string) error {
	var e *Error
	if errors.As(err, &e) && e.Op == "" {
		e.Op = op
	}
	return err
}

// wrapRangef records cause under a range error.
func wrapRangef(cause error, op, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: KindRange, Op: op, Msg: fmt.Sprintf(format, args...), Err: cause})
}
