// Package apperr defines the error kinds shared by the chat pipeline and the
// HTTP surface.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unexpected Kind = iota
	// Validation is a missing or malformed required field.
	Validation
	// InvalidArgument is a well-formed value outside the accepted set.
	InvalidArgument
	// RecognitionEmpty means the speech service produced no transcript.
	RecognitionEmpty
	// Generation covers generation/translation service errors and timeouts.
	Generation
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case InvalidArgument:
		return "invalid_argument"
	case RecognitionEmpty:
		return "recognition_empty"
	case Generation:
		return "generation"
	default:
		return "unexpected"
	}
}

// Error carries a Kind alongside the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error. A nil err is replaced by a message naming the kind.
func E(kind Kind, op string, err error) error {
	if err == nil {
		err = errors.New(kind.String())
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf is E with a formatted message.
func Errorf(kind Kind, op, format string, args ...any) error {
	return &Error{Kind: kind, Op: op, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// Unexpected when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unexpected
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps a kind to the status code used at the route boundary.
func HTTPStatus(k Kind) int {
	switch k {
	case Validation, InvalidArgument, RecognitionEmpty:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
