// Package apperror classifies domain errors into the kinds the transport layer
// understands. Domain packages declare their sentinels with New and callers
// compare them with errors.Is as usual.
package apperror

import (
	"errors"

	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
)

type Kind int

const (
	Unknown Kind = iota
	Validation
	NotFound
	Conflict
	Precondition
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	case Precondition:
		return "precondition"
	default:
		return "unknown"
	}
}

// Error is a domain error carrying its kind.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New returns a sentinel error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf reports the kind of the first classified error in err's chain.
// validator.ValidationErrors count as Validation.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return Validation
	}
	return Unknown
}

func IsValidation(err error) bool   { return KindOf(err) == Validation }
func IsNotFound(err error) bool     { return KindOf(err) == NotFound }
func IsConflict(err error) bool     { return KindOf(err) == Conflict }
func IsPrecondition(err error) bool { return KindOf(err) == Precondition }
