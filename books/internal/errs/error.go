package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrLastInGenre = errors.New("last book in genre")
	ErrConflict    = errors.New("concurrent modification")
)

// ReasonError carries the client facing reason of a failure next to its kind.
type ReasonError struct {
	Kind   error
	Reason string
}

func (e *ReasonError) Error() string {
	return e.Reason
}

func (e *ReasonError) Unwrap() error {
	return e.Kind
}

func Reasonf(kind error, format string, args ...any) error {
	return &ReasonError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
