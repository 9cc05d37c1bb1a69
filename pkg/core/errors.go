package core

import (
	"errors"
	"fmt"
)

// Precondition failures. None of them are recoverable mid-run.
var (
	ErrDimensionMismatch     = errors.New("knn: vector dimension mismatch")
	ErrInvalidK              = errors.New("knn: k must be in [1, N]")
	ErrInvalidPartitionCount = errors.New("knn: partition count must be positive")
	ErrEmptyVote             = errors.New("knn: no labels to vote on")
	ErrEmptyTrainingSet      = errors.New("knn: empty training set")
	ErrLabelCount            = errors.New("knn: feature rows and labels differ in length")
)

// Error wraps a sentinel with the operation that raised it.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError attaches op to err. A nil err stays nil.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Errorf wraps a sentinel with op and a formatted detail message.
func Errorf(op string, sentinel error, format string, args ...any) error {
	return &Error{Op: op, Err: fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)}
}
