package engine

import (
	"errors"
	"fmt"
)

// Error kinds returned by the planner. Every failure wraps exactly one of
// them, so callers branch with errors.Is.
var (
	ErrInvalidStock     = errors.New("invalid stock")
	ErrInvalidPiece     = errors.New("invalid piece")
	ErrPieceTooLong     = errors.New("piece too long")
	ErrEmptyRequest     = errors.New("empty request")
	ErrTooManyPieces    = errors.New("too many pieces")
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// PlanError carries the offending value and, for piece errors, its index in
// the flattened input (-1 otherwise).
type PlanError struct {
	Kind   error
	Index  int
	Value  float64
	Detail string
}

func (e *PlanError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Detail
}

func (e *PlanError) Unwrap() error {
	return e.Kind
}

func stockError(format string, args ...any) error {
	return &PlanError{Kind: ErrInvalidStock, Index: -1, Detail: fmt.Sprintf(format, args...)}
}

func pieceError(kind error, index int, value float64, format string, args ...any) error {
	return &PlanError{Kind: kind, Index: index, Value: value, Detail: fmt.Sprintf(format, args...)}
}

// IsValidationError reports whether err is one of the planner's input
// rejections, as opposed to an internal failure.
func IsValidationError(err error) bool {
	for _, kind := range []error{
		ErrInvalidStock,
		ErrInvalidPiece,
		ErrPieceTooLong,
		ErrEmptyRequest,
		ErrTooManyPieces,
		ErrUnknownAlgorithm,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
