package ops

import "errors"

// Error variables for maintenance operations.
var (
	ErrTickleValueMissing = errors.New("@tickle requires a value")
	ErrDoneValueMissing   = errors.New("@done requires a value for repeated items")
	ErrRepeatValueMissing = errors.New("@repeat requires a value")
	ErrInvalidInterval    = errors.New("invalid repeat interval")
	ErrInvalidDate        = errors.New("invalid date")
)
