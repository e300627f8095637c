package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrMissingColumn = errors.New("required column not found")
	ErrNoRecords     = errors.New("no valid records")
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidConfig = errors.New("invalid configuration")
)
