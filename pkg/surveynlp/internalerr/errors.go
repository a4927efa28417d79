package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrSchemaMismatch marks an input file whose columns do not match the expected schema.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrLengthMismatch marks engine output that is not index aligned with its input.
	ErrLengthMismatch = errors.New("length mismatch")
)
