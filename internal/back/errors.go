package back

import "errors"

var (
	// ErrInvalidMatch means the match submission was malformed (a brand
	// against itself, a tie flag on a missing brand, …). Nothing was written,
	// the caller should not retry as-is.
	ErrInvalidMatch = errors.New("invalid match")

	// ErrBrandNotFound means an id did not resolve to a brand.
	ErrBrandNotFound = errors.New("brand not found")

	// ErrConflict means a concurrent update was detected. The whole operation
	// is safe to retry from scratch, nothing was committed.
	ErrConflict = errors.New("conflicting concurrent update")
)
