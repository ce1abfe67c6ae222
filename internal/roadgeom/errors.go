package roadgeom

import "errors"

// Error kinds shared by the road geometry packages. Callers wrap these
// with context and test for them with errors.Is.
var (
	// ErrConfiguration reports invalid or contradictory geometry parameters.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrInvalidInput reports malformed control point sets or label vectors.
	ErrInvalidInput = errors.New("invalid input")

	// ErrOutOfRange reports a projection angle outside the valid domain.
	ErrOutOfRange = errors.New("out of range")
)
