package status

import "errors"

var (
	// ErrNotBooted is returned when the host did not boot an ostree deployment
	ErrNotBooted = errors.New("not booted into an ostree deployment")

	// ErrInvalidFormat is returned for unknown output formats
	ErrInvalidFormat = errors.New("invalid output format")
)
