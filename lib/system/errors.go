package system

import "errors"

var (
	// ErrUnsupportedVersion is returned when a status format version is not supported
	ErrUnsupportedVersion = errors.New("unsupported format version")
)
