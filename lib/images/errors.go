package images

import "errors"

var (
	// ErrNotFound is returned when an image is not present in the local cache
	ErrNotFound = errors.New("image not found")

	// ErrParse is returned for malformed image references or transports
	ErrParse = errors.New("invalid image reference")

	// ErrInvalidLayout is returned when the cache directory holds something other than an OCI layout
	ErrInvalidLayout = errors.New("invalid oci layout")

	// ErrInvalidName is returned when an image name cannot be normalized
	ErrInvalidName = errors.New("invalid image name")
)
