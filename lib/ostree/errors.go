package ostree

import "errors"

var (
	// ErrParse is returned for malformed origin keyfiles, bootloader entries and deployment paths
	ErrParse = errors.New("invalid ostree metadata")

	// ErrBootedNotFound is returned when the kernel command line names a deployment
	// that is not present in the sysroot
	ErrBootedNotFound = errors.New("booted deployment not found")
)
