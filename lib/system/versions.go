package system

import (
	"fmt"
	"slices"
)

// FormatVersion is the schema version of the status report
type FormatVersion uint32

const (
	// FormatV0 is the initial status report format
	FormatV0 FormatVersion = 0
)

var (
	// DefaultFormatVersion is used when no format version is requested
	DefaultFormatVersion = FormatV0

	// SupportedFormatVersions lists all supported status report format versions
	SupportedFormatVersions = []FormatVersion{
		FormatV0,
		// Add future versions here
	}
)

// ResolveFormatVersion returns the requested format version, or the default
// when none was requested. Unknown versions fail with ErrUnsupportedVersion.
func ResolveFormatVersion(requested *uint32) (FormatVersion, error) {
	if requested == nil {
		return DefaultFormatVersion, nil
	}
	v := FormatVersion(*requested)
	if !slices.Contains(SupportedFormatVersions, v) {
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedVersion, *requested)
	}
	return v, nil
}
