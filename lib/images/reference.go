package images

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/distribution/reference"
)

// NormalizedRef is a validated and normalized registry image reference.
// It can be either a tagged reference (e.g., "docker.io/library/alpine:latest")
// or a digest reference (e.g., "docker.io/library/alpine@sha256:abc123...").
type NormalizedRef struct {
	raw      string
	isDigest bool
}

// ParseNormalizedRef validates and normalizes a registry image name.
// Examples:
//   - "alpine" -> "docker.io/library/alpine:latest"
//   - "quay.io/fedora/fedora-coreos" -> "quay.io/fedora/fedora-coreos:latest"
//   - "alpine@sha256:abc..." -> "docker.io/library/alpine@sha256:abc..."
func ParseNormalizedRef(s string) (*NormalizedRef, error) {
	named, err := reference.ParseNormalizedNamed(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidName, err)
	}

	if canonical, ok := named.(reference.Canonical); ok {
		return &NormalizedRef{raw: canonical.String(), isDigest: true}, nil
	}

	// Otherwise it's a tagged reference - ensure tag (add :latest if missing)
	return &NormalizedRef{raw: reference.TagNameOnly(named).String()}, nil
}

// String returns the full normalized reference.
func (r *NormalizedRef) String() string {
	return r.raw
}

// IsDigest returns true if this reference contains a digest (@sha256:...).
func (r *NormalizedRef) IsDigest() bool {
	return r.isDigest
}

// IsDigestPinned reports whether ref is a registry reference naming a manifest
// digest. Such a reference always resolves to the same image.
func IsDigestPinned(ref ImageReference) bool {
	if ref.Transport != TransportRegistry {
		return false
	}
	normalized, err := ParseNormalizedRef(ref.Name)
	return err == nil && normalized.IsDigest()
}

var unsafeTagChars = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// LayoutTag returns the OCI layout reference name under which the most recently
// fetched manifest for ref is cached.
// Registry references are keyed by their normalized name so that "alpine" and
// "docker.io/library/alpine:latest" share an entry; other transports are keyed by
// a sanitized form of the transport and name.
// Example: registry "quay.io/fedora/fedora-coreos" -> "quay.io/fedora/fedora-coreos:latest"
func LayoutTag(ref ImageReference) string {
	if ref.Transport == TransportRegistry {
		if normalized, err := ParseNormalizedRef(ref.Name); err == nil {
			return normalized.String()
		}
	}
	sanitized := unsafeTagChars.ReplaceAllString(transportName(ref.Transport)+"-"+ref.Name, "-")
	return strings.Trim(sanitized, "-")
}
