package images

import (
	"time"

	"github.com/opencontainers/go-digest"
)

// Label keys read from image configs.
const (
	LabelVersion = "org.opencontainers.image.version"
	LabelCreated = "org.opencontainers.image.created"
)

// ImageState is the metadata recorded for an image in the local layout
type ImageState struct {
	ManifestDigest digest.Digest     // Digest of the image manifest (sha256:...)
	Created        *time.Time        // Config creation time, if set
	Labels         map[string]string // Config labels, never nil
	Architecture   string
	OS             string
}

// Version returns the image version label, if present.
func (s *ImageState) Version() *string {
	if v, ok := s.Labels[LabelVersion]; ok {
		return &v
	}
	return nil
}
