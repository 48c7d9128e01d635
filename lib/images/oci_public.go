package images

import (
	"context"
	"fmt"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go/v1"
)

// OCIClient is the public view of the local OCI layout used by the image store
type OCIClient struct {
	client *ociClient
}

// NewOCIClient creates a client for the layout at cacheDir. The layout does not
// need to exist until an image is written.
func NewOCIClient(cacheDir string) *OCIClient {
	return &OCIClient{client: newOCIClient(cacheDir)}
}

// LookupImage returns the state of the image tagged tag, or ErrNotFound.
func (c *OCIClient) LookupImage(ctx context.Context, tag string) (*ImageState, error) {
	return c.client.extractImageState(ctx, tag)
}

// ImageForCommit returns the state of the image deployed as the given ostree commit.
func (c *OCIClient) ImageForCommit(ctx context.Context, checksum string) (*ImageState, error) {
	state, err := c.client.extractImageState(ctx, checksum)
	if err != nil {
		return nil, fmt.Errorf("image for commit %s: %w", checksum, err)
	}
	return state, nil
}

// PutImage records an image config under tag and returns its manifest digest.
func (c *OCIClient) PutImage(ctx context.Context, tag string, config v1.Image) (digest.Digest, error) {
	return c.client.putImage(ctx, tag, config)
}
