package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/spec"
)

// OstreeContainerStore reads image metadata recorded in the local OCI layout.
// Deployed images are tagged with their commit checksum; the newest fetched
// manifest of a reference is tagged with images.LayoutTag. Digest-pinned
// references never have a cached update.
type OstreeContainerStore struct {
	oci *images.OCIClient
}

// NewOstreeContainerStore creates a store reading from oci.
func NewOstreeContainerStore(oci *images.OCIClient) *OstreeContainerStore {
	return &OstreeContainerStore{oci: oci}
}

func (s *OstreeContainerStore) Spec() spec.Store {
	return spec.StoreOstreeContainer
}

func (s *OstreeContainerStore) QueryImageCommit(ctx context.Context, checksum string) (*images.ImageState, error) {
	return s.oci.ImageForCommit(ctx, checksum)
}

func (s *OstreeContainerStore) ImageStatus(ctx context.Context, d *ostree.Deployment, imgref images.OstreeImageReference) (CachedImageStatus, error) {
	log := logger.FromContext(ctx)
	ref := images.ToSpec(imgref)

	deployed, err := s.oci.ImageForCommit(ctx, d.Checksum())
	if err != nil && !errors.Is(err, images.ErrNotFound) {
		return CachedImageStatus{}, fmt.Errorf("query deployed image: %w", err)
	}

	var status CachedImageStatus
	if deployed != nil {
		status.Image = imageStatus(ctx, ref, deployed)
	} else {
		log.DebugContext(ctx, "no image metadata for deployment", "deployment", d.String(), "image", ref.Image)
		status.Image = &spec.ImageStatus{Image: ref}
	}

	if images.IsDigestPinned(imgref.ImgRef) {
		return status, nil
	}

	update, err := s.oci.LookupImage(ctx, images.LayoutTag(imgref.ImgRef))
	switch {
	case errors.Is(err, images.ErrNotFound):
	case err != nil:
		return CachedImageStatus{}, fmt.Errorf("query cached update: %w", err)
	case deployed == nil || update.ManifestDigest != deployed.ManifestDigest:
		status.CachedUpdate = imageStatus(ctx, ref, update)
	}
	return status, nil
}

func imageStatus(ctx context.Context, ref spec.ImageReference, state *images.ImageState) *spec.ImageStatus {
	return &spec.ImageStatus{
		Image:       ref,
		Version:     state.Version(),
		Timestamp:   state.Timestamp(ctx),
		ImageDigest: state.ManifestDigest.String(),
	}
}
