// Package store opens the sysroot and the container image stores backing its deployments.
package store

import (
	"context"
	"fmt"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/paths"
	"github.com/onkernel/bootc-status/lib/spec"
)

// BackendOstreeContainer is the origin value selecting the ostree container store
const BackendOstreeContainer = "ostree-container"

// CachedImageStatus is the deployed image of a deployment and, when one has been
// fetched, a newer image for the same reference.
type CachedImageStatus struct {
	Image        *spec.ImageStatus
	CachedUpdate *spec.ImageStatus
}

// ContainerImageStore provides image metadata for image-based deployments
type ContainerImageStore interface {
	// Spec identifies the store in the host status.
	Spec() spec.Store

	// ImageStatus returns the deployed and cached image of d, which deploys imgref.
	ImageStatus(ctx context.Context, d *ostree.Deployment, imgref images.OstreeImageReference) (CachedImageStatus, error)

	// QueryImageCommit returns the image deployed as the given commit.
	QueryImageCommit(ctx context.Context, checksum string) (*images.ImageState, error)
}

// Storage is an opened sysroot together with its default image store
type Storage struct {
	sysroot *ostree.Sysroot
	oci     *images.OCIClient
	store   ContainerImageStore
}

// Open loads the sysroot described by p.
func Open(ctx context.Context, p *paths.Paths) (*Storage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sysroot := ostree.NewSysroot(p)
	if err := sysroot.Load(ctx); err != nil {
		return nil, fmt.Errorf("load sysroot: %w", err)
	}
	return New(sysroot, images.NewOCIClient(p.OCICacheLayout())), nil
}

// New wraps an already loaded sysroot.
func New(sysroot *ostree.Sysroot, oci *images.OCIClient) *Storage {
	return &Storage{
		sysroot: sysroot,
		oci:     oci,
		store:   NewOstreeContainerStore(oci),
	}
}

// Store returns the sysroot-wide default image store.
func (s *Storage) Store() ContainerImageStore {
	return s.store
}

// Deployments returns all deployments in bootloader order.
func (s *Storage) Deployments() []*ostree.Deployment {
	return s.sysroot.Deployments()
}

// BootedDeployment returns the booted deployment, or nil.
func (s *Storage) BootedDeployment() *ostree.Deployment {
	return s.sysroot.BootedDeployment()
}

// StoreFor returns the image store declared by d, or nil when d declares none.
func (s *Storage) StoreFor(d *ostree.Deployment) (ContainerImageStore, error) {
	backend, ok := d.Backend()
	if !ok {
		return nil, nil
	}
	switch backend {
	case BackendOstreeContainer:
		return NewOstreeContainerStore(s.oci), nil
	default:
		return nil, fmt.Errorf("%w: unknown image store backend %q", ostree.ErrParse, backend)
	}
}
