package status

import (
	"context"
	"fmt"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/onkernel/bootc-status/lib/store"
)

// Storage is the view of an opened sysroot needed to compute host status.
// *store.Storage implements it.
type Storage interface {
	Deployments() []*ostree.Deployment
	BootedDeployment() *ostree.Deployment
	// Store returns the sysroot-wide default image store.
	Store() store.ContainerImageStore
	// StoreFor returns the image store declared by d, or nil if it declares none.
	StoreFor(d *ostree.Deployment) (store.ContainerImageStore, error)
}

// Origin groups and keys written by tools that layer local changes on top of a
// deployment. Such deployments cannot be described by an image reference alone.
var (
	localModificationGroups = []string{"packages", "overrides", "modules"}
	localModificationKeys   = []string{"unconfigured-state", "override-commit"}
)

func hasLocalModifications(origin *ostree.Origin) bool {
	for _, group := range localModificationGroups {
		if origin.HasGroup(group) {
			return true
		}
	}
	for _, key := range localModificationKeys {
		if origin.HasKey(ostree.OriginGroup, key) {
			return true
		}
	}
	return false
}

// imageOrigin returns the container image a deployment was created from, if any.
func imageOrigin(origin *ostree.Origin) (*images.OstreeImageReference, error) {
	v, ok := origin.OptionalString(ostree.OriginGroup, ostree.OriginContainerImageKey)
	if !ok {
		return nil, nil
	}
	ref, err := images.ParseOstreeImageReference(v)
	if err != nil {
		return nil, fmt.Errorf("load container image from origin: %w", err)
	}
	return &ref, nil
}

// imageStoreFor returns the store declared by d, else the sysroot default.
func imageStoreFor(storage Storage, d *ostree.Deployment) (store.ContainerImageStore, error) {
	imageStore, err := storage.StoreFor(d)
	if err != nil {
		return nil, err
	}
	if imageStore == nil {
		return storage.Store(), nil
	}
	return imageStore, nil
}

// BootEntryFromDeployment describes one deployment. An origin with local
// modifications is reported as incompatible and never carries an image.
func BootEntryFromDeployment(ctx context.Context, storage Storage, d *ostree.Deployment) (*spec.BootEntry, error) {
	entry, err := bootEntryFromDeployment(ctx, storage, d)
	if err != nil {
		return nil, fmt.Errorf("reading deployment metadata: %w", err)
	}
	return entry, nil
}

func bootEntryFromDeployment(ctx context.Context, storage Storage, d *ostree.Deployment) (*spec.BootEntry, error) {
	entry := &spec.BootEntry{
		Pinned: d.IsPinned(),
		Ostree: &spec.BootEntryOstree{
			Checksum:     d.Checksum(),
			DeploySerial: deploySerial(d),
		},
	}

	origin := d.Origin()
	if origin == nil {
		return entry, nil
	}
	if hasLocalModifications(origin) {
		entry.Incompatible = true
		return entry, nil
	}

	imgref, err := imageOrigin(origin)
	if err != nil {
		return nil, err
	}
	if imgref == nil {
		return entry, nil
	}

	imageStore, err := imageStoreFor(storage, d)
	if err != nil {
		return nil, err
	}
	cached, err := imageStore.ImageStatus(ctx, d, *imgref)
	if err != nil {
		return nil, err
	}

	storeSpec := imageStore.Spec()
	entry.Store = &storeSpec
	entry.Image = cached.Image
	entry.CachedUpdate = cached.CachedUpdate
	return entry, nil
}

func deploySerial(d *ostree.Deployment) uint32 {
	serial := d.DeploySerial()
	if serial < 0 {
		panic(fmt.Sprintf("deployment %s has negative deploy serial %d", d, serial))
	}
	return uint32(serial)
}
