package status

import (
	"context"
	"fmt"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/onkernel/bootc-status/lib/store"
	"github.com/opencontainers/go-digest"
)

// fakeImageStore returns canned image metadata keyed by deployment checksum
type fakeImageStore struct {
	statuses map[string]store.CachedImageStatus
	// missing lists commits without a cached image
	missing  map[string]bool
	labels   map[string]string
	err      error
	calls    int
}

func (s *fakeImageStore) Spec() spec.Store {
	return spec.StoreOstreeContainer
}

func (s *fakeImageStore) ImageStatus(_ context.Context, d *ostree.Deployment, imgref images.OstreeImageReference) (store.CachedImageStatus, error) {
	s.calls++
	if s.err != nil {
		return store.CachedImageStatus{}, s.err
	}
	if status, ok := s.statuses[d.Checksum()]; ok {
		return status, nil
	}
	return store.CachedImageStatus{Image: &spec.ImageStatus{Image: images.ToSpec(imgref)}}, nil
}

func (s *fakeImageStore) QueryImageCommit(_ context.Context, checksum string) (*images.ImageState, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.missing[checksum] {
		return nil, fmt.Errorf("image for commit %s: %w", checksum, images.ErrNotFound)
	}
	labels := s.labels
	if labels == nil {
		labels = map[string]string{}
	}
	return &images.ImageState{ManifestDigest: digest.Digest("sha256:" + checksum), Labels: labels}, nil
}

// fakeStorage serves a fixed deployment list
type fakeStorage struct {
	deployments []*ostree.Deployment
	booted      *ostree.Deployment
	store       *fakeImageStore
	// declared is returned for deployments naming the ostree-container backend; defaults to store
	declared    *fakeImageStore
}

func newFakeStorage(booted *ostree.Deployment, deployments ...*ostree.Deployment) *fakeStorage {
	return &fakeStorage{deployments: deployments, booted: booted, store: &fakeImageStore{}}
}

func (s *fakeStorage) Deployments() []*ostree.Deployment { return s.deployments }
func (s *fakeStorage) BootedDeployment() *ostree.Deployment { return s.booted }
func (s *fakeStorage) Store() store.ContainerImageStore { return s.store }

func (s *fakeStorage) StoreFor(d *ostree.Deployment) (store.ContainerImageStore, error) {
	backend, ok := d.Backend()
	if !ok {
		return nil, nil
	}
	if backend != store.BackendOstreeContainer {
		return nil, ostree.ErrParse
	}
	if s.declared != nil {
		return s.declared, nil
	}
	return s.store, nil
}

func mustOrigin(contents string) *ostree.Origin {
	origin, err := ostree.ParseOrigin([]byte(contents))
	if err != nil {
		panic(err)
	}
	return origin
}

func imageOriginFor(imgref string) *ostree.Origin {
	return mustOrigin("[origin]\ncontainer-image-reference=" + imgref + "\n")
}
