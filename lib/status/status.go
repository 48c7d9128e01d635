package status

import (
	"context"
	"fmt"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/samber/lo"
)

// GetStatus classifies the deployments of storage and describes the staged,
// booted and rollback deployments. booted may be nil.
func GetStatus(ctx context.Context, storage Storage, booted *ostree.Deployment) (Deployments, *spec.Host, error) {
	deployments, host, err := getStatus(ctx, storage, booted)
	if err != nil {
		return Deployments{}, nil, fmt.Errorf("computing status: %w", err)
	}
	return deployments, host, nil
}

func getStatus(ctx context.Context, storage Storage, booted *ostree.Deployment) (Deployments, *spec.Host, error) {
	deployments, rollbackQueued, bootOrder := Classify(ctx, storage.Deployments(), booted)

	staged, err := optionalBootEntry(ctx, storage, deployments.Staged)
	if err != nil {
		return Deployments{}, nil, fmt.Errorf("staged deployment: %w", err)
	}
	bootedEntry, err := optionalBootEntry(ctx, storage, booted)
	if err != nil {
		return Deployments{}, nil, fmt.Errorf("booted deployment: %w", err)
	}
	rollback, err := optionalBootEntry(ctx, storage, deployments.Rollback)
	if err != nil {
		return Deployments{}, nil, fmt.Errorf("rollback deployment: %w", err)
	}

	hostSpec := spec.HostSpec{BootOrder: bootOrder}
	// the staged image is the next desired state and wins over the running one
	for _, entry := range []*spec.BootEntry{staged, bootedEntry} {
		if entry != nil && entry.Image != nil {
			image := entry.Image.Image
			hostSpec.Image = &image
			break
		}
	}

	host := spec.NewHost(hostSpec)
	host.Status = spec.HostStatus{
		Staged:         staged,
		Booted:         bootedEntry,
		Rollback:       rollback,
		RollbackQueued: rollbackQueued,
	}
	if bootedEntry != nil && bootedEntry.Image != nil {
		ty := spec.HostTypeBootcHost
		host.Status.Type = &ty
	}
	return deployments, host, nil
}

func optionalBootEntry(ctx context.Context, storage Storage, d *ostree.Deployment) (*spec.BootEntry, error) {
	if d == nil {
		return nil, nil
	}
	return BootEntryFromDeployment(ctx, storage, d)
}

// GetStatusRequireBooted is GetStatus for the booted deployment of storage.
// It fails with ErrNotBooted when there is none.
func GetStatusRequireBooted(ctx context.Context, storage Storage) (*ostree.Deployment, Deployments, *spec.Host, error) {
	booted := storage.BootedDeployment()
	if booted == nil {
		return nil, Deployments{}, nil, ErrNotBooted
	}
	deployments, host, err := GetStatus(ctx, storage, booted)
	if err != nil {
		return nil, Deployments{}, nil, err
	}
	return booted, deployments, host, nil
}

// QueryImage returns the image deployed for entry, or nil if entry has no image
// or no ostree identity. The image is read from the store its deployment
// declares, or the sysroot default.
func QueryImage(ctx context.Context, storage Storage, entry *spec.BootEntry) (*images.ImageState, error) {
	if entry == nil || entry.Image == nil || entry.Ostree == nil {
		return nil, nil
	}

	imageStore := storage.Store()
	d, ok := lo.Find(storage.Deployments(), func(d *ostree.Deployment) bool {
		return d.Checksum() == entry.Ostree.Checksum && d.DeploySerial() == int(entry.Ostree.DeploySerial)
	})
	if ok {
		var err error
		if imageStore, err = imageStoreFor(storage, d); err != nil {
			return nil, err
		}
	}
	return imageStore.QueryImageCommit(ctx, entry.Ostree.Checksum)
}
