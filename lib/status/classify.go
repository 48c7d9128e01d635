package status

import (
	"context"
	"slices"

	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/ostree"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/samber/lo"
)

// Deployments is the classification of a sysroot's deployments relative to the
// booted one. The booted deployment itself is never included.
type Deployments struct {
	Staged   *ostree.Deployment
	Rollback *ostree.Deployment
	// Other holds the remaining deployments of the booted stateroot followed
	// by the deployments of all other stateroots.
	Other []*ostree.Deployment
}

// Classify partitions deployments into staged, rollback and other, and reports
// whether the rollback deployment is queued ahead of the booted one.
// Deployments are expected in bootloader order. booted may be nil.
func Classify(ctx context.Context, deployments []*ostree.Deployment, booted *ostree.Deployment) (Deployments, bool, spec.BootOrder) {
	log := logger.FromContext(ctx)

	related, otherRoots := lo.FilterReject(deployments, func(d *ostree.Deployment, _ int) bool {
		return booted == nil || d.OSName() == booted.OSName()
	})

	var result Deployments
	// first staged deployment wins
	if staged, i, ok := lo.FindIndexOf(related, func(d *ostree.Deployment) bool { return d.IsStaged() }); ok {
		result.Staged = staged
		related = slices.Delete(related, i, i+1)
	}
	log.DebugContext(ctx, "classified staged deployment", "staged", deploymentName(result.Staged))

	if booted != nil {
		related = lo.Reject(related, func(d *ostree.Deployment, _ int) bool { return d.Equal(booted) })
	}

	if len(related) > 0 {
		result.Rollback = related[0]
		related = related[1:]
	}

	rollbackQueued := booted != nil && result.Rollback != nil && result.Rollback.Index() < booted.Index()
	bootOrder := spec.BootOrderDefault
	if rollbackQueued {
		bootOrder = spec.BootOrderRollback
	}
	log.DebugContext(ctx, "classified rollback deployment", "rollback", deploymentName(result.Rollback), "rollback_queued", rollbackQueued)

	result.Other = slices.Concat(related, otherRoots)
	return result, rollbackQueued, bootOrder
}

func deploymentName(d *ostree.Deployment) string {
	if d == nil {
		return ""
	}
	return d.String()
}
