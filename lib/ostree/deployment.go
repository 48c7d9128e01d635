package ostree

import "fmt"

// Deployment is a read-only handle on one bootable deployment.
// Two handles are equal when they name the same stateroot, commit and serial.
type Deployment struct {
	osname   string
	checksum string
	serial   int
	index    int
	staged   bool
	pinned   bool
	origin   *Origin
}

// DeploymentOption configures a Deployment built with NewDeployment
type DeploymentOption func(*Deployment)

// Staged marks the deployment as staged for the next boot.
func Staged() DeploymentOption {
	return func(d *Deployment) { d.staged = true }
}

// Pinned marks the deployment as pinned.
func Pinned() DeploymentOption {
	return func(d *Deployment) { d.pinned = true }
}

// WithOrigin attaches an origin keyfile.
func WithOrigin(origin *Origin) DeploymentOption {
	return func(d *Deployment) { d.origin = origin }
}

// NewDeployment creates a deployment handle.
func NewDeployment(osname, checksum string, serial, index int, opts ...DeploymentOption) *Deployment {
	d := &Deployment{
		osname:   osname,
		checksum: checksum,
		serial:   serial,
		index:    index,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OSName returns the stateroot the deployment belongs to.
func (d *Deployment) OSName() string { return d.osname }

// Checksum returns the deployed commit.
func (d *Deployment) Checksum() string { return d.checksum }

// DeploySerial distinguishes multiple deployments of the same commit.
func (d *Deployment) DeploySerial() int { return d.serial }

// Index is the position of the deployment in bootloader order; lower boots first.
func (d *Deployment) Index() int { return d.index }

// IsStaged reports whether the deployment is staged for the next boot.
func (d *Deployment) IsStaged() bool { return d.staged }

// IsPinned reports whether the deployment is protected from garbage collection.
func (d *Deployment) IsPinned() bool { return d.pinned }

// Origin returns the origin keyfile, or nil if the deployment has none.
func (d *Deployment) Origin() *Origin { return d.origin }

// Backend returns the image store backend declared in the origin, if any.
func (d *Deployment) Backend() (string, bool) {
	if d.origin == nil {
		return "", false
	}
	return d.origin.OptionalString(OriginBootcGroup, OriginBootcBackendKey)
}

// Equal reports whether d and other refer to the same deployment.
func (d *Deployment) Equal(other *Deployment) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.osname == other.osname && d.checksum == other.checksum && d.serial == other.serial
}

func (d *Deployment) String() string {
	return fmt.Sprintf("%s/%s.%d", d.osname, d.checksum, d.serial)
}
