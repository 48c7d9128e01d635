// Package paths provides centralized path construction for the sysroot layout.
//
// Directory structure (relative to the sysroot):
//
//	/
//	├── boot/loader/entries/
//	│   └── ostree-{n}-{osname}.conf
//	├── ostree/
//	│   ├── boot.{n}/{osname}/{bootcsum}/{bootserial} -> ../../../deploy/{osname}/deploy/{checksum}.{serial}
//	│   ├── deploy/{osname}/deploy/
//	│   │   ├── {checksum}.{serial}/
//	│   │   └── {checksum}.{serial}.origin
//	│   └── repo/bootc/oci/
//	│       ├── index.json
//	│       └── blobs/sha256/...
//	├── run/
//	│   ├── ostree-booted
//	│   └── ostree/staged-deployment
//	└── proc/cmdline
package paths

import (
	"fmt"
	"path/filepath"
)

// Paths provides typed path construction for the sysroot.
type Paths struct {
	root     string
	ociCache string
}

// New creates a new Paths instance rooted at root.
func New(root string) *Paths {
	return &Paths{root: root}
}

// WithOCICache returns a copy of p whose image cache lives at dir instead of the
// sysroot default. An empty dir keeps the default.
func (p *Paths) WithOCICache(dir string) *Paths {
	cp := *p
	cp.ociCache = dir
	return &cp
}

// Root returns the sysroot directory.
func (p *Paths) Root() string {
	return p.root
}

// BootLoaderEntries returns the BLS entries directory, relative to the root.
func (p *Paths) BootLoaderEntries() string {
	return "boot/loader/entries"
}

// DeployRoot returns the directory holding one subdirectory per stateroot, relative to the root.
func (p *Paths) DeployRoot() string {
	return "ostree/deploy"
}

// StaterootDeployDir returns the deployment directory of a stateroot, relative to the root.
func (p *Paths) StaterootDeployDir(osname string) string {
	return filepath.Join(p.DeployRoot(), osname, "deploy")
}

// DeploymentDir returns the checkout directory of a deployment, relative to the root.
func (p *Paths) DeploymentDir(osname, checksum string, serial int) string {
	return filepath.Join(p.StaterootDeployDir(osname), fmt.Sprintf("%s.%d", checksum, serial))
}

// OriginFile returns the origin keyfile of a deployment, relative to the root.
func (p *Paths) OriginFile(osname, checksum string, serial int) string {
	return p.DeploymentDir(osname, checksum, serial) + ".origin"
}

// StagedDeployment returns the marker written while a deployment is staged.
func (p *Paths) StagedDeployment() string {
	return filepath.Join(p.root, "run/ostree/staged-deployment")
}

// OstreeBooted returns the marker present when the host booted an ostree deployment.
func (p *Paths) OstreeBooted() string {
	return filepath.Join(p.root, "run/ostree-booted")
}

// ProcCmdline returns the kernel command line.
func (p *Paths) ProcCmdline() string {
	return filepath.Join(p.root, "proc/cmdline")
}

// OCICacheLayout returns the OCI layout holding deployed and fetched image metadata.
func (p *Paths) OCICacheLayout() string {
	if p.ociCache != "" {
		return p.ociCache
	}
	return filepath.Join(p.root, "ostree/repo/bootc/oci")
}

// OCICacheIndex returns the index.json of the image cache layout.
func (p *Paths) OCICacheIndex() string {
	return filepath.Join(p.OCICacheLayout(), "index.json")
}
