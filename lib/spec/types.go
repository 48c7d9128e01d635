// Package spec defines the host status model reported by bootc-status.
// Field names and nesting are part of the output format and must stay stable.
package spec

import "time"

const (
	// APIVersion is the resource group/version of a Host document
	APIVersion = "org.containers.bootc/v1alpha1"

	// Kind is the resource kind of a Host document
	Kind = "BootcHost"

	// HostName is the fixed metadata name of the host resource
	HostName = "host"
)

// BootOrder is the inferred intent for which deployment boots next
type BootOrder string

const (
	BootOrderDefault  BootOrder = "default"
	BootOrderRollback BootOrder = "rollback"
)

// HostType marks hosts managed by image-based deployment
type HostType string

const (
	HostTypeBootcHost HostType = "bootcHost"
)

// Store identifies the backend holding a deployment's container image
type Store string

const (
	StoreOstreeContainer Store = "ostreeContainer"
)

// ImageReference is the tool's own addressing of a container image
type ImageReference struct {
	Image     string          `json:"image"`               // Opaque image address (e.g., quay.io/example/os:latest)
	Transport string          `json:"transport"`           // Canonical transport tag (registry, oci, oci-archive, ...)
	Signature *ImageSignature `json:"signature,omitempty"` // nil means no declared signature policy
}

// ImageStatus describes a container image as cached on the host
type ImageStatus struct {
	Image       ImageReference `json:"image"`
	Version     *string        `json:"version,omitempty"`
	Timestamp   *time.Time     `json:"timestamp,omitempty"`
	ImageDigest string         `json:"imageDigest"`
}

// BootEntryOstree is the identity of the underlying ostree deployment
type BootEntryOstree struct {
	Checksum     string `json:"checksum"`
	DeploySerial uint32 `json:"deploySerial"`
}

// BootEntry is one bootable deployment as seen by the tool
type BootEntry struct {
	Image        *ImageStatus     `json:"image"`
	CachedUpdate *ImageStatus     `json:"cachedUpdate"`
	Incompatible bool             `json:"incompatible"`
	Store        *Store           `json:"store"`
	Pinned       bool             `json:"pinned"`
	Ostree       *BootEntryOstree `json:"ostree"`
}

// HostSpec is the declared intent for the host
type HostSpec struct {
	Image     *ImageReference `json:"image"`
	BootOrder BootOrder       `json:"bootOrder"`
}

// HostStatus is the observed state of the host
type HostStatus struct {
	Staged         *BootEntry `json:"staged"`
	Booted         *BootEntry `json:"booted"`
	Rollback       *BootEntry `json:"rollback"`
	RollbackQueued bool       `json:"rollbackQueued"`
	Type           *HostType  `json:"type"`
}

// ObjectMeta is the minimal resource metadata carried by a Host
type ObjectMeta struct {
	Name string `json:"name,omitempty"`
}

// Host is a point-in-time snapshot of the host's deployments
type Host struct {
	APIVersion string     `json:"apiVersion"`
	Kind       string     `json:"kind"`
	Metadata   ObjectMeta `json:"metadata"`
	Spec       HostSpec   `json:"spec"`
	Status     HostStatus `json:"status"`
}

// NewHost creates a Host document with the given spec and an empty status
func NewHost(spec HostSpec) *Host {
	if spec.BootOrder == "" {
		spec.BootOrder = BootOrderDefault
	}
	return &Host{
		APIVersion: APIVersion,
		Kind:       Kind,
		Metadata:   ObjectMeta{Name: HostName},
		Spec:       spec,
	}
}

// Address returns the image address of the entry, or "" when it has no image
func (e *BootEntry) Address() string {
	if e == nil || e.Image == nil {
		return ""
	}
	return e.Image.Image.Image
}
