package images

import (
	"fmt"
	"strings"
)

// Transport is a containers-image transport understood by ostree-container
type Transport int

const (
	TransportRegistry Transport = iota
	TransportOciDir
	TransportOciArchive
	TransportDockerArchive
	TransportContainerStorage
	TransportDir
)

// String returns the transport prefix as written in an image reference.
// Every transport except the registry ends with ':'.
func (t Transport) String() string {
	switch t {
	case TransportRegistry:
		return "docker://"
	case TransportOciDir:
		return "oci:"
	case TransportOciArchive:
		return "oci-archive:"
	case TransportDockerArchive:
		return "docker-archive:"
	case TransportContainerStorage:
		return "containers-storage:"
	case TransportDir:
		return "dir:"
	default:
		return fmt.Sprintf("transport(%d):", int(t))
	}
}

// ParseTransport parses a transport name such as "registry" or "oci-archive"
func ParseTransport(s string) (Transport, error) {
	switch s {
	case "registry", "docker":
		return TransportRegistry, nil
	case "oci":
		return TransportOciDir, nil
	case "oci-archive":
		return TransportOciArchive, nil
	case "docker-archive":
		return TransportDockerArchive, nil
	case "containers-storage":
		return TransportContainerStorage, nil
	case "dir":
		return TransportDir, nil
	default:
		return 0, fmt.Errorf("%w: unknown transport %q", ErrParse, s)
	}
}

// ImageReference is a transport plus a transport-specific name
type ImageReference struct {
	Transport Transport
	Name      string
}

// ParseImageReference parses "<transport>:<name>", e.g. "registry:quay.io/example/os:latest"
// or "docker://quay.io/example/os:latest".
func ParseImageReference(s string) (ImageReference, error) {
	transportName, name, ok := strings.Cut(s, ":")
	if !ok {
		return ImageReference{}, fmt.Errorf("%w: missing ':' in %q", ErrParse, s)
	}
	transport, err := ParseTransport(transportName)
	if err != nil {
		return ImageReference{}, err
	}
	if name == "" {
		return ImageReference{}, fmt.Errorf("%w: empty name in %q", ErrParse, s)
	}
	if transportName == "docker" {
		stripped, ok := strings.CutPrefix(name, "//")
		if !ok {
			return ImageReference{}, fmt.Errorf("%w: missing // in docker:// in %q", ErrParse, s)
		}
		name = stripped
	}
	return ImageReference{Transport: transport, Name: name}, nil
}

func (r ImageReference) String() string {
	return r.Transport.String() + r.Name
}

// SignatureKind is the verification mode of an ostree image reference
type SignatureKind int

const (
	// SignatureOstreeRemote verifies with the keys of an ostree remote
	SignatureOstreeRemote SignatureKind = iota
	// SignatureContainerPolicy verifies with containers-policy.json(5)
	SignatureContainerPolicy
	// SignatureContainerPolicyAllowInsecure performs no verification
	SignatureContainerPolicyAllowInsecure
)

// SignatureSource describes how an image's signature is verified
type SignatureSource struct {
	Kind   SignatureKind
	Remote string // only set for SignatureOstreeRemote
}

// OstreeImageReference is a container image reference combined with a signature
// verification mode, as stored in ostree deployment origins.
type OstreeImageReference struct {
	SigVerify SignatureSource
	ImgRef    ImageReference
}

// ParseOstreeImageReference parses the ostree-container reference forms:
//   - ostree-image-signed:<imgref>
//   - ostree-unverified-image:<imgref>
//   - ostree-unverified-registry:<name>
//   - ostree-remote-image:<remote>:<imgref>
//   - ostree-remote-registry:<remote>:<name>
func ParseOstreeImageReference(s string) (OstreeImageReference, error) {
	scheme, rest, ok := strings.Cut(s, ":")
	if !ok {
		return OstreeImageReference{}, fmt.Errorf("%w: missing ':' in %q", ErrParse, s)
	}

	var sig SignatureSource
	switch scheme {
	case "ostree-image-signed":
		sig = SignatureSource{Kind: SignatureContainerPolicy}
	case "ostree-unverified-image":
		sig = SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}
	case "ostree-unverified-registry":
		sig = SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}
		rest = "registry:" + rest
	case "ostree-remote-registry", "ostree-remote-image":
		remote, imgref, ok := strings.Cut(rest, ":")
		if !ok {
			return OstreeImageReference{}, fmt.Errorf("%w: missing second ':' in %q", ErrParse, s)
		}
		if remote == "" {
			return OstreeImageReference{}, fmt.Errorf("%w: empty remote name in %q", ErrParse, s)
		}
		sig = SignatureSource{Kind: SignatureOstreeRemote, Remote: remote}
		rest = imgref
		if scheme == "ostree-remote-registry" {
			rest = "registry:" + rest
		}
	default:
		return OstreeImageReference{}, fmt.Errorf("%w: invalid ostree image reference scheme %q", ErrParse, scheme)
	}

	imgref, err := ParseImageReference(rest)
	if err != nil {
		return OstreeImageReference{}, err
	}
	return OstreeImageReference{SigVerify: sig, ImgRef: imgref}, nil
}

func (r OstreeImageReference) String() string {
	switch r.SigVerify.Kind {
	case SignatureContainerPolicyAllowInsecure:
		// allow-insecure is the effective default for registry images, so use the short form
		if r.ImgRef.Transport == TransportRegistry {
			return "ostree-unverified-registry:" + r.ImgRef.Name
		}
		return "ostree-unverified-image:" + r.ImgRef.String()
	case SignatureContainerPolicy:
		return "ostree-image-signed:" + r.ImgRef.String()
	default:
		return fmt.Sprintf("ostree-remote-image:%s:%s", r.SigVerify.Remote, r.ImgRef)
	}
}
