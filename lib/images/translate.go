package images

import (
	"strings"

	"github.com/onkernel/bootc-status/lib/spec"
)

// transportName returns the canonical transport tag used in spec.ImageReference.
// The registry is always "registry"; other transports drop their trailing ':'.
func transportName(t Transport) string {
	if t == TransportRegistry {
		return "registry"
	}
	s := t.String()
	if i := strings.LastIndex(s, ":"); i >= 0 {
		s = s[:i]
	}
	return s
}

func signatureToSpec(sig SignatureSource) *spec.ImageSignature {
	switch sig.Kind {
	case SignatureOstreeRemote:
		return spec.OstreeRemote(sig.Remote)
	case SignatureContainerPolicy:
		return spec.ContainerPolicy()
	default:
		return spec.Insecure()
	}
}

func signatureFromSpec(sig *spec.ImageSignature) SignatureSource {
	if sig == nil {
		return SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}
	}
	switch sig.Kind {
	case spec.SignatureOstreeRemote:
		return SignatureSource{Kind: SignatureOstreeRemote, Remote: sig.Remote}
	case spec.SignatureContainerPolicy:
		return SignatureSource{Kind: SignatureContainerPolicy}
	default:
		return SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}
	}
}

// ToSpec converts an ostree image reference into the tool's reference model.
// An allow-insecure reference has no declared signature.
func ToSpec(ref OstreeImageReference) spec.ImageReference {
	var sig *spec.ImageSignature
	if ref.SigVerify.Kind != SignatureContainerPolicyAllowInsecure {
		sig = signatureToSpec(ref.SigVerify)
	}
	return spec.ImageReference{
		Image:     ref.ImgRef.Name,
		Transport: transportName(ref.ImgRef.Transport),
		Signature: sig,
	}
}

// FromSpec converts the tool's reference model back into an ostree image reference.
// A missing signature and an explicit Insecure signature both become allow-insecure,
// so Insecure does not survive a round trip through ToSpec.
func FromSpec(ref spec.ImageReference) (OstreeImageReference, error) {
	transport, err := ParseTransport(ref.Transport)
	if err != nil {
		return OstreeImageReference{}, err
	}
	return OstreeImageReference{
		SigVerify: signatureFromSpec(ref.Signature),
		ImgRef: ImageReference{
			Transport: transport,
			Name:      ref.Image,
		},
	}, nil
}
