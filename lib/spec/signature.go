package spec

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidSignature is returned when an encoded signature policy is not recognized
var ErrInvalidSignature = errors.New("invalid image signature")

// SignatureKind is the tag of an ImageSignature
type SignatureKind string

const (
	SignatureOstreeRemote    SignatureKind = "ostreeRemote"
	SignatureContainerPolicy SignatureKind = "containerPolicy"
	SignatureInsecure        SignatureKind = "insecure"
)

// ImageSignature is the signature verification policy for an image.
// Exactly one of OstreeRemote(name), ContainerPolicy or Insecure.
//
// Encoded as {"ostreeRemote": "<name>"}, "containerPolicy" or "insecure".
type ImageSignature struct {
	Kind   SignatureKind
	Remote string // only set for SignatureOstreeRemote
}

// OstreeRemote verifies the image with the signing keys of an ostree remote
func OstreeRemote(name string) *ImageSignature {
	return &ImageSignature{Kind: SignatureOstreeRemote, Remote: name}
}

// ContainerPolicy verifies the image with the containers-policy.json(5) policy
func ContainerPolicy() *ImageSignature {
	return &ImageSignature{Kind: SignatureContainerPolicy}
}

// Insecure performs no signature verification
func Insecure() *ImageSignature {
	return &ImageSignature{Kind: SignatureInsecure}
}

func (s ImageSignature) String() string {
	if s.Kind == SignatureOstreeRemote {
		return fmt.Sprintf("%s(%s)", s.Kind, s.Remote)
	}
	return string(s.Kind)
}

func (s ImageSignature) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case SignatureOstreeRemote:
		return json.Marshal(map[string]string{string(SignatureOstreeRemote): s.Remote})
	case SignatureContainerPolicy, SignatureInsecure:
		return json.Marshal(string(s.Kind))
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidSignature, s.Kind)
	}
}

func (s *ImageSignature) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		switch SignatureKind(tag) {
		case SignatureContainerPolicy, SignatureInsecure:
			*s = ImageSignature{Kind: SignatureKind(tag)}
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrInvalidSignature, tag)
		}
	}

	var tagged map[string]string
	if err := json.Unmarshal(data, &tagged); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, data)
	}
	remote, ok := tagged[string(SignatureOstreeRemote)]
	if !ok || len(tagged) != 1 {
		return fmt.Errorf("%w: %s", ErrInvalidSignature, data)
	}
	*s = ImageSignature{Kind: SignatureOstreeRemote, Remote: remote}
	return nil
}
