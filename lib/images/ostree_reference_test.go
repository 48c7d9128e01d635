package images

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTransport(t *testing.T) {
	tests := []struct {
		input   string
		want    Transport
		wantErr bool
	}{
		{"registry", TransportRegistry, false},
		{"docker", TransportRegistry, false},
		{"oci", TransportOciDir, false},
		{"oci-archive", TransportOciArchive, false},
		{"docker-archive", TransportDockerArchive, false},
		{"containers-storage", TransportContainerStorage, false},
		{"dir", TransportDir, false},
		{"", 0, true},
		{"docker://", 0, true},
		{"ftp", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransport(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseImageReference(t *testing.T) {
	tests := []struct {
		input   string
		want    ImageReference
		wantErr bool
	}{
		{"registry:quay.io/example/os:latest", ImageReference{TransportRegistry, "quay.io/example/os:latest"}, false},
		{"docker://quay.io/example/os:latest", ImageReference{TransportRegistry, "quay.io/example/os:latest"}, false},
		{"oci:/var/lib/os", ImageReference{TransportOciDir, "/var/lib/os"}, false},
		{"oci-archive:/tmp/os.tar:v1", ImageReference{TransportOciArchive, "/tmp/os.tar:v1"}, false},
		{"containers-storage:localhost/os", ImageReference{TransportContainerStorage, "localhost/os"}, false},
		{"docker:quay.io/example/os", ImageReference{}, true},
		{"registry:", ImageReference{}, true},
		{"quay.io/example/os", ImageReference{}, true},
		{"bogus:foo", ImageReference{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseImageReference(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseOstreeImageReference(t *testing.T) {
	tests := []struct {
		input     string
		want      OstreeImageReference
		canonical string
	}{
		{
			input:     "ostree-unverified-registry:quay.io/example/os:latest",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}, ImageReference{TransportRegistry, "quay.io/example/os:latest"}},
			canonical: "ostree-unverified-registry:quay.io/example/os:latest",
		},
		{
			input:     "ostree-unverified-image:registry:quay.io/example/os:latest",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}, ImageReference{TransportRegistry, "quay.io/example/os:latest"}},
			canonical: "ostree-unverified-registry:quay.io/example/os:latest",
		},
		{
			input:     "ostree-unverified-image:oci:/var/lib/os",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureContainerPolicyAllowInsecure}, ImageReference{TransportOciDir, "/var/lib/os"}},
			canonical: "ostree-unverified-image:oci:/var/lib/os",
		},
		{
			input:     "ostree-image-signed:docker://quay.io/example/os",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureContainerPolicy}, ImageReference{TransportRegistry, "quay.io/example/os"}},
			canonical: "ostree-image-signed:docker://quay.io/example/os",
		},
		{
			input:     "ostree-remote-registry:fedora:quay.io/fedora/fedora-coreos:stable",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureOstreeRemote, Remote: "fedora"}, ImageReference{TransportRegistry, "quay.io/fedora/fedora-coreos:stable"}},
			canonical: "ostree-remote-image:fedora:docker://quay.io/fedora/fedora-coreos:stable",
		},
		{
			input:     "ostree-remote-image:fedora:oci-archive:/tmp/os.tar",
			want:      OstreeImageReference{SignatureSource{Kind: SignatureOstreeRemote, Remote: "fedora"}, ImageReference{TransportOciArchive, "/tmp/os.tar"}},
			canonical: "ostree-remote-image:fedora:oci-archive:/tmp/os.tar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOstreeImageReference(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.canonical, got.String())

			reparsed, err := ParseOstreeImageReference(got.String())
			require.NoError(t, err)
			assert.Equal(t, got, reparsed)
		})
	}
}

func TestParseOstreeImageReferenceErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"quay.io/example/os",
		"ostree-signed:registry:quay.io/example/os",
		"ostree-remote-image:fedora",
		"ostree-remote-image::registry:quay.io/example/os",
		"ostree-image-signed:nope:quay.io/example/os",
		"ostree-unverified-registry:",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseOstreeImageReference(input)
			require.ErrorIs(t, err, ErrParse)
		})
	}
}
