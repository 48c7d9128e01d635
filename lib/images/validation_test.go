package images

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNormalizedRef(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		// Valid images with full reference
		{"docker.io/library/alpine:latest", "docker.io/library/alpine:latest", false},
		{"ghcr.io/myorg/myapp:v1.0.0", "ghcr.io/myorg/myapp:v1.0.0", false},

		// Shorthand (gets expanded)
		{"alpine", "docker.io/library/alpine:latest", false},
		{"alpine:3.18", "docker.io/library/alpine:3.18", false},
		{"nginx", "docker.io/library/nginx:latest", false},
		{"nginx:alpine", "docker.io/library/nginx:alpine", false},

		// Without tag (gets :latest added)
		{"docker.io/library/alpine", "docker.io/library/alpine:latest", false},
		{"ubuntu", "docker.io/library/ubuntu:latest", false},

		// Digest references (must be valid 64-char hex SHA256)
		{"alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", "docker.io/library/alpine@sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef", false},
		{"docker.io/library/alpine@sha256:fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210", "docker.io/library/alpine@sha256:fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210", false},

		// Invalid
		{"", "", true},
		{"invalid::", "", true},
		{"has spaces", "", true},
		{"UPPERCASE", "", true}, // Repository names must be lowercase
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := ParseNormalizedRef(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidName)
			} else {
				require.NoError(t, err)
				require.Equal(t, tt.expected, result.String())
			}
		})
	}
}

func TestIsDigestPinned(t *testing.T) {
	const sha = "sha256:0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"
	tests := []struct {
		name string
		ref  ImageReference
		want bool
	}{
		{"tagged registry", ImageReference{Transport: TransportRegistry, Name: "alpine:3.18"}, false},
		{"default tag", ImageReference{Transport: TransportRegistry, Name: "alpine"}, false},
		{"digest registry", ImageReference{Transport: TransportRegistry, Name: "alpine@" + sha}, true},
		{"tag and digest", ImageReference{Transport: TransportRegistry, Name: "quay.io/example/os:latest@" + sha}, true},
		{"invalid name", ImageReference{Transport: TransportRegistry, Name: "UPPER@" + sha}, false},
		{"other transport", ImageReference{Transport: TransportOciDir, Name: "/var/lib/img@" + sha}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsDigestPinned(tt.ref))
		})
	}
}

func TestLayoutTag(t *testing.T) {
	tests := []struct {
		name     string
		ref      ImageReference
		expected string
	}{
		{"registry short name", ImageReference{TransportRegistry, "alpine"}, "docker.io/library/alpine:latest"},
		{"registry full name", ImageReference{TransportRegistry, "quay.io/example/os:42"}, "quay.io/example/os:42"},
		{"registry invalid name", ImageReference{TransportRegistry, "Not Valid"}, "registry-Not-Valid"},
		{"oci dir", ImageReference{TransportOciDir, "/var/lib/images/os"}, "oci-var-lib-images-os"},
		{"oci archive with tag", ImageReference{TransportOciArchive, "/tmp/os.tar:latest"}, "oci-archive-tmp-os-tar-latest"},
		{"containers storage", ImageReference{TransportContainerStorage, "localhost/os"}, "containers-storage-localhost-os"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, LayoutTag(tt.ref))
		})
	}

	t.Run("registry spellings share a tag", func(t *testing.T) {
		require.Equal(t,
			LayoutTag(ImageReference{TransportRegistry, "alpine"}),
			LayoutTag(ImageReference{TransportRegistry, "docker.io/library/alpine:latest"}))
	})
}
