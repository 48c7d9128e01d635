package ostree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleOrigin = `# written by bootc
[origin]
container-image-reference=ostree-unverified-registry:quay.io/example/os:latest

[bootc]
backend=ostree-container

[libostree-transient]
pinned=true
`

func TestParseOrigin(t *testing.T) {
	origin, err := ParseOrigin([]byte(sampleOrigin))
	require.NoError(t, err)

	assert.True(t, origin.HasGroup("origin"))
	assert.True(t, origin.HasGroup("bootc"))
	assert.False(t, origin.HasGroup("packages"))

	assert.True(t, origin.HasKey("origin", OriginContainerImageKey))
	assert.False(t, origin.HasKey("origin", "refspec"))
	assert.False(t, origin.HasKey("nope", "refspec"))

	imgref, ok := origin.OptionalString(OriginGroup, OriginContainerImageKey)
	require.True(t, ok)
	assert.Equal(t, "ostree-unverified-registry:quay.io/example/os:latest", imgref)

	_, ok = origin.OptionalString(OriginGroup, "refspec")
	assert.False(t, ok)

	pinned, err := origin.OptionalBool(OriginTransientGroup, OriginPinnedKey)
	require.NoError(t, err)
	assert.True(t, pinned)
}

func TestOriginOptionalBool(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		want    bool
		wantErr bool
	}{
		{"absent", "[origin]\nrefspec=fedora:fedora/x86_64/coreos/stable\n", false, false},
		{"false", "[libostree-transient]\npinned=false\n", false, false},
		{"true", "[libostree-transient]\npinned=true\n", true, false},
		{"malformed", "[libostree-transient]\npinned=maybe\n", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origin, err := ParseOrigin([]byte(tt.origin))
			require.NoError(t, err)

			got, err := origin.OptionalBool(OriginTransientGroup, OriginPinnedKey)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOriginMalformed(t *testing.T) {
	_, err := ParseOrigin([]byte("[origin\nkey=value\n"))
	require.ErrorIs(t, err, ErrParse)
}

func TestDeploymentBackend(t *testing.T) {
	origin, err := ParseOrigin([]byte(sampleOrigin))
	require.NoError(t, err)

	backend, ok := NewDeployment("fedora", "abc", 0, 0, WithOrigin(origin)).Backend()
	require.True(t, ok)
	assert.Equal(t, "ostree-container", backend)

	_, ok = NewDeployment("fedora", "abc", 0, 0).Backend()
	assert.False(t, ok)
}

func TestDeploymentEqual(t *testing.T) {
	a := NewDeployment("fedora", "abc", 0, 1)
	tests := []struct {
		name  string
		other *Deployment
		want  bool
	}{
		{"same identity different index", NewDeployment("fedora", "abc", 0, 3, Staged()), true},
		{"different serial", NewDeployment("fedora", "abc", 1, 1), false},
		{"different checksum", NewDeployment("fedora", "abd", 0, 1), false},
		{"different stateroot", NewDeployment("rhel", "abc", 0, 1), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.Equal(tt.other))
		})
	}
	assert.Equal(t, "fedora/abc.0", a.String())
}
