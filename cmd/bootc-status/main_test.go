package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/ghodss/yaml"
	"github.com/onkernel/bootc-status/lib/ostree/ostreetest"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChecksum = "26836632adf6228d64ef07a26fd3efaf177104efd1f341a2cf7909a3e4e2c72c"

func setupSysroot(t *testing.T) {
	t.Helper()
	f := ostreetest.NewFixture(t)
	arg := f.AddDeployment(ostreetest.Deployment{
		OSName: "default", Checksum: testChecksum, Version: 1,
		Origin: ostreetest.ImageOrigin("ostree-unverified-registry:quay.io/example/someimage:latest"),
	})
	f.Boot(arg)

	t.Setenv("SYSROOT", f.Root)
	t.Setenv("IMAGE_CACHE_DIR", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("OTEL_ENABLED", "false")
}

func TestStatusCommand(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		decode func([]byte, any) error
	}{
		{"default is yaml when not a terminal", []string{"bootc-status", "status"}, yaml.Unmarshal},
		{"explicit yaml", []string{"bootc-status", "status", "--format", "yaml"}, yaml.Unmarshal},
		{"json flag", []string{"bootc-status", "status", "--json"}, json.Unmarshal},
		{"format wins over json flag", []string{"bootc-status", "status", "--json", "--format=yaml"}, yaml.Unmarshal},
		{"format version zero", []string{"bootc-status", "status", "--format=json", "--format-version=0"}, json.Unmarshal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupSysroot(t)
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)
			require.Equal(t, 0, code, stderr.String())

			var host spec.Host
			require.NoError(t, tt.decode(stdout.Bytes(), &host))
			require.NotNil(t, host.Status.Booted)
			require.NotNil(t, host.Status.Booted.Image)
			assert.Equal(t, "quay.io/example/someimage:latest", host.Status.Booted.Image.Image.Image)
			require.NotNil(t, host.Status.Type)
			assert.Equal(t, spec.HostTypeBootcHost, *host.Status.Type)
		})
	}
}

func TestStatusCommandErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unsupported format version", []string{"bootc-status", "status", "--format-version=1"}, "unsupported format version"},
		{"invalid format", []string{"bootc-status", "status", "--format=toml"}, "toml"},
		{"unexpected argument", []string{"bootc-status", "status", "extra"}, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupSysroot(t)
			var stdout, stderr bytes.Buffer

			code := run(tt.args, &stdout, &stderr)
			assert.Equal(t, 1, code)
			assert.Empty(t, stdout.String())
			assert.Contains(t, stderr.String(), "error: ")
			assert.Contains(t, stderr.String(), tt.wantErr)
		})
	}
}

func TestStatusNotBootedViaOstree(t *testing.T) {
	t.Setenv("SYSROOT", t.TempDir())
	t.Setenv("LOG_LEVEL", "error")
	var stdout, stderr bytes.Buffer

	code := run([]string{"bootc-status", "status", "--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var host spec.Host
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &host))
	assert.Nil(t, host.Status.Booted)
	assert.Nil(t, host.Status.Staged)
	assert.Nil(t, host.Status.Rollback)
	assert.Equal(t, spec.BootOrderDefault, host.Spec.BootOrder)
}
