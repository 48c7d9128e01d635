// Package ostreetest builds ostree sysroot layouts on disk for tests.
package ostreetest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onkernel/bootc-status/lib/paths"
	"github.com/stretchr/testify/require"
)

// Deployment describes a deployment to create in a Fixture.
type Deployment struct {
	OSName   string
	Checksum string
	Serial   int
	// Origin is the origin keyfile contents; empty means no origin file.
	Origin string
	// Version is the BLS entry version; higher versions sort first in the boot menu.
	Version int
	// Staged deployments get no bootloader entry and set the staged marker.
	Staged bool
}

// Fixture is a temporary sysroot
type Fixture struct {
	t     testing.TB
	Root  string
	links int
}

// NewFixture creates an empty sysroot in a temporary directory.
func NewFixture(t testing.TB) *Fixture {
	t.Helper()
	return &Fixture{t: t, Root: t.TempDir()}
}

// Paths returns the sysroot layout of the fixture.
func (f *Fixture) Paths() *paths.Paths {
	return paths.New(f.Root)
}

// AddDeployment creates the deployment directory, origin, boot link and BLS entry.
// It returns the ostree= kernel argument that boots the deployment, or "" for staged ones.
func (f *Fixture) AddDeployment(d Deployment) string {
	f.t.Helper()
	p := f.Paths()

	f.mkdir(p.DeploymentDir(d.OSName, d.Checksum, d.Serial))
	if d.Origin != "" {
		f.write(p.OriginFile(d.OSName, d.Checksum, d.Serial), d.Origin)
	}

	if d.Staged {
		f.write("run/ostree/staged-deployment", "")
		return ""
	}

	f.links++
	bootcsum := fmt.Sprintf("bootcsum%d", f.links)
	linkDir := filepath.Join("ostree/boot.1", d.OSName, bootcsum)
	f.mkdir(linkDir)
	target := filepath.Join("../../..", "deploy", d.OSName, "deploy", fmt.Sprintf("%s.%d", d.Checksum, d.Serial))
	require.NoError(f.t, os.Symlink(target, filepath.Join(f.Root, linkDir, "0")))

	arg := "/" + filepath.Join(linkDir, "0")
	entry := strings.Join([]string{
		fmt.Sprintf("title %s %d", d.OSName, d.Version),
		fmt.Sprintf("version %d", d.Version),
		fmt.Sprintf("linux /ostree/%s-%s/vmlinuz", d.OSName, bootcsum),
		fmt.Sprintf("options root=UUID=6a1e rw ostree=%s", arg),
	}, "\n") + "\n"
	f.write(filepath.Join(p.BootLoaderEntries(), fmt.Sprintf("ostree-%d-%s.conf", d.Version, d.OSName)), entry)
	return arg
}

// Boot writes a kernel command line booting arg.
func (f *Fixture) Boot(arg string) {
	f.t.Helper()
	f.write("proc/cmdline", fmt.Sprintf("BOOT_IMAGE=(hd0,gpt3)/vmlinuz rw ostree=%s quiet\n", arg))
	f.write("run/ostree-booted", "")
}

// ImageOrigin returns an origin keyfile deploying the container image imgref.
func ImageOrigin(imgref string) string {
	return fmt.Sprintf("[origin]\ncontainer-image-reference=%s\n", imgref)
}

func (f *Fixture) mkdir(rel string) {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.Root, rel), 0755))
}

func (f *Fixture) write(rel, contents string) {
	f.t.Helper()
	path := filepath.Join(f.Root, rel)
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, []byte(contents), 0644))
}
