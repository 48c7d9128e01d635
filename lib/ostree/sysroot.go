package ostree

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/paths"
	"gopkg.in/ini.v1"
)

// blsOptions parse Boot Loader Specification entries: "key value" per line.
var blsOptions = ini.LoadOptions{
	KeyValueDelimiters:      " \t",
	IgnoreInlineComment:     true,
	PreserveSurroundedQuote: true,
	AllowBooleanKeys:        true,
}

// Sysroot reads deployments from an ostree sysroot on disk.
type Sysroot struct {
	paths       *paths.Paths
	deployments []*Deployment
	booted      *Deployment
}

// NewSysroot creates a reader for the sysroot described by p. Call Load before use.
func NewSysroot(p *paths.Paths) *Sysroot {
	return &Sysroot{paths: p}
}

// Deployments returns all deployments in bootloader order, staged first.
func (s *Sysroot) Deployments() []*Deployment {
	return slices.Clone(s.deployments)
}

// BootedDeployment returns the deployment named on the kernel command line, or nil.
func (s *Sysroot) BootedDeployment() *Deployment {
	return s.booted
}

// deployRef identifies a deployment directory
type deployRef struct {
	osname   string
	checksum string
	serial   int
}

func (r deployRef) equal(d *Deployment) bool {
	return r.osname == d.osname && r.checksum == d.checksum && r.serial == d.serial
}

type blsEntry struct {
	version int
	ref     deployRef
}

// Load reads bootloader entries, staged deployments and the booted deployment.
func (s *Sysroot) Load(ctx context.Context) error {
	log := logger.FromContext(ctx)

	entries, err := s.readBootEntries()
	if err != nil {
		return fmt.Errorf("read bootloader entries: %w", err)
	}
	slices.SortStableFunc(entries, func(a, b blsEntry) int {
		return cmp.Compare(b.version, a.version)
	})

	var refs []deployRef
	if _, err := os.Stat(s.paths.StagedDeployment()); err == nil {
		staged, err := s.findStaged(entries)
		if err != nil {
			return fmt.Errorf("find staged deployments: %w", err)
		}
		refs = append(refs, staged...)
	}
	stagedCount := len(refs)
	for _, e := range entries {
		refs = append(refs, e.ref)
	}

	deployments := make([]*Deployment, 0, len(refs))
	for i, ref := range refs {
		d, err := s.loadDeployment(ref, i, i < stagedCount)
		if err != nil {
			return fmt.Errorf("load deployment %s/%s.%d: %w", ref.osname, ref.checksum, ref.serial, err)
		}
		deployments = append(deployments, d)
	}

	booted, err := s.findBooted(deployments)
	if err != nil {
		return err
	}

	s.deployments = deployments
	s.booted = booted
	log.DebugContext(ctx, "loaded sysroot", "root", s.paths.Root(), "deployments", len(deployments), "staged", stagedCount, "booted", booted != nil)
	return nil
}

func (s *Sysroot) readBootEntries() ([]blsEntry, error) {
	dir, err := securejoin.SecureJoin(s.paths.Root(), s.paths.BootLoaderEntries())
	if err != nil {
		return nil, err
	}
	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []blsEntry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".conf") {
			continue
		}
		entry, err := s.readBootEntry(filepath.Join(dir, f.Name()))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name(), err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *Sysroot) readBootEntry(path string) (blsEntry, error) {
	file, err := ini.LoadSources(blsOptions, path)
	if err != nil {
		return blsEntry{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	section := file.Section(ini.DefaultSection)

	version, err := strconv.Atoi(section.Key("version").String())
	if err != nil {
		return blsEntry{}, fmt.Errorf("%w: version: %w", ErrParse, err)
	}

	arg, ok := ostreeArg(section.Key("options").String())
	if !ok {
		return blsEntry{}, fmt.Errorf("%w: no ostree= in options", ErrParse)
	}
	ref, err := s.resolveBootLink(arg)
	if err != nil {
		return blsEntry{}, err
	}
	return blsEntry{version: version, ref: ref}, nil
}

// ostreeArg returns the value of the ostree= argument in a kernel command line.
func ostreeArg(cmdline string) (string, bool) {
	for _, field := range strings.Fields(cmdline) {
		if v, ok := strings.CutPrefix(field, "ostree="); ok {
			return v, true
		}
	}
	return "", false
}

// resolveBootLink follows /ostree/boot.N/<osname>/<bootcsum>/<serial> to its deployment directory.
func (s *Sysroot) resolveBootLink(link string) (deployRef, error) {
	resolved, err := securejoin.SecureJoin(s.paths.Root(), link)
	if err != nil {
		return deployRef{}, fmt.Errorf("resolve %s: %w", link, err)
	}
	return parseDeployPath(resolved)
}

// parseDeployPath parses a path ending in ostree/deploy/<osname>/deploy/<checksum>.<serial>.
func parseDeployPath(path string) (deployRef, error) {
	parts := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	n := len(parts)
	if n < 5 || parts[n-5] != "ostree" || parts[n-4] != "deploy" || parts[n-2] != "deploy" {
		return deployRef{}, fmt.Errorf("%w: not a deployment path: %s", ErrParse, path)
	}
	checksum, serial, err := parseDeployName(parts[n-1])
	if err != nil {
		return deployRef{}, err
	}
	return deployRef{osname: parts[n-3], checksum: checksum, serial: serial}, nil
}

func parseDeployName(name string) (string, int, error) {
	i := strings.LastIndex(name, ".")
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: invalid deployment name %q", ErrParse, name)
	}
	serial, err := strconv.ParseUint(name[i+1:], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("%w: invalid deploy serial in %q", ErrParse, name)
	}
	return name[:i], int(serial), nil
}

// findStaged returns deployment directories that have no bootloader entry yet.
func (s *Sysroot) findStaged(entries []blsEntry) ([]deployRef, error) {
	root, err := securejoin.SecureJoin(s.paths.Root(), s.paths.DeployRoot())
	if err != nil {
		return nil, err
	}
	stateroots, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var staged []deployRef
	for _, stateroot := range stateroots {
		if !stateroot.IsDir() {
			continue
		}
		osname := stateroot.Name()
		dir, err := securejoin.SecureJoin(s.paths.Root(), s.paths.StaterootDeployDir(osname))
		if err != nil {
			return nil, err
		}
		children, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if !child.IsDir() {
				continue
			}
			checksum, serial, err := parseDeployName(child.Name())
			if err != nil {
				return nil, err
			}
			ref := deployRef{osname: osname, checksum: checksum, serial: serial}
			if !slices.ContainsFunc(entries, func(e blsEntry) bool { return e.ref == ref }) {
				staged = append(staged, ref)
			}
		}
	}
	return staged, nil
}

func (s *Sysroot) loadDeployment(ref deployRef, index int, staged bool) (*Deployment, error) {
	var opts []DeploymentOption
	if staged {
		opts = append(opts, Staged())
	}

	originPath, err := securejoin.SecureJoin(s.paths.Root(), s.paths.OriginFile(ref.osname, ref.checksum, ref.serial))
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(originPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read origin: %w", err)
	default:
		origin, err := ParseOrigin(data)
		if err != nil {
			return nil, err
		}
		pinned, err := origin.OptionalBool(OriginTransientGroup, OriginPinnedKey)
		if err != nil {
			return nil, err
		}
		if pinned {
			opts = append(opts, Pinned())
		}
		opts = append(opts, WithOrigin(origin))
	}

	return NewDeployment(ref.osname, ref.checksum, ref.serial, index, opts...), nil
}

func (s *Sysroot) findBooted(deployments []*Deployment) (*Deployment, error) {
	cmdline, err := os.ReadFile(s.paths.ProcCmdline())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read kernel command line: %w", err)
	}
	arg, ok := ostreeArg(string(cmdline))
	if !ok {
		return nil, nil
	}
	ref, err := s.resolveBootLink(arg)
	if err != nil {
		return nil, fmt.Errorf("resolve booted deployment: %w", err)
	}
	for _, d := range deployments {
		if ref.equal(d) {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s.%d", ErrBootedNotFound, ref.osname, ref.checksum, ref.serial)
}
