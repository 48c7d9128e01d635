package images

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	"github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/opencontainers/umoci/oci/cas/dir"
	"github.com/opencontainers/umoci/oci/casext"
)

// ociClient reads and records image metadata in a local OCI layout.
// It never contacts a registry.
type ociClient struct {
	cacheDir string
}

func newOCIClient(cacheDir string) *ociClient {
	return &ociClient{cacheDir: cacheDir}
}

// layoutExists reports whether the cache directory holds an OCI layout
func (c *ociClient) layoutExists() bool {
	_, err := os.Stat(filepath.Join(c.cacheDir, "index.json"))
	return err == nil
}

// extractImageState reads the manifest and config of a tagged image
func (c *ociClient) extractImageState(ctx context.Context, layoutTag string) (*ImageState, error) {
	if !c.layoutExists() {
		return nil, ErrNotFound
	}

	casEngine, err := dir.Open(c.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("open oci layout: %w", err)
	}
	defer casEngine.Close()

	engine := casext.NewEngine(casEngine)

	descriptorPaths, err := engine.ResolveReference(ctx, layoutTag)
	if err != nil {
		return nil, fmt.Errorf("resolve reference: %w", err)
	}
	if len(descriptorPaths) == 0 {
		return nil, ErrNotFound
	}
	manifestDesc := descriptorPaths[0].Descriptor()

	manifestBlob, err := engine.FromDescriptor(ctx, manifestDesc)
	if err != nil {
		return nil, fmt.Errorf("get manifest: %w", err)
	}

	// casext automatically parses manifests, so Data is already a v1.Manifest
	manifest, ok := manifestBlob.Data.(v1.Manifest)
	if !ok {
		return nil, fmt.Errorf("manifest data is not v1.Manifest (got %T)", manifestBlob.Data)
	}

	configBlob, err := engine.FromDescriptor(ctx, manifest.Config)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}

	config, ok := configBlob.Data.(v1.Image)
	if !ok {
		return nil, fmt.Errorf("config data is not v1.Image (got %T)", configBlob.Data)
	}

	state := &ImageState{
		ManifestDigest: manifestDesc.Digest,
		Created:        config.Created,
		Labels:         config.Config.Labels,
		Architecture:   config.Architecture,
		OS:             config.OS,
	}
	if state.Labels == nil {
		state.Labels = map[string]string{}
	}
	return state, nil
}

// createLayout initializes the layout at cacheDir. dir.Create refuses existing
// paths, so an empty cache directory is removed first.
func (c *ociClient) createLayout() error {
	entries, err := os.ReadDir(c.cacheDir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(c.cacheDir), 0755); err != nil {
			return fmt.Errorf("create cache parent dir: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read cache dir: %w", err)
	case len(entries) > 0:
		return fmt.Errorf("%w: %s is not empty", ErrInvalidLayout, c.cacheDir)
	default:
		if err := os.Remove(c.cacheDir); err != nil {
			return fmt.Errorf("remove empty cache dir: %w", err)
		}
	}

	if err := dir.Create(c.cacheDir); err != nil {
		return fmt.Errorf("create oci layout: %w", err)
	}
	return nil
}

// putImage stores an image config with an empty layer list and tags its manifest.
// The layout is created if it does not exist yet.
func (c *ociClient) putImage(ctx context.Context, layoutTag string, config v1.Image) (digest.Digest, error) {
	if !c.layoutExists() {
		if err := c.createLayout(); err != nil {
			return "", err
		}
	}

	casEngine, err := dir.Open(c.cacheDir)
	if err != nil {
		return "", fmt.Errorf("open oci layout: %w", err)
	}
	defer casEngine.Close()

	engine := casext.NewEngine(casEngine)

	configDigest, configSize, err := engine.PutBlobJSON(ctx, config)
	if err != nil {
		return "", fmt.Errorf("put config: %w", err)
	}

	manifest := v1.Manifest{
		Versioned: specs.Versioned{SchemaVersion: 2},
		MediaType: v1.MediaTypeImageManifest,
		Config: v1.Descriptor{
			MediaType: v1.MediaTypeImageConfig,
			Digest:    configDigest,
			Size:      configSize,
		},
		Layers: []v1.Descriptor{},
	}
	manifestDigest, manifestSize, err := engine.PutBlobJSON(ctx, manifest)
	if err != nil {
		return "", fmt.Errorf("put manifest: %w", err)
	}

	manifestDesc := v1.Descriptor{
		MediaType: v1.MediaTypeImageManifest,
		Digest:    manifestDigest,
		Size:      manifestSize,
	}
	if err := engine.UpdateReference(ctx, layoutTag, manifestDesc); err != nil {
		return "", fmt.Errorf("update reference: %w", err)
	}

	return manifestDigest, nil
}
