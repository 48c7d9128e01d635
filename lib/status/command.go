package status

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/onkernel/bootc-status/lib/images"
	"github.com/onkernel/bootc-status/lib/logger"
	"github.com/onkernel/bootc-status/lib/otel"
	"github.com/onkernel/bootc-status/lib/paths"
	"github.com/onkernel/bootc-status/lib/spec"
	"github.com/onkernel/bootc-status/lib/store"
	"github.com/onkernel/bootc-status/lib/system"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"
)

// Options are the options of the status command
type Options struct {
	// Format overrides the default output format selection.
	Format *OutputFormat
	// FormatVersion is the requested report format version; only 0 is supported.
	FormatVersion *uint32
	// JSON selects JSON output when no Format is given.
	JSON bool
}

// Reporter implements the status command
type Reporter struct {
	paths      *paths.Paths
	metrics    *otel.StatusMetrics
	isTerminal func(io.Writer) bool
}

// NewReporter creates a reporter for the sysroot described by p. metrics may be nil.
func NewReporter(p *paths.Paths, metrics *otel.StatusMetrics) *Reporter {
	return &Reporter{
		paths:      p,
		metrics:    metrics,
		isTerminal: isTerminal,
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Status writes the host status to out.
func (r *Reporter) Status(ctx context.Context, opts Options, out io.Writer) error {
	if err := r.status(ctx, opts, out); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	return nil
}

func (r *Reporter) status(ctx context.Context, opts Options, out io.Writer) error {
	log := logger.FromContext(ctx)

	if _, err := system.ResolveFormatVersion(opts.FormatVersion); err != nil {
		return err
	}

	host, storage, err := r.query(ctx)
	if err != nil {
		return err
	}

	terminal := r.isTerminal(out)
	format := selectFormat(opts.Format, opts.JSON, terminal)
	log.DebugContext(ctx, "writing host status", "format", string(format))

	switch format {
	case OutputFormatJSON:
		err = writeJSON(out, host)
	case OutputFormatYAML:
		err = writeYAML(out, host)
	case OutputFormatHumanReadable:
		err = writeHumanReadable(out, host, r.imageDetails(ctx, storage, host), terminal)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
	if err != nil {
		return fmt.Errorf("writing to stdout: %w", err)
	}
	return nil
}

// query returns the default host when the system was not booted via ostree.
// storage is nil in that case.
func (r *Reporter) query(ctx context.Context) (*spec.Host, Storage, error) {
	if _, err := os.Stat(r.paths.OstreeBooted()); errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).DebugContext(ctx, "not booted via ostree", "marker", r.paths.OstreeBooted())
		return spec.NewHost(spec.HostSpec{}), nil, nil
	} else if err != nil {
		return nil, nil, err
	}

	ctx, span := r.metrics.StartSpan(ctx, "QueryStatus", attribute.String("sysroot", r.paths.Root()))
	defer span.End()

	start := time.Now()
	storage, err := store.Open(ctx, r.paths)
	if err != nil {
		r.metrics.RecordQuery(ctx, start, err)
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}
	deployments, host, err := GetStatus(ctx, storage, storage.BootedDeployment())
	r.metrics.RecordQuery(ctx, start, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, nil, err
	}

	if storage.BootedDeployment() != nil {
		r.metrics.RecordDeployments(ctx, "booted", 1)
	}
	if deployments.Staged != nil {
		r.metrics.RecordDeployments(ctx, "staged", 1)
	}
	if deployments.Rollback != nil {
		r.metrics.RecordDeployments(ctx, "rollback", 1)
	}
	r.metrics.RecordDeployments(ctx, "other", len(deployments.Other))
	return host, storage, nil
}

// imageDetails looks up the deployed image of each role concurrently. A role
// whose image is not cached has no details; any other failure drops all of them.
func (r *Reporter) imageDetails(ctx context.Context, storage Storage, host *spec.Host) map[string]*images.ImageState {
	details := map[string]*images.ImageState{}
	if storage == nil {
		return details
	}

	ctx, span := r.metrics.StartSpan(ctx, "ImageDetails")
	defer span.End()

	entries := roleEntries(host)
	states := make([]*images.ImageState, len(entries))
	grp, gctx := errgroup.WithContext(ctx)
	for i, re := range entries {
		grp.Go(func() error {
			state, err := QueryImage(gctx, storage, re.entry)
			if errors.Is(err, images.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("%s image: %w", re.role, err)
			}
			states[i] = state
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "failed to read image details", "error", err)
		span.SetStatus(codes.Error, err.Error())
		return details
	}

	for i, re := range entries {
		if states[i] != nil {
			details[re.role] = states[i]
		}
	}
	return details
}
