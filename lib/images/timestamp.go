package images

import (
	"context"
	"time"

	"github.com/onkernel/bootc-status/lib/logger"
)

// TryParseTimestamp parses an RFC 3339 timestamp from image metadata.
// A malformed value is logged and treated as unknown.
func TryParseTimestamp(ctx context.Context, s string) *time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		logger.FromContext(ctx).WarnContext(ctx, "invalid timestamp in image", "timestamp", s, "error", err)
		return nil
	}
	t = t.UTC()
	return &t
}

// Timestamp returns the image creation time. The created label wins over the
// config's created field.
func (s *ImageState) Timestamp(ctx context.Context) *time.Time {
	if v, ok := s.Labels[LabelCreated]; ok {
		return TryParseTimestamp(ctx, v)
	}
	if s.Created != nil {
		t := s.Created.UTC()
		return &t
	}
	return nil
}
