// Package slog provides logging decorators for kbase services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/kbase"
)

// Ensure LoggingSourceReader implements kbase.SourceReader.
var _ kbase.SourceReader = (*LoggingSourceReader)(nil)

// LoggingSourceReader wraps a SourceReader with logging.
type LoggingSourceReader struct {
	next   kbase.SourceReader
	logger *slog.Logger
}

// NewLoggingSourceReader creates a new LoggingSourceReader.
func NewLoggingSourceReader(next kbase.SourceReader, logger *slog.Logger) *LoggingSourceReader {
	return &LoggingSourceReader{next: next, logger: logger}
}

// Read delegates to the wrapped reader and logs the operation.
func (r *LoggingSourceReader) Read(ctx context.Context, location string) (blobs []*kbase.Blob, err error) {
	defer func(begin time.Time) {
		r.logger.Info("source read",
			"location", location,
			"count", len(blobs),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Read(ctx, location)
}
