// Package metrics provides the system memory reader used by the monitor.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/reugn/memwarn"
	"github.com/reugn/memwarn/internal/sysmonitor"
	"go.uber.org/zap"
)

// Source re-exports the memory statistics source selector.
type Source = sysmonitor.Source

const (
	SourceHost   = sysmonitor.SourceHost
	SourceCgroup = sysmonitor.SourceCgroup
	SourceAuto   = sysmonitor.SourceAuto
)

// ParseSource parses "host", "cgroup" or "auto".
func ParseSource(name string) (Source, error) {
	return sysmonitor.ParseSource(name)
}

// Reader reads instantaneous memory utilization from the operating system.
// It keeps no state between calls.
type Reader struct {
	source Source
	read   sysmonitor.MemoryReader
	now    func() time.Time
	logger *zap.Logger
}

var _ memwarn.MemoryReader = (*Reader)(nil)

// Option configures a Reader.
type Option func(*Reader)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reader) {
		r.logger = logger
	}
}

// NewReader creates a Reader for the given source.
func NewReader(source Source, opts ...Option) *Reader {
	r := &Reader{
		source: source,
		read:   sysmonitor.NewReader(source),
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read returns the current memory utilization. Any failure is reported as
// memwarn.ErrMetricsUnavailable wrapping the underlying cause.
func (r *Reader) Read(ctx context.Context) (memwarn.Reading, error) {
	mem, err := r.read(ctx)
	if err != nil {
		return memwarn.Reading{}, fmt.Errorf("%w: %s: %w", memwarn.ErrMetricsUnavailable, r.source, err)
	}
	if mem.Total == 0 {
		return memwarn.Reading{}, fmt.Errorf("%w: %s reported zero total memory",
			memwarn.ErrMetricsUnavailable, r.source)
	}

	reading := memwarn.Reading{
		Percent:    mem.UsedPercent(),
		UsedBytes:  mem.Used(),
		TotalBytes: mem.Total,
		Timestamp:  r.now(),
	}

	r.logger.Debug("memory sampled",
		zap.Stringer("source", r.source),
		zap.Float64("percent", reading.Percent),
		zap.String("used", humanize.IBytes(reading.UsedBytes)),
		zap.String("total", humanize.IBytes(reading.TotalBytes)))

	return reading, nil
}
