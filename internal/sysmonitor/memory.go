package sysmonitor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/shirou/gopsutil/v4/mem"
)

// SystemMemory represents system memory information in bytes
type SystemMemory struct {
	Total     uint64
	Available uint64
}

// Used returns the number of bytes not available to new allocations.
func (m SystemMemory) Used() uint64 {
	if m.Available >= m.Total {
		return 0
	}
	return m.Total - m.Available
}

// UsedPercent returns the used share of total memory in the range [0, 100].
func (m SystemMemory) UsedPercent() float64 {
	if m.Total == 0 {
		return 0
	}
	percent := float64(m.Used()) / float64(m.Total) * 100
	switch {
	case math.IsNaN(percent) || math.IsInf(percent, 0) || percent < 0:
		return 0
	case percent > 100:
		return 100
	}
	return percent
}

// MemoryReader is a function that reads system memory information
type MemoryReader func(ctx context.Context) (SystemMemory, error)

// Source selects where memory statistics are read from.
type Source int

const (
	// SourceHost reads host-wide statistics.
	SourceHost Source = iota
	// SourceCgroup reads the limit and usage of the enclosing cgroup.
	SourceCgroup
	// SourceAuto tries cgroup v2, cgroup v1 and then the host, and sticks
	// with the first source that answers.
	SourceAuto
)

func (s Source) String() string {
	switch s {
	case SourceCgroup:
		return "cgroup"
	case SourceAuto:
		return "auto"
	default:
		return "host"
	}
}

// ParseSource parses the textual name of a Source.
func ParseSource(name string) (Source, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "host":
		return SourceHost, nil
	case "cgroup":
		return SourceCgroup, nil
	case "auto":
		return SourceAuto, nil
	}
	return SourceHost, fmt.Errorf("unknown memory source %q", name)
}

var (
	hostReader MemoryReader = readHostMemory
	// memoryReaderMu protects concurrent access to hostReader
	memoryReaderMu sync.RWMutex
)

// GetSystemMemory returns the current host memory statistics.
func GetSystemMemory(ctx context.Context) (SystemMemory, error) {
	memoryReaderMu.RLock()
	reader := hostReader
	memoryReaderMu.RUnlock()
	return reader(ctx)
}

// SetMemoryReader replaces the host memory reader (for testing).
// It returns a cleanup function to restore the previous reader.
func SetMemoryReader(reader MemoryReader) func() {
	memoryReaderMu.Lock()
	prev := hostReader
	hostReader = reader
	memoryReaderMu.Unlock()

	return func() {
		memoryReaderMu.Lock()
		hostReader = prev
		memoryReaderMu.Unlock()
	}
}

// NewReader returns a MemoryReader for the given source.
func NewReader(source Source) MemoryReader {
	switch source {
	case SourceCgroup:
		return ReadCgroupMemory
	case SourceAuto:
		return newAutoReader().read
	default:
		return GetSystemMemory
	}
}

func readHostMemory(ctx context.Context) (SystemMemory, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read virtual memory: %w", err)
	}
	available := v.Available
	if available > v.Total {
		available = v.Total
	}
	return SystemMemory{
		Total:     v.Total,
		Available: available,
	}, nil
}

// autoReader detects the environment once and "upgrades" itself to the
// first source that answers.
type autoReader struct {
	resolved atomic.Value // MemoryReader
}

func newAutoReader() *autoReader {
	return &autoReader{}
}

func (a *autoReader) read(ctx context.Context) (SystemMemory, error) {
	if reader, ok := a.resolved.Load().(MemoryReader); ok {
		return reader(ctx)
	}

	if m, err := ReadCgroupMemory(ctx); err == nil {
		a.resolved.Store(MemoryReader(ReadCgroupMemory))
		return m, nil
	}

	// Fallback to Host (Bare metal / VM / Unlimited Container)
	m, err := GetSystemMemory(ctx)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read system memory from all sources: %w", err)
	}
	a.resolved.Store(MemoryReader(GetSystemMemory))
	return m, nil
}
