//go:build linux

package sysmonitor

import (
	"context"
	"errors"
	"fmt"
)

// ReadCgroupMemory returns the limit and usage of the enclosing cgroup,
// preferring cgroup v2 over v1.
func ReadCgroupMemory(ctx context.Context) (SystemMemory, error) {
	if err := ctx.Err(); err != nil {
		return SystemMemory{}, err
	}

	fs := loadFileSystem()
	m, errV2 := readCgroupMemoryWithFS(fs, cgroupV2Config)
	if errV2 == nil {
		return m, nil
	}

	m, errV1 := readCgroupMemoryWithFS(fs, cgroupV1Config)
	if errV1 == nil {
		return m, nil
	}

	return SystemMemory{}, fmt.Errorf("no limited cgroup memory controller: %w", errors.Join(errV2, errV1))
}
