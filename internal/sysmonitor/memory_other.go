//go:build !linux

package sysmonitor

import (
	"context"
	"errors"
	"runtime"
)

// ReadCgroupMemory returns an error on platforms without cgroups.
func ReadCgroupMemory(_ context.Context) (SystemMemory, error) {
	return SystemMemory{}, errors.New("cgroup memory accounting not supported on " + runtime.GOOS)
}
