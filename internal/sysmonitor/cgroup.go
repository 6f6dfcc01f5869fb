package sysmonitor

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	fileSystem FileSystem = OSFileSystem{}
	// fileSystemMu protects concurrent access to fileSystem
	fileSystemMu sync.RWMutex
)

// cgroupConfig describes where a cgroup version keeps its memory accounting.
type cgroupConfig struct {
	name        string
	usagePath   string
	limitPath   string
	statPath    string
	inactiveKey string
}

var (
	cgroupV2Config = cgroupConfig{
		name:        "cgroup v2",
		usagePath:   "/sys/fs/cgroup/memory.current",
		limitPath:   "/sys/fs/cgroup/memory.max",
		statPath:    "/sys/fs/cgroup/memory.stat",
		inactiveKey: "inactive_file",
	}
	cgroupV1Config = cgroupConfig{
		name:        "cgroup v1",
		usagePath:   "/sys/fs/cgroup/memory/memory.usage_in_bytes",
		limitPath:   "/sys/fs/cgroup/memory/memory.limit_in_bytes",
		statPath:    "/sys/fs/cgroup/memory/memory.stat",
		inactiveKey: "total_inactive_file",
	}
)

// cgroupUnlimited is the smallest v1 limit treated as "no limit".
const cgroupUnlimited = 1 << 60

// SetFileSystem replaces the file system used for cgroup accounting files.
// It returns a cleanup function to restore the previous one.
func SetFileSystem(fsys FileSystem) func() {
	fileSystemMu.Lock()
	prev := fileSystem
	fileSystem = fsys
	fileSystemMu.Unlock()

	return func() {
		fileSystemMu.Lock()
		fileSystem = prev
		fileSystemMu.Unlock()
	}
}

func loadFileSystem() FileSystem {
	fileSystemMu.RLock()
	defer fileSystemMu.RUnlock()
	return fileSystem
}

func readCgroupMemoryWithFS(fs FileSystem, cfg cgroupConfig) (SystemMemory, error) {
	usage, err := readCgroupValueWithFS(fs, cfg.usagePath)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read %s memory usage: %w", cfg.name, err)
	}

	limit, err := readCgroupValueWithFS(fs, cfg.limitPath)
	if err != nil {
		return SystemMemory{}, fmt.Errorf("failed to read %s memory limit: %w", cfg.name, err)
	}

	// v1 reports "unlimited" as a huge page-aligned number
	if limit > cgroupUnlimited || limit == 0 {
		return SystemMemory{}, os.ErrNotExist
	}

	// inactive_file is reclaimable; treat it as 0 when unavailable
	inactiveFile, err := readCgroupStatWithFS(fs, cfg.statPath, cfg.inactiveKey)
	if err != nil {
		inactiveFile = 0
	}

	// Available = (Limit - Usage) + Reclaimable
	var available uint64
	if usage > limit {
		available = inactiveFile
	} else {
		available = (limit - usage) + inactiveFile
	}

	if available > limit {
		available = limit
	}

	return SystemMemory{
		Total:     limit,
		Available: available,
	}, nil
}

func readCgroupValueWithFS(fs FileSystem, path string) (uint64, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return 0, err
	}
	str := strings.TrimSpace(string(data))
	if str == "max" {
		return 0, os.ErrNotExist
	}
	val, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse value %q from %s: %w", str, path, err)
	}
	return val, nil
}

func readCgroupStatWithFS(fs FileSystem, path string, key string) (uint64, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := bytes.Fields(scanner.Bytes())
		if len(fields) >= 2 && string(fields[0]) == key {
			val, err := strconv.ParseUint(string(fields[1]), 10, 64)
			if err != nil {
				return 0, fmt.Errorf("failed to parse value for key %q in %s: %w", key, path, err)
			}
			return val, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("error reading %s: %w", path, err)
	}
	return 0, fmt.Errorf("key %q not found in %s", key, path)
}
