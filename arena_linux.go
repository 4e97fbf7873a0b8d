//go:build linux

package blockpool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// lockedArena maps size bytes of anonymous memory outside the Go heap, locks
// it against swap and excludes it from core dumps.
func lockedArena(size int) ([]byte, func([]byte) error, error) {
	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, nil, fmt.Errorf("blockpool: mmap failed: %w", err)
	}
	if err := unix.Mlock(data); err != nil {
		_ = unix.Munmap(data)
		return nil, nil, fmt.Errorf("blockpool: mlock failed: %w", err)
	}
	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		_ = unix.Munlock(data)
		_ = unix.Munmap(data)
		return nil, nil, fmt.Errorf("blockpool: madvise(MADV_DONTDUMP) failed: %w", err)
	}
	return data, unmapLocked, nil
}

// unmapLocked releases memory from lockedArena. The caller zeroes it first.
func unmapLocked(data []byte) error {
	var firstError error
	if err := unix.Munlock(data); err != nil {
		firstError = fmt.Errorf("blockpool: munlock failed: %w", err)
	}
	if err := unix.Munmap(data); err != nil && firstError == nil {
		firstError = fmt.Errorf("blockpool: munmap failed: %w", err)
	}
	return firstError
}
