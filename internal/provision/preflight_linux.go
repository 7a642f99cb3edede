//go:build linux

package provision

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// realHostChecker implements HostChecker against the running kernel.
type realHostChecker struct{}

// NewHostChecker returns a HostChecker that probes the real host.
func NewHostChecker() HostChecker {
	return &realHostChecker{}
}

func (c *realHostChecker) IsRoot() bool {
	return unix.Geteuid() == 0
}

func (c *realHostChecker) FreeDiskBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("provision: statfs %s: %w", path, err)
	}
	return st.Bavail * uint64(st.Bsize), nil
}
