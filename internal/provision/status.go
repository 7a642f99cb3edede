package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Status is a point-in-time snapshot of what the installer has provisioned.
type Status struct {
	BinaryInstalled      bool
	BinaryPath           string
	SymlinkPresent       bool
	SymlinkTarget        string
	UserPresent          bool
	SupervisorConfigured bool
}

// Status inspects the host and reports which provisioning artifacts exist.
// It never mutates anything and does not require root.
func (ins *Installer) Status() (*Status, error) {
	st := &Status{BinaryPath: ins.binaryPath()}

	if _, err := os.Stat(st.BinaryPath); err == nil {
		st.BinaryInstalled = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("provision: stat %s: %w", st.BinaryPath, err)
	}

	link := filepath.Join(ins.cfg.SymlinkDir, BinaryName)
	if target, err := os.Readlink(link); err == nil {
		st.SymlinkPresent = true
		st.SymlinkTarget = target
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("provision: readlink %s: %w", link, err)
	}

	if _, _, err := ins.users.LookupIDs(ins.cfg.User); err == nil {
		st.UserPresent = true
	}

	if _, err := os.Stat(ins.cfg.SupervisorConfPath); err == nil {
		st.SupervisorConfigured = true
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("provision: stat %s: %w", ins.cfg.SupervisorConfPath, err)
	}

	return st, nil
}
