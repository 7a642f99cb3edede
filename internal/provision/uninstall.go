package provision

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Uninstall stops the supervised program and removes the installed binary,
// symlink, run script, and the supervisord program entry. If purge is true,
// the whole install tree is also removed. The service user and OS packages
// are never removed.
func (ins *Installer) Uninstall(purge bool) error {
	if !ins.host.IsRoot() {
		return errors.New("provision: uninstall requires root privileges")
	}

	binPath := ins.binaryPath()
	if _, err := os.Stat(binPath); errors.Is(err, os.ErrNotExist) {
		ins.logger.Info("consul agent is not installed, nothing to do")
		return nil
	} else if err != nil {
		return fmt.Errorf("provision: stat %s: %w", binPath, err)
	}

	// Drop the program entry first, then let supervisord stop the process and
	// prune the removed config. With autorestart enabled the process would
	// otherwise respawn after the binary is gone. Deregistration failure is
	// tolerated: supervisord may simply not be running.
	progConf := filepath.Join(ins.cfg.SupervisorIncludeDir, BinaryName+".conf")
	removed, err := removeIfPresent(progConf)
	if err != nil {
		return err
	}
	if removed {
		ins.logger.Info("supervisor program entry removed", "path", progConf)
	}
	if err := ins.sup.Deregister(BinaryName); err != nil {
		ins.logger.Info("deregister supervised program", "error", err)
	}

	link := filepath.Join(ins.cfg.SymlinkDir, BinaryName)
	removed, err = removeIfPresent(link)
	if err != nil {
		return err
	}
	if removed {
		ins.logger.Info("symlink removed", "path", link)
	}

	for _, path := range []string{
		binPath,
		filepath.Join(ins.cfg.Path, "bin", "run-"+BinaryName),
	} {
		removed, err = removeIfPresent(path)
		if err != nil {
			return err
		}
		if removed {
			ins.logger.Info("file removed", "path", path)
		}
	}

	if purge {
		if err := os.RemoveAll(ins.cfg.Path); err != nil {
			return fmt.Errorf("provision: remove directory %s: %w", ins.cfg.Path, err)
		}
		ins.logger.Info("install tree removed", "path", ins.cfg.Path)
	}

	return nil
}

func removeIfPresent(path string) (bool, error) {
	err := os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("provision: remove %s: %w", path, err)
	}
	return true, nil
}
