package pkgmgr

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// aptManager implements Manager using os/exec to call apt-get.
type aptManager struct{}

// NewApt returns a Manager that calls the real apt-get binary.
func NewApt() Manager { return &aptManager{} }

func (m *aptManager) Name() string { return "apt-get" }

func (m *aptManager) Family() Family { return FamilyApt }

func (m *aptManager) Install(pkgs ...string) error {
	if err := m.run("update"); err != nil {
		return err
	}
	return m.run(append([]string{"install", "-y"}, pkgs...)...)
}

func (m *aptManager) run(args ...string) error {
	cmd := exec.Command("apt-get", args...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pkgmgr: apt-get %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}
