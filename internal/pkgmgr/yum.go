package pkgmgr

import (
	"fmt"
	"os/exec"
	"strings"
)

// yumManager implements Manager using os/exec to call yum.
type yumManager struct{}

// NewYum returns a Manager that calls the real yum binary.
func NewYum() Manager { return &yumManager{} }

func (m *yumManager) Name() string { return "yum" }

func (m *yumManager) Family() Family { return FamilyYum }

func (m *yumManager) Install(pkgs ...string) error {
	return m.run(append([]string{"install", "-y"}, pkgs...)...)
}

func (m *yumManager) run(args ...string) error {
	cmd := exec.Command("yum", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("pkgmgr: yum %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}
