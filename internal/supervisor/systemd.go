package supervisor

import (
	"fmt"
	"os/exec"
	"strings"
)

// systemdController registers supervisord through systemctl. The supervisor
// package on apt hosts ships its own unit file, so registration is just
// enable + start.
type systemdController struct {
	service string
}

func newSystemdController() *systemdController {
	return &systemdController{service: "supervisor"}
}

func (c *systemdController) Register() error {
	if err := c.run("enable", c.service); err != nil {
		return err
	}
	return c.run("start", c.service)
}

func (c *systemdController) Deregister(program string) error {
	return deregisterProgram(program)
}

func (c *systemdController) run(args ...string) error {
	cmd := exec.Command("systemctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("supervisor: systemctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}
