package supervisor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/plexsphere/consulup/internal/assets"
	"github.com/plexsphere/consulup/internal/fsutil"
)

// initdController registers supervisord on SysV-style hosts: it installs the
// embedded init script, adds it with chkconfig, and links supervisorctl into
// /usr/bin where the yum-installed tree does not already provide it.
type initdController struct {
	initScriptDir string
	ctlLinkPath   string
	ctlTargetPath string
	serviceName   string
}

func newInitdController() *initdController {
	return &initdController{
		initScriptDir: "/etc/init.d",
		ctlLinkPath:   "/usr/bin/supervisorctl",
		ctlTargetPath: "/usr/local/bin/supervisorctl",
		serviceName:   "supervisord",
	}
}

func (c *initdController) Register() error {
	if err := c.installInitScript(); err != nil {
		return err
	}
	if err := c.linkCtl(); err != nil {
		return err
	}
	if err := c.run("chkconfig", "--add", c.serviceName); err != nil {
		return err
	}
	if err := c.run("chkconfig", c.serviceName, "on"); err != nil {
		return err
	}
	return c.run("service", c.serviceName, "start")
}

func (c *initdController) Deregister(program string) error {
	return deregisterProgram(program)
}

func (c *initdController) installInitScript() error {
	if err := fsutil.WriteFileAtomic(c.initScriptDir, c.serviceName, assets.SupervisordInit, 0o755); err != nil {
		return fmt.Errorf("supervisor: write init script: %w", err)
	}
	return nil
}

func (c *initdController) linkCtl() error {
	if _, err := fsutil.EnsureSymlink(c.ctlTargetPath, c.ctlLinkPath); err != nil {
		return fmt.Errorf("supervisor: link supervisorctl: %w", err)
	}
	return nil
}

func (c *initdController) run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("supervisor: %s %s: %s: %w", name, strings.Join(args, " "), strings.TrimSpace(string(output)), err)
	}
	return nil
}
