// Package supervisor registers the supervisord process supervisor with the
// host init system and generates its daemon configuration.
package supervisor

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/plexsphere/consulup/internal/pkgmgr"
)

// Controller abstracts init-system registration of supervisord for
// testability. Register must be idempotent: repeating a registration that is
// already applied returns nil.
type Controller interface {
	// Register enables supervisord to start on boot and starts it now.
	Register() error

	// Deregister stops the named supervised program and reloads the program
	// set so entries whose config files were removed disappear. It returns an
	// error when supervisord is unreachable; callers decide how hard to fail.
	Deregister(program string) error
}

// NewController returns the Controller matching the package manager family:
// systemctl registration on apt hosts, SysV init script registration on yum
// hosts.
func NewController(family pkgmgr.Family) (Controller, error) {
	switch family {
	case pkgmgr.FamilyApt:
		return newSystemdController(), nil
	case pkgmgr.FamilyYum:
		return newInitdController(), nil
	default:
		return nil, fmt.Errorf("supervisor: no controller for package manager family %q", family)
	}
}

// deregisterProgram stops program and prunes removed entries from the running
// supervisord. Identical on both families: program control always goes
// through supervisorctl.
func deregisterProgram(program string) error {
	if err := runSupervisorctl("stop", program); err != nil {
		return err
	}
	if err := runSupervisorctl("reread"); err != nil {
		return err
	}
	return runSupervisorctl("update")
}

func runSupervisorctl(args ...string) error {
	cmd := exec.Command("supervisorctl", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("supervisor: supervisorctl %s: %s: %w", args[0], strings.TrimSpace(string(output)), err)
	}
	return nil
}

// GenerateConfig produces the supervisord daemon configuration. Program
// entries live in includeDir; the run-consul helper writes them at agent
// start time.
func GenerateConfig(includeDir string) string {
	return fmt.Sprintf(`[unix_http_server]
file=/var/run/supervisor.sock
chmod=0700

[supervisord]
logfile=/var/log/supervisor/supervisord.log
pidfile=/var/run/supervisord.pid
childlogdir=/var/log/supervisor

[rpcinterface:supervisor]
supervisor.rpcinterface_factory = supervisor.rpcinterface:make_main_rpcinterface

[supervisorctl]
serverurl=unix:///var/run/supervisor.sock

[include]
files = %s/*.conf
`, includeDir)
}
