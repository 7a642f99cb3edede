// Package assets holds the shell files shipped inside the consulup binary and
// written out during provisioning.
package assets

import _ "embed"

// RunConsul is the helper script installed next to the consul binary. It
// renders a supervisord program entry and hands the agent to the supervisor.
//
//go:embed run-consul.sh
var RunConsul []byte

// SupervisordInit is the SysV init script registered on hosts without a
// systemd-managed supervisor package.
//
//go:embed supervisord-init.sh
var SupervisordInit []byte
