// Package pkgmgr selects and drives the host OS package manager. Exactly two
// families are supported: apt (Debian/Ubuntu) and yum (RHEL/Amazon Linux).
package pkgmgr

import (
	"errors"
	"os/exec"
)

// Family identifies the package manager family, which also determines how the
// process supervisor is registered with the init system.
type Family string

const (
	// FamilyApt covers Debian-derived hosts using apt-get.
	FamilyApt Family = "apt"

	// FamilyYum covers RHEL-derived hosts using yum.
	FamilyYum Family = "yum"
)

// ErrNoManager is returned by Detect when neither apt-get nor yum is on PATH.
var ErrNoManager = errors.New("pkgmgr: no supported package manager found (need apt-get or yum)")

// Manager abstracts the host package manager. Install must be idempotent:
// installing an already-installed package returns nil.
type Manager interface {
	// Name returns the package manager binary name.
	Name() string

	// Family returns the package manager family.
	Family() Family

	// Install installs the named packages.
	Install(pkgs ...string) error
}

// Detect returns a Manager for the first supported package manager found on
// PATH, preferring apt-get.
func Detect() (Manager, error) {
	if _, err := exec.LookPath("apt-get"); err == nil {
		return NewApt(), nil
	}
	if _, err := exec.LookPath("yum"); err == nil {
		return NewYum(), nil
	}
	return nil, ErrNoManager
}
