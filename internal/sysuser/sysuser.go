// Package sysuser provisions the dedicated service account that owns the
// agent install tree.
package sysuser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
)

// Provisioner manages OS user accounts and file ownership via os/user and
// the useradd binary.
type Provisioner struct{}

// New returns a Provisioner backed by the real OS user database.
func New() *Provisioner { return &Provisioner{} }

// Ensure creates a system account with the given name if it does not already
// exist. The account gets no home directory and no login shell.
func (p *Provisioner) Ensure(name string) error {
	if _, err := user.Lookup(name); err == nil {
		return nil
	} else {
		var unknown user.UnknownUserError
		if !errors.As(err, &unknown) {
			return fmt.Errorf("sysuser: lookup %s: %w", name, err)
		}
	}

	cmd := exec.Command("useradd", "--system", "--no-create-home", "--shell", "/bin/false", name)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("sysuser: useradd %s: %s: %w", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// LookupIDs returns the numeric uid and gid of the named user.
func (p *Provisioner) LookupIDs(name string) (uid, gid int, err error) {
	u, err := user.Lookup(name)
	if err != nil {
		return 0, 0, fmt.Errorf("sysuser: lookup %s: %w", name, err)
	}
	uid, err = strconv.Atoi(u.Uid)
	if err != nil {
		return 0, 0, fmt.Errorf("sysuser: parse uid %q for %s: %w", u.Uid, name, err)
	}
	gid, err = strconv.Atoi(u.Gid)
	if err != nil {
		return 0, 0, fmt.Errorf("sysuser: parse gid %q for %s: %w", u.Gid, name, err)
	}
	return uid, gid, nil
}

// Chown assigns ownership of a single path.
func (p *Provisioner) Chown(path string, uid, gid int) error {
	if err := os.Chown(path, uid, gid); err != nil {
		return fmt.Errorf("sysuser: chown %s: %w", path, err)
	}
	return nil
}

// ChownTree assigns ownership of root and everything under it. Symlinks are
// changed themselves, not followed.
func (p *Provisioner) ChownTree(root string, uid, gid int) error {
	return filepath.WalkDir(root, func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("sysuser: walk %s: %w", path, err)
		}
		if err := os.Lchown(path, uid, gid); err != nil {
			return fmt.Errorf("sysuser: chown %s: %w", path, err)
		}
		return nil
	})
}
