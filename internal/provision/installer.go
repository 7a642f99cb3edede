package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/plexsphere/consulup/internal/assets"
	"github.com/plexsphere/consulup/internal/fetch"
	"github.com/plexsphere/consulup/internal/fsutil"
	"github.com/plexsphere/consulup/internal/pkgmgr"
	"github.com/plexsphere/consulup/internal/supervisor"
)

// dependencyPackages are installed on every host regardless of family. The
// run-consul helper needs curl and jq; unzip backs manual recovery of the
// downloaded archive.
var dependencyPackages = []string{"curl", "unzip", "jq"}

// supervisorPackage is the process supervisor installed alongside.
const supervisorPackage = "supervisor"

// minFreeBytes is the free space required in the scratch directory before
// downloading a release archive.
const minFreeBytes = 128 << 20

// installSubdirs is the fixed directory tree created under the install path.
var installSubdirs = []string{"bin", "config", "data", "log"}

// Installer provisions a node with the Consul agent and its supervisor.
type Installer struct {
	cfg    InstallConfig
	pkgs   pkgmgr.Manager
	sup    supervisor.Controller
	users  UserProvisioner
	fetch  Downloader
	host   HostChecker
	logger *slog.Logger
}

// NewInstaller creates a new Installer with defaults applied. The downloader
// may be nil for operations that never download (Uninstall, Status); the
// package manager and supervisor controller may be nil for Status.
func NewInstaller(cfg InstallConfig, pkgs pkgmgr.Manager, sup supervisor.Controller, users UserProvisioner, fetcher Downloader, host HostChecker, logger *slog.Logger) *Installer {
	cfg.ApplyDefaults()
	return &Installer{
		cfg:    cfg,
		pkgs:   pkgs,
		sup:    sup,
		users:  users,
		fetch:  fetcher,
		host:   host,
		logger: logger.With("component", "provision"),
	}
}

// Install runs the full provisioning pipeline. Steps run in a fixed order and
// the first failure aborts the run; no rollback is attempted. Every create is
// guarded by an existence check, so re-running after a failure is safe.
func (ins *Installer) Install(ctx context.Context) error {
	if err := ins.cfg.Validate(); err != nil {
		return err
	}

	// 1. Preflight
	if !ins.host.IsRoot() {
		return errors.New("provision: install requires root privileges")
	}
	free, err := ins.host.FreeDiskBytes(os.TempDir())
	if err != nil {
		return err
	}
	if free < minFreeBytes {
		return fmt.Errorf("provision: %d bytes free in %s, need at least %d", free, os.TempDir(), minFreeBytes)
	}

	// 2. OS dependencies and the supervisor package
	pkgs := append(append([]string{}, dependencyPackages...), supervisorPackage)
	ins.logger.Info("installing OS dependencies", "manager", ins.pkgs.Name(), "packages", pkgs)
	if err := ins.pkgs.Install(pkgs...); err != nil {
		return err
	}

	// 3. Register supervisord with the init system
	if err := ins.sup.Register(); err != nil {
		return err
	}
	ins.logger.Info("supervisor registered", "family", ins.pkgs.Family())

	// 4. Supervisord daemon configuration
	if err := ins.writeSupervisorConfig(); err != nil {
		return err
	}

	// 5. Service user
	if err := ins.users.Ensure(ins.cfg.User); err != nil {
		return err
	}
	uid, gid, err := ins.users.LookupIDs(ins.cfg.User)
	if err != nil {
		return err
	}
	ins.logger.Info("service user ready", "user", ins.cfg.User, "uid", uid, "gid", gid)

	// 6. Install tree
	for _, sub := range installSubdirs {
		dir := filepath.Join(ins.cfg.Path, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("provision: create directory %s: %w", dir, err)
		}
	}
	if err := ins.users.ChownTree(ins.cfg.Path, uid, gid); err != nil {
		return err
	}
	ins.logger.Info("install tree created", "path", ins.cfg.Path)

	// 7. Release binary
	if err := ins.installBinary(ctx, uid, gid); err != nil {
		return err
	}

	// 8. Stable symlink
	if err := ins.linkBinary(); err != nil {
		return err
	}

	// 9. Run helper script
	return ins.installRunScript(uid, gid)
}

func (ins *Installer) writeSupervisorConfig() error {
	confDir := filepath.Dir(ins.cfg.SupervisorConfPath)
	for _, dir := range []string{confDir, ins.cfg.SupervisorIncludeDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("provision: create directory %s: %w", dir, err)
		}
	}

	content := supervisor.GenerateConfig(ins.cfg.SupervisorIncludeDir)
	if err := fsutil.WriteFileAtomic(confDir, filepath.Base(ins.cfg.SupervisorConfPath), []byte(content), 0o644); err != nil {
		return fmt.Errorf("provision: write supervisor config: %w", err)
	}
	ins.logger.Info("supervisor config written", "path", ins.cfg.SupervisorConfPath)
	return nil
}

func (ins *Installer) installBinary(ctx context.Context, uid, gid int) error {
	url := fetch.ReleaseURL(ins.cfg.DownloadHost, BinaryName, ins.cfg.Version)

	scratch, err := os.MkdirTemp("", "consulup-")
	if err != nil {
		return fmt.Errorf("provision: create scratch directory: %w", err)
	}
	defer os.RemoveAll(scratch)

	archive, err := ins.fetch.Download(ctx, url, scratch)
	if err != nil {
		return err
	}
	if err := fetch.ExtractZip(archive, scratch); err != nil {
		return err
	}

	src := filepath.Join(scratch, BinaryName)
	if _, err := os.Stat(src); err != nil {
		return fmt.Errorf("provision: archive missing %s binary: %w", BinaryName, err)
	}

	dst := ins.binaryPath()
	if err := fsutil.CopyFile(src, dst, 0o755); err != nil {
		return err
	}
	if err := ins.users.Chown(dst, uid, gid); err != nil {
		return err
	}
	ins.logger.Info("binary installed", "path", dst, "version", ins.cfg.Version)
	return nil
}

func (ins *Installer) linkBinary() error {
	link := filepath.Join(ins.cfg.SymlinkDir, BinaryName)
	created, err := fsutil.EnsureSymlink(ins.binaryPath(), link)
	if err != nil {
		return fmt.Errorf("provision: %w", err)
	}
	if created {
		ins.logger.Info("symlink created", "link", link, "target", ins.binaryPath())
	} else {
		ins.logger.Info("symlink already present, skipping", "link", link)
	}
	return nil
}

func (ins *Installer) installRunScript(uid, gid int) error {
	binDir := filepath.Join(ins.cfg.Path, "bin")
	name := "run-" + BinaryName
	if err := fsutil.WriteFileAtomic(binDir, name, assets.RunConsul, 0o755); err != nil {
		return fmt.Errorf("provision: write run script: %w", err)
	}
	path := filepath.Join(binDir, name)
	if err := ins.users.Chown(path, uid, gid); err != nil {
		return err
	}
	ins.logger.Info("run script installed", "path", path)
	return nil
}

func (ins *Installer) binaryPath() string {
	return filepath.Join(ins.cfg.Path, "bin", BinaryName)
}
