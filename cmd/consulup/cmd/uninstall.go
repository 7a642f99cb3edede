package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/consulup/internal/pkgmgr"
	"github.com/plexsphere/consulup/internal/provision"
	"github.com/plexsphere/consulup/internal/supervisor"
	"github.com/plexsphere/consulup/internal/sysuser"
)

var (
	uninstallPath  string
	uninstallPurge bool
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed Consul agent",
	RunE:  runUninstall,
}

func init() {
	uninstallCmd.Flags().StringVar(&uninstallPath, "path", provision.DefaultPath, "root of the install tree")
	uninstallCmd.Flags().BoolVar(&uninstallPurge, "purge", false, "also remove the whole install tree")
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	mgr, err := pkgmgr.Detect()
	if err != nil {
		return fmt.Errorf("consulup uninstall: %w", err)
	}
	sup, err := supervisor.NewController(mgr.Family())
	if err != nil {
		return fmt.Errorf("consulup uninstall: %w", err)
	}

	cfg := provision.InstallConfig{Path: uninstallPath}
	installer := provision.NewInstaller(cfg, mgr, sup, sysuser.New(), nil, provision.NewHostChecker(), logger)

	if err := installer.Uninstall(uninstallPurge); err != nil {
		return fmt.Errorf("consulup uninstall: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "consul agent uninstalled successfully")
	return nil
}
