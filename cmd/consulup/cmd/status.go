package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plexsphere/consulup/internal/provision"
	"github.com/plexsphere/consulup/internal/sysuser"
)

var statusPath string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what consulup has provisioned on this node",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusPath, "path", provision.DefaultPath, "root of the install tree")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg := provision.InstallConfig{Path: statusPath}
	installer := provision.NewInstaller(cfg, nil, nil, sysuser.New(), nil, provision.NewHostChecker(), logger)

	st, err := installer.Status()
	if err != nil {
		return fmt.Errorf("consulup status: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Binary installed:      %v (%s)\n", st.BinaryInstalled, st.BinaryPath)
	if st.SymlinkPresent {
		fmt.Fprintf(w, "Symlink present:       true -> %s\n", st.SymlinkTarget)
	} else {
		fmt.Fprintf(w, "Symlink present:       false\n")
	}
	fmt.Fprintf(w, "Service user present:  %v\n", st.UserPresent)
	fmt.Fprintf(w, "Supervisor configured: %v\n", st.SupervisorConfigured)

	return nil
}
