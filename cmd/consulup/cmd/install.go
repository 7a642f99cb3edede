package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/plexsphere/consulup/internal/fetch"
	"github.com/plexsphere/consulup/internal/pkgmgr"
	"github.com/plexsphere/consulup/internal/provision"
	"github.com/plexsphere/consulup/internal/supervisor"
	"github.com/plexsphere/consulup/internal/sysuser"
)

var (
	installVersion      string
	installPath         string
	installUser         string
	installDownloadHost string
	installConfigFile   string
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Provision this node with the Consul agent",
	Long: "Installs OS package dependencies and the supervisord process supervisor,\n" +
		"creates the service user and install tree, downloads the requested Consul\n" +
		"release, and links the binary into the system bin directory.",
	RunE: runInstall,
}

func init() {
	installCmd.Flags().StringVar(&installVersion, "version", "", "Consul release version to install (required)")
	installCmd.Flags().StringVar(&installPath, "path", provision.DefaultPath, "root of the install tree")
	installCmd.Flags().StringVar(&installUser, "user", provision.DefaultUser, "service account that owns the install tree")
	installCmd.Flags().StringVar(&installDownloadHost, "download-host", provision.DefaultDownloadHost, "host serving the release archives")
	installCmd.Flags().StringVar(&installConfigFile, "config", "", "optional YAML file with install settings (flags override)")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, _ []string) error {
	logger := newLogger()

	cfg, err := resolveInstallConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("consulup install: %w", err)
	}

	if cfg.Version == "" {
		return errors.New("--version is required")
	}

	mgr, err := pkgmgr.Detect()
	if err != nil {
		return fmt.Errorf("consulup install: %w", err)
	}
	sup, err := supervisor.NewController(mgr.Family())
	if err != nil {
		return fmt.Errorf("consulup install: %w", err)
	}

	installer := provision.NewInstaller(cfg, mgr, sup, sysuser.New(), fetch.NewDownloader(logger), provision.NewHostChecker(), logger)
	if err := installer.Install(cmd.Context()); err != nil {
		return fmt.Errorf("consulup install: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "consul agent installed successfully")
	return nil
}

// resolveInstallConfig merges the optional --config file with the install
// flags. Explicit flags win over file values; fields set in neither place
// fall back to the flag defaults.
func resolveInstallConfig(flags *pflag.FlagSet) (provision.InstallConfig, error) {
	cfg := provision.InstallConfig{}
	if installConfigFile != "" {
		loaded, err := provision.LoadConfigFile(installConfigFile)
		if err != nil {
			return provision.InstallConfig{}, err
		}
		cfg = *loaded
	}

	if flags.Changed("version") || cfg.Version == "" {
		cfg.Version = installVersion
	}
	if flags.Changed("path") || cfg.Path == "" {
		cfg.Path = installPath
	}
	if flags.Changed("user") || cfg.User == "" {
		cfg.User = installUser
	}
	if flags.Changed("download-host") || cfg.DownloadHost == "" {
		cfg.DownloadHost = installDownloadHost
	}

	return cfg, nil
}
