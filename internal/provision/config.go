// Package provision implements the node provisioning pipeline for the Consul
// agent: OS dependencies, process supervisor, service user, install tree, and
// the release binary.
package provision

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BinaryName is the name of the installed agent binary.
const BinaryName = "consul"

// DefaultPath is the default root of the install tree.
const DefaultPath = "/opt/consul"

// DefaultUser is the default service account name.
const DefaultUser = "consul"

// DefaultDownloadHost serves the official release archives.
const DefaultDownloadHost = "releases.hashicorp.com"

// DefaultSymlinkDir is the system-wide bin directory for the stable symlink.
const DefaultSymlinkDir = "/usr/local/bin"

// DefaultSupervisorConfPath is where the supervisord daemon config is written.
const DefaultSupervisorConfPath = "/etc/supervisor/supervisord.conf"

// DefaultSupervisorIncludeDir holds per-program supervisord entries.
const DefaultSupervisorIncludeDir = "/etc/supervisor/conf.d"

// InstallConfig holds the configuration for provisioning a node.
// InstallConfig is passed as a constructor argument; LoadConfigFile populates
// one from YAML when --config is used.
type InstallConfig struct {
	// Version is the Consul release version to install (required).
	Version string `yaml:"version"`

	// Path is the root of the install tree.
	// Default: /opt/consul
	Path string `yaml:"path"`

	// User is the service account that owns the install tree.
	// Default: consul
	User string `yaml:"user"`

	// DownloadHost is the host serving release archives.
	// Default: releases.hashicorp.com
	DownloadHost string `yaml:"download_host"`

	// SymlinkDir is where the stable binary symlink is created.
	// Default: /usr/local/bin
	SymlinkDir string `yaml:"symlink_dir"`

	// SupervisorConfPath is the supervisord daemon config location.
	// Default: /etc/supervisor/supervisord.conf
	SupervisorConfPath string `yaml:"supervisor_conf_path"`

	// SupervisorIncludeDir is the supervisord program include directory.
	// Default: /etc/supervisor/conf.d
	SupervisorIncludeDir string `yaml:"supervisor_include_dir"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *InstallConfig) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.User == "" {
		c.User = DefaultUser
	}
	if c.DownloadHost == "" {
		c.DownloadHost = DefaultDownloadHost
	}
	if c.SymlinkDir == "" {
		c.SymlinkDir = DefaultSymlinkDir
	}
	if c.SupervisorConfPath == "" {
		c.SupervisorConfPath = DefaultSupervisorConfPath
	}
	if c.SupervisorIncludeDir == "" {
		c.SupervisorIncludeDir = DefaultSupervisorIncludeDir
	}
}

// Validate checks that required fields are set.
func (c *InstallConfig) Validate() error {
	if c.Version == "" {
		return errors.New("provision: config: Version is required")
	}
	if c.Path == "" {
		return errors.New("provision: config: Path is required")
	}
	if c.User == "" {
		return errors.New("provision: config: User is required")
	}
	if c.DownloadHost == "" {
		return errors.New("provision: config: DownloadHost is required")
	}
	if c.SymlinkDir == "" {
		return errors.New("provision: config: SymlinkDir is required")
	}
	return nil
}

// LoadConfigFile reads a YAML install configuration. Defaults are not applied
// here so that flag values can still override file values afterwards.
func LoadConfigFile(path string) (*InstallConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("provision: config: read %s: %w", path, err)
	}
	var cfg InstallConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("provision: config: parse %s: %w", path, err)
	}
	return &cfg, nil
}
