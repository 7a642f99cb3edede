package provision

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInstallConfig_ApplyDefaults(t *testing.T) {
	cfg := InstallConfig{Version: "1.19.2"}
	cfg.ApplyDefaults()

	if cfg.Path != "/opt/consul" {
		t.Errorf("Path = %q, want /opt/consul", cfg.Path)
	}
	if cfg.User != "consul" {
		t.Errorf("User = %q, want consul", cfg.User)
	}
	if cfg.DownloadHost != "releases.hashicorp.com" {
		t.Errorf("DownloadHost = %q, want releases.hashicorp.com", cfg.DownloadHost)
	}
	if cfg.SymlinkDir != "/usr/local/bin" {
		t.Errorf("SymlinkDir = %q, want /usr/local/bin", cfg.SymlinkDir)
	}
	if cfg.SupervisorConfPath != "/etc/supervisor/supervisord.conf" {
		t.Errorf("SupervisorConfPath = %q, want /etc/supervisor/supervisord.conf", cfg.SupervisorConfPath)
	}
}

func TestInstallConfig_DefaultsPreserveExplicitValues(t *testing.T) {
	cfg := InstallConfig{
		Version: "1.19.2",
		Path:    "/srv/consul",
		User:    "svc-consul",
	}
	cfg.ApplyDefaults()

	if cfg.Path != "/srv/consul" {
		t.Errorf("Path = %q, want /srv/consul", cfg.Path)
	}
	if cfg.User != "svc-consul" {
		t.Errorf("User = %q, want svc-consul", cfg.User)
	}
}

func TestInstallConfig_ValidateRequiresVersion(t *testing.T) {
	cfg := InstallConfig{}
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error for missing version")
	}
	if !strings.Contains(err.Error(), "Version") {
		t.Errorf("Validate() error = %q, want message about Version", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "install.yaml")
	content := "version: 1.4.0\npath: /srv/consul\nuser: svc-consul\ndownload_host: mirror.internal\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile(%q) = %v", path, err)
	}
	if cfg.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", cfg.Version)
	}
	if cfg.Path != "/srv/consul" {
		t.Errorf("Path = %q, want /srv/consul", cfg.Path)
	}
	if cfg.User != "svc-consul" {
		t.Errorf("User = %q, want svc-consul", cfg.User)
	}
	if cfg.DownloadHost != "mirror.internal" {
		t.Errorf("DownloadHost = %q, want mirror.internal", cfg.DownloadHost)
	}

	// Defaults are left for the caller so flags can still override.
	if cfg.SymlinkDir != "" {
		t.Errorf("SymlinkDir = %q, want empty before ApplyDefaults", cfg.SymlinkDir)
	}
}

func TestLoadConfigFile_Missing(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/install.yaml"); err == nil {
		t.Fatal("LoadConfigFile() = nil, want error for missing file")
	}
}

func TestLoadConfigFile_Malformed(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "install.yaml")
	if err := os.WriteFile(path, []byte("version: [unclosed"), 0o644); err != nil {
		t.Fatalf("WriteFile(%q) = %v", path, err)
	}

	if _, err := LoadConfigFile(path); err == nil {
		t.Fatal("LoadConfigFile() = nil, want error for malformed YAML")
	}
}
