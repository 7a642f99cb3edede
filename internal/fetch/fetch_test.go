package fetch

import (
	"archive/zip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestReleaseURL(t *testing.T) {
	tests := []struct {
		name    string
		host    string
		binary  string
		version string
		want    string
	}{
		{
			name:    "official host",
			host:    "releases.hashicorp.com",
			binary:  "consul",
			version: "1.4.0",
			want:    "https://releases.hashicorp.com/consul/1.4.0/consul_1.4.0_linux_amd64.zip",
		},
		{
			name:    "internal mirror",
			host:    "mirror.internal",
			binary:  "consul",
			version: "1.19.2",
			want:    "https://mirror.internal/consul/1.19.2/consul_1.19.2_linux_amd64.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReleaseURL(tt.host, tt.binary, tt.version)
			if got != tt.want {
				t.Errorf("ReleaseURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDownload(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		io.WriteString(w, "archive-bytes")
	}))

	client := ts.Client()
	d := NewDownloaderWithClient(client, testLogger())

	tmpDir := t.TempDir()
	path, err := d.Download(context.Background(), ts.URL+"/consul/1.4.0/consul_1.4.0_linux_amd64.zip", tmpDir)
	if err != nil {
		t.Fatalf("Download() = %v", err)
	}

	if filepath.Base(path) != "consul_1.4.0_linux_amd64.zip" {
		t.Errorf("saved name = %q, want consul_1.4.0_linux_amd64.zip", filepath.Base(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%q) = %v", path, err)
	}
	if string(data) != "archive-bytes" {
		t.Errorf("saved content = %q, want %q", string(data), "archive-bytes")
	}

	client.CloseIdleConnections()
	ts.Close()
}

func TestDownload_NonOKStatus(t *testing.T) {
	defer goleak.VerifyNone(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no such release", http.StatusNotFound)
	}))

	client := ts.Client()
	d := NewDownloaderWithClient(client, testLogger())

	_, err := d.Download(context.Background(), ts.URL+"/consul/9.9.9/consul_9.9.9_linux_amd64.zip", t.TempDir())
	if err == nil {
		t.Fatal("Download() = nil, want error for 404")
	}
	if !strings.Contains(err.Error(), "404") {
		t.Errorf("Download() error = %q, want status in message", err)
	}

	client.CloseIdleConnections()
	ts.Close()
}

func writeTestZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.zip")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Create(%q) = %v", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, content := range entries {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: name})
		if err != nil {
			t.Fatalf("CreateHeader(%q) = %v", name, err)
		}
		if _, err := io.WriteString(w, content); err != nil {
			t.Fatalf("write entry %q: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

func TestExtractZip(t *testing.T) {
	archive := writeTestZip(t, map[string]string{
		"consul":         "binary-bytes",
		"docs/README.md": "docs",
	})

	destDir := t.TempDir()
	if err := ExtractZip(archive, destDir); err != nil {
		t.Fatalf("ExtractZip() = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "consul"))
	if err != nil {
		t.Fatalf("ReadFile(consul) = %v", err)
	}
	if string(data) != "binary-bytes" {
		t.Errorf("extracted content = %q, want %q", string(data), "binary-bytes")
	}
	if _, err := os.Stat(filepath.Join(destDir, "docs", "README.md")); err != nil {
		t.Errorf("nested entry not extracted: %v", err)
	}
}

func TestExtractZip_AllowsDotDotPrefixedNames(t *testing.T) {
	// "..data" and friends are legitimate file names; only a real parent
	// reference escapes the destination.
	archive := writeTestZip(t, map[string]string{
		"..data":          "kubernetes-style name",
		"..config/marker": "nested",
	})

	destDir := t.TempDir()
	if err := ExtractZip(archive, destDir); err != nil {
		t.Fatalf("ExtractZip() = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(destDir, "..data"))
	if err != nil {
		t.Fatalf("ReadFile(..data) = %v", err)
	}
	if string(data) != "kubernetes-style name" {
		t.Errorf("extracted content = %q, want %q", string(data), "kubernetes-style name")
	}
	if _, err := os.Stat(filepath.Join(destDir, "..config", "marker")); err != nil {
		t.Errorf("nested entry not extracted: %v", err)
	}
}

func TestExtractZip_RejectsTraversal(t *testing.T) {
	archive := writeTestZip(t, map[string]string{
		"../evil": "nope",
	})

	err := ExtractZip(archive, t.TempDir())
	if err == nil {
		t.Fatal("ExtractZip() = nil, want error for traversal entry")
	}
	if !strings.Contains(err.Error(), "escapes destination") {
		t.Errorf("ExtractZip() error = %q, want message about escaping destination", err)
	}
}
