// Package fetch downloads and unpacks vendor release archives.
package fetch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// ReleaseURL returns the download URL for a release archive of the named
// binary, following the vendor's versioned release layout.
func ReleaseURL(host, binary, version string) string {
	return fmt.Sprintf("https://%s/%s/%s/%s_%s_linux_amd64.zip", host, binary, version, binary, version)
}

// Downloader retrieves release archives over HTTP. A single GET per archive,
// no retries: a failed download fails the whole provisioning run.
type Downloader struct {
	client *http.Client
	logger *slog.Logger
}

// NewDownloader creates a Downloader with a generously timed-out HTTP client.
func NewDownloader(logger *slog.Logger) *Downloader {
	return NewDownloaderWithClient(&http.Client{Timeout: 15 * time.Minute}, logger)
}

// NewDownloaderWithClient creates a Downloader using the given HTTP client.
func NewDownloaderWithClient(client *http.Client, logger *slog.Logger) *Downloader {
	return &Downloader{
		client: client,
		logger: logger.With("component", "fetch"),
	}
}

// Download fetches url into dir and returns the path of the saved archive.
// The file keeps the final path segment of the URL as its name.
func (d *Downloader) Download(ctx context.Context, url, dir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("fetch: build request for %s: %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: download %s: unexpected status %s", url, resp.Status)
	}

	outPath := filepath.Join(dir, path.Base(req.URL.Path))
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("fetch: create %s: %w", outPath, err)
	}
	defer out.Close()

	n, err := io.Copy(out, resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: save %s: %w", outPath, err)
	}

	d.logger.Info("archive downloaded", "url", url, "path", outPath, "bytes", n)
	return outPath, nil
}

// ExtractZip unpacks archivePath into destDir, preserving file modes.
// Entries that would escape destDir are rejected.
func ExtractZip(archivePath, destDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("fetch: open archive %s: %w", archivePath, err)
	}
	defer r.Close()

	for _, f := range r.File {
		name := filepath.Clean(f.Name)
		if filepath.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return fmt.Errorf("fetch: archive entry %q escapes destination", f.Name)
		}
		target := filepath.Join(destDir, name)

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("fetch: create directory %s: %w", target, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("fetch: create directory for %s: %w", target, err)
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("fetch: open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()

	perm := f.Mode().Perm()
	if perm == 0 {
		// Archives written without mode bits get a readable default.
		perm = 0o644
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("fetch: create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("fetch: extract %s: %w", f.Name, err)
	}
	return nil
}
