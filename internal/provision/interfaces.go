package provision

import "context"

// UserProvisioner abstracts service account management for testability.
// Ensure must be idempotent: an existing account returns nil.
type UserProvisioner interface {
	// Ensure creates the named system account if absent.
	Ensure(name string) error

	// LookupIDs returns the numeric uid and gid of the named user.
	LookupIDs(name string) (uid, gid int, err error)

	// Chown assigns ownership of a single path.
	Chown(path string, uid, gid int) error

	// ChownTree assigns ownership of a path and everything under it.
	ChownTree(root string, uid, gid int) error
}

// Downloader abstracts archive retrieval for testability.
type Downloader interface {
	// Download fetches url into dir and returns the saved file path.
	Download(ctx context.Context, url, dir string) (string, error)
}

// HostChecker abstracts host preflight probes for testability.
type HostChecker interface {
	// IsRoot returns true if the current process has root privileges.
	IsRoot() bool

	// FreeDiskBytes returns the free bytes on the filesystem containing path.
	FreeDiskBytes(path string) (uint64, error)
}
