package config

import (
	"path/filepath"
	"runtime"
	"time"
)

const (
	// FileName is the name of the optional configuration file at the project root.
	FileName = "sculpt.yaml"

	// DefaultCacheDir is the cache directory, relative to the project root.
	DefaultCacheDir = ".cache"

	// DefaultSnapshotKey is the cache key of the persisted project snapshot.
	DefaultSnapshotKey = "project.json"

	// DefaultResolutionTimeout bounds how long a pass waits for one workspace's inputs.
	DefaultResolutionTimeout = 30 * time.Second

	// DefaultDebounce is the window in which watch events are coalesced into one pass.
	DefaultDebounce = 200 * time.Millisecond
)

// Settings is the effective configuration of one invocation.
type Settings struct {
	// Root is the absolute project root.
	Root string
	// CacheDir is the absolute directory of the cache store.
	CacheDir string
	// SnapshotKey is the cache key under which the project snapshot is stored.
	SnapshotKey string

	LogLevel  string
	LogFormat string
	// Progress prints one line per finished unit of work to stderr.
	Progress bool

	// ResolutionTimeout bounds the wait for a single resolution; zero disables the timeout.
	ResolutionTimeout time.Duration
	// Concurrency limits parallel fingerprinting within a workspace.
	Concurrency int

	Resolver ResolverSettings
	Watch    WatchSettings
}

// ResolverSettings configures the input resolver.
// A non-empty Command selects the command resolver; otherwise inputs are globbed.
type ResolverSettings struct {
	Command  []string
	Include  []string
	Exclude  []string
	TSConfig bool
}

// WatchSettings configures watch mode.
type WatchSettings struct {
	Debounce    time.Duration
	Ignore      []string
	MetricsAddr string
}

// Defaults returns the settings used when neither a file nor the environment override them.
func Defaults(root string) *Settings {
	return &Settings{
		Root:              root,
		CacheDir:          filepath.Join(root, DefaultCacheDir),
		SnapshotKey:       DefaultSnapshotKey,
		LogLevel:          "info",
		LogFormat:         "text",
		ResolutionTimeout: DefaultResolutionTimeout,
		Concurrency:       runtime.NumCPU(),
		Resolver: ResolverSettings{
			Exclude:  []string{"**/node_modules/**", "**/.git/**", "**/dist/**"},
			TSConfig: true,
		},
		Watch: WatchSettings{
			Debounce: DefaultDebounce,
			Ignore:   []string{"**/node_modules/**", "**/.git/**"},
		},
	}
}
