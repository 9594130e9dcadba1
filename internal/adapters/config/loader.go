// Package config loads sculpt settings from sculpt.yaml and SCULPT_* environment variables.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "sculpt"

// envOverrides lists the settings that can be overridden from the environment.
type envOverrides struct {
	Root              string         `envconfig:"ROOT"`
	CacheDir          string         `envconfig:"CACHE_DIR"`
	LogLevel          string         `envconfig:"LOG_LEVEL"`
	LogFormat         string         `envconfig:"LOG_FORMAT"`
	Progress          *bool          `envconfig:"PROGRESS"`
	ResolutionTimeout *time.Duration `envconfig:"RESOLUTION_TIMEOUT"`
	Concurrency       int            `envconfig:"CONCURRENCY"`
	ResolverCommand   []string       `envconfig:"RESOLVER_COMMAND"`
	MetricsAddr       string         `envconfig:"METRICS_ADDR"`
}

// Loader resolves the effective settings for a working directory.
type Loader struct {
	Filename string
}

// NewLoader creates a Loader reading FileName.
func NewLoader() *Loader {
	return &Loader{Filename: FileName}
}

// Load computes the settings for cwd: defaults, then the configuration file found at the
// project root, then environment overrides. The project root is SCULPT_ROOT when set,
// otherwise the nearest ancestor of cwd containing the configuration file, otherwise cwd.
func (l *Loader) Load(cwd string) (*Settings, error) {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, zerr.Wrap(err, "failed to read environment overrides")
	}

	root := env.Root
	if root == "" {
		root = l.findRoot(cwd)
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to resolve project root"), "root", root)
	}

	settings := Defaults(root)
	file, err := l.readFile(filepath.Join(root, l.Filename))
	if err != nil {
		return nil, err
	}
	if file != nil {
		if err := file.apply(settings); err != nil {
			return nil, err
		}
	}
	env.apply(settings)

	if !filepath.IsAbs(settings.CacheDir) {
		settings.CacheDir = filepath.Join(root, settings.CacheDir)
	}
	return settings, nil
}

func (l *Loader) findRoot(cwd string) string {
	dir := filepath.Clean(cwd)
	for {
		if _, err := os.Stat(filepath.Join(dir, l.Filename)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

func (l *Loader) readFile(path string) (*Sculptfile, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is derived from the project root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	}

	var file Sculptfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
	}
	return &file, nil
}

func (f *Sculptfile) apply(s *Settings) error {
	if f.Cache.Dir != "" {
		s.CacheDir = f.Cache.Dir
	}
	if f.Cache.Key != "" {
		s.SnapshotKey = f.Cache.Key
	}
	if f.Log.Level != "" {
		s.LogLevel = f.Log.Level
	}
	if f.Log.Format != "" {
		s.LogFormat = f.Log.Format
	}
	if f.Log.Progress {
		s.Progress = true
	}
	if f.Resolution.Timeout != "" {
		d, err := time.ParseDuration(f.Resolution.Timeout)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid resolution timeout"), "value", f.Resolution.Timeout)
		}
		s.ResolutionTimeout = d
	}
	if f.Resolution.Concurrency > 0 {
		s.Concurrency = f.Resolution.Concurrency
	}
	if len(f.Resolver.Command) > 0 {
		s.Resolver.Command = f.Resolver.Command
	}
	if len(f.Resolver.Include) > 0 {
		s.Resolver.Include = f.Resolver.Include
	}
	if f.Resolver.Exclude != nil {
		s.Resolver.Exclude = f.Resolver.Exclude
	}
	if f.Resolver.TSConfig != nil {
		s.Resolver.TSConfig = *f.Resolver.TSConfig
	}
	if f.Watch.Debounce != "" {
		d, err := time.ParseDuration(f.Watch.Debounce)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid watch debounce"), "value", f.Watch.Debounce)
		}
		s.Watch.Debounce = d
	}
	if f.Watch.Ignore != nil {
		s.Watch.Ignore = f.Watch.Ignore
	}
	if f.Watch.MetricsAddr != "" {
		s.Watch.MetricsAddr = f.Watch.MetricsAddr
	}
	return nil
}

func (e *envOverrides) apply(s *Settings) {
	if e.CacheDir != "" {
		s.CacheDir = e.CacheDir
	}
	if e.LogLevel != "" {
		s.LogLevel = e.LogLevel
	}
	if e.LogFormat != "" {
		s.LogFormat = e.LogFormat
	}
	if e.Progress != nil {
		s.Progress = *e.Progress
	}
	if e.ResolutionTimeout != nil {
		s.ResolutionTimeout = *e.ResolutionTimeout
	}
	if e.Concurrency > 0 {
		s.Concurrency = e.Concurrency
	}
	if len(e.ResolverCommand) > 0 {
		s.Resolver.Command = e.ResolverCommand
	}
	if e.MetricsAddr != "" {
		s.Watch.MetricsAddr = e.MetricsAddr
	}
}
