package config

// Sculptfile represents the structure of the sculpt.yaml configuration file.
type Sculptfile struct {
	Version    string        `yaml:"version"`
	Cache      CacheDTO      `yaml:"cache"`
	Log        LogDTO        `yaml:"log"`
	Resolution ResolutionDTO `yaml:"resolution"`
	Resolver   ResolverDTO   `yaml:"resolver"`
	Watch      WatchDTO      `yaml:"watch"`
}

// CacheDTO configures where project snapshots are persisted.
type CacheDTO struct {
	Dir string `yaml:"dir"`
	Key string `yaml:"key"`
}

// LogDTO configures logging.
type LogDTO struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Progress bool   `yaml:"progress"`
}

// ResolutionDTO configures how inputs are awaited and fingerprinted.
type ResolutionDTO struct {
	Timeout     string `yaml:"timeout"`
	Concurrency int    `yaml:"concurrency"`
}

// ResolverDTO selects and configures the input resolver.
type ResolverDTO struct {
	Command  []string `yaml:"command"`
	Include  []string `yaml:"include"`
	Exclude  []string `yaml:"exclude"`
	TSConfig *bool    `yaml:"tsconfig"`
}

// WatchDTO configures watch mode.
type WatchDTO struct {
	Debounce    string   `yaml:"debounce"`
	Ignore      []string `yaml:"ignore"`
	MetricsAddr string   `yaml:"metricsAddr"`
}
