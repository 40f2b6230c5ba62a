package config

import (
	"github.com/spf13/pflag"

	"github.com/philipparndt/roomgeo/pkg/building"
)

// Flags are command-line overrides. Only flags the user actually set
// replace file values.
type Flags struct {
	ConfigPath     string
	LogLevel       string
	LogFile        string
	Debug          bool
	StorePath      string
	Workers        int
	FloorTolerance float64
	Categories     []string

	fs *pflag.FlagSet
}

// Register adds the persistent flags to fs
func (f *Flags) Register(fs *pflag.FlagSet) {
	f.fs = fs
	fs.StringVarP(&f.ConfigPath, "config", "c", "", "path to config file (default ./"+FileName+")")
	fs.StringVar(&f.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	fs.StringVar(&f.LogFile, "log-file", "", "also write JSON logs to this file (rotated)")
	fs.BoolVar(&f.Debug, "debug", false, "shorthand for --log-level debug")
	fs.StringVar(&f.StorePath, "db", "", "room database path")
	fs.IntVarP(&f.Workers, "workers", "j", 0, "number of rooms processed in parallel (0 = one per CPU)")
	fs.Float64Var(&f.FloorTolerance, "floor-tolerance", 0, "height band above the lowest vertex used for the floor outline")
	fs.StringSliceVar(&f.Categories, "categories", nil, "element categories attributed to rooms")
}

func (f *Flags) changed(name string) bool {
	return f.fs != nil && f.fs.Changed(name)
}

// Load reads the config file named by --config and applies the flags
func (f *Flags) Load() (*Config, error) {
	cfg, err := Load(f.ConfigPath)
	if err != nil {
		return nil, err
	}
	f.Apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Apply writes the changed flags into cfg
func (f *Flags) Apply(cfg *Config) {
	if f.changed("log-level") {
		cfg.Logging.Level = f.LogLevel
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.changed("log-file") {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.changed("db") {
		cfg.Store.Path = f.StorePath
	}
	if f.changed("workers") {
		cfg.Extraction.Workers = f.Workers
	}
	if f.changed("floor-tolerance") {
		cfg.Extraction.FloorTolerance = f.FloorTolerance
	}
	if f.changed("categories") {
		cfg.Extraction.ElementCategories = make([]building.Category, 0, len(f.Categories))
		for _, c := range f.Categories {
			cfg.Extraction.ElementCategories = append(cfg.Extraction.ElementCategories, building.ParseCategory(c))
		}
	}
}
