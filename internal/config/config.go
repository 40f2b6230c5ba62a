// Package config handles roomgeo configuration loading and management.
package config

import (
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/philipparndt/roomgeo/pkg/analysis"
	"github.com/philipparndt/roomgeo/pkg/building"
	"github.com/philipparndt/roomgeo/pkg/export"
)

// Config holds all settings
type Config struct {
	Extraction ExtractionConfig `yaml:"extraction"`
	Export     ExportConfig     `yaml:"export"`
	Store      StoreConfig      `yaml:"store"`
	Logging    LoggingConfig    `yaml:"logging"`
	Watch      WatchConfig      `yaml:"watch"`
}

// ExtractionConfig tunes the geometry pipeline
type ExtractionConfig struct {
	FloorTolerance    float64             `yaml:"floor_tolerance"`
	WeldTolerance     float64             `yaml:"weld_tolerance"`
	Workers           int                 `yaml:"workers"` // 0 = one per CPU
	ElementCategories []building.Category `yaml:"element_categories"`
}

// ExportConfig holds rounding settings
type ExportConfig struct {
	Precision       int `yaml:"precision"`
	VertexPrecision int `yaml:"vertex_precision"`
}

// StoreConfig holds the room database location
type StoreConfig struct {
	Path string `yaml:"path"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Default returns a Config with default values
func Default() *Config {
	return &Config{
		Extraction: ExtractionConfig{
			FloorTolerance:    analysis.DefaultFloorTolerance,
			WeldTolerance:     analysis.DefaultWeldTolerance,
			Workers:           0,
			ElementCategories: append([]building.Category(nil), building.DefaultElementCategories...),
		},
		Export: ExportConfig{
			Precision:       export.DefaultPrecision.Scalar,
			VertexPrecision: export.DefaultPrecision.Vertex,
		},
		Store: StoreConfig{
			Path: "rooms.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: 500 * time.Millisecond,
		},
	}
}

// Precision returns the export rounding settings
func (c *Config) Precision() export.Precision {
	return export.Precision{Scalar: c.Export.Precision, Vertex: c.Export.VertexPrecision}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var err error
	if c.Extraction.FloorTolerance <= 0 {
		err = multierr.Append(err, fmt.Errorf("extraction.floor_tolerance must be positive, got %v", c.Extraction.FloorTolerance))
	}
	if c.Extraction.WeldTolerance < 0 {
		err = multierr.Append(err, fmt.Errorf("extraction.weld_tolerance must not be negative, got %v", c.Extraction.WeldTolerance))
	}
	if c.Extraction.Workers < 0 {
		err = multierr.Append(err, fmt.Errorf("extraction.workers must not be negative, got %d", c.Extraction.Workers))
	}
	if c.Export.Precision < 0 || c.Export.Precision > 9 {
		err = multierr.Append(err, fmt.Errorf("export.precision must be within 0..9, got %d", c.Export.Precision))
	}
	if c.Export.VertexPrecision < 0 || c.Export.VertexPrecision > 9 {
		err = multierr.Append(err, fmt.Errorf("export.vertex_precision must be within 0..9, got %d", c.Export.VertexPrecision))
	}
	for i, cat := range c.Extraction.ElementCategories {
		if cat == "" {
			err = multierr.Append(err, fmt.Errorf("extraction.element_categories[%d] is empty", i))
		}
	}
	if c.Watch.Debounce < 0 {
		err = multierr.Append(err, fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce))
	}
	return err
}

// canonicalCategories spells configured category names the way the model
// loader does, so "door" selects Door elements.
func canonicalCategories(cats []building.Category) []building.Category {
	if cats == nil {
		return nil
	}
	out := make([]building.Category, len(cats))
	for i, c := range cats {
		out[i] = building.ParseCategory(string(c))
	}
	return out
}
