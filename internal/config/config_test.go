package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/philipparndt/roomgeo/pkg/building"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 0.1, cfg.Extraction.FloorTolerance)
	assert.Equal(t, 1e-6, cfg.Extraction.WeldTolerance)
	assert.Equal(t, 0, cfg.Extraction.Workers)
	assert.Equal(t, building.DefaultElementCategories, cfg.Extraction.ElementCategories)
	assert.Equal(t, 2, cfg.Export.Precision)
	assert.Equal(t, 3, cfg.Export.VertexPrecision)
	assert.Equal(t, "rooms.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.Debounce)
	assert.NoError(t, cfg.Validate())

	// The default slice is a copy
	cfg.Extraction.ElementCategories[0] = "Changed"
	assert.NotEqual(t, building.Category("Changed"), building.DefaultElementCategories[0])
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomgeo.yaml")
	content := `
extraction:
  floor_tolerance: 0.05
  workers: 4
  element_categories: [Door, Window]
export:
  precision: 3
store:
  path: /var/lib/roomgeo/rooms.db
logging:
  level: debug
watch:
  debounce: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 0.05, cfg.Extraction.FloorTolerance)
	assert.Equal(t, 4, cfg.Extraction.Workers)
	assert.Equal(t, []building.Category{building.CategoryDoor, building.CategoryWindow}, cfg.Extraction.ElementCategories)
	assert.Equal(t, 3, cfg.Export.Precision)
	assert.Equal(t, "/var/lib/roomgeo/rooms.db", cfg.Store.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	// Unset keys keep their defaults
	assert.Equal(t, 3, cfg.Export.VertexPrecision)
	assert.Equal(t, 1e-6, cfg.Extraction.WeldTolerance)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extraction: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Extraction.FloorTolerance = 0
	cfg.Extraction.Workers = -1
	cfg.Export.Precision = 12

	err := cfg.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomgeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extraction:\n  floor_tolerance: -1\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "floor_tolerance")
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "roomgeo.yaml")

	cfg := Default()
	cfg.Extraction.Workers = 8
	cfg.Watch.Debounce = time.Second
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestCategoriesAreCanonical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomgeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extraction:\n  element_categories: [door, WINDOW, Pipe]\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []building.Category{building.CategoryDoor, building.CategoryWindow, "Pipe"}, cfg.Extraction.ElementCategories)

	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"--config", path, "--categories", "covering,flowterminal"}))

	cfg, err = f.Load()
	require.NoError(t, err)
	assert.Equal(t, []building.Category{building.CategoryCovering, building.CategoryFlowTerminal}, cfg.Extraction.ElementCategories)
}

func TestValidateRejectsEmptyCategory(t *testing.T) {
	cfg := Default()
	cfg.Extraction.ElementCategories = []building.Category{building.CategoryDoor, ""}
	assert.ErrorContains(t, cfg.Validate(), "element_categories[1]")
}

func TestFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roomgeo.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store:\n  path: file.db\nextraction:\n  workers: 2\n"), 0644))

	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{
		"--config", path,
		"--db", "flag.db",
		"--log-level", "warn",
		"--categories", "Door,Covering",
	}))

	cfg, err := f.Load()
	require.NoError(t, err)

	assert.Equal(t, "flag.db", cfg.Store.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []building.Category{building.CategoryDoor, building.CategoryCovering}, cfg.Extraction.ElementCategories)
	// Not set on the command line: the file wins
	assert.Equal(t, 2, cfg.Extraction.Workers)
}

func TestDebugFlag(t *testing.T) {
	var f Flags
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Register(fs)
	require.NoError(t, fs.Parse([]string{"--debug", "--log-level", "error"}))

	cfg := Default()
	f.Apply(cfg)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
