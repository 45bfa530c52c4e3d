package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves into an empty directory so a developer's local config.yaml
// cannot leak into the test.
func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "tdm.db", cfg.Store.DatabaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)

	assert.Equal(t, 999, cfg.LISA.Permutations)
	assert.Equal(t, int64(1), cfg.LISA.Seed)

	assert.Equal(t, "MAZ", cfg.Input.IDField)
	assert.Equal(t, "PLACE", cfg.Input.PlaceField)
	assert.Equal(t, "zone_id", cfg.Input.IDColumn)
	assert.Equal(t, "employment", cfg.Input.EmploymentColumn)

	assert.InDelta(t, 100, cfg.Downtown.MinPlaceEmployment, 1e-9)
	assert.InDelta(t, 0.05, cfg.Downtown.SignificanceLevel, 1e-9)
	assert.InDelta(t, 0.90, cfg.Downtown.AreaPercentile, 1e-9)
	assert.Equal(t, 5, cfg.Downtown.MinClusterZones)
	assert.InDelta(t, 100, cfg.Downtown.MinClusterEmployment, 1e-9)
	assert.InDelta(t, 402.25, cfg.Downtown.BufferDistance, 1e-9)
	assert.Equal(t, 10, cfg.Downtown.MaxHullIterations)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	content := `
store:
  driver: postgres
  database_url: postgres://localhost/tdm
downtown:
  significance_level: 0.10
  min_cluster_zones: 3
server:
  port: 9999
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	chdir(t, dir)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/tdm", cfg.Store.DatabaseURL)
	assert.InDelta(t, 0.10, cfg.Downtown.SignificanceLevel, 1e-9)
	assert.Equal(t, 3, cfg.Downtown.MinClusterZones)
	assert.Equal(t, 9999, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.InDelta(t, 0.90, cfg.Downtown.AreaPercentile, 1e-9)
	assert.Equal(t, "MAZ", cfg.Input.IDField)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TDM_STORE_DRIVER", "postgres")
	t.Setenv("TDM_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: ["), 0o644))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{"json info", LogConfig{Level: "info", Format: "json"}, false},
		{"console debug", LogConfig{Level: "debug", Format: "console"}, false},
		{"bad level", LogConfig{Level: "verbose", Format: "json"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := InitLogger(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
