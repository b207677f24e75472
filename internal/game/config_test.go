package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig_Valid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
path:
  jitter_wide: 10
  diagonal: true
sim:
  house_hp: 5
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Path.JitterWide)
	assert.True(t, cfg.Path.Diagonal)
	assert.Equal(t, 5, cfg.Sim.HouseHP)
	assert.Equal(t, 750, cfg.Path.TowerPenalty, "unset keys keep defaults")
	assert.Equal(t, 20, cfg.Grid.CellSize)
}

func TestLoadConfig_StockFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("..", "..", "assets", "tuning.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeConfig(t, "grid: [not, a, map]"))
	require.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "sim:\n  step_pixels: 3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfig_Validate(t *testing.T) {
	cases := map[string]func(*Config){
		"zero cell":        func(c *Config) { c.Grid.CellSize = 0 },
		"tiny world":       func(c *Config) { c.Grid.WorldWidth = 5 },
		"negative radius":  func(c *Config) { c.Grid.EmptyRadius = -1 },
		"zero move cost":   func(c *Config) { c.Path.MoveCost = 0 },
		"negative jitter":  func(c *Config) { c.Path.JitterWide = -1 },
		"zero reshuffle":   func(c *Config) { c.Path.ReshuffleEvery = 0 },
		"zero group run":   func(c *Config) { c.Path.GroupRun = 0 },
		"zero move every":  func(c *Config) { c.Sim.MoveEvery = 0 },
		"inverted terrain": func(c *Config) { c.Terrain.BlockingMax = c.Terrain.BlockingMin - 1 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
