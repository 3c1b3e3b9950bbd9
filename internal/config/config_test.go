package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals() {
	cfg = nil
	v = nil
}

func TestInit(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")

	configContent := `
game:
  map:
    width: 20
    height: 14
    seed: 99
    noise:
      octaves: 2
    roster: [tank, truck]
  match:
    players: 3
    max_turns: 40
  fog_of_war:
    enabled: false
registry:
  path: units.yaml
logging:
  level: debug
  format: json
`

	err := os.WriteFile(configFile, []byte(configContent), 0644)
	require.NoError(t, err)

	resetGlobals()
	err = Init(configFile)
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 20, c.Game.Map.Width)
	assert.Equal(t, 14, c.Game.Map.Height)
	assert.Equal(t, int64(99), c.Game.Map.Seed)
	assert.Equal(t, 2, c.Game.Map.Noise.Octaves)
	assert.Equal(t, []string{"tank", "truck"}, c.Game.Map.Roster)
	assert.Equal(t, 3, c.Game.Match.Players)
	assert.Equal(t, 40, c.Game.Match.MaxTurns)
	assert.False(t, c.Game.FogOfWar.Enabled)
	assert.Equal(t, "units.yaml", c.Registry.Path)
	assert.Equal(t, "debug", c.Logging.Level)
	assert.Equal(t, "json", c.Logging.Format)

	// untouched keys keep their defaults
	assert.Equal(t, 0.12, c.Game.Map.Noise.Frequency)
	assert.Equal(t, 200, c.Game.Match.MaxCommandsPerTurn)
	assert.Equal(t, configFile, ConfigFilePath())
}

func TestInitWithDefaults(t *testing.T) {
	resetGlobals()

	err := Init("/non/existent/path/config.yaml")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 16, c.Game.Map.Width)
	assert.Equal(t, 12, c.Game.Map.Height)
	assert.Equal(t, int64(0), c.Game.Map.Seed)
	assert.True(t, c.Game.Map.Roads)
	assert.Len(t, c.Game.Map.Roster, 5)
	assert.Equal(t, 2, c.Game.Match.Players)
	assert.Equal(t, 5, c.Game.Match.UnitsPerPlayer)
	assert.Equal(t, 100, c.Game.Match.MaxTurns)
	assert.True(t, c.Game.FogOfWar.Enabled)
	assert.Empty(t, c.Registry.Path)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "console", c.Logging.Format)
	assert.False(t, c.Development.LogEvents)
}

func TestInit_InvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  match:\n    players: 7\n"), 0644))

	resetGlobals()
	err := Init(configFile)
	assert.ErrorContains(t, err, "game.match.players")
}

func TestEnvironmentVariables(t *testing.T) {
	resetGlobals()

	t.Setenv("HXT_GAME_MAP_WIDTH", "30")
	t.Setenv("HXT_GAME_MATCH_MAX_TURNS", "12")
	t.Setenv("HXT_LOGGING_LEVEL", "warn")

	err := Init("")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 30, c.Game.Map.Width)
	assert.Equal(t, 12, c.Game.Match.MaxTurns)
	assert.Equal(t, "warn", c.Logging.Level)
}

func TestSet(t *testing.T) {
	resetGlobals()

	err := Init("")
	require.NoError(t, err)

	Set("game.map.width", 24)
	Set("development.log_events", true)

	c := Get()
	assert.Equal(t, 24, c.Game.Map.Width)
	assert.True(t, c.Development.LogEvents)
}

func TestGetHelpers(t *testing.T) {
	resetGlobals()

	err := Init("")
	require.NoError(t, err)

	Set("test.string", "hello")
	Set("test.int", 42)
	Set("test.bool", true)
	Set("test.float", 3.14)

	assert.Equal(t, "hello", GetString("test.string"))
	assert.Equal(t, 42, GetInt("test.int"))
	assert.Equal(t, true, GetBool("test.bool"))
	assert.Equal(t, 3.14, GetFloat64("test.float"))
	assert.Same(t, v, GetViper())
}

func TestLoadEnvironmentConfig(t *testing.T) {
	tmpDir := t.TempDir()

	baseConfig := filepath.Join(tmpDir, "config.yaml")
	baseContent := `
game:
  map:
    width: 16
  match:
    max_turns: 50
`
	err := os.WriteFile(baseConfig, []byte(baseContent), 0644)
	require.NoError(t, err)

	envConfig := filepath.Join(tmpDir, "config.prod.yaml")
	envContent := `
game:
  match:
    max_turns: 300
logging:
  format: json
`
	err = os.WriteFile(envConfig, []byte(envContent), 0644)
	require.NoError(t, err)

	oldWd, _ := os.Getwd()
	_ = os.Chdir(tmpDir)
	defer func() { _ = os.Chdir(oldWd) }()

	resetGlobals()
	err = Init(baseConfig)
	require.NoError(t, err)

	err = LoadEnvironmentConfig("prod")
	require.NoError(t, err)

	c := Get()
	assert.Equal(t, 16, c.Game.Map.Width)
	assert.Equal(t, 300, c.Game.Match.MaxTurns)
	assert.Equal(t, "json", c.Logging.Format)

	assert.NoError(t, LoadEnvironmentConfig(""))
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		resetGlobals()
		require.NoError(t, Init("/non/existent/config.yaml"))
		c := *Get()
		return &c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"zero width", func(c *Config) { c.Game.Map.Width = 0 }, "game.map dimensions"},
		{"empty roster", func(c *Config) { c.Game.Map.Roster = nil }, "game.map.roster"},
		{"no octaves", func(c *Config) { c.Game.Map.Noise.Octaves = 0 }, "octaves"},
		{"zero frequency", func(c *Config) { c.Game.Map.Noise.Frequency = 0 }, "frequency"},
		{"persistence above one", func(c *Config) { c.Game.Map.Noise.Persistence = 1.5 }, "persistence"},
		{"negative tree level", func(c *Config) { c.Game.Map.Noise.TreeLevel = -0.1 }, "tree_level"},
		{"water above hills", func(c *Config) { c.Game.Map.Noise.WaterLevel = 0.9 }, "water_level must not exceed"},
		{"one player", func(c *Config) { c.Game.Match.Players = 1 }, "game.match.players"},
		{"five players", func(c *Config) { c.Game.Match.Players = 5 }, "game.match.players"},
		{"no units", func(c *Config) { c.Game.Match.UnitsPerPlayer = 0 }, "units_per_player"},
		{"no turn limit", func(c *Config) { c.Game.Match.MaxTurns = 0 }, "max_turns"},
		{"no commands", func(c *Config) { c.Game.Match.MaxCommandsPerTurn = 0 }, "max_commands_per_turn"},
		{"unknown level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"upper case level", func(c *Config) { c.Logging.Level = "DEBUG" }, ""},
		{"unknown format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid(t)
			tt.mutate(c)
			err := Validate(c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestWatchConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("game:\n  match:\n    max_turns: 10\n"), 0644))

	resetGlobals()
	require.NoError(t, Init(configFile))
	before := Get()

	reloaded := make(chan *Config, 4)
	WatchConfig(func(c *Config, err error) {
		if err == nil {
			reloaded <- c
		}
	})

	// replace the file in one step so the watcher never sees it half written
	staged := filepath.Join(tmpDir, "staged.yaml")
	require.NoError(t, os.WriteFile(staged, []byte("game:\n  match:\n    max_turns: 20\n"), 0644))
	require.NoError(t, os.Rename(staged, configFile))

	select {
	case c := <-reloaded:
		assert.Equal(t, 20, c.Game.Match.MaxTurns)
		assert.Same(t, c, Get())
		// earlier snapshots are left alone
		assert.Equal(t, 10, before.Game.Match.MaxTurns)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}
}
