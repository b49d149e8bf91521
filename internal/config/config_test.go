package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glyphpet/internal/minigame"
	"glyphpet/internal/pet"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Ankhy", cfg.Game.PetName)
	assert.Equal(t, BackendFile, cfg.Store.Backend)

	d, err := cfg.Difficulty()
	require.NoError(t, err)
	assert.Equal(t, pet.DifficultyMedium, d)

	s := cfg.PetSettings()
	require.NoError(t, s.Validate())
	assert.Equal(t, pet.EvolutionLevelCount, s.EvolutionQuota)
	assert.Equal(t, 0.05, s.Needs[pet.Health].DownFactor)
	assert.Equal(t, 20.0, s.Needs[pet.Energy].CriticalLimit)
	assert.Equal(t, 22, s.SilenceStart)
}

func TestLoadMergesUserFile(t *testing.T) {
	path := writeConfig(t, `
game:
  difficulty: hard
needs:
  joy:
    down_factor: 0.3
minigames:
  feast:
    reward: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	d, _ := cfg.Difficulty()
	assert.Equal(t, pet.DifficultyHard, d)
	assert.Equal(t, 1.0, cfg.Game.Speed, "untouched keys keep their defaults")

	s := cfg.PetSettings()
	assert.Equal(t, 0.3, s.Needs[pet.Joy].DownFactor)
	assert.Equal(t, 20.0, s.Needs[pet.Joy].CriticalLimit, "sibling keys keep their defaults")
	assert.Equal(t, 0.1, s.Needs[pet.Hunger].DownFactor)

	feast, err := cfg.Catalog().Lookup(minigame.KindFeast)
	require.NoError(t, err)
	assert.Equal(t, 20.0, feast.RewardPerWin)
	assert.Equal(t, 4, feast.BaseRounds)
}

func TestCatalogKeepsGameIdentity(t *testing.T) {
	cfg := Default()
	remedy, err := cfg.Catalog().Lookup(minigame.KindRemedy)
	require.NoError(t, err)

	assert.Equal(t, pet.Health, remedy.Primary)
	assert.Equal(t, pet.Energy, remedy.Secondary)
	assert.Equal(t, 2, remedy.FailsToLose)
	assert.Equal(t, 15.0, remedy.RewardPerWin)

	match, _ := cfg.Catalog().Lookup(minigame.KindMatch)
	assert.True(t, match.Teaching)
}

func TestValidateRejects(t *testing.T) {
	for _, tc := range []struct {
		name string
		edit func(*Config)
	}{
		{"critical limit too low", func(c *Config) { c.Needs.Hunger.CriticalLimit = 5 }},
		{"satisfied limit too high", func(c *Config) { c.Needs.Joy.SatisfiedLimit = 95 }},
		{"negative factor", func(c *Config) { c.Needs.Energy.DownFactor = -1 }},
		{"zero speed", func(c *Config) { c.Game.Speed = 0 }},
		{"unknown difficulty", func(c *Config) { c.Game.Difficulty = "nightmare" }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"zero rounds", func(c *Config) { c.Minigames.Match.BaseRounds = 0 }},
		{"negative reward", func(c *Config) { c.Minigames.Feast.Reward = -3 }},
		{"silence hour out of range", func(c *Config) { c.Notifications.SilenceEnd = 24 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.edit(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, "store:\n  backend: postgres\n"))
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = Load(writeConfig(t, "game: [not, a, map]\n"))
	assert.Error(t, err)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestResolvePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvPath, "")

	assert.Equal(t, "flag.yaml", ResolvePath("flag.yaml"))
	assert.Equal(t, "", ResolvePath(""))

	t.Setenv(EnvPath, "/etc/glyphpet.yaml")
	assert.Equal(t, "/etc/glyphpet.yaml", ResolvePath(""))

	t.Setenv(EnvPath, "")
	path := filepath.Join(home, ".config", "glyphpet", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("game:\n  speed: 2\n"), 0644))
	assert.Equal(t, path, ResolvePath(""))
}

func TestStorePath(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := Default()

	dir, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, "glyphpet", filepath.Base(dir))

	cfg.Store.Backend = BackendSQLite
	db, err := cfg.StorePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pets.db"), db)

	cfg.Store.Path = "/tmp/custom.db"
	custom, _ := cfg.StorePath()
	assert.Equal(t, "/tmp/custom.db", custom)
}
