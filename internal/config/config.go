// Package config loads glyphpet's YAML configuration.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"glyphpet/internal/minigame"
	"glyphpet/internal/pet"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// EnvPath names the environment variable holding a config file path
const EnvPath = "GLYPHPET_CONFIG"

// Store backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

var ErrInvalid = errors.New("invalid config")

// Config holds every tunable
type Config struct {
	Game          GameConfig          `yaml:"game"`
	Needs         NeedsConfig         `yaml:"needs"`
	Levels        LevelsConfig        `yaml:"levels"`
	Sleep         SleepConfig         `yaml:"sleep"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Store         StoreConfig         `yaml:"store"`
	Minigames     MinigamesConfig     `yaml:"minigames"`
}

type GameConfig struct {
	PetName        string  `yaml:"pet_name"`
	Speed          float64 `yaml:"speed"`
	Difficulty     string  `yaml:"difficulty"`
	EvolutionQuota int     `yaml:"evolution_quota"`
}

// NeedConfig tunes one need track
type NeedConfig struct {
	Initial        float64 `yaml:"initial"`
	CriticalLimit  float64 `yaml:"critical_limit"`
	SatisfiedLimit float64 `yaml:"satisfied_limit"`
	UpFactor       float64 `yaml:"up_factor"`
	DownFactor     float64 `yaml:"down_factor"`
}

// NeedsConfig has one field per need so a partial user file merges per key
type NeedsConfig struct {
	Hunger NeedConfig `yaml:"hunger"`
	Health NeedConfig `yaml:"health"`
	Joy    NeedConfig `yaml:"joy"`
	Energy NeedConfig `yaml:"energy"`
}

func (n NeedsConfig) byKind() [pet.NeedCount]NeedConfig {
	return [pet.NeedCount]NeedConfig{n.Hunger, n.Health, n.Joy, n.Energy}
}

type LevelsConfig struct {
	Increment float64 `yaml:"increment"`
}

type SleepConfig struct {
	EnergyUpFactor float64 `yaml:"energy_up_factor"`
}

type NotificationsConfig struct {
	SilenceStart int `yaml:"silence_start"`
	SilenceEnd   int `yaml:"silence_end"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

// MinigameConfig overrides the sizing and rewards of one game
type MinigameConfig struct {
	BaseRounds  int     `yaml:"base_rounds"`
	FailsToLose int     `yaml:"fails_to_lose"`
	Reward      float64 `yaml:"reward"`
	Penalty     float64 `yaml:"penalty"`
}

type MinigamesConfig struct {
	Hatch  MinigameConfig `yaml:"hatch"`
	Match  MinigameConfig `yaml:"match"`
	Feast  MinigameConfig `yaml:"feast"`
	Remedy MinigameConfig `yaml:"remedy"`
}

func (m MinigamesConfig) byKind() map[minigame.Kind]MinigameConfig {
	return map[minigame.Kind]MinigameConfig{
		minigame.KindHatch:  m.Hatch,
		minigame.KindMatch:  m.Match,
		minigame.KindFeast:  m.Feast,
		minigame.KindRemedy: m.Remedy,
	}
}

// Default returns the embedded defaults
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load reads a YAML file over the embedded defaults and validates the result.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ResolvePath picks the config file: the flag, then $GLYPHPET_CONFIG, then
// ~/.config/glyphpet/config.yaml if it exists. Empty means defaults only.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, ".config", "glyphpet", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Validate rejects settings the simulation cannot run with
func (c *Config) Validate() error {
	if err := c.PetSettings().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	d, err := c.Difficulty()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if _, err := pet.BaseLevel(pet.EvolutionLevelCount-1, pet.EvolutionLevelCount, d); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, c.Store.Backend)
	}
	for kind, m := range c.Minigames.byKind() {
		if m.BaseRounds < 1 {
			return fmt.Errorf("%w: %s needs at least one round", ErrInvalid, kind)
		}
		if m.FailsToLose < 0 || m.Reward < 0 || m.Penalty < 0 {
			return fmt.Errorf("%w: %s fails, reward and penalty must be non-negative", ErrInvalid, kind)
		}
	}
	return nil
}

// PetSettings maps the config onto the simulation's settings
func (c *Config) PetSettings() pet.Settings {
	s := pet.Settings{
		LevelIncrement: c.Levels.Increment,
		SleepEnergy:    c.Sleep.EnergyUpFactor,
		GameSpeed:      c.Game.Speed,
		EvolutionQuota: c.Game.EvolutionQuota,
		SilenceStart:   c.Notifications.SilenceStart,
		SilenceEnd:     c.Notifications.SilenceEnd,
	}
	for i, n := range c.Needs.byKind() {
		s.Needs[i] = pet.NeedSettings{
			Initial:        n.Initial,
			CriticalLimit:  n.CriticalLimit,
			SatisfiedLimit: n.SatisfiedLimit,
			UpFactor:       n.UpFactor,
			DownFactor:     n.DownFactor,
		}
	}
	return s
}

// Difficulty parses the configured difficulty
func (c *Config) Difficulty() (pet.Difficulty, error) {
	return pet.ParseDifficulty(c.Game.Difficulty)
}

// Catalog applies the per-game overrides to the stock catalog
func (c *Config) Catalog() minigame.Catalog {
	overrides := c.Minigames.byKind()
	catalog := minigame.DefaultCatalog()
	for i, s := range catalog {
		m, ok := overrides[s.Kind]
		if !ok {
			continue
		}
		catalog[i].BaseRounds = m.BaseRounds
		catalog[i].FailsToLose = m.FailsToLose
		catalog[i].RewardPerWin = m.Reward
		catalog[i].PenaltyPerFail = m.Penalty
	}
	return catalog
}

// StorePath returns the configured store location or the backend's default
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := pet.DefaultFileDir()
	if err != nil {
		return "", err
	}
	if c.Store.Backend == BackendSQLite {
		return filepath.Join(dir, "pets.db"), nil
	}
	return dir, nil
}
