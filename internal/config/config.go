package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rnwolfe/deck/internal/streak"
)

// Config holds the top-level deck configuration.
type Config struct {
	User   UserConfig   `toml:"user"`
	Streak StreakConfig `toml:"streak"`
	Dash   DashConfig   `toml:"dash"`
	Remind RemindConfig `toml:"remind"`
	Log    LogConfig    `toml:"log"`
}

type UserConfig struct {
	Name string `toml:"name"`
}

// StreakConfig controls how calendar days are resolved for streaks.
type StreakConfig struct {
	// Timezone is an IANA zone name. Empty means the system local zone.
	Timezone   string `toml:"timezone"`
	Milestones []int  `toml:"milestones"`
}

type DashConfig struct {
	Columns int `toml:"columns"`
}

type RemindConfig struct {
	// Schedule is a standard 5-field cron spec.
	Schedule string `toml:"schedule"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Defaults used when a key is missing from config.toml.
const (
	DefaultColumns        = 3
	DefaultRemindSchedule = "0 20 * * *"
	DefaultLogLevel       = "info"
)

// DefaultMilestones are the streak lengths that get a celebration.
var DefaultMilestones = []int{3, 7, 14, 30, 100, 365}

// Paths returns standard XDG-compliant paths.
type Paths struct {
	ConfigDir  string
	DataDir    string
	CacheDir   string
	StateDir   string
	ConfigFile string
	DBFile     string
	LogFile    string
}

// GetPaths returns the resolved paths, respecting XDG env vars.
func GetPaths() Paths {
	home, _ := os.UserHomeDir()

	configDir := envOr("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	dataDir := envOr("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))
	cacheDir := envOr("XDG_CACHE_HOME", filepath.Join(home, ".cache"))
	stateDir := envOr("XDG_STATE_HOME", filepath.Join(home, ".local", "state"))

	deckConfig := filepath.Join(configDir, "deck")
	deckData := filepath.Join(dataDir, "deck")
	deckState := filepath.Join(stateDir, "deck")

	return Paths{
		ConfigDir:  deckConfig,
		DataDir:    deckData,
		CacheDir:   filepath.Join(cacheDir, "deck"),
		StateDir:   deckState,
		ConfigFile: filepath.Join(deckConfig, "config.toml"),
		DBFile:     filepath.Join(deckData, "deck.db"),
		LogFile:    filepath.Join(deckState, "deck.log"),
	}
}

// EnsureDirs creates all required directories.
func (p Paths) EnsureDirs() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir, p.StateDir}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// Load reads config from disk and applies DECK_* environment overrides.
// Missing keys fall back to defaults.
func Load() (*Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}
	return cfg, nil
}

// LoadFile reads config from disk without environment overrides. Use it when
// the result is going to be saved back.
func LoadFile() (*Config, error) {
	paths := GetPaths()
	cfg := defaultConfig()

	data, err := os.ReadFile(paths.ConfigFile)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", paths.ConfigFile, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes config to disk.
func Save(cfg *Config) error {
	paths := GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return err
	}

	f, err := os.Create(paths.ConfigFile)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Initialized returns true if deck has been set up.
func Initialized() bool {
	paths := GetPaths()
	_, err := os.Stat(paths.ConfigFile)
	return err == nil
}

// Location resolves the configured streak timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Streak.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Streak.Timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", c.Streak.Timezone, err)
	}
	return loc, nil
}

// Calendar returns the streak calendar for the configured timezone.
func (c *Config) Calendar() (streak.LocalCalendar, error) {
	loc, err := c.Location()
	if err != nil {
		return streak.LocalCalendar{}, err
	}
	return streak.LocalCalendar{Location: loc}, nil
}

func (c *Config) fillDefaults() {
	if c.Dash.Columns <= 0 {
		c.Dash.Columns = DefaultColumns
	}
	if c.Remind.Schedule == "" {
		c.Remind.Schedule = DefaultRemindSchedule
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Streak.Milestones == nil {
		c.Streak.Milestones = append([]int(nil), DefaultMilestones...)
	}
}

func defaultConfig() *Config {
	cfg := &Config{}
	cfg.fillDefaults()
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
