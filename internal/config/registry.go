package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// KeyType represents the data type of a config key.
type KeyType string

const (
	KeyTypeString KeyType = "string"
	KeyTypeInt    KeyType = "int"
	KeyTypeList   KeyType = "list"
)

// KeyEntry describes a known, settable config key.
type KeyEntry struct {
	// Type is the value's data type (string, int, list).
	Type KeyType
	// Desc is a human-readable description shown in `deck config list`.
	Desc string
	// DefaultStr is the string representation of the default value.
	DefaultStr string

	get   func(*Config) string
	set   func(cfg *Config, value string) error
	unset func(cfg *Config)
}

// Get returns the current value of the key as a string.
func (e *KeyEntry) Get(cfg *Config) string { return e.get(cfg) }

// Set validates and sets the value, returning a descriptive error on type mismatch.
func (e *KeyEntry) Set(cfg *Config, value string) error { return e.set(cfg, value) }

// Unset resets the key to its schema default.
func (e *KeyEntry) Unset(cfg *Config) { e.unset(cfg) }

// SchemaKeys is the authoritative registry of all settable config keys.
// Keys use dot-notation matching the TOML section structure.
var SchemaKeys = map[string]*KeyEntry{
	"user.name": {
		Type:  KeyTypeString,
		Desc:  "Display name",
		get:   func(cfg *Config) string { return cfg.User.Name },
		set:   func(cfg *Config, v string) error { cfg.User.Name = v; return nil },
		unset: func(cfg *Config) { cfg.User.Name = "" },
	},
	"streak.timezone": {
		Type: KeyTypeString,
		Desc: "IANA timezone used to decide calendar days (empty = system local)",
		get:  func(cfg *Config) string { return cfg.Streak.Timezone },
		set: func(cfg *Config, v string) error {
			if _, err := time.LoadLocation(v); err != nil {
				return fmt.Errorf("unknown timezone %q", v)
			}
			cfg.Streak.Timezone = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Streak.Timezone = "" },
	},
	"streak.milestones": {
		Type:       KeyTypeList,
		Desc:       "Comma-separated streak lengths that trigger a celebration",
		DefaultStr: joinInts(DefaultMilestones),
		get:        func(cfg *Config) string { return joinInts(cfg.Streak.Milestones) },
		set: func(cfg *Config, v string) error {
			ms, err := ParseIntList(v)
			if err != nil {
				return fmt.Errorf("invalid milestones %q: %w", v, err)
			}
			cfg.Streak.Milestones = ms
			return nil
		},
		unset: func(cfg *Config) { cfg.Streak.Milestones = append([]int(nil), DefaultMilestones...) },
	},
	"dash.columns": {
		Type:       KeyTypeInt,
		Desc:       "Number of widget columns on the dashboard grid",
		DefaultStr: strconv.Itoa(DefaultColumns),
		get:        func(cfg *Config) string { return strconv.Itoa(cfg.Dash.Columns) },
		set: func(cfg *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil || n < 1 || n > 6 {
				return fmt.Errorf("dash.columns must be a number between 1 and 6, got %q", v)
			}
			cfg.Dash.Columns = n
			return nil
		},
		unset: func(cfg *Config) { cfg.Dash.Columns = DefaultColumns },
	},
	"remind.schedule": {
		Type:       KeyTypeString,
		Desc:       "Cron schedule for at-risk streak reminders",
		DefaultStr: DefaultRemindSchedule,
		get:        func(cfg *Config) string { return cfg.Remind.Schedule },
		set: func(cfg *Config, v string) error {
			if _, err := cron.ParseStandard(v); err != nil {
				return fmt.Errorf("invalid cron schedule %q: %w", v, err)
			}
			cfg.Remind.Schedule = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Remind.Schedule = DefaultRemindSchedule },
	},
	"log.level": {
		Type:       KeyTypeString,
		Desc:       "Diagnostic log level (debug, info, warn, error)",
		DefaultStr: DefaultLogLevel,
		get:        func(cfg *Config) string { return cfg.Log.Level },
		set: func(cfg *Config, v string) error {
			if _, err := logrus.ParseLevel(v); err != nil {
				return fmt.Errorf("invalid log level %q", v)
			}
			cfg.Log.Level = v
			return nil
		},
		unset: func(cfg *Config) { cfg.Log.Level = DefaultLogLevel },
	},
}

// ValidKeyNames returns the sorted list of all known config key names.
func ValidKeyNames() []string {
	names := make([]string, 0, len(SchemaKeys))
	for k := range SchemaKeys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// LookupKey returns the KeyEntry for a known config key.
func LookupKey(key string) (*KeyEntry, bool) {
	entry, ok := SchemaKeys[key]
	return entry, ok
}

// ParseIntList parses "3, 7,14" into sorted, de-duplicated positive ints.
func ParseIntList(s string) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%q is not a positive number", part)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	sort.Ints(out)
	return out, nil
}

func joinInts(ns []int) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
