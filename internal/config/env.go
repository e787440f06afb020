package config

import "github.com/kelseyhightower/envconfig"

// envOverrides maps DECK_* variables onto config keys. Empty values leave the
// file setting alone. Names carry the full prefix so envconfig never falls
// back to bare names like LOG_LEVEL.
type envOverrides struct {
	Timezone       string `envconfig:"DECK_TIMEZONE"`
	LogLevel       string `envconfig:"DECK_LOG_LEVEL"`
	RemindSchedule string `envconfig:"DECK_REMIND_SCHEDULE"`
	DashColumns    int    `envconfig:"DECK_DASH_COLUMNS"`
}

func applyEnv(cfg *Config) error {
	var o envOverrides
	if err := envconfig.Process("", &o); err != nil {
		return err
	}
	if o.Timezone != "" {
		cfg.Streak.Timezone = o.Timezone
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.RemindSchedule != "" {
		cfg.Remind.Schedule = o.RemindSchedule
	}
	if o.DashColumns > 0 {
		cfg.Dash.Columns = o.DashColumns
	}
	return nil
}
