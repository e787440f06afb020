package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or edit configuration",
	RunE:  hook.Wrap("config", runConfigShow),
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print config file path",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(config.GetPaths().ConfigFile)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a config value",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.get", runConfigGet),
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long:  "Set a config value. Run `deck config list` to see every key.",
	Args:  cobra.MinimumNArgs(2),
	RunE:  hook.Wrap("config.set", runConfigSet),
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a config value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("config.unset", runConfigUnset),
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every config key with its current value",
	RunE:  hook.Wrap("config.list", runConfigList),
}

func lookupKey(key string) (*config.KeyEntry, error) {
	entry, ok := config.LookupKey(key)
	if !ok {
		return nil, fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(config.ValidKeyNames(), ", "))
	}
	return entry, nil
}

func runConfigGet(_ *cobra.Command, args []string) error {
	entry, err := lookupKey(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	fmt.Println(entry.Get(cfg))
	return nil
}

func runConfigSet(_ *cobra.Command, args []string) error {
	key, value := args[0], strings.Join(args[1:], " ")
	entry, err := lookupKey(key)
	if err != nil {
		return err
	}

	// Env overrides must not be written back to disk.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := entry.Set(cfg, value); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	ui.Ok(fmt.Sprintf("%s = %s", key, entry.Get(cfg)))
	return nil
}

func runConfigUnset(_ *cobra.Command, args []string) error {
	entry, err := lookupKey(args[0])
	if err != nil {
		return err
	}
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	entry.Unset(cfg)
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	ui.Ok(fmt.Sprintf("%s reset to %q", args[0], entry.Get(cfg)))
	return nil
}

func runConfigList(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fmt.Println()
	for _, name := range config.ValidKeyNames() {
		entry := config.SchemaKeys[name]
		value := entry.Get(cfg)
		if value == "" {
			value = ui.Muted.Render("(unset)")
		}
		fmt.Printf("  %s %s\n", ui.KeyStyle.Render(fmt.Sprintf("%-18s", name)), value)
		desc := entry.Desc
		if entry.DefaultStr != "" {
			desc += fmt.Sprintf(" [default %s]", entry.DefaultStr)
		}
		fmt.Printf("  %-18s %s\n", "", ui.Muted.Render(fmt.Sprintf("%s, %s", entry.Type, desc)))
	}
	fmt.Println()
	return nil
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := config.GetPaths()

	tz := cfg.Streak.Timezone
	if tz == "" {
		tz = "local"
	}

	ui.Header("Configuration")
	fmt.Println()
	ui.Kv("Name", cfg.User.Name)
	ui.Kv("Timezone", tz)
	ui.Kv("Milestones", config.SchemaKeys["streak.milestones"].Get(cfg))
	ui.Kv("Columns", fmt.Sprintf("%d", cfg.Dash.Columns))
	ui.Kv("Reminders", cfg.Remind.Schedule)
	ui.Kv("Log level", cfg.Log.Level)
	fmt.Println()
	ui.Kv("Config", paths.ConfigFile)
	ui.Kv("Data", paths.DBFile)
	ui.Kv("Log", paths.LogFile)
	ui.Kv("Hooks", paths.ConfigDir+"/hooks")
	fmt.Println()
	ui.Tip(fmt.Sprintf("Edit directly: %s", ui.Accent.Render("$EDITOR "+paths.ConfigFile)))
	fmt.Println()
	return nil
}
