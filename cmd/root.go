package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/logging"
	"github.com/rnwolfe/deck/internal/ui"
	"github.com/rnwolfe/deck/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "deck",
	Short: "Your personal dashboard, in the terminal",
	Long: `deck keeps your habits, streaks, and a grid of small widgets in one
local database. Type ` + "`deck`" + ` for today's summary or ` + "`deck dash`" + ` for the full board.`,
	RunE: hook.Wrap("deck", runSummary),
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	closer := setupLogging()
	defer closer.Close()
	ui.SetupColor()

	// Hooks are optional; a broken hooks dir must not stop the CLI.
	registerBuiltinHooks(hook.DefaultRegistry)
	hooksDir := filepath.Join(config.GetPaths().ConfigDir, "hooks")
	if n, err := hook.RegisterUserHooks(hook.DefaultRegistry, hooksDir); err != nil {
		log.WithError(err).Warn("loading user hooks")
	} else if n > 0 {
		log.WithField("count", n).Debug("user hooks loaded")
	}

	if err := rootCmd.Execute(); err != nil {
		ui.Err(err.Error())
		closer.Close()
		os.Exit(1)
	}
}

// setupLogging sends diagnostics to the state-dir log file at the configured
// level. A config that can't be read still gets default logging.
func setupLogging() io.Closer {
	level := config.DefaultLogLevel
	if cfg, err := config.Load(); err == nil {
		level = cfg.Log.Level
	}
	closer, err := logging.Setup(config.GetPaths().LogFile, level)
	if err != nil {
		log.WithError(err).Warn("log file unavailable, logging to stderr")
	}
	return closer
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(habitCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// runSummary shows today's habits at a glance when you just type `deck`.
func runSummary(_ *cobra.Command, _ []string) error {
	if !config.Initialized() {
		fmt.Println(ui.Greet(""))
		fmt.Println()
		fmt.Println("  Looks like this is your first time. Let's set things up!")
		fmt.Println()
		fmt.Printf("  Run %s to get started.\n", ui.Accent.Render("deck init"))
		fmt.Println()
		return nil
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	now := time.Now().In(env.loc)
	summaries, err := env.habits.Summaries(now)
	if err != nil {
		return fmt.Errorf("loading habits: %w", err)
	}
	widgets, err := env.widgets.List()
	if err != nil {
		return fmt.Errorf("loading widgets: %w", err)
	}

	fmt.Println(ui.Greet(env.cfg.User.Name))
	fmt.Println()

	done, atRisk := 0, 0
	for _, s := range summaries {
		if s.DoneToday() {
			done++
		}
		if s.Streak.AtRisk() {
			atRisk++
		}
	}

	habitSummary := fmt.Sprintf("%d/%d done today", done, len(summaries))
	if atRisk > 0 {
		habitSummary += ui.Warning.Render(fmt.Sprintf(" (%d at risk!)", atRisk))
	}
	ui.Kv(ui.IconHabit+" Habits", habitSummary)
	ui.Kv(ui.IconWidget+" Widgets", fmt.Sprintf("%d on the board", len(widgets)))
	ui.Kv(ui.IconCalendar+" Today", now.Format("Monday, January 2"))
	ui.Kv(ui.IconDot+" deck", version.Short())

	if len(summaries) > 0 {
		fmt.Println()
		for _, s := range summaries {
			printHabitLine(s)
		}
	}

	switch {
	case len(summaries) == 0:
		ui.Tip("`deck habit add read` to start your first streak.")
	case atRisk > 0:
		ui.Tip("`deck habit check <name>` before midnight keeps the streak alive.")
	case done < len(summaries):
		ui.Tip("`deck dash` to check in from the board.")
	default:
		ui.Tip("Everything's checked. Nice.")
	}
	fmt.Println()
	return nil
}
