package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/streak"
	"github.com/rnwolfe/deck/internal/tui"
)

var dashCmd = &cobra.Command{
	Use:     "dash",
	Aliases: []string{"board"},
	Short:   "Open the interactive dashboard",
	Long: `Show habits and the widget grid in a full-screen board.

Keys: j/k move, space or x checks the selected habit, u unchecks,
r refreshes, q quits.

Checking a habit here runs your habit.check postexec and notify hooks
with the same result as "deck habit check". Prevalidate and preexec hooks
don't run, and the built-in milestone banner is shown in the board instead.`,
	RunE: hook.Wrap("dash", runDash),
}

func runDash(_ *cobra.Command, _ []string) error {
	if !tui.IsTTY() {
		return fmt.Errorf("deck dash needs a terminal; try plain %s", "`deck`")
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	return tui.RunDash(&tui.StoreSource{
		Habits:     env.habits,
		Widgets:    env.widgets,
		Columns:    columns(env.cfg),
		Milestones: env.cfg.Streak.Milestones,
		OnCheck:    dashCheckHooks(hook.DefaultRegistry),
	})
}

// dashCheckHooks feeds dashboard check-ins to the user's habit.check hooks.
// Builtin hooks print to the terminal, which the board owns.
func dashCheckHooks(reg *hook.Registry) func(tui.CheckResult) {
	user := reg.Only("user")
	return func(r tui.CheckResult) {
		result := habitCheckResult{
			Habit:     r.Habit,
			Day:       r.Day.Format(streak.DayLayout),
			Current:   r.Current,
			Longest:   r.Longest,
			Milestone: r.Milestone,
		}
		if err := hook.Notify(user, "habit.check", []string{r.Habit}, result); err != nil {
			log.WithError(err).WithField("habit", r.Habit).Warn("dashboard check-in hooks")
		}
	}
}
