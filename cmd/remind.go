package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/remind"
	"github.com/rnwolfe/deck/internal/ui"
)

var remindOnce bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Nudge you about streaks that would break today",
	Long: `Run in the foreground and warn about habits whose streak is alive only
because of yesterday's check-in. Runs on remind.schedule (cron, default
"0 20 * * *") in streak.timezone. Each habit is nudged at most once a day.

Use --once from cron or a shell prompt to check right now and exit.`,
	RunE: hook.Wrap("remind", runRemind),
}

func init() {
	remindCmd.Flags().BoolVar(&remindOnce, "once", false, "Check once and exit")
}

func runRemind(_ *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	checker := &remind.Checker{Habits: env.habits, Sent: env.db}
	sched, err := remind.NewScheduler(checker, env.cfg.Remind.Schedule, env.loc, printReminder)
	if err != nil {
		return err
	}

	if remindOnce {
		n, err := sched.RunOnce(context.Background())
		if err != nil {
			return err
		}
		if n == 0 {
			ui.Ok("No streaks at risk")
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	fmt.Printf("  %s Watching streaks %s\n", ui.IconRisk,
		ui.Muted.Render(fmt.Sprintf("(next check %s, ctrl+c to stop)", sched.Next().Format("Mon Jan 2 15:04"))))
	fmt.Println()

	<-ctx.Done()
	sched.Stop()
	log.Debug("[remind] interrupted")
	return nil
}

func printReminder(r remind.Reminder) {
	ui.Warn(r.Message())
}
