package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/habit"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/streak"
	"github.com/rnwolfe/deck/internal/tui"
	"github.com/rnwolfe/deck/internal/ui"
)

// Flags for habit commands.
var (
	habitAddNote string

	habitListAll bool

	habitCheckDate string
	habitCheckNote string

	habitUncheckDate string

	habitHistoryDays int

	habitArchiveUndo bool

	habitRmForce bool
)

var habitCmd = &cobra.Command{
	Use:     "habit",
	Aliases: []string{"h"},
	Short:   "Track daily habits and streaks",
	Long: `Add habits, check them off each day, and keep the streak going.

A streak survives until the end of the day after your last check-in, so
yesterday's streak is still alive this morning.`,
	RunE: hook.Wrap("habit", runHabitList),
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Start tracking a habit",
	Args:  cobra.MinimumNArgs(1),
	RunE:  hook.Wrap("habit.add", runHabitAdd),
}

var habitListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List habits with today's status and streaks",
	RunE:    hook.Wrap("habit.list", runHabitList),
}

var habitCheckCmd = &cobra.Command{
	Use:     "check [habit]",
	Aliases: []string{"done"},
	Short:   "Check in a habit for today (or --date)",
	Long: `Record a check-in. Habits are matched by #id or name (case-insensitive).
With no argument on a terminal, pick the habit from a list.

Examples:
  deck habit check read
  deck habit check 3 --date yesterday
  deck habit check meditate --note "10 min"`,
	Args: cobra.MaximumNArgs(1),
	RunE: hook.Wrap("habit.check", runHabitCheck),
}

var habitUncheckCmd = &cobra.Command{
	Use:   "uncheck <habit>",
	Short: "Remove a day's check-ins",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.uncheck", runHabitUncheck),
}

var habitStreakCmd = &cobra.Command{
	Use:   "streak [habit]",
	Short: "Show current and longest streak",
	Args:  cobra.MaximumNArgs(1),
	RunE:  hook.Wrap("habit.streak", runHabitStreak),
}

var habitHistoryCmd = &cobra.Command{
	Use:   "history <habit>",
	Short: "Show recent check-ins",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.history", runHabitHistory),
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <habit>",
	Short: "Hide a habit without deleting its history",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.archive", runHabitArchive),
}

var habitRenameCmd = &cobra.Command{
	Use:   "rename <habit> <new name>",
	Short: "Rename a habit",
	Args:  cobra.MinimumNArgs(2),
	RunE:  hook.Wrap("habit.rename", runHabitRename),
}

var habitRmCmd = &cobra.Command{
	Use:   "rm <habit>",
	Short: "Delete a habit and all of its check-ins",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("habit.rm", runHabitRm),
}

func init() {
	habitCmd.AddCommand(habitAddCmd)
	habitCmd.AddCommand(habitListCmd)
	habitCmd.AddCommand(habitCheckCmd)
	habitCmd.AddCommand(habitUncheckCmd)
	habitCmd.AddCommand(habitStreakCmd)
	habitCmd.AddCommand(habitHistoryCmd)
	habitCmd.AddCommand(habitArchiveCmd)
	habitCmd.AddCommand(habitRenameCmd)
	habitCmd.AddCommand(habitRmCmd)

	habitAddCmd.Flags().StringVar(&habitAddNote, "note", "", "Why this habit matters, shown in lists")
	habitListCmd.Flags().BoolVarP(&habitListAll, "all", "a", false, "Include archived habits")
	habitCheckCmd.Flags().StringVar(&habitCheckDate, "date", "", "Day to check (YYYY-MM-DD, today, yesterday)")
	habitCheckCmd.Flags().StringVar(&habitCheckNote, "note", "", "Note for this check-in")
	habitUncheckCmd.Flags().StringVar(&habitUncheckDate, "date", "", "Day to clear (YYYY-MM-DD, today, yesterday)")
	habitHistoryCmd.Flags().IntVar(&habitHistoryDays, "days", 30, "How many days back to show")
	habitArchiveCmd.Flags().BoolVar(&habitArchiveUndo, "undo", false, "Restore an archived habit")
	habitRmCmd.Flags().BoolVarP(&habitRmForce, "force", "f", false, "Really delete, history included")
}

// habitCheckResult is attached to habit.check for notify hooks.
type habitCheckResult struct {
	Habit     string `json:"habit"`
	Day       string `json:"day"`
	Current   int    `json:"current"`
	Longest   int    `json:"longest"`
	Milestone int    `json:"milestone,omitempty"`
}

func runHabitAdd(_ *cobra.Command, args []string) error {
	name := strings.Join(args, " ")

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	id, err := env.habits.Add(name, habitAddNote)
	if err != nil {
		return fmt.Errorf("adding habit: %w", err)
	}

	fmt.Printf("  %s Tracking %s %s\n", ui.Success.Render("✓"), ui.Accent.Render(name), ui.Muted.Render(fmt.Sprintf("#%d", id)))
	fmt.Printf("    Check in with %s\n", ui.Accent.Render("deck habit check "+quoteArg(name)))
	fmt.Println()
	return nil
}

func runHabitList(_ *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	now := time.Now().In(env.loc)
	summaries, err := env.habits.Summaries(now)
	if err != nil {
		return fmt.Errorf("listing habits: %w", err)
	}

	if len(summaries) == 0 && !habitListAll {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  No habits yet."))
		fmt.Printf("  Add one: %s\n", ui.Accent.Render(`deck habit add "read 20 pages"`))
		fmt.Println()
		return nil
	}

	fmt.Println()
	for _, s := range summaries {
		printHabitLine(s)
	}

	if habitListAll {
		all, err := env.habits.List(true)
		if err != nil {
			return err
		}
		for _, h := range all {
			if h.Archived {
				fmt.Printf("    %s %s %s\n", ui.Muted.Render(fmt.Sprintf("#%d", h.ID)), ui.Muted.Render(h.Name), ui.Muted.Render("(archived)"))
			}
		}
	}

	fmt.Println()
	fmt.Println(ui.Muted.Render(fmt.Sprintf("  %d active habit(s)", len(summaries))))
	fmt.Println()
	return nil
}

func printHabitLine(s habit.Summary) {
	id := ui.Muted.Render(fmt.Sprintf("#%-3d", s.Habit.ID))
	line := fmt.Sprintf("    %s %s %s  %s", ui.CheckMark(s.DoneToday()), id, s.Habit.Name, ui.FormatStreak(s.Streak))
	if s.Streak.Longest > s.Streak.Current {
		line += "  " + ui.FormatBest(s.Streak)
	}
	fmt.Println(line)
	if s.Habit.Note != "" {
		fmt.Println("          " + ui.Muted.Render(s.Habit.Note))
	}
}

func runHabitCheck(cmd *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	var ref string
	if len(args) == 1 {
		ref = args[0]
	} else {
		ref, err = pickHabit(env)
		if err != nil || ref == "" {
			return err
		}
	}

	h, err := env.habits.Find(ref)
	if err != nil {
		return habitLookupError(ref, err)
	}

	now := time.Now().In(env.loc)
	day, err := parseDayArg(habitCheckDate, now, env.loc)
	if err != nil {
		return err
	}
	cal := env.habits.Calendar()
	if cal.DaysBetween(now, day) > 0 {
		return fmt.Errorf("can't check in %s ahead of time", day.Format(streak.DayLayout))
	}

	before, err := env.habits.Streak(h.ID, now)
	if err != nil {
		return err
	}
	if _, err := env.habits.Check(h.ID, day, habitCheckNote); err != nil {
		return fmt.Errorf("checking in: %w", err)
	}
	after, err := env.habits.Streak(h.ID, now)
	if err != nil {
		return err
	}

	result := habitCheckResult{
		Habit:   h.Name,
		Day:     day.Format(streak.DayLayout),
		Current: after.Current,
		Longest: after.Longest,
	}
	if m, ok := habit.Milestone(before, after, env.cfg.Streak.Milestones); ok {
		result.Milestone = m
	}
	hook.SetResult(cmd, result)

	when := "today"
	if !cal.SameDay(day, now) {
		when = day.Format("Mon Jan 2")
	}
	fmt.Printf("  %s %s checked %s  %s\n", ui.Success.Render("✓"), ui.Accent.Render(h.Name), when, ui.FormatStreak(after))
	if result.Milestone == 0 && after.Current == after.Longest && after.Current > 1 {
		fmt.Println("    " + ui.Muted.Render("That's your longest run yet."))
	}
	fmt.Println()
	return nil
}

// pickHabit asks the user to choose a habit on a terminal. It returns the
// habit reference, or "" if the user cancelled.
func pickHabit(env *cmdEnv) (string, error) {
	if !tui.IsTTY() {
		return "", fmt.Errorf("which habit? pass a name or #id")
	}
	summaries, err := env.habits.Summaries(time.Now().In(env.loc))
	if err != nil {
		return "", err
	}
	if len(summaries) == 0 {
		return "", fmt.Errorf("no habits yet; add one with %s", ui.Accent.Render("deck habit add <name>"))
	}
	choices := make([]tui.Choice, 0, len(summaries))
	for _, s := range summaries {
		detail := fmt.Sprintf("%d day streak", s.Streak.Current)
		if s.DoneToday() {
			detail += " · done"
		}
		choices = append(choices, tui.Choice{Key: strconv.Itoa(s.Habit.ID), Label: s.Habit.Name, Detail: detail})
	}
	c, err := tui.Pick("Check in", choices)
	if err != nil || c == nil {
		return "", err
	}
	return c.Key, nil
}

func runHabitUncheck(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.habits.Find(args[0])
	if err != nil {
		return habitLookupError(args[0], err)
	}
	day, err := parseDayArg(habitUncheckDate, time.Now(), env.loc)
	if err != nil {
		return err
	}
	n, err := env.habits.Uncheck(h.ID, day)
	if err != nil {
		return err
	}
	if n == 0 {
		ui.Warn(fmt.Sprintf("%s had no check-ins on %s", h.Name, day.Format(streak.DayLayout)))
		return nil
	}
	ui.Ok(fmt.Sprintf("Removed %d check-in(s) for %s on %s", n, h.Name, day.Format(streak.DayLayout)))
	return nil
}

func runHabitStreak(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	now := time.Now().In(env.loc)
	summaries, err := env.habits.Summaries(now)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		h, err := env.habits.Find(args[0])
		if err != nil {
			return habitLookupError(args[0], err)
		}
		res, err := env.habits.Streak(h.ID, now)
		if err != nil {
			return err
		}
		summaries = []habit.Summary{{Habit: *h, Streak: res}}
	}

	fmt.Println()
	for _, s := range summaries {
		fmt.Printf("  %s %s\n", ui.IconFire, ui.Title.Render(s.Habit.Name))
		ui.Kv("Current", fmt.Sprintf("%d day(s)", s.Streak.Current))
		ui.Kv("Longest", fmt.Sprintf("%d day(s)", s.Streak.Longest))
		if !s.Streak.Last.IsZero() {
			ui.Kv("Last", s.Streak.Last.Format("Mon Jan 2, 2006"))
		}
		if s.Streak.AtRisk() {
			fmt.Println("  " + ui.Warning.Render(ui.IconRisk+" Check in today to keep it going."))
		}
		fmt.Println()
	}
	return nil
}

func runHabitHistory(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.habits.Find(args[0])
	if err != nil {
		return habitLookupError(args[0], err)
	}

	var since time.Time
	if habitHistoryDays > 0 {
		since = env.habits.Calendar().AddDays(time.Now(), -(habitHistoryDays - 1))
	}
	entries, err := env.habits.Entries(h.ID, since)
	if err != nil {
		return err
	}

	ui.Header(h.Name)
	if len(entries) == 0 {
		fmt.Println(ui.Muted.Render("  No check-ins in this period."))
		fmt.Println()
		return nil
	}
	for _, e := range entries {
		line := fmt.Sprintf("  %s %s", ui.IconDone, e.Day.Format("Mon Jan 02 2006"))
		if e.Note != "" {
			line += "  " + ui.Muted.Render(e.Note)
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

func runHabitArchive(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.habits.Find(args[0])
	if err != nil {
		return habitLookupError(args[0], err)
	}
	if habitArchiveUndo {
		if err := env.habits.Unarchive(h.ID); err != nil {
			return err
		}
		ui.Ok(fmt.Sprintf("Restored %s", h.Name))
		return nil
	}
	if err := env.habits.Archive(h.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Archived %s (history kept; undo with --undo)", h.Name))
	return nil
}

func runHabitRename(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.habits.Find(args[0])
	if err != nil {
		return habitLookupError(args[0], err)
	}
	name := strings.Join(args[1:], " ")
	if err := env.habits.Rename(h.ID, name); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s %s %s", h.Name, ui.IconArrow, name))
	return nil
}

func runHabitRm(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	h, err := env.habits.Find(args[0])
	if err != nil {
		return habitLookupError(args[0], err)
	}
	if !habitRmForce {
		return fmt.Errorf("this deletes every check-in for %s; pass --force, or %s to keep the history",
			h.Name, ui.Accent.Render("deck habit archive "+quoteArg(h.Name)))
	}
	if err := env.habits.Delete(h.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Deleted %s", h.Name))
	return nil
}

func habitLookupError(ref string, err error) error {
	if errors.Is(err, habit.ErrNotFound) {
		return fmt.Errorf("no habit matching %q (run %s)", ref, ui.Accent.Render("deck habit list"))
	}
	return err
}

func quoteArg(s string) string {
	if strings.ContainsAny(s, " \t\"'") {
		return strconv.Quote(s)
	}
	return s
}
