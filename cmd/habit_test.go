package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/streak"
)

func daysAgo(n int) string {
	return time.Now().AddDate(0, 0, -n).Format(streak.DayLayout)
}

func addHabit(t *testing.T, name string) {
	t.Helper()
	captureStdout(t, func() {
		if err := runHabitAdd(nil, strings.Fields(name)); err != nil {
			t.Fatalf("runHabitAdd: %v", err)
		}
	})
}

func checkHabit(t *testing.T, name, date string) string {
	t.Helper()
	habitCheckDate = date
	defer func() { habitCheckDate = "" }()
	return captureStdout(t, func() {
		if err := runHabitCheck(nil, []string{name}); err != nil {
			t.Fatalf("runHabitCheck(%s): %v", date, err)
		}
	})
}

func TestHabitAddAndList(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)

	habitAddNote = "before bed"
	out := captureStdout(t, func() {
		if err := runHabitAdd(nil, []string{"read", "20", "pages"}); err != nil {
			t.Fatalf("runHabitAdd: %v", err)
		}
	})
	if !strings.Contains(out, "read 20 pages") || !strings.Contains(out, `"read 20 pages"`) {
		t.Errorf("add output = %q", out)
	}

	out = captureStdout(t, func() {
		if err := runHabitList(nil, nil); err != nil {
			t.Fatalf("runHabitList: %v", err)
		}
	})
	for _, want := range []string{"read 20 pages", "before bed", "no streak", "1 active habit"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestHabitList_Empty(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)

	out := captureStdout(t, func() {
		if err := runHabitList(nil, nil); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "No habits yet") {
		t.Errorf("output = %q", out)
	}
}

func TestHabitCheck_BuildsStreak(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "stretch")

	checkHabit(t, "stretch", daysAgo(1))
	out := checkHabit(t, "stretch", "")
	if !strings.Contains(out, "checked today") || !strings.Contains(out, "2 days") {
		t.Errorf("check output = %q", out)
	}

	out = captureStdout(t, func() {
		if err := runHabitStreak(nil, []string{"STRETCH"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "Current") || !strings.Contains(out, "2 day(s)") {
		t.Errorf("streak output = %q", out)
	}
}

func TestHabitCheck_RejectsFutureDay(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "run")

	habitCheckDate = time.Now().AddDate(0, 0, 2).Format(streak.DayLayout)
	err := runHabitCheck(nil, []string{"run"})
	if err == nil || !strings.Contains(err.Error(), "ahead of time") {
		t.Fatalf("err = %v, want ahead-of-time error", err)
	}
}

func TestHabitCheck_UnknownHabit(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)

	err := runHabitCheck(nil, []string{"juggle"})
	if err == nil || !strings.Contains(err.Error(), `no habit matching "juggle"`) {
		t.Fatalf("err = %v", err)
	}
}

func TestHabitUncheck(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "floss")
	checkHabit(t, "floss", "")
	checkHabit(t, "floss", "")

	out := captureStdout(t, func() {
		if err := runHabitUncheck(nil, []string{"floss"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "Removed 2 check-in(s)") {
		t.Errorf("uncheck output = %q", out)
	}
}

func TestHabitHistory(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "journal")

	habitCheckNote = "long entry"
	checkHabit(t, "journal", daysAgo(3))
	habitCheckNote = ""

	out := captureStdout(t, func() {
		if err := runHabitHistory(nil, []string{"journal"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "long entry") {
		t.Errorf("history output = %q", out)
	}

	habitHistoryDays = 2
	out = captureStdout(t, func() {
		if err := runHabitHistory(nil, []string{"journal"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "No check-ins") {
		t.Errorf("narrow history output = %q", out)
	}
}

func TestHabitArchiveRenameAndListAll(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "walk")

	captureStdout(t, func() {
		if err := runHabitRename(nil, []string{"walk", "evening", "walk"}); err != nil {
			t.Fatal(err)
		}
		if err := runHabitArchive(nil, []string{"evening walk"}); err != nil {
			t.Fatal(err)
		}
	})

	habitListAll = true
	out := captureStdout(t, func() {
		if err := runHabitList(nil, nil); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "evening walk") || !strings.Contains(out, "(archived)") {
		t.Errorf("list --all output = %q", out)
	}

	habitArchiveUndo = true
	out = captureStdout(t, func() {
		if err := runHabitArchive(nil, []string{"#1"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "Restored evening walk") {
		t.Errorf("undo output = %q", out)
	}
}

func TestHabitCheck_MilestoneHook(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "read")

	cfg, _ := config.LoadFile()
	cfg.Streak.Milestones = []int{3}
	if err := config.Save(cfg); err != nil {
		t.Fatal(err)
	}

	checkHabit(t, "read", daysAgo(2))
	checkHabit(t, "read", daysAgo(1))

	reg := &hook.Registry{}
	registerBuiltinHooks(reg)
	run := hook.WrapWith(reg, "habit.check", runHabitCheck)

	out := captureStdout(t, func() {
		if err := run(&cobra.Command{}, []string{"read"}); err != nil {
			t.Fatal(err)
		}
	})
	if !strings.Contains(out, "3-day streak on read!") {
		t.Errorf("expected milestone banner, got:\n%s", out)
	}

	// Checking again on the same day crosses nothing.
	out = captureStdout(t, func() {
		if err := run(&cobra.Command{}, []string{"read"}); err != nil {
			t.Fatal(err)
		}
	})
	if strings.Contains(out, "streak on read!") {
		t.Errorf("second check repeated the banner:\n%s", out)
	}
}

func TestHabitRm_NeedsForce(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	addHabit(t, "nap")

	if err := runHabitRm(nil, []string{"nap"}); err == nil || !strings.Contains(err.Error(), "--force") {
		t.Fatalf("err = %v, want --force hint", err)
	}

	habitRmForce = true
	captureStdout(t, func() {
		if err := runHabitRm(nil, []string{"nap"}); err != nil {
			t.Fatal(err)
		}
	})
	if err := runHabitRm(nil, []string{"nap"}); err == nil {
		t.Error("habit should be gone")
	}
}
