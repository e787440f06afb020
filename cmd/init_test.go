package cmd

import (
	"bufio"
	"strings"
	"testing"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/widget"
)

func TestRunInit_WritesConfigAndStarterBoard(t *testing.T) {
	configTestEnv(t)

	out := captureStdout(t, func() {
		in := bufio.NewReader(strings.NewReader("Robin\nUTC\n"))
		if err := runInitWithReader(in); err != nil {
			t.Fatalf("runInit: %v", err)
		}
	})
	if !strings.Contains(out, "All set, Robin!") {
		t.Errorf("init output = %q", out)
	}
	if !config.Initialized() {
		t.Fatal("config file not written")
	}

	cfg, err := config.LoadFile()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.User.Name != "Robin" || cfg.Streak.Timezone != "UTC" {
		t.Errorf("config = %+v", cfg)
	}

	ws := listWidgets(t)
	if len(ws) != 1 || ws[0].Kind != widget.KindHabits {
		t.Errorf("starter board = %+v", ws)
	}
}

func TestRunInit_RerunKeepsBoard(t *testing.T) {
	configTestEnv(t)

	for i := 0; i < 2; i++ {
		captureStdout(t, func() {
			in := bufio.NewReader(strings.NewReader("Robin\nUTC\n"))
			if err := runInitWithReader(in); err != nil {
				t.Fatalf("runInit: %v", err)
			}
		})
	}
	if n := len(listWidgets(t)); n != 1 {
		t.Errorf("%d widgets after re-running init, want 1", n)
	}
}

func TestRunInit_BadTimezoneRetries(t *testing.T) {
	configTestEnv(t)

	captureStdout(t, func() {
		in := bufio.NewReader(strings.NewReader("\nNowhere/Land\nUTC\n"))
		if err := runInitWithReader(in); err != nil {
			t.Fatalf("runInit: %v", err)
		}
	})
	cfg, _ := config.LoadFile()
	if cfg.Streak.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", cfg.Streak.Timezone)
	}
}

func TestPrompt_Default(t *testing.T) {
	captureStdout(t, func() {
		in := bufio.NewReader(strings.NewReader("\n"))
		if got := prompt(in, "Name?", "sam"); got != "sam" {
			t.Errorf("prompt = %q, want default", got)
		}
	})
}
