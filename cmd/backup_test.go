package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExportImport_RoundTrip(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	t.Setenv("DECK_PASSPHRASE", "correct horse")

	addHabit(t, "read")
	checkHabit(t, "read", daysAgo(1))
	checkHabit(t, "read", "")
	addWidget(t, "notes", "Inbox")

	file := filepath.Join(t.TempDir(), "deck.age")
	out := captureStdout(t, func() {
		if err := runExport(nil, []string{file}); err != nil {
			t.Fatalf("runExport: %v", err)
		}
	})
	if !strings.Contains(out, "1 habit(s), 2 check-in(s), 1 widget(s)") {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Error("export should be ASCII-armored")
	}

	// Start over with a new, different database.
	configTestEnv(t)
	t.Setenv("DECK_PASSPHRASE", "correct horse")
	addHabit(t, "stale")

	captureStdout(t, func() {
		if err := runImport(nil, []string{file}); err != nil {
			t.Fatalf("runImport: %v", err)
		}
	})

	out = captureStdout(t, func() {
		if err := runHabitList(nil, nil); err != nil {
			t.Fatal(err)
		}
	})
	if strings.Contains(out, "stale") {
		t.Error("import should replace existing habits")
	}
	if !strings.Contains(out, "read") || !strings.Contains(out, "2 days") {
		t.Errorf("imported habit list = %q", out)
	}
	if ws := listWidgets(t); len(ws) != 1 || ws[0].Title != "Inbox" {
		t.Errorf("imported widgets = %+v", ws)
	}
}

func TestImport_WrongPassphrase(t *testing.T) {
	configTestEnv(t)
	resetFlags(t)
	t.Setenv("DECK_PASSPHRASE", "one")
	addHabit(t, "read")

	file := filepath.Join(t.TempDir(), "deck.age")
	captureStdout(t, func() {
		if err := runExport(nil, []string{file}); err != nil {
			t.Fatal(err)
		}
	})

	t.Setenv("DECK_PASSPHRASE", "two")
	err := runImport(nil, []string{file})
	if err == nil || !strings.Contains(err.Error(), "wrong passphrase") {
		t.Fatalf("err = %v, want wrong passphrase", err)
	}
}

func TestReadPassphrase_FromEnv(t *testing.T) {
	configTestEnv(t)
	t.Setenv("DECK_PASSPHRASE", "from-env")

	p, err := readPassphrase(true)
	if err != nil || p != "from-env" {
		t.Fatalf("readPassphrase = %q, %v", p, err)
	}
}
