package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/rnwolfe/deck/internal/store"
	"github.com/rnwolfe/deck/internal/widget"
)

// configTestEnv points every XDG dir at a temp directory.
func configTestEnv(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir+"/config")
	t.Setenv("XDG_DATA_HOME", tmpDir+"/data")
	t.Setenv("XDG_CACHE_HOME", tmpDir+"/cache")
	t.Setenv("XDG_STATE_HOME", tmpDir+"/state")
	t.Setenv("DECK_TIMEZONE", "")
	t.Setenv("DECK_PASSPHRASE", "")
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() {
		os.Stdout = old
		r.Close()
	}()

	fn()

	w.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("io.Copy: %v", err)
	}
	return buf.String()
}

// resetFlags puts package-level flag vars back to their defaults.
func resetFlags(t *testing.T) {
	t.Helper()
	reset := func() {
		habitAddNote = ""
		habitListAll = false
		habitCheckDate = ""
		habitCheckNote = ""
		habitUncheckDate = ""
		habitHistoryDays = 30
		habitArchiveUndo = false
		habitRmForce = false
		widgetAddTitle = ""
		importYes = false
		remindOnce = false
		versionShort = false
	}
	reset()
	t.Cleanup(reset)
}

func listWidgets(t *testing.T) []widget.Widget {
	t.Helper()
	db, err := store.Open()
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer db.Close()
	ws, err := widget.NewStore(db.Conn()).List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return ws
}
