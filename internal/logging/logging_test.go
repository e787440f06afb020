package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	log "github.com/sirupsen/logrus"
)

func TestSetup_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "deck.log")

	c, err := Setup(path, "debug")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	log.WithField("habit", "read").Debug("checked in")
	if err := c.Close(); err != nil {
		t.Fatal(err)
	}
	log.SetOutput(os.Stderr)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "checked in") || !strings.Contains(out, "habit=read") {
		t.Errorf("log file missing entry, got: %s", out)
	}
}

func TestSetup_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.log")

	c, err := Setup(path, "chatty")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	defer c.Close()
	defer log.SetOutput(os.Stderr)

	if log.GetLevel() != log.InfoLevel {
		t.Errorf("level = %v, want info", log.GetLevel())
	}
}

func TestSetup_UnwritablePathFallsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Setup(filepath.Join(blocker, "deck.log"), "debug")
	if err == nil {
		t.Fatal("expected error when parent is a file")
	}
	if c == nil {
		t.Fatal("Closer must never be nil")
	}
	if log.GetLevel() != log.WarnLevel {
		t.Errorf("fallback level = %v, want warn", log.GetLevel())
	}
}
