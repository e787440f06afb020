// Package backup exports and restores the deck database as a single
// age-encrypted file.
//
// The plaintext is a JSON Snapshot of every habit, check-in, and widget. It is
// encrypted with an age scrypt recipient and ASCII armored, so a backup can be
// pasted or mailed without damage.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"
)

// FormatVersion is written into every snapshot. Import rejects newer versions.
const FormatVersion = 1

// ErrWrongPassphrase is returned when decryption fails due to a bad passphrase.
var ErrWrongPassphrase = errors.New("wrong passphrase")

// ErrCorrupted is returned when a backup cannot be decrypted or parsed.
var ErrCorrupted = errors.New("backup is corrupted or unreadable")

// scryptWorkFactor overrides age's default scrypt cost when non-zero.
var scryptWorkFactor int

// Snapshot is the full exported state.
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Habits     []Habit   `json:"habits"`
	Entries    []Entry   `json:"entries"`
	Widgets    []Widget  `json:"widgets"`
}

// Habit is an exported habit row.
type Habit struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Note      string `json:"note,omitempty"`
	Archived  bool   `json:"archived,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Entry is an exported check-in. Day is YYYY-MM-DD.
type Entry struct {
	HabitID   int    `json:"habit_id"`
	Day       string `json:"day"`
	Note      string `json:"note,omitempty"`
	CreatedAt string `json:"created_at"`
}

// Widget is an exported widget with its configuration.
type Widget struct {
	ID     string            `json:"id"`
	Kind   string            `json:"kind"`
	Title  string            `json:"title,omitempty"`
	Row    int               `json:"row"`
	Col    int               `json:"col"`
	Config map[string]string `json:"config,omitempty"`
}

// Export encrypts snap with passphrase and writes the armored result to w.
func Export(w io.Writer, snap *Snapshot, passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	plaintext, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("serializing snapshot: %w", err)
	}

	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating age recipient: %w", err)
	}
	if scryptWorkFactor > 0 {
		recipient.SetWorkFactor(scryptWorkFactor)
	}

	armorWriter := armor.NewWriter(w)
	enc, err := age.Encrypt(armorWriter, recipient)
	if err != nil {
		return fmt.Errorf("initializing age encryption: %w", err)
	}
	if _, err := enc.Write(plaintext); err != nil {
		return fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if err := armorWriter.Close(); err != nil {
		return fmt.Errorf("finalizing armor: %w", err)
	}
	return nil
}

// Import decrypts and parses a backup written by Export.
func Import(r io.Reader, passphrase string) (*Snapshot, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating age identity: %w", err)
	}

	dec, err := age.Decrypt(armor.NewReader(r), identity)
	if err != nil {
		// age has no typed error for a bad passphrase; match its wording.
		msg := err.Error()
		if strings.Contains(msg, "no identity matched") || strings.Contains(msg, "incorrect") {
			return nil, fmt.Errorf("%w: %v", ErrWrongPassphrase, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}

	plaintext, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted data: %v", ErrCorrupted, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(plaintext, &snap); err != nil {
		return nil, fmt.Errorf("%w: parsing snapshot: %v", ErrCorrupted, err)
	}
	if snap.Version > FormatVersion {
		return nil, fmt.Errorf("backup format v%d is newer than this deck (v%d)", snap.Version, FormatVersion)
	}
	return &snap, nil
}

// ExportFile writes an encrypted backup to path atomically.
func ExportFile(path string, snap *Snapshot, passphrase string) error {
	var buf bytes.Buffer
	if err := Export(&buf, snap, passphrase); err != nil {
		return err
	}
	return atomicWrite(path, buf.Bytes())
}

// ImportFile reads an encrypted backup from path.
func ImportFile(path, passphrase string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening backup: %w", err)
	}
	defer f.Close()
	return Import(f, passphrase)
}

// atomicWrite writes data to a temp file in the target dir, fsyncs, then
// renames it over path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".deck-backup-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpName)
		}
	}()

	if err := os.Chmod(tmpName, 0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting temp file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing backup: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("fsyncing backup: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("committing backup file: %w", err)
	}

	success = true
	return nil
}
