// Package logging configures deck's diagnostic log. Diagnostics go to a file
// in the XDG state dir so command output on stdout stays clean.
package logging

import (
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points the standard logrus logger at path with the given level.
// If the file can't be opened, logging falls back to stderr at warn level and
// the returned error says why. The returned Closer is always non-nil.
func Setup(path, level string) (io.Closer, error) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		DisableColors:   true,
	})

	lvl, lvlErr := log.ParseLevel(level)
	if lvlErr != nil {
		lvl = log.InfoLevel
	}

	f, err := openLogFile(path)
	if err != nil {
		log.SetOutput(os.Stderr)
		log.SetLevel(log.WarnLevel)
		return nopCloser{}, err
	}

	log.SetOutput(f)
	log.SetLevel(lvl)
	if lvlErr != nil {
		log.WithField("level", level).Warn("unknown log level, using info")
	}
	return f, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
