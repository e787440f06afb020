package hook

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// UserHook is an executable discovered in the user hooks directory.
type UserHook struct {
	Path    string
	Pattern string
	Stage   Stage
	Name    string
}

// Discover scans dir for hook executables named <command-pattern>.<stage>[.<ext>],
// e.g. habit.check.notify.sh or habit.*.postexec. A missing dir is not an error.
func Discover(dir string) ([]UserHook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading hooks dir: %w", err)
	}

	var hooks []UserHook
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		h, err := parseHookFilename(e.Name())
		if err != nil {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0o111 == 0 {
			continue
		}
		h.Path = path
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// parseHookFilename splits a hook filename from the right, since the command
// pattern itself contains dots.
//
//	habit.check.notify.sh → pattern="habit.check", stage="notify"
//	habit.*.preexec       → pattern="habit.*",     stage="preexec"
func parseHookFilename(name string) (UserHook, error) {
	base := name
	if _, err := ParseStage(strings.TrimPrefix(filepath.Ext(base), ".")); err != nil {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	lastDot := strings.LastIndex(base, ".")
	if lastDot <= 0 {
		return UserHook{}, fmt.Errorf("invalid hook filename: %s", name)
	}
	stage, err := ParseStage(base[lastDot+1:])
	if err != nil {
		return UserHook{}, fmt.Errorf("invalid stage in %s: %w", name, err)
	}
	return UserHook{Pattern: base[:lastDot], Stage: stage, Name: name}, nil
}

// ParseStage converts a string to a Stage.
func ParseStage(s string) (Stage, error) {
	switch Stage(s) {
	case StagePrevalidate, StagePreexec, StagePostexec, StageNotify:
		return Stage(s), nil
	default:
		return "", fmt.Errorf("unknown stage: %s", s)
	}
}

// RegisterUserHooks discovers hooks in dir and registers them with reg under
// source "user". Previously registered user hooks are replaced.
func RegisterUserHooks(reg *Registry, dir string) (int, error) {
	hooks, err := Discover(dir)
	if err != nil {
		return 0, err
	}
	reg.Unregister("user")
	n := 0
	for _, h := range hooks {
		mode := ModeTransform
		if h.Stage == StageNotify {
			mode = ModeNotify
		}
		err := reg.Register(Hook{
			Pattern: h.Pattern,
			Stage:   h.Stage,
			Mode:    mode,
			Name:    h.Name,
			Source:  "user",
			Handler: ExecHandler(h.Path, mode, 0),
		})
		if err != nil {
			log.WithError(err).WithField("path", h.Path).Warn("skipping user hook")
			continue
		}
		n++
		log.WithFields(log.Fields{"hook": h.Name, "stage": h.Stage}).Debug("registered user hook")
	}
	return n, nil
}

// ExecHandler creates a Handler that runs an external executable with the
// Context JSON on stdin. Transform hooks may print a replacement Context on
// stdout; empty output keeps the input.
func ExecHandler(path string, mode Mode, timeout time.Duration) Handler {
	if timeout == 0 {
		timeout = DefaultTransformTimeout
		if mode == ModeNotify {
			timeout = DefaultNotifyTimeout
		}
	}

	return func(ctx *Context) (*Context, error) {
		input, err := ctx.JSON()
		if err != nil {
			return nil, fmt.Errorf("serializing context: %w", err)
		}

		execCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		cmd := exec.CommandContext(execCtx, path)
		cmd.Stdin = bytes.NewReader(input)
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			if execCtx.Err() == context.DeadlineExceeded {
				return nil, fmt.Errorf("hook timed out after %s", timeout)
			}
			if msg := strings.TrimSpace(stderr.String()); msg != "" {
				return nil, fmt.Errorf("hook failed: %s", msg)
			}
			return nil, fmt.Errorf("hook failed: %w", err)
		}

		if mode == ModeNotify || stdout.Len() == 0 {
			return ctx, nil
		}
		result, err := ParseContext(stdout.Bytes())
		if err != nil {
			return nil, fmt.Errorf("parsing hook output: %w", err)
		}
		return result, nil
	}
}
