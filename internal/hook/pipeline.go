package hook

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// StageError reports which transform stage stopped a command.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("hook %s failed: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// Wrap runs fn through the DefaultRegistry pipeline for command:
//
//	var habitCheckCmd = &cobra.Command{RunE: hook.Wrap("habit.check", runHabitCheck)}
func Wrap(command string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return WrapWith(DefaultRegistry, command, fn)
}

// WrapWith is Wrap against a specific registry.
func WrapWith(reg *Registry, command string, fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if reg.Count() == 0 || !reg.HasHooks(command) {
			return fn(cmd, args)
		}
		p := pipeline{reg: reg, command: command}
		return p.run(cmd, args, fn)
	}
}

// Notify runs the postexec and notify stages of command for work that
// happened outside a cobra command, like a check-in from the dashboard.
// There is no command left to stop, so it returns the postexec error only for
// the caller to report.
func Notify(reg *Registry, command string, args []string, result any) error {
	if reg.Count() == 0 || !reg.HasHooks(command) {
		return nil
	}
	ctx := NewContext(command, args, nil)
	ctx.Result = result
	p := pipeline{reg: reg, command: command}
	ctx, err := p.transform(StagePostexec, ctx)
	p.notify(ctx)
	return err
}

type pipeline struct {
	reg     *Registry
	command string
}

func (p pipeline) run(cmd *cobra.Command, args []string, fn func(*cobra.Command, []string) error) error {
	ctx := NewContext(p.command, args, extractFlags(cmd))

	var err error
	for _, stage := range []Stage{StagePrevalidate, StagePreexec} {
		if ctx, err = p.transform(stage, ctx); err != nil {
			return err
		}
	}

	if cmd != nil {
		withContext(cmd, ctx)
	}
	if err := fn(cmd, ctx.Args); err != nil {
		return err
	}

	if ctx, err = p.transform(StagePostexec, ctx); err != nil {
		return err
	}
	p.notify(ctx)
	return nil
}

// transform chains the stage's transform hooks; a nil return keeps the
// previous context.
func (p pipeline) transform(stage Stage, ctx *Context) (*Context, error) {
	for _, h := range p.reg.Resolve(p.command, stage) {
		if h.Mode == ModeNotify {
			continue
		}
		next, err := h.Handler(ctx)
		if err != nil {
			return ctx, &StageError{Stage: stage, Err: fmt.Errorf("%s: %w", h.Name, err)}
		}
		if next != nil {
			ctx = next
		}
	}
	return ctx, nil
}

// notify fans out to notify hooks and waits. The command already succeeded,
// so failures and panics only reach the log.
func (p pipeline) notify(ctx *Context) {
	hooks := p.reg.Resolve(p.command, StageNotify)
	var wg sync.WaitGroup
	for _, h := range hooks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entry := log.WithFields(log.Fields{"hook": h.Name, "command": p.command})
			defer func() {
				if r := recover(); r != nil {
					entry.WithField("panic", r).Error("notify hook panicked")
				}
			}()
			if _, err := h.Handler(ctx); err != nil {
				entry.WithError(err).Warn("notify hook failed")
			}
		}()
	}
	wg.Wait()
}

// extractFlags collects the flags the user actually set.
func extractFlags(cmd *cobra.Command) map[string]string {
	flags := map[string]string{}
	if cmd == nil {
		return flags
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		flags[f.Name] = f.Value.String()
	})
	return flags
}
