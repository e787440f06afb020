package hook

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
)

// ErrInvalidHook is returned by Register for hooks that could never run.
var ErrInvalidHook = errors.New("invalid hook")

// Registry keeps hooks bucketed by stage, each bucket ordered by name.
// The zero value is ready to use.
type Registry struct {
	mu     sync.RWMutex
	stages map[Stage][]Hook
	size   int
}

// DefaultRegistry is what Wrap consults.
var DefaultRegistry = &Registry{}

// Register validates h and adds it. An empty Mode defaults to notify for the
// notify stage and transform everywhere else.
func (r *Registry) Register(h Hook) error {
	if h.Handler == nil {
		return fmt.Errorf("%w %q: no handler", ErrInvalidHook, h.Name)
	}
	if !slices.Contains(AllStages, h.Stage) {
		return fmt.Errorf("%w %q: unknown stage %q", ErrInvalidHook, h.Name, h.Stage)
	}
	if _, err := path.Match(h.Pattern, ""); err != nil || h.Pattern == "" {
		return fmt.Errorf("%w %q: bad pattern %q", ErrInvalidHook, h.Name, h.Pattern)
	}
	if h.Mode == "" {
		h.Mode = ModeTransform
		if h.Stage == StageNotify {
			h.Mode = ModeNotify
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stages == nil {
		r.stages = make(map[Stage][]Hook, len(AllStages))
	}
	bucket := append(r.stages[h.Stage], h)
	slices.SortStableFunc(bucket, func(a, b Hook) int { return strings.Compare(a.Name, b.Name) })
	r.stages[h.Stage] = bucket
	r.size++
	return nil
}

// Unregister drops every hook from source and reports how many went.
func (r *Registry) Unregister(source string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for stage, bucket := range r.stages {
		kept := slices.DeleteFunc(bucket, func(h Hook) bool { return h.Source == source })
		removed += len(bucket) - len(kept)
		r.stages[stage] = kept
	}
	r.size -= removed
	return removed
}

// Only returns a registry holding just the hooks from source.
func (r *Registry) Only(source string) *Registry {
	out := &Registry{}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for stage, bucket := range r.stages {
		for _, h := range bucket {
			if h.Source != source {
				continue
			}
			if out.stages == nil {
				out.stages = make(map[Stage][]Hook, len(AllStages))
			}
			out.stages[stage] = append(out.stages[stage], h)
			out.size++
		}
	}
	return out
}

// Resolve returns the hooks for stage whose pattern matches command.
func (r *Registry) Resolve(command string, stage Stage) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matched []Hook
	for _, h := range r.stages[stage] {
		if matchPattern(h.Pattern, command) {
			matched = append(matched, h)
		}
	}
	return matched
}

// HasHooks reports whether any stage has a hook for command.
func (r *Registry) HasHooks(command string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bucket := range r.stages {
		for _, h := range bucket {
			if matchPattern(h.Pattern, command) {
				return true
			}
		}
	}
	return false
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.size
}

// matchPattern globs a dotted command name: "habit.*" covers every habit
// subcommand and "*" covers everything.
func matchPattern(pattern, command string) bool {
	ok, _ := path.Match(pattern, command)
	return ok
}
