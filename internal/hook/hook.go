// Package hook runs deck commands through a small extension pipeline.
//
// Commands pass through four stages: prevalidate → preexec → postexec → notify.
// Transform hooks may rewrite the Context; notify hooks are side effects that
// run after the command succeeds. With nothing registered, Wrap calls straight
// through.
package hook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Stage identifies when a hook runs in the pipeline.
type Stage string

const (
	StagePrevalidate Stage = "prevalidate"
	StagePreexec     Stage = "preexec"
	StagePostexec    Stage = "postexec"
	StageNotify      Stage = "notify"
)

// AllStages is the execution order for the pipeline.
var AllStages = []Stage{StagePrevalidate, StagePreexec, StagePostexec, StageNotify}

// Mode determines how a hook interacts with the pipeline.
type Mode string

const (
	ModeTransform Mode = "transform"
	ModeNotify    Mode = "notify"
)

// Context carries data through the hook pipeline.
type Context struct {
	Command   string            `json:"command"`
	Args      []string          `json:"args"`
	Flags     map[string]string `json:"flags"`
	Result    any               `json:"result,omitempty"`
	Timestamp string            `json:"timestamp"`
}

// NewContext creates a Context for the given command invocation.
func NewContext(command string, args []string, flags map[string]string) *Context {
	if args == nil {
		args = []string{}
	}
	if flags == nil {
		flags = map[string]string{}
	}
	return &Context{
		Command:   command,
		Args:      args,
		Flags:     flags,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// JSON serializes the context for passing to hook executables.
func (c *Context) JSON() ([]byte, error) {
	return json.Marshal(c)
}

// ParseContext deserializes a Context from JSON.
func ParseContext(data []byte) (*Context, error) {
	var ctx Context
	if err := json.Unmarshal(data, &ctx); err != nil {
		return nil, fmt.Errorf("parsing hook context: %w", err)
	}
	return &ctx, nil
}

// Hook defines a single hook registration.
type Hook struct {
	// Pattern is the command pattern this hook matches (e.g. "habit.check", "habit.*", "*").
	Pattern string
	Stage   Stage
	Mode    Mode
	Name    string
	// Source identifies where this hook came from (e.g. "builtin", "user").
	Source  string
	Handler Handler
}

// Handler executes a hook. Transform hooks may return a modified context;
// returning nil keeps the input.
type Handler func(ctx *Context) (*Context, error)

// DefaultTransformTimeout is the default timeout for transform hooks.
const DefaultTransformTimeout = 5 * time.Second

// DefaultNotifyTimeout is the default timeout for notify hooks.
const DefaultNotifyTimeout = 30 * time.Second

type ctxKey struct{}

// SetResult attaches a command result for postexec and notify hooks to see.
// It's a no-op when the command isn't running under a pipeline with hooks.
func SetResult(cmd *cobra.Command, result any) {
	if cmd == nil || cmd.Context() == nil {
		return
	}
	if hc, ok := cmd.Context().Value(ctxKey{}).(*Context); ok {
		hc.Result = result
	}
}

func withContext(cmd *cobra.Command, hc *Context) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	cmd.SetContext(context.WithValue(parent, ctxKey{}, hc))
}
