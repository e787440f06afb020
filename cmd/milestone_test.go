package cmd

import (
	"testing"

	"github.com/rnwolfe/deck/internal/hook"
)

func TestMilestoneFrom(t *testing.T) {
	tests := []struct {
		name     string
		result   any
		wantName string
		wantM    int
	}{
		{"typed", habitCheckResult{Habit: "read", Milestone: 7}, "read", 7},
		{"decoded json", map[string]any{"habit": "run", "milestone": float64(30)}, "run", 30},
		{"no milestone", habitCheckResult{Habit: "read"}, "read", 0},
		{"nil", nil, "", 0},
		{"other", 42, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, m := milestoneFrom(tt.result)
			if name != tt.wantName || m != tt.wantM {
				t.Errorf("milestoneFrom = (%q, %d), want (%q, %d)", name, m, tt.wantName, tt.wantM)
			}
		})
	}
}

func TestRegisterBuiltinHooks_Idempotent(t *testing.T) {
	reg := &hook.Registry{}
	registerBuiltinHooks(reg)
	registerBuiltinHooks(reg)
	if reg.Count() != 1 {
		t.Errorf("Count = %d, want 1", reg.Count())
	}
	if hooks := reg.Resolve("habit.check", hook.StageNotify); len(hooks) != 1 {
		t.Errorf("habit.check notify hooks = %d, want 1", len(hooks))
	}
	if reg.HasHooks("habit.add") {
		t.Error("milestone hook should only match habit.check")
	}
}
