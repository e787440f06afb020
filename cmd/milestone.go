package cmd

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/ui"
)

// registerBuiltinHooks adds deck's own notify hooks to reg.
func registerBuiltinHooks(reg *hook.Registry) {
	reg.Unregister("builtin")
	err := reg.Register(hook.Hook{
		Pattern: "habit.check",
		Stage:   hook.StageNotify,
		Mode:    hook.ModeNotify,
		Name:    "streak-milestone",
		Source:  "builtin",
		Handler: celebrateMilestone,
	})
	if err != nil {
		log.WithError(err).Error("registering milestone hook")
	}
}

// celebrateMilestone prints a banner when a check-in crossed a milestone.
func celebrateMilestone(ctx *hook.Context) (*hook.Context, error) {
	name, m := milestoneFrom(ctx.Result)
	if m == 0 {
		return nil, nil
	}
	fmt.Printf("  %s %s\n\n", ui.IconParty, ui.Streak.Render(fmt.Sprintf("%d-day streak on %s!", m, name)))
	return nil, nil
}

// milestoneFrom reads the milestone out of a habit.check result. Results
// that went through a user hook come back as decoded JSON.
func milestoneFrom(result any) (string, int) {
	switch r := result.(type) {
	case habitCheckResult:
		return r.Habit, r.Milestone
	case map[string]any:
		name, _ := r["habit"].(string)
		m, _ := r["milestone"].(float64)
		return name, int(m)
	}
	return "", 0
}
