package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/ui"
	"github.com/rnwolfe/deck/internal/widget"
)

var widgetAddTitle string

var widgetCmd = &cobra.Command{
	Use:     "widget",
	Aliases: []string{"w"},
	Short:   "Arrange the dashboard grid",
	Long: `Widgets are the tiles on ` + "`deck dash`" + `. Each one has a kind, a grid
position, and free-form key/value settings.

Kinds: habits, quests, finance, calendar, notes, graph.

Examples:
  deck widget add notes --title Inbox
  deck widget set 3f2a body "- call the bank"
  deck widget set 9c1e habit read
  deck widget move 3f2a 0 1`,
	RunE: hook.Wrap("widget", runWidgetList),
}

var widgetAddCmd = &cobra.Command{
	Use:   "add <kind>",
	Short: "Add a widget in the first free cell",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("widget.add", runWidgetAdd),
}

var widgetListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List widgets by position",
	RunE:    hook.Wrap("widget.list", runWidgetList),
}

var widgetShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a widget's settings",
	Args:  cobra.ExactArgs(1),
	RunE:  hook.Wrap("widget.show", runWidgetShow),
}

var widgetMoveCmd = &cobra.Command{
	Use:   "move <id> <row> <col>",
	Short: "Move a widget, swapping with whatever is there",
	Args:  cobra.ExactArgs(3),
	RunE:  hook.Wrap("widget.move", runWidgetMove),
}

var widgetRmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"remove"},
	Short:   "Remove a widget and its settings",
	Args:    cobra.ExactArgs(1),
	RunE:    hook.Wrap("widget.rm", runWidgetRm),
}

var widgetSetCmd = &cobra.Command{
	Use:   "set <id> <key> <value>",
	Short: "Set a widget setting (title sets the title)",
	Args:  cobra.MinimumNArgs(3),
	RunE:  hook.Wrap("widget.set", runWidgetSet),
}

var widgetUnsetCmd = &cobra.Command{
	Use:   "unset <id> <key>",
	Short: "Remove a widget setting",
	Args:  cobra.ExactArgs(2),
	RunE:  hook.Wrap("widget.unset", runWidgetUnset),
}

func init() {
	widgetCmd.AddCommand(widgetAddCmd)
	widgetCmd.AddCommand(widgetListCmd)
	widgetCmd.AddCommand(widgetShowCmd)
	widgetCmd.AddCommand(widgetMoveCmd)
	widgetCmd.AddCommand(widgetRmCmd)
	widgetCmd.AddCommand(widgetSetCmd)
	widgetCmd.AddCommand(widgetUnsetCmd)

	widgetAddCmd.Flags().StringVar(&widgetAddTitle, "title", "", "Widget title (defaults to the kind)")
}

func runWidgetAdd(_ *cobra.Command, args []string) error {
	kind, err := widget.ParseKind(args[0])
	if err != nil {
		return err
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.widgets.Add(kind, widgetAddTitle, columns(env.cfg))
	if err != nil {
		return err
	}
	fmt.Printf("  %s Added %s %s at %d,%d\n", ui.Success.Render("✓"), ui.Accent.Render(w.DisplayTitle()),
		ui.Muted.Render(w.ShortID()), w.Row, w.Col)
	fmt.Println()
	return nil
}

func runWidgetList(_ *cobra.Command, _ []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	widgets, err := env.widgets.List()
	if err != nil {
		return err
	}
	if len(widgets) == 0 {
		fmt.Println()
		fmt.Println(ui.Muted.Render("  The board is empty."))
		fmt.Printf("  Add a widget: %s\n", ui.Accent.Render("deck widget add notes"))
		fmt.Println()
		return nil
	}

	fmt.Println()
	for _, w := range widgets {
		fmt.Printf("    %s %s %-10s %s  %s\n",
			ui.Muted.Render(w.ShortID()),
			ui.Muted.Render(fmt.Sprintf("%d,%d", w.Row, w.Col)),
			string(w.Kind),
			w.DisplayTitle(),
			ui.Muted.Render(fmt.Sprintf("%d setting(s)", len(w.Config))))
	}
	fmt.Println()
	return nil
}

func runWidgetShow(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.widgets.Get(args[0])
	if err != nil {
		return widgetLookupError(args[0], err)
	}

	ui.Header(w.DisplayTitle())
	ui.Kv("ID", w.ID)
	ui.Kv("Kind", string(w.Kind))
	ui.Kv("Position", fmt.Sprintf("row %d, col %d", w.Row, w.Col))
	if len(w.Config) > 0 {
		fmt.Println()
		for _, k := range w.ConfigKeys() {
			ui.Kv(k, w.Config[k])
		}
	}
	if body := w.Config["body"]; w.Kind == widget.KindNotes && body != "" {
		fmt.Println()
		fmt.Print(ui.RenderMarkdown(body))
	}
	fmt.Println()
	return nil
}

func runWidgetMove(_ *cobra.Command, args []string) error {
	row, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("row must be a number, got %q", args[1])
	}
	col, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("col must be a number, got %q", args[2])
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if cols := columns(env.cfg); col >= cols {
		ui.Warn(fmt.Sprintf("column %d is past dash.columns (%d); it will wrap on the board", col, cols))
	}
	w, err := env.widgets.Get(args[0])
	if err != nil {
		return widgetLookupError(args[0], err)
	}
	if err := env.widgets.Move(w.ID, row, col); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Moved %s to %d,%d", w.DisplayTitle(), row, col))
	return nil
}

func runWidgetRm(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.widgets.Get(args[0])
	if err != nil {
		return widgetLookupError(args[0], err)
	}
	if err := env.widgets.Remove(w.ID); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Removed %s %s", w.DisplayTitle(), ui.Muted.Render(w.ShortID())))
	return nil
}

func runWidgetSet(_ *cobra.Command, args []string) error {
	key, value := args[1], strings.Join(args[2:], " ")

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.widgets.Get(args[0])
	if err != nil {
		return widgetLookupError(args[0], err)
	}
	if key == "title" {
		err = env.widgets.SetTitle(w.ID, value)
	} else {
		err = env.widgets.SetConfig(w.ID, key, value)
	}
	if err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s.%s = %s", w.ShortID(), key, value))
	return nil
}

func runWidgetUnset(_ *cobra.Command, args []string) error {
	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	w, err := env.widgets.Get(args[0])
	if err != nil {
		return widgetLookupError(args[0], err)
	}
	if err := env.widgets.UnsetConfig(w.ID, args[1]); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("%s.%s cleared", w.ShortID(), args[1]))
	return nil
}

func widgetLookupError(ref string, err error) error {
	switch {
	case errors.Is(err, widget.ErrNotFound):
		return fmt.Errorf("no widget matching %q (run %s)", ref, ui.Accent.Render("deck widget list"))
	case errors.Is(err, widget.ErrAmbiguous):
		return fmt.Errorf("%q matches more than one widget; use more of the ID", ref)
	}
	return err
}

func columns(cfg *config.Config) int {
	if cfg.Dash.Columns < 1 {
		return config.DefaultColumns
	}
	return cfg.Dash.Columns
}
