package cmd

import (
	"bufio"
	"fmt"
	"os"
	"os/user"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/config"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/store"
	"github.com/rnwolfe/deck/internal/ui"
	"github.com/rnwolfe/deck/internal/widget"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Set up deck for the first time",
	Long:  `Create the config file, the database, and a starter board.`,
	RunE:  hook.Wrap("init", runInit),
}

func runInit(_ *cobra.Command, _ []string) error {
	return runInitWithReader(bufio.NewReader(os.Stdin))
}

func runInitWithReader(reader *bufio.Reader) error {
	fmt.Println(ui.Title.Render(ui.IconDeck + "Welcome to deck!"))
	fmt.Println()

	// Keep whatever is already configured; init can be re-run.
	cfg, err := config.LoadFile()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	defaultName := cfg.User.Name
	if defaultName == "" {
		defaultName = guessName()
	}
	cfg.User.Name = prompt(reader, "  What should I call you?", defaultName)

	defaultTZ := cfg.Streak.Timezone
	if defaultTZ == "" {
		defaultTZ = localZoneName()
	}
	for {
		tz := prompt(reader, "  Which timezone decides your days?", defaultTZ)
		if err := config.SchemaKeys["streak.timezone"].Set(cfg, tz); err != nil {
			ui.Warn(err.Error())
			if tz == defaultTZ {
				cfg.Streak.Timezone = ""
				break
			}
			continue
		}
		break
	}
	fmt.Println()

	paths := config.GetPaths()
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("creating directories: %w", err)
	}
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer db.Close()

	// A fresh board gets a habits panel so `deck dash` isn't empty.
	widgets := widget.NewStore(db.Conn())
	existing, err := widgets.List()
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		if _, err := widgets.Add(widget.KindHabits, "", columns(cfg)); err != nil {
			return fmt.Errorf("creating starter board: %w", err)
		}
	}

	if cfg.User.Name != "" {
		ui.Ok("All set, " + cfg.User.Name + "! " + ui.IconParty)
	} else {
		ui.Ok("All set! " + ui.IconParty)
	}
	fmt.Println()
	fmt.Println(ui.Muted.Render("  Created:"))
	fmt.Printf("    Config  %s\n", ui.Muted.Render(paths.ConfigFile))
	fmt.Printf("    Data    %s\n", ui.Muted.Render(paths.DBFile))
	fmt.Println()
	fmt.Printf("  Start a streak with %s, then type %s.\n",
		ui.Accent.Render(`deck habit add "read 20 pages"`), ui.Accent.Render("deck"))
	fmt.Println()
	return nil
}

// prompt prints question with a default and returns the trimmed answer, or
// the default when the answer is empty.
func prompt(reader *bufio.Reader, question, def string) string {
	if def != "" {
		fmt.Printf("%s %s ", question, ui.Muted.Render("("+def+")"))
	} else {
		fmt.Printf("%s ", question)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return def
	}
	return input
}

func guessName() string {
	u, err := user.Current()
	if err != nil {
		return ""
	}
	if fields := strings.Fields(u.Name); len(fields) > 0 {
		return fields[0]
	}
	return u.Username
}

// localZoneName returns an IANA name for the system zone when one is known.
func localZoneName() string {
	if tz := os.Getenv("TZ"); tz != "" {
		return tz
	}
	if name := time.Local.String(); name != "Local" {
		return name
	}
	return ""
}
