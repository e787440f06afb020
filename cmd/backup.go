package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rnwolfe/deck/internal/backup"
	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/ui"
)

// passphraseEnv lets scripts skip the passphrase prompt.
const passphraseEnv = "DECK_PASSPHRASE"

var importYes bool

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write an encrypted backup of habits and widgets",
	Long: `Export everything in the deck database to a passphrase-encrypted,
ASCII-armored file. Set DECK_PASSPHRASE to skip the prompt.`,
	Args: cobra.ExactArgs(1),
	RunE: hook.Wrap("export", runExport),
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace local data with an encrypted backup",
	Long: `Restore a file written by ` + "`deck export`" + `. All current habits, check-ins,
and widgets are replaced in one transaction; nothing changes if the file
can't be decrypted or fails validation.`,
	Args: cobra.ExactArgs(1),
	RunE: hook.Wrap("import", runImport),
}

func init() {
	importCmd.Flags().BoolVarP(&importYes, "yes", "y", false, "Don't ask before replacing data")
}

func runExport(_ *cobra.Command, args []string) error {
	pass, err := readPassphrase(true)
	if err != nil {
		return err
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	snap, err := backup.Collect(env.db.Conn())
	if err != nil {
		return err
	}
	if err := backup.ExportFile(args[0], snap, pass); err != nil {
		return err
	}

	ui.Ok(fmt.Sprintf("Exported %d habit(s), %d check-in(s), %d widget(s) to %s",
		len(snap.Habits), len(snap.Entries), len(snap.Widgets), args[0]))
	return nil
}

func runImport(_ *cobra.Command, args []string) error {
	pass, err := readPassphrase(false)
	if err != nil {
		return err
	}

	snap, err := backup.ImportFile(args[0], pass)
	switch {
	case errors.Is(err, backup.ErrWrongPassphrase):
		return fmt.Errorf("wrong passphrase for %s", args[0])
	case err != nil:
		return err
	}
	if err := snap.Validate(); err != nil {
		return err
	}

	if !importYes && term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Printf("  Replace local data with %d habit(s) and %d widget(s) from %s? %s ",
			len(snap.Habits), len(snap.Widgets), snap.ExportedAt.Format("Jan 2 2006"), ui.Muted.Render("(y/N)"))
		var answer string
		fmt.Scanln(&answer)
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			fmt.Println(ui.Muted.Render("  Nothing changed."))
			return nil
		}
	}

	env, err := openEnv()
	if err != nil {
		return err
	}
	defer env.Close()

	if err := backup.Restore(env.db.Conn(), snap); err != nil {
		return err
	}
	ui.Ok(fmt.Sprintf("Imported %d habit(s), %d check-in(s), %d widget(s)",
		len(snap.Habits), len(snap.Entries), len(snap.Widgets)))
	return nil
}

// readPassphrase returns DECK_PASSPHRASE or prompts without echo. confirm
// asks twice, for exports.
func readPassphrase(confirm bool) (string, error) {
	if p := os.Getenv(passphraseEnv); p != "" {
		return p, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("passphrase required; set %s or run interactively", passphraseEnv)
	}

	fmt.Fprint(os.Stderr, ui.Muted.Render("  Backup passphrase: "))
	pass, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	passphrase := strings.TrimSpace(string(pass))
	if passphrase == "" {
		return "", fmt.Errorf("passphrase can't be empty")
	}

	if confirm {
		fmt.Fprint(os.Stderr, ui.Muted.Render("  Confirm passphrase: "))
		again, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase confirmation: %w", err)
		}
		if strings.TrimSpace(string(again)) != passphrase {
			return "", fmt.Errorf("passphrases do not match")
		}
	}
	return passphrase, nil
}
