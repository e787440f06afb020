package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rnwolfe/deck/internal/hook"
	"github.com/rnwolfe/deck/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print deck version",
	RunE:  hook.Wrap("version", runVersion),
}

func runVersion(_ *cobra.Command, _ []string) error {
	if versionShort {
		fmt.Println(version.Short())
	} else {
		fmt.Println(version.Full())
	}
	return nil
}

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the version number")
}
