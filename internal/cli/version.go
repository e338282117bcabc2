package cli

import (
	"github.com/spf13/cobra"

	"github.com/payrun/payrun/internal/version"
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(_ *cobra.Command, _ []string) error {
		return formatter.Print(version.Get())
	},
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(versionCmd)
}
