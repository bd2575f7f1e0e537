package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/geodeploy/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show geodeploy version information.

Displays:
  - geodeploy version, commit, and build date
  - CUE SDK version used for config validation`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "geodeploy version %s\n", info.Version)
			fmt.Fprintf(w, "  Commit:    %s\n", info.GitCommit)
			fmt.Fprintf(w, "  Built:     %s\n", info.BuildDate)
			fmt.Fprintf(w, "  Go:        %s\n", info.GoVersion)
			fmt.Fprintf(w, "  CUE SDK:   %s\n", info.CUESDKVersion)
			return nil
		},
	}
}
