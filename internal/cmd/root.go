package cmd

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/geodeploy/internal/output"
	"github.com/opmodel/geodeploy/internal/version"
)

// GlobalConfig holds the values of the persistent flags.
type GlobalConfig struct {
	ConfigFile   string
	OutputFormat string
	Verbose      bool
	Timestamps   bool

	// TimestampsSet records whether --timestamps was given explicitly.
	TimestampsSet bool
}

// LogConfig resolves logging with precedence flag > config > default.
func (g *GlobalConfig) LogConfig(fromConfig *bool) output.LogConfig {
	cfg := output.LogConfig{Verbose: g.Verbose}
	switch {
	case g.TimestampsSet:
		cfg.Timestamps = output.BoolPtr(g.Timestamps)
	case fromConfig != nil:
		cfg.Timestamps = fromConfig
	}
	return cfg
}

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	g := &GlobalConfig{}

	rootCmd := &cobra.Command{
		Use:   "geodeploy",
		Short: "Multi-region container deployment",
		Long: `geodeploy provisions a containerized application into every configured
region and fronts the regional endpoints with one global latency-routed router.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			g.TimestampsSet = cmd.Flags().Changed("timestamps")
			output.SetupLogging(g.LogConfig(nil))

			info := version.Get()
			output.Debug("geodeploy started", "version", info.Version, "cue_sdk", info.CUESDKVersion)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&g.ConfigFile, "config", "c", "", "path to config file (env: GEODEPLOY_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&g.OutputFormat, "output", "o", "table", "output format: table, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&g.Verbose, "verbose", "v", false, "increase output verbosity")
	rootCmd.PersistentFlags().BoolVar(&g.Timestamps, "timestamps", true, "show timestamps in log output")

	rootCmd.AddCommand(NewUpCmd(g))
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}
