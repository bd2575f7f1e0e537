package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opmodel/geodeploy/internal/config"
	"github.com/opmodel/geodeploy/internal/engine/memory"
	"github.com/opmodel/geodeploy/internal/output"
	"github.com/opmodel/geodeploy/internal/topology"
)

type upOptions struct {
	snapshot string
	showTree bool
}

// NewUpCmd creates the up command.
func NewUpCmd(g *GlobalConfig) *cobra.Command {
	opts := &upOptions{}

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Provision every region and the global router",
		Long: `Load the deployment settings, expand them into the multi-region topology
and converge it. Regional URLs and the router URL are printed once every
region and the router are ready.

Resources are realized by the built-in dry-run engine; use --snapshot to
write the resulting state.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUp(cmd, g, opts)
		},
	}

	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "write the engine state as YAML to this file")
	cmd.Flags().BoolVar(&opts.showTree, "tree", false, "print the resource tree after converging")

	return cmd
}

func runUp(cmd *cobra.Command, g *GlobalConfig, opts *upOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !slices.Contains(append(output.ValidFormats(), "yml"), strings.ToLower(g.OutputFormat)) {
		return NewExitError(fmt.Errorf("invalid output format %q (valid: %s)",
			g.OutputFormat, strings.Join(output.ValidFormats(), ", ")), false)
	}
	format := output.ParseFormat(g.OutputFormat)
	stderr := cmd.ErrOrStderr()

	settings, err := config.LoadAndValidate(g.ConfigFile)
	if err != nil {
		return NewExitError(err, false)
	}
	output.SetupLogging(g.LogConfig(settings.Log.Timestamps))

	spec, err := settings.ToSpec()
	if err != nil {
		return NewExitError(err, false)
	}

	eng := memory.New(
		memory.WithParallelism(settings.Engine.Parallelism),
		memory.WithLatency(settings.Engine.Latency),
	)
	deployment := topology.NewStack(spec, eng).Run(ctx)

	var outs topology.Outputs
	title := fmt.Sprintf("Converging %s in %d regions", spec.ApplicationName(), len(spec.Regions()))
	runErr := output.RunWithSpinner(ctx, title, func() error {
		var err error
		outs, err = deployment.Wait(ctx)
		return err
	})

	if runErr != nil {
		// Let in-flight siblings finish so the tree shows what was realized.
		_ = deployment.Settle(ctx)
		fmt.Fprint(stderr, output.RenderTree(deployment.Tree()))
		output.Error("deployment failed", "err", runErr)
		writeSnapshot(eng, opts.snapshot)
		return NewExitError(runErr, true)
	}

	if opts.showTree || g.Verbose {
		fmt.Fprint(stderr, output.RenderTree(deployment.Tree()))
	}
	fmt.Fprintln(stderr, output.FormatCheckmark(fmt.Sprintf("%s converged in %d regions", spec.ApplicationName(), len(outs.Endpoints))))

	writeSnapshot(eng, opts.snapshot)

	report := &output.Report{
		Application: spec.ApplicationName(),
		Environment: spec.Environment(),
		RegionURLs:  outs.RegionURLs,
		Endpoints:   outs.Endpoints,
		RouterFQDN:  outs.RouterFQDN,
		RouterURL:   outs.RouterURL,
	}
	return output.WriteReport(cmd.OutOrStdout(), report, format)
}

func writeSnapshot(eng *memory.Engine, path string) {
	if path == "" {
		return
	}
	data, err := eng.Snapshot()
	if err != nil {
		output.Warn("encoding engine snapshot", "err", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		output.Warn("writing engine snapshot", "path", path, "err", err)
		return
	}
	output.Debug("engine snapshot written", "path", path)
}
