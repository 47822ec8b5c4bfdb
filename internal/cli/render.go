package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/worldmaps/pkg/errors"
	"github.com/matzehuels/worldmaps/pkg/pipeline"
	"github.com/matzehuels/worldmaps/pkg/scenario"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	configs   []string // TOML scenario files
	all       bool     // render every built-in scenario
	refresh   bool     // recompute normalized geometry even when cached
	keepGoing bool     // continue with the next scenario after a failure
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [scenario...]",
		Short: "Render built-in scenarios or scenario files",
		Long: `Render one or more scenarios. Built-in scenarios are named on the command
line (see "worldmaps list"); scenario files are passed with --config.`,
		Example: `  worldmaps render social-preview
  worldmaps render --all --data ~/naturalearth
  worldmaps render --config maps/pacific.toml`,
		ValidArgsFunction: completeScenarios,
		RunE: func(cmd *cobra.Command, args []string) error {
			scs, err := selectScenarios(args, opts)
			if err != nil {
				return err
			}
			return c.runRender(cmd.Context(), scs, opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.configs, "config", "c", nil, "scenario file (TOML), may be repeated")
	cmd.Flags().BoolVar(&opts.all, "all", false, "render every built-in scenario")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute normalized geometry even when cached")
	cmd.Flags().BoolVarP(&opts.keepGoing, "keep-going", "k", false, "continue after a scenario fails")

	return cmd
}

// selectScenarios resolves scenario names and files into scenarios. Two
// scenarios writing the same output file are rejected.
func selectScenarios(names []string, opts renderOpts) ([]pipeline.Scenario, error) {
	if opts.all {
		if len(names) > 0 || len(opts.configs) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "--all cannot be combined with scenario names or --config")
		}
		return scenario.All(), nil
	}
	if len(names) == 0 && len(opts.configs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "no scenario given (run %q to see the built-ins)", appName+" list")
	}

	var scs []pipeline.Scenario
	for _, name := range names {
		sc, err := scenario.Get(name)
		if err != nil {
			return nil, err
		}
		scs = append(scs, sc)
	}
	for _, path := range opts.configs {
		sc, err := scenario.LoadFile(path)
		if err != nil {
			return nil, err
		}
		scs = append(scs, sc)
	}

	outputs := make(map[string]string, len(scs))
	for _, sc := range scs {
		if other, ok := outputs[sc.Output]; ok {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "scenarios %s and %s both write %s", other, sc.Name, sc.Output)
		}
		outputs[sc.Output] = sc.Name
	}
	return scs, nil
}

// runRender renders scs in order with one shared runner.
func (c *CLI) runRender(ctx context.Context, scs []pipeline.Scenario, opts renderOpts) error {
	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	var failed []string
	for _, sc := range scs {
		err := c.renderOne(ctx, runner, sc, opts.refresh)
		if err == nil {
			continue
		}
		if !opts.keepGoing || ctx.Err() != nil {
			return err
		}
		printError("%s: %s", sc.Name, errors.UserMessage(err))
		failed = append(failed, sc.Name)
	}
	if len(failed) > 0 {
		return errors.New(errors.ErrCodeInternal, "%d of %d scenarios failed: %v", len(failed), len(scs), failed)
	}
	if len(scs) > 1 {
		prog.done(fmt.Sprintf("Rendered %d scenarios", len(scs)))
	}
	return nil
}

// renderOne runs one scenario behind a spinner that follows the pipeline
// stages.
func (c *CLI) renderOne(ctx context.Context, runner *pipeline.Runner, sc pipeline.Scenario, refresh bool) error {
	spinner := newSpinnerWithContext(ctx, "Rendering "+sc.Name+"...")
	restore := installHooks(&stageHooks{logger: c.Logger, spinner: spinner})
	defer restore()

	spinner.Start()
	res, err := runner.Execute(ctx, sc, c.options(refresh))
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("%s: %w", sc.Name, err)
	}
	spinner.StopWithSuccess("Rendered " + sc.Name)
	printFile(res.Output)
	printStats(res.Stats, res.CacheInfo.GeometryHit)
	return nil
}

// completeScenarios completes built-in scenario names.
func completeScenarios(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	used := make(map[string]bool, len(args))
	for _, a := range args {
		used[a] = true
	}
	var out []string
	for _, sc := range scenario.All() {
		if !used[sc.Name] {
			out = append(out, sc.Name+"\t"+sc.Description)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
