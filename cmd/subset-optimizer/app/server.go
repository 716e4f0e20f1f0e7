package app

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	cliflag "k8s.io/component-base/cli/flag"
	logsapi "k8s.io/component-base/logs/api/v1"
	"k8s.io/component-base/term"
	"k8s.io/klog/v2"

	"github.com/mihai-snyk/subset-optimizer/apis/config/v1alpha1"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/algorithms"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/metrics"
)

// NewOptimizerCommand creates the subset-optimizer command.
func NewOptimizerCommand() *cobra.Command {
	opts := NewOptions()

	cmd := &cobra.Command{
		Use:   "subset-optimizer",
		Short: "Select a fixed-size subset of catalog items matching a target profile within a budget",
		Long: `subset-optimizer runs a genetic algorithm that picks k items from a catalog so
that their summed attributes approximate a target profile while the total cost
stays within a ceiling.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logsapi.ValidateAndApply(opts.Logs, nil); err != nil {
				return err
			}
			cliflag.PrintFlags(cmd.Flags())
			return Run(cmd.Context(), opts)
		},
		Args: cobra.NoArgs,
	}

	nfs := opts.Flags()
	fs := cmd.Flags()
	for _, f := range nfs.FlagSets {
		fs.AddFlagSet(f)
	}
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, nfs, cols)
	return cmd
}

// Run executes every configured variant and logs the outcome of each.
func Run(ctx context.Context, opts *Options) error {
	logger := klog.FromContext(ctx)

	cfg, err := opts.Config()
	if err != nil {
		return err
	}
	problem, err := ProblemFromConfig(cfg)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	logger.Info("Optimizing", "problem", problem.Name, "items", problem.Catalog.Len(), "k", problem.K,
		"costCeiling", humanize.Ftoa(problem.Target.CostCeiling), "algorithm", *cfg.Algorithm)

	for _, v := range Variants(cfg) {
		runOpts := append(AlgorithmOptions(cfg, v), algorithms.WithMetrics(m))
		if err := runVariant(klog.NewContext(ctx, klog.LoggerWithValues(logger, "variant", v.String())),
			cfg, problem, runOpts); err != nil {
			return fmt.Errorf("variant %s: %w", v, err)
		}
	}

	if opts.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.MetricsFile, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func runVariant(ctx context.Context, cfg *v1alpha1.OptimizerConfiguration, problem framework.Problem, opts []algorithms.Option) error {
	logger := klog.FromContext(ctx)

	if *cfg.Algorithm == v1alpha1.AlgorithmNSGAII {
		nsga, err := algorithms.NewNSGAII(problem, opts...)
		if err != nil {
			return err
		}
		result, err := nsga.Run(ctx)
		if err != nil {
			return err
		}
		for _, ind := range result.Front {
			logger.Info("Pareto-optimal selection", "items", itemNames(problem.Catalog.Items(ind.Genes)),
				"deviation", humanize.Ftoa(ind.Objectives[0]), "cost", humanize.Ftoa(ind.Objectives[1]))
		}
		return nil
	}

	ga, err := algorithms.NewGeneticAlgorithm(problem, opts...)
	if err != nil {
		return err
	}
	result, err := ga.Run(ctx)
	if err != nil {
		return err
	}
	if !result.Feasible {
		logger.Info("No selection within budget was found", "runID", result.RunID,
			"cost", humanize.Ftoa(result.Totals.Cost), "costCeiling", humanize.Ftoa(problem.Target.CostCeiling))
	}

	totals := make([]interface{}, 0, 2*len(result.Totals.Attributes))
	for i, d := range problem.Catalog.Dimensions() {
		totals = append(totals, d, humanize.Ftoa(result.Totals.Attributes[i]))
	}
	logger.Info("Best selection", append([]interface{}{
		"runID", result.RunID,
		"items", itemNames(result.Items),
		"fitness", humanize.Ftoa(result.Best.Fitness),
		"cost", humanize.Ftoa(result.Totals.Cost),
	}, totals...)...)
	return nil
}

func itemNames(items []framework.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}
