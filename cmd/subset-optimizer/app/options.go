package app

import (
	"github.com/spf13/pflag"
	cliflag "k8s.io/component-base/cli/flag"
	logsapi "k8s.io/component-base/logs/api/v1"
	"k8s.io/utils/ptr"

	"github.com/mihai-snyk/subset-optimizer/apis/config/v1alpha1"
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/operators"
)

// Options holds everything the command line can set. Flags that are set
// explicitly override the configuration file.
type Options struct {
	ConfigFile  string
	MetricsFile string

	Algorithm      string
	PopulationSize int32
	Generations    int32
	TournamentSize int32
	Crossover      []string
	Mutation       []string
	AllVariants    bool
	Elitism        bool
	EliteCount     int32
	OddPopulation  string
	Parallelism    int32
	Seed           uint64

	Logs *logsapi.LoggingConfiguration

	flags *pflag.FlagSet
}

// NewOptions returns options populated with the configuration defaults.
func NewOptions() *Options {
	return &Options{
		Algorithm:      v1alpha1.DefaultAlgorithm,
		PopulationSize: v1alpha1.DefaultPopulationSize,
		Generations:    v1alpha1.DefaultGenerations,
		TournamentSize: v1alpha1.DefaultTournamentSize,
		Crossover:      v1alpha1.DefaultCrossover,
		Mutation:       v1alpha1.DefaultMutation,
		EliteCount:     v1alpha1.DefaultEliteCount,
		OddPopulation:  v1alpha1.DefaultOddPopulation,
		Parallelism:    v1alpha1.DefaultParallelism,
		Logs:           logsapi.NewLoggingConfiguration(),
	}
}

// Flags returns the flags grouped by section.
func (o *Options) Flags() cliflag.NamedFlagSets {
	var fss cliflag.NamedFlagSets

	fs := fss.FlagSet("misc")
	fs.StringVar(&o.ConfigFile, "config", o.ConfigFile, "Path to an OptimizerConfiguration file. Without one the built-in diet benchmark is optimized.")
	fs.StringVar(&o.MetricsFile, "metrics-file", o.MetricsFile, "If set, write Prometheus metrics of all runs to this file in the text exposition format.")

	fs = fss.FlagSet("optimizer")
	fs.StringVar(&o.Algorithm, "algorithm", o.Algorithm, "Optimizer to run: GA or NSGA-II.")
	fs.Int32Var(&o.PopulationSize, "population-size", o.PopulationSize, "Number of candidates per generation.")
	fs.Int32Var(&o.Generations, "generations", o.Generations, "Number of generations to breed.")
	fs.Int32Var(&o.TournamentSize, "tournament-size", o.TournamentSize, "Contestants per tournament selection.")
	fs.StringSliceVar(&o.Crossover, "crossover", o.Crossover, "Crossover operators to run: single, two_point, uniform.")
	fs.StringSliceVar(&o.Mutation, "mutation", o.Mutation, "Mutation operators to run: swap, inverse, shuffle.")
	fs.BoolVar(&o.AllVariants, "all-variants", o.AllVariants, "Run every crossover and mutation combination.")
	fs.BoolVar(&o.Elitism, "elitism", o.Elitism, "Carry the best candidates over to the next generation.")
	fs.Int32Var(&o.EliteCount, "elite-count", o.EliteCount, "Number of candidates carried over when --elitism is set.")
	fs.StringVar(&o.OddPopulation, "odd-population", o.OddPopulation, "Handling of an odd number of bred candidates: truncate, round_up or reject.")
	fs.Int32Var(&o.Parallelism, "parallelism", o.Parallelism, "Maximum number of concurrent fitness evaluations.")
	fs.Uint64Var(&o.Seed, "seed", o.Seed, "Random seed. Zero picks a random seed per run.")

	logsapi.AddFlags(o.Logs, fss.FlagSet("logs"))

	o.flags = pflag.NewFlagSet("all", pflag.ContinueOnError)
	for _, name := range fss.Order {
		o.flags.AddFlagSet(fss.FlagSets[name])
	}
	return fss
}

func (o *Options) changed(name string) bool {
	return o.flags != nil && o.flags.Changed(name)
}

// Config loads the configuration file, if any, and applies explicitly set
// flags on top of it.
func (o *Options) Config() (*v1alpha1.OptimizerConfiguration, error) {
	cfg := &v1alpha1.OptimizerConfiguration{}
	if o.ConfigFile != "" {
		loaded, err := v1alpha1.LoadConfigurationFile(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	o.applyTo(cfg)
	v1alpha1.SetDefaults_OptimizerConfiguration(cfg)
	if errs := v1alpha1.ValidateOptimizerConfiguration(cfg); len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	return cfg, nil
}

func (o *Options) applyTo(cfg *v1alpha1.OptimizerConfiguration) {
	if o.changed("algorithm") {
		cfg.Algorithm = ptr.To(o.Algorithm)
	}
	if o.changed("population-size") {
		cfg.PopulationSize = ptr.To(o.PopulationSize)
	}
	if o.changed("generations") {
		cfg.Generations = ptr.To(o.Generations)
	}
	if o.changed("tournament-size") {
		cfg.TournamentSize = ptr.To(o.TournamentSize)
	}
	if o.changed("crossover") {
		cfg.Crossover = o.Crossover
	}
	if o.changed("mutation") {
		cfg.Mutation = o.Mutation
	}
	if o.AllVariants {
		cfg.Crossover, cfg.Mutation = nil, nil
		for _, k := range operators.CrossoverKinds {
			cfg.Crossover = append(cfg.Crossover, string(k))
		}
		for _, k := range operators.MutationKinds {
			cfg.Mutation = append(cfg.Mutation, string(k))
		}
	}
	if o.changed("elitism") || o.changed("elite-count") {
		if cfg.Elitism == nil {
			cfg.Elitism = &v1alpha1.ElitismSpec{}
		}
		if o.changed("elitism") {
			cfg.Elitism.Enabled = o.Elitism
		}
		if o.changed("elite-count") {
			cfg.Elitism.Count = ptr.To(o.EliteCount)
		}
	}
	if o.changed("odd-population") {
		cfg.OddPopulation = ptr.To(o.OddPopulation)
	}
	if o.changed("parallelism") {
		cfg.Parallelism = ptr.To(o.Parallelism)
	}
	if o.changed("seed") && o.Seed != 0 {
		cfg.Seed = ptr.To(o.Seed)
	}
}
