/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// GroupName is the group of the optimizer configuration API
	GroupName = "config.subset-optimizer.io"
	// Version is the only served version
	Version = "v1alpha1"
	// Kind of the configuration object
	Kind = "OptimizerConfiguration"
)

// APIVersion is the apiVersion every configuration file must declare.
var APIVersion = GroupName + "/" + Version

// OptimizerConfiguration configures one or more optimization runs. When
// several crossover or mutation operators are listed, every combination is
// run with the same parameters.
type OptimizerConfiguration struct {
	metav1.TypeMeta `json:",inline"`

	// Catalog is the set of items to choose from. When omitted, the built-in
	// diet benchmark is used together with its target and selection size.
	// +optional
	Catalog *CatalogSpec `json:"catalog,omitempty"`

	// Target is the profile a selection should approximate.
	// +optional
	Target *TargetSpec `json:"target,omitempty"`

	// SelectionSize is the number of items in every candidate (k).
	// +optional
	SelectionSize *int32 `json:"selectionSize,omitempty"`

	// Algorithm is either "GA" or "NSGA-II". Defaults to "GA".
	// +optional
	Algorithm *string `json:"algorithm,omitempty"`

	// PopulationSize is the number of candidates per generation. Defaults to 100.
	// +optional
	PopulationSize *int32 `json:"populationSize,omitempty"`

	// Generations is the number of generations to breed. Defaults to 50.
	// +optional
	Generations *int32 `json:"generations,omitempty"`

	// TournamentSize is the number of contestants per parent selection. Defaults to 5.
	// +optional
	TournamentSize *int32 `json:"tournamentSize,omitempty"`

	// Crossover lists the crossover operators to run: single, two_point, uniform.
	// Defaults to [single].
	// +optional
	Crossover []string `json:"crossover,omitempty"`

	// Mutation lists the mutation operators to run: swap, inverse, shuffle.
	// Defaults to [swap].
	// +optional
	Mutation []string `json:"mutation,omitempty"`

	// MutationRate is the probability a child is mutated. Defaults to 1.
	// +optional
	MutationRate *float64 `json:"mutationRate,omitempty"`

	// Elitism carries the best candidates over to the next generation.
	// +optional
	Elitism *ElitismSpec `json:"elitism,omitempty"`

	// OddPopulation is one of truncate, round_up or reject. Defaults to truncate.
	// +optional
	OddPopulation *string `json:"oddPopulation,omitempty"`

	// Parallelism bounds concurrent fitness evaluations. Defaults to 1.
	// +optional
	Parallelism *int32 `json:"parallelism,omitempty"`

	// CacheFitness memoizes candidate scores during a run. Defaults to true.
	// +optional
	CacheFitness *bool `json:"cacheFitness,omitempty"`

	// Seed makes runs reproducible. Unset means a random seed per run.
	// +optional
	Seed *uint64 `json:"seed,omitempty"`
}

// CatalogSpec describes the items to select from.
type CatalogSpec struct {
	// Dimensions names the attributes of every item, in order.
	Dimensions []string `json:"dimensions"`

	// Items are the candidates' building blocks. Names must be unique.
	Items []ItemSpec `json:"items"`
}

// ItemSpec is a single catalog entry.
type ItemSpec struct {
	Name string `json:"name"`

	// Attributes maps every catalog dimension to the item's value.
	Attributes map[string]float64 `json:"attributes"`

	Cost float64 `json:"cost"`
}

// TargetSpec is the profile to approximate and the budget to respect.
type TargetSpec struct {
	// DimensionTargets maps a dimension name to its target total.
	DimensionTargets map[string]float64 `json:"dimensionTargets"`

	// Weights scales the deviation per dimension. Missing entries weigh 1.
	// +optional
	Weights map[string]float64 `json:"weights,omitempty"`

	// CostCeiling is the maximum total cost of a feasible selection.
	CostCeiling float64 `json:"costCeiling"`
}

// ElitismSpec configures elitist survivor selection.
type ElitismSpec struct {
	Enabled bool `json:"enabled"`

	// Count is the number of carried-over candidates. Defaults to 1.
	// +optional
	Count *int32 `json:"count,omitempty"`
}
