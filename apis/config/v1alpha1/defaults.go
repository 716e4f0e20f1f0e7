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
	"k8s.io/utils/ptr"
)

const (
	AlgorithmGA     = "GA"
	AlgorithmNSGAII = "NSGA-II"
)

var (
	DefaultAlgorithm      = AlgorithmGA
	DefaultPopulationSize = int32(100)
	DefaultGenerations    = int32(50)
	DefaultTournamentSize = int32(5)
	DefaultCrossover      = []string{"single"}
	DefaultMutation       = []string{"swap"}
	DefaultMutationRate   = 1.0
	DefaultOddPopulation  = "truncate"
	DefaultParallelism    = int32(1)
	DefaultEliteCount     = int32(1)
)

// SetDefaults_OptimizerConfiguration sets the default parameters for a run.
// The catalog, target and selection size are left alone: an absent catalog
// selects the built-in benchmark, which brings its own.
func SetDefaults_OptimizerConfiguration(obj *OptimizerConfiguration) {
	if obj.APIVersion == "" {
		obj.APIVersion = APIVersion
	}
	if obj.Kind == "" {
		obj.Kind = Kind
	}
	if obj.Algorithm == nil {
		obj.Algorithm = ptr.To(DefaultAlgorithm)
	}
	if obj.PopulationSize == nil {
		obj.PopulationSize = ptr.To(DefaultPopulationSize)
	}
	if obj.Generations == nil {
		obj.Generations = ptr.To(DefaultGenerations)
	}
	if obj.TournamentSize == nil {
		obj.TournamentSize = ptr.To(DefaultTournamentSize)
	}
	if len(obj.Crossover) == 0 {
		obj.Crossover = append([]string(nil), DefaultCrossover...)
	}
	if len(obj.Mutation) == 0 {
		obj.Mutation = append([]string(nil), DefaultMutation...)
	}
	if obj.MutationRate == nil {
		obj.MutationRate = ptr.To(DefaultMutationRate)
	}
	if obj.Elitism == nil {
		obj.Elitism = &ElitismSpec{}
	}
	if obj.Elitism.Count == nil {
		obj.Elitism.Count = ptr.To(DefaultEliteCount)
	}
	if obj.OddPopulation == nil {
		obj.OddPopulation = ptr.To(DefaultOddPopulation)
	}
	if obj.Parallelism == nil {
		obj.Parallelism = ptr.To(DefaultParallelism)
	}
	if obj.CacheFitness == nil {
		obj.CacheFitness = ptr.To(true)
	}
}
