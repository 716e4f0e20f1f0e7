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
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	obj, err := LoadConfiguration([]byte(`
apiVersion: config.subset-optimizer.io/v1alpha1
kind: OptimizerConfiguration
seed: 7
`))
	require.NoError(t, err)

	want := &OptimizerConfiguration{
		Algorithm:      ptr.To(AlgorithmGA),
		PopulationSize: ptr.To[int32](100),
		Generations:    ptr.To[int32](50),
		TournamentSize: ptr.To[int32](5),
		Crossover:      []string{"single"},
		Mutation:       []string{"swap"},
		MutationRate:   ptr.To(1.0),
		Elitism:        &ElitismSpec{Count: ptr.To[int32](1)},
		OddPopulation:  ptr.To("truncate"),
		Parallelism:    ptr.To[int32](1),
		CacheFitness:   ptr.To(true),
		Seed:           ptr.To[uint64](7),
	}
	want.APIVersion = APIVersion
	want.Kind = Kind
	if diff := cmp.Diff(want, obj); diff != "" {
		t.Errorf("unexpected configuration (-want +got):\n%s", diff)
	}
}

func TestLoadConfigurationCustomCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
apiVersion: config.subset-optimizer.io/v1alpha1
kind: OptimizerConfiguration
algorithm: NSGA-II
selectionSize: 2
crossover: [single, uniform]
mutation: [inverse]
elitism:
  enabled: true
  count: 2
catalog:
  dimensions: [calories]
  items:
  - name: A
    attributes: {calories: 100}
    cost: 10
  - name: B
    attributes: {calories: 50}
    cost: 5
target:
  dimensionTargets: {calories: 150}
  costCeiling: 20
`), 0o600))

	obj, err := LoadConfigurationFile(path)
	require.NoError(t, err)
	assert.Equal(t, AlgorithmNSGAII, *obj.Algorithm)
	assert.Equal(t, []string{"single", "uniform"}, obj.Crossover)
	assert.True(t, obj.Elitism.Enabled)
	assert.Equal(t, int32(2), *obj.Elitism.Count)
	require.Len(t, obj.Catalog.Items, 2)
	assert.Equal(t, []float64{100}, obj.Catalog.Items[0].AttributeVector(obj.Catalog.Dimensions))
	assert.Equal(t, 20.0, obj.Target.CostCeiling)
}

func TestLoadConfigurationErrors(t *testing.T) {
	tests := map[string]string{
		"unknown field": `
kind: OptimizerConfiguration
populationSzie: 10
`,
		"wrong kind": `
kind: SchedulerConfiguration
`,
		"unknown algorithm": `
algorithm: SPEA2
`,
		"catalog without target": `
selectionSize: 1
catalog:
  dimensions: [x]
  items:
  - name: A
    attributes: {x: 1}
`,
		"missing attribute": `
selectionSize: 1
target:
  dimensionTargets: {x: 1}
  costCeiling: 1
catalog:
  dimensions: [x, y]
  items:
  - name: A
    attributes: {x: 1, z: 2}
`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfiguration([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigurationFileMissing(t *testing.T) {
	_, err := LoadConfigurationFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
