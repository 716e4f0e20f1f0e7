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
	"fmt"
	"os"

	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"
)

// ValidateOptimizerConfiguration checks the structure of a defaulted
// configuration. Numeric run parameters are checked by the optimizer itself
// when a run is created.
func ValidateOptimizerConfiguration(obj *OptimizerConfiguration) field.ErrorList {
	var errs field.ErrorList
	if obj.APIVersion != APIVersion {
		errs = append(errs, field.Invalid(field.NewPath("apiVersion"), obj.APIVersion, fmt.Sprintf("must be %s", APIVersion)))
	}
	if obj.Kind != Kind {
		errs = append(errs, field.Invalid(field.NewPath("kind"), obj.Kind, fmt.Sprintf("must be %s", Kind)))
	}
	if obj.Algorithm != nil && *obj.Algorithm != AlgorithmGA && *obj.Algorithm != AlgorithmNSGAII {
		errs = append(errs, field.NotSupported(field.NewPath("algorithm"), *obj.Algorithm, []string{AlgorithmGA, AlgorithmNSGAII}))
	}

	custom := obj.Catalog != nil || obj.Target != nil || obj.SelectionSize != nil
	if custom {
		if obj.Catalog == nil {
			errs = append(errs, field.Required(field.NewPath("catalog"), "required when target or selectionSize is set"))
		}
		if obj.Target == nil {
			errs = append(errs, field.Required(field.NewPath("target"), "required when catalog is set"))
		}
		if obj.SelectionSize == nil {
			errs = append(errs, field.Required(field.NewPath("selectionSize"), "required when catalog is set"))
		}
	}
	if obj.Catalog != nil {
		errs = append(errs, validateCatalog(obj.Catalog, field.NewPath("catalog"))...)
	}
	return errs
}

func validateCatalog(c *CatalogSpec, path *field.Path) field.ErrorList {
	var errs field.ErrorList
	if len(c.Items) == 0 {
		errs = append(errs, field.Required(path.Child("items"), ""))
	}
	dims := make(map[string]bool, len(c.Dimensions))
	for _, d := range c.Dimensions {
		dims[d] = true
	}
	for i, it := range c.Items {
		attrPath := path.Child("items").Index(i).Child("attributes")
		for name := range it.Attributes {
			if !dims[name] {
				errs = append(errs, field.NotSupported(attrPath.Key(name), name, c.Dimensions))
			}
		}
		for _, d := range c.Dimensions {
			if _, ok := it.Attributes[d]; !ok {
				errs = append(errs, field.Required(attrPath.Key(d), "every dimension needs a value"))
			}
		}
	}
	return errs
}

// AttributeVector returns the attribute values of it in dimension order.
func (it ItemSpec) AttributeVector(dimensions []string) []float64 {
	out := make([]float64, len(dimensions))
	for i, d := range dimensions {
		out[i] = it.Attributes[d]
	}
	return out
}

// LoadConfiguration decodes, defaults and validates a YAML or JSON
// configuration. Unknown fields are rejected.
func LoadConfiguration(data []byte) (*OptimizerConfiguration, error) {
	obj := &OptimizerConfiguration{}
	if err := yaml.UnmarshalStrict(data, obj); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	SetDefaults_OptimizerConfiguration(obj)
	if errs := ValidateOptimizerConfiguration(obj); len(errs) > 0 {
		return nil, errs.ToAggregate()
	}
	return obj, nil
}

// LoadConfigurationFile reads the configuration at path.
func LoadConfigurationFile(path string) (*OptimizerConfiguration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	obj, err := LoadConfiguration(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return obj, nil
}
