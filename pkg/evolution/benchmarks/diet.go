package benchmarks

import (
	"github.com/mihai-snyk/subset-optimizer/pkg/evolution/framework"
)

const (
	DietName = "Diet"

	Calories = "calories"
	Proteins = "proteins"
	Fats     = "fats"
	Carbs    = "carbs"
)

// DietDimensions is the attribute order of the diet catalog.
var DietDimensions = []string{Calories, Proteins, Fats, Carbs}

// DietItems are the foods of the diet benchmark: nutrition per serving and
// price.
var DietItems = []framework.Item{
	{Name: "Apple", Attributes: []float64{52, 0.3, 0.2, 14}, Cost: 10},
	{Name: "Banana", Attributes: []float64{96, 1.3, 0.3, 27}, Cost: 15},
	{Name: "Chicken Breast", Attributes: []float64{165, 31, 3.6, 0}, Cost: 180},
	{Name: "Rice", Attributes: []float64{130, 2.7, 0.3, 28}, Cost: 30},
	{Name: "Salmon", Attributes: []float64{208, 20, 13, 0}, Cost: 120},
	{Name: "Eggs", Attributes: []float64{155, 13, 11, 1.1}, Cost: 25},
	{Name: "Milk", Attributes: []float64{42, 3.4, 1, 5}, Cost: 20},
	{Name: "Broccoli", Attributes: []float64{55, 3.7, 0.6, 11}, Cost: 12},
	{Name: "Almonds", Attributes: []float64{579, 21, 50, 22}, Cost: 150},
	{Name: "Avocado", Attributes: []float64{160, 2, 15, 9}, Cost: 50},
	{Name: "Cheese", Attributes: []float64{402, 25, 33, 1.3}, Cost: 90},
	{Name: "Bread", Attributes: []float64{265, 9, 3.2, 49}, Cost: 18},
	{Name: "Pasta", Attributes: []float64{157, 6, 1.1, 30}, Cost: 25},
}

// DietTarget is the daily norm and the budget of the diet benchmark.
func DietTarget() framework.TargetProfile {
	return framework.TargetProfile{
		DimensionTargets: map[string]float64{
			Calories: 2000,
			Proteins: 100,
			Fats:     50,
			Carbs:    300,
		},
		CostCeiling: 500,
	}
}

// DietK is the number of foods in one diet.
const DietK = 4

// Diet picks DietK foods approximating the daily norm within the budget.
func Diet() framework.Problem {
	catalog, err := framework.NewCatalog(DietDimensions, DietItems)
	if err != nil {
		// the table above is static
		panic(err)
	}
	return framework.Problem{
		Name:    DietName,
		Catalog: catalog,
		Target:  DietTarget(),
		K:       DietK,
	}
}
