package framework

import (
	"fmt"
	"math"

	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Catalog is an immutable, ordered collection of uniquely named items.
type Catalog struct {
	dimensions []string
	items      []Item
	byName     map[string]int
}

// NewCatalog validates items against dims and returns a read-only catalog.
// Items are deep-copied so later changes by the caller are not observed.
func NewCatalog(dims []string, items []Item) (*Catalog, error) {
	var errs field.ErrorList
	dimPath := field.NewPath("dimensions")
	seenDims := make(map[string]bool, len(dims))
	for i, d := range dims {
		if d == "" {
			errs = append(errs, field.Required(dimPath.Index(i), "dimension name must not be empty"))
		} else if seenDims[d] {
			errs = append(errs, field.Duplicate(dimPath.Index(i), d))
		}
		seenDims[d] = true
	}

	c := &Catalog{
		dimensions: append([]string(nil), dims...),
		items:      make([]Item, 0, len(items)),
		byName:     make(map[string]int, len(items)),
	}
	itemsPath := field.NewPath("items")
	for i, it := range items {
		p := itemsPath.Index(i)
		switch {
		case it.Name == "":
			errs = append(errs, field.Required(p.Child("name"), ""))
		case c.has(it.Name):
			errs = append(errs, field.Duplicate(p.Child("name"), it.Name))
		}
		if len(it.Attributes) != len(dims) {
			errs = append(errs, field.Invalid(p.Child("attributes"), len(it.Attributes),
				fmt.Sprintf("must have %d values, one per dimension", len(dims))))
		}
		for j, v := range it.Attributes {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				errs = append(errs, field.Invalid(p.Child("attributes").Index(j), v, "must be finite"))
			}
		}
		if it.Cost < 0 || math.IsNaN(it.Cost) || math.IsInf(it.Cost, 0) {
			errs = append(errs, field.Invalid(p.Child("cost"), it.Cost, "must be a finite, non-negative number"))
		}
		c.byName[it.Name] = len(c.items)
		c.items = append(c.items, Item{
			Name:       it.Name,
			Attributes: append([]float64(nil), it.Attributes...),
			Cost:       it.Cost,
		})
	}
	if len(errs) > 0 {
		return nil, NewConfigurationError(errs)
	}
	return c, nil
}

func (c *Catalog) has(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of items.
func (c *Catalog) Len() int { return len(c.items) }

// Dimensions returns the attribute dimension names in order.
func (c *Catalog) Dimensions() []string {
	return append([]string(nil), c.dimensions...)
}

// DimensionIndex returns the position of the named dimension, or -1.
func (c *Catalog) DimensionIndex(name string) int {
	for i, d := range c.dimensions {
		if d == name {
			return i
		}
	}
	return -1
}

// Item returns the i-th item. The returned value shares its attribute slice
// with the catalog and must not be modified.
func (c *Catalog) Item(i int) Item { return c.items[i] }

// Index returns the position of the named item.
func (c *Catalog) Index(name string) (int, bool) {
	i, ok := c.byName[name]
	return i, ok
}

// Items resolves a candidate into the items it references.
func (c *Catalog) Items(cand Candidate) []Item {
	out := make([]Item, len(cand))
	for i, g := range cand {
		out[i] = c.items[g]
	}
	return out
}

// Sample draws k distinct item indices uniformly at random.
func (c *Catalog) Sample(k int, rng RandomSource) Candidate {
	if k > len(c.items) {
		panic(fmt.Sprintf("cannot sample %d distinct items from a catalog of %d", k, len(c.items)))
	}
	return Candidate(rng.Perm(len(c.items))[:k])
}

// RandomIndex draws one item index uniformly at random.
func (c *Catalog) RandomIndex(rng RandomSource) int {
	return rng.IntN(len(c.items))
}
