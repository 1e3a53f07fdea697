package catalog

import (
	"github.com/telarmx/artisan-finder/pkg/types"
)

// LocalityFacet is one selectable locality value.
type LocalityFacet struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// Facets are the selectable filter values derived from the current
// collection.
type Facets struct {
	Sizes      []string        `json:"sizes"`
	Localities []LocalityFacet `json:"localities"`
}

// DistinctSizes collects the unique size labels across all products, in
// first-occurrence order. Entries without a usable label contribute
// nothing.
func DistinctSizes(products []types.Product) []string {
	seen := make(map[string]struct{})
	ret := make([]string, 0)
	for i := range products {
		for _, label := range products[i].SizeLabels() {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			ret = append(ret, label)
		}
	}
	return ret
}

// DistinctLocalities collects unique (id, name) pairs in first-occurrence
// order, deduplicated by id with the last seen name winning. Pairs missing
// either part are dropped, the upstream data is not trusted to be complete.
func DistinctLocalities(products []types.Product) []LocalityFacet {
	order := make([]string, 0)
	names := make(map[string]string)
	for i := range products {
		p := &products[i]
		id := p.LocalityId()
		if id == "" {
			continue
		}
		if _, ok := names[id]; !ok {
			order = append(order, id)
		}
		names[id] = p.LocalityName()
	}
	ret := make([]LocalityFacet, 0, len(order))
	for _, id := range order {
		if names[id] == "" {
			continue
		}
		ret = append(ret, LocalityFacet{Id: id, Name: names[id]})
	}
	return ret
}

// ExtractFacets derives both facet sets in one pass over the collection.
func ExtractFacets(products []types.Product) Facets {
	return Facets{
		Sizes:      DistinctSizes(products),
		Localities: DistinctLocalities(products),
	}
}

// ResolveLocalityId maps a locality display name to its identifier by
// scanning the collection. Returns "" when no product carries the name.
func ResolveLocalityId(products []types.Product, name string) string {
	if name == "" {
		return ""
	}
	for i := range products {
		p := &products[i]
		if p.Locality.Embedded != nil {
			if p.Locality.Embedded.Name == name {
				return p.Locality.Id
			}
			continue
		}
		if p.Locality.Id != "" && p.LocalityInfo != nil && p.LocalityInfo.Name == name {
			return p.Locality.Id
		}
	}
	return ""
}
