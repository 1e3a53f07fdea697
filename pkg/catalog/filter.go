package catalog

import (
	"github.com/telarmx/artisan-finder/pkg/types"
)

// Apply runs the filter pipeline over the collection and returns the
// matching subset. Predicates are independent, the order only matters for
// how quickly the set shrinks. The text predicate is the only one gated by
// an explicit commit, the rest are always live.
func Apply(products []types.Product, state *types.FilterState) []types.Product {
	filtered := products

	if state.SelectedSize != "" {
		filtered = filterBy(filtered, func(p *types.Product) bool {
			return p.HasSize(state.SelectedSize)
		})
	}

	if state.SelectedLocality != "" {
		filtered = filterBy(filtered, func(p *types.Product) bool {
			return p.LocalityId() == state.SelectedLocality
		})
	}

	if state.OnlyAvailable {
		filtered = filterBy(filtered, func(p *types.Product) bool {
			return p.IsAvailable()
		})
	}

	if state.HasSearch() {
		needle := state.SearchNeedle()
		filtered = filterBy(filtered, func(p *types.Product) bool {
			return p.MatchesText(needle)
		})
	}

	return filtered
}

func filterBy(products []types.Product, pred func(p *types.Product) bool) []types.Product {
	ret := make([]types.Product, 0, len(products))
	for i := range products {
		if pred(&products[i]) {
			ret = append(ret, products[i])
		}
	}
	return ret
}
