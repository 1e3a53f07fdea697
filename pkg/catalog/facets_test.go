package catalog

import (
	"encoding/json"
	"testing"

	"github.com/telarmx/artisan-finder/pkg/types"
)

func productsFromJson(t *testing.T, data string) []types.Product {
	t.Helper()
	products := []types.Product{}
	if err := json.Unmarshal([]byte(data), &products); err != nil {
		t.Fatalf("Failed to decode fixture: %v", err)
	}
	return products
}

func sampleProducts(t *testing.T) []types.Product {
	return productsFromJson(t, `[
		{"_id":"1","nombre":"Rebozo Rojo","tallasDisponibles":["M"],"localidadId":"loc1"},
		{"_id":"2","nombre":"Rebozo Azul","tallasDisponibles":["S","M"],"localidadId":{"_id":"loc2","nombre":"Centro"}}
	]`)
}

func TestDistinctSizesOrderAndUniqueness(t *testing.T) {
	sizes := DistinctSizes(sampleProducts(t))
	if len(sizes) != 2 || sizes[0] != "M" || sizes[1] != "S" {
		t.Errorf("Expected [M S] in first-occurrence order, got %v", sizes)
	}
}

func TestDistinctSizesNoDuplicates(t *testing.T) {
	products := productsFromJson(t, `[
		{"nombre":"a","tallasDisponibles":["M","M","S"]},
		{"nombre":"b","tallasDisponibles":["S",{"talla":"M"}]}
	]`)
	sizes := DistinctSizes(products)
	seen := map[string]int{}
	for _, s := range sizes {
		seen[s]++
	}
	for label, n := range seen {
		if n > 1 {
			t.Errorf("Label %s appears %d times", label, n)
		}
	}
	if len(sizes) != 2 {
		t.Errorf("Expected 2 unique labels, got %v", sizes)
	}
}

func TestDistinctLocalities(t *testing.T) {
	locs := DistinctLocalities(sampleProducts(t))
	if len(locs) != 2 {
		t.Fatalf("Expected 2 localities, got %v", locs)
	}
	if locs[0].Id != "loc1" || locs[0].Name != "loc1" {
		t.Errorf("Expected (loc1,loc1) with id fallback name, got %v", locs[0])
	}
	if locs[1].Id != "loc2" || locs[1].Name != "Centro" {
		t.Errorf("Expected (loc2,Centro), got %v", locs[1])
	}
}

func TestDistinctLocalitiesDiscardsIncompletePairs(t *testing.T) {
	products := productsFromJson(t, `[
		{"nombre":"a","localidadId":{"_id":"loc1"}},
		{"nombre":"b","localidadId":{"nombre":"SinId"}},
		{"nombre":"c"}
	]`)
	locs := DistinctLocalities(products)
	if len(locs) != 0 {
		t.Errorf("Expected incomplete pairs to be discarded, got %v", locs)
	}
}

func TestDistinctLocalitiesLastNameWins(t *testing.T) {
	products := productsFromJson(t, `[
		{"nombre":"a","localidadId":{"_id":"loc1","nombre":"Old"}},
		{"nombre":"b","localidadId":{"_id":"loc1","nombre":"New"}}
	]`)
	locs := DistinctLocalities(products)
	if len(locs) != 1 || locs[0].Name != "New" {
		t.Errorf("Expected last seen name to win, got %v", locs)
	}
}

func TestExtractFacetsEmptyCollection(t *testing.T) {
	facets := ExtractFacets(nil)
	if len(facets.Sizes) != 0 || len(facets.Localities) != 0 {
		t.Errorf("Expected empty facets, got %v", facets)
	}
}

func TestResolveLocalityId(t *testing.T) {
	products := sampleProducts(t)
	if id := ResolveLocalityId(products, "Centro"); id != "loc2" {
		t.Errorf("Expected loc2, got %v", id)
	}
	if id := ResolveLocalityId(products, "Nonexistent"); id != "" {
		t.Errorf("Expected no match, got %v", id)
	}
	if id := ResolveLocalityId(products, ""); id != "" {
		t.Errorf("Expected empty name to resolve to nothing, got %v", id)
	}
}

func TestResolveLocalityIdFromSeparateEmbed(t *testing.T) {
	products := productsFromJson(t, `[
		{"nombre":"a","localidadId":"loc9","localidad":{"nombre":"Sur"}}
	]`)
	if id := ResolveLocalityId(products, "Sur"); id != "loc9" {
		t.Errorf("Expected loc9, got %v", id)
	}
}
