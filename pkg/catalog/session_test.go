package catalog

import (
	"errors"
	"testing"

	"github.com/telarmx/artisan-finder/pkg/types"
)

func loadedSession(t *testing.T) *ScreenSession {
	s := NewScreenSession()
	token := s.BeginRefresh()
	if !s.CompleteRefresh(token, sampleProducts(t), nil) {
		t.Fatalf("Expected refresh to apply")
	}
	return s
}

func resultIds(products []types.Product) []string {
	ids := make([]string, len(products))
	for i := range products {
		ids[i] = products[i].Key()
	}
	return ids
}

func TestSessionLifecycleStates(t *testing.T) {
	s := NewScreenSession()
	if s.LoadState() != types.LoadNotStarted {
		t.Errorf("Expected not started, got %v", s.LoadState())
	}
	token := s.BeginRefresh()
	if s.LoadState() != types.LoadPending {
		t.Errorf("Expected pending, got %v", s.LoadState())
	}
	s.CompleteRefresh(token, nil, nil)
	if s.LoadState() != types.LoadReady {
		t.Errorf("Expected ready, got %v", s.LoadState())
	}
}

func TestSessionEmptyCollection(t *testing.T) {
	s := NewScreenSession()
	s.CompleteRefresh(s.BeginRefresh(), nil, nil)
	s.SetSizeFilter("M")
	s.SetSearchText("rojo")
	s.CommitSearch()
	if got := s.FilteredProducts(); len(got) != 0 {
		t.Errorf("Expected empty view, got %v", got)
	}
	facets := s.Facets()
	if len(facets.Sizes) != 0 || len(facets.Localities) != 0 {
		t.Errorf("Expected empty facets, got %v", facets)
	}
}

func TestSessionNotReadyYieldsEmptyView(t *testing.T) {
	s := NewScreenSession()
	if got := s.FilteredProducts(); len(got) != 0 {
		t.Errorf("Expected empty view before first load, got %v", got)
	}
}

func TestTypingNeverFilters(t *testing.T) {
	s := loadedSession(t)
	before := len(s.FilteredProducts())
	s.SetSearchText("rojo")
	if got := len(s.FilteredProducts()); got != before {
		t.Errorf("Typing changed result set from %d to %d", before, got)
	}
	s.SetSearchText("rojoazulverde")
	if got := len(s.FilteredProducts()); got != before {
		t.Errorf("Typing changed result set from %d to %d", before, got)
	}
}

func TestCommitSearchApplies(t *testing.T) {
	s := loadedSession(t)
	s.SetSearchText("rojo")
	s.CommitSearch()
	ids := resultIds(s.FilteredProducts())
	if len(ids) != 1 || ids[0] != "1" {
		t.Errorf("Expected [1], got %v", ids)
	}
}

func TestFacetChangeDropsCommittedSearch(t *testing.T) {
	s := loadedSession(t)
	s.SetSearchText("rojo")
	s.CommitSearch()
	if got := resultIds(s.FilteredProducts()); len(got) != 1 || got[0] != "1" {
		t.Fatalf("Expected committed search to apply, got %v", got)
	}

	// the text box still holds "rojo" but the filter change drops the
	// committed search until the next commit
	s.SetLocalityFilter("loc2")
	ids := resultIds(s.FilteredProducts())
	if len(ids) != 1 || ids[0] != "2" {
		t.Errorf("Expected facet-only view [2], got %v", ids)
	}

	s.CommitSearch()
	if got := s.FilteredProducts(); len(got) != 0 {
		t.Errorf("Expected re-committed search to apply on top, got %v", got)
	}
}

func TestKeepSearchOnFacetChangeOption(t *testing.T) {
	s := NewScreenSession(KeepSearchOnFacetChange())
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	s.SetSearchText("rebozo")
	s.CommitSearch()
	s.SetAvailabilityOnly(true)
	if !s.State().SearchTriggered {
		t.Errorf("Option must keep the committed search active")
	}
}

func TestResolveLocalityByName(t *testing.T) {
	s := loadedSession(t)
	s.ResolveLocalityByName("Centro")
	if got := s.State().SelectedLocality; got != "loc2" {
		t.Errorf("Expected loc2, got %v", got)
	}
	ids := resultIds(s.FilteredProducts())
	if len(ids) != 1 || ids[0] != "2" {
		t.Errorf("Expected [2], got %v", ids)
	}
}

func TestResolveLocalityByNameFailsOpen(t *testing.T) {
	s := loadedSession(t)
	s.ResolveLocalityByName("Nonexistent")
	if got := s.State().SelectedLocality; got != "" {
		t.Errorf("Expected filter to stay unset, got %v", got)
	}
	if got := len(s.FilteredProducts()); got != 2 {
		t.Errorf("Expected unfiltered view, got %d", got)
	}
}

func TestPendingLocalityResolvedOnLaterRefresh(t *testing.T) {
	s := NewScreenSession()
	s.CompleteRefresh(s.BeginRefresh(), nil, nil)

	// deep link arrives while the collection is still empty
	s.ResolveLocalityByName("Centro")
	if got := s.State().SelectedLocality; got != "" {
		t.Fatalf("Expected no filter yet, got %v", got)
	}

	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	if got := s.State().SelectedLocality; got != "loc2" {
		t.Errorf("Expected pending name to resolve after refresh, got %v", got)
	}
}

func TestRefreshWithoutPendingClearsLocality(t *testing.T) {
	s := loadedSession(t)
	s.SetLocalityFilter("loc2")
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	if got := s.State().SelectedLocality; got != "" {
		t.Errorf("Expected refresh to clear a manually selected locality, got %v", got)
	}
}

func TestClearLocalityFilterForgetsDeepLink(t *testing.T) {
	s := loadedSession(t)
	s.ResolveLocalityByName("Centro")
	s.ClearLocalityFilter()
	if got := s.State().SelectedLocality; got != "" {
		t.Fatalf("Expected cleared filter, got %v", got)
	}
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	if got := s.State().SelectedLocality; got != "" {
		t.Errorf("Expected refresh not to re-apply a cleared deep link, got %v", got)
	}
}

func TestRefreshDropsCommittedSearch(t *testing.T) {
	s := loadedSession(t)
	s.SetSearchText("rojo")
	s.CommitSearch()
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	if s.State().SearchTriggered {
		t.Errorf("Expected collection replacement to drop the committed search")
	}
}

func TestStaleRefreshDiscarded(t *testing.T) {
	s := NewScreenSession()
	first := s.BeginRefresh()
	second := s.BeginRefresh()

	if !s.CompleteRefresh(second, sampleProducts(t), nil) {
		t.Fatalf("Expected latest refresh to apply")
	}
	if s.CompleteRefresh(first, nil, nil) {
		t.Errorf("Expected superseded refresh to be discarded")
	}
	if got := len(s.Products()); got != 2 {
		t.Errorf("Stale result clobbered the collection, got %d products", got)
	}
}

func TestStaleFailureDiscarded(t *testing.T) {
	s := NewScreenSession()
	first := s.BeginRefresh()
	second := s.BeginRefresh()
	if !s.CompleteRefresh(second, sampleProducts(t), nil) {
		t.Fatalf("Expected latest refresh to apply")
	}
	if s.FailRefresh(first, errors.New("late network error")) {
		t.Errorf("Expected stale failure to be discarded")
	}
	if s.LoadState() != types.LoadReady {
		t.Errorf("Expected ready state, got %v", s.LoadState())
	}
}

func TestFailedRefreshPresentsEmptyWithError(t *testing.T) {
	s := loadedSession(t)
	token := s.BeginRefresh()
	if !s.FailRefresh(token, errors.New("upstream down")) {
		t.Fatalf("Expected failure to apply")
	}
	if s.LoadState() != types.LoadFailed {
		t.Errorf("Expected failed state, got %v", s.LoadState())
	}
	if s.Err() == nil {
		t.Errorf("Expected error to be exposed")
	}
	if got := len(s.FilteredProducts()); got != 0 {
		t.Errorf("Expected empty view, got %d", got)
	}
	if facets := s.Facets(); len(facets.Sizes) != 0 {
		t.Errorf("Expected facets to reset, got %v", facets)
	}

	// next successful refresh recovers
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), nil)
	if s.LoadState() != types.LoadReady || s.Err() != nil {
		t.Errorf("Expected recovery, got %v / %v", s.LoadState(), s.Err())
	}
}

func TestCategoryNameLookup(t *testing.T) {
	s := NewScreenSession()
	categories := []types.Category{
		{Id: "5", Name: "Rebozos"},
		{MongoId: "c9", Name: "Accesorios"},
	}
	s.CompleteRefresh(s.BeginRefresh(), sampleProducts(t), categories)
	if got := s.CategoryName("5"); got != "Rebozos" {
		t.Errorf("Expected Rebozos, got %v", got)
	}
	if got := s.CategoryName("c9"); got != "Accesorios" {
		t.Errorf("Expected mongo id fallback, got %v", got)
	}
	if got := s.CategoryName("unknown"); got != "" {
		t.Errorf("Expected empty name for unknown category, got %v", got)
	}
	if got := s.CategoryName(""); got != "" {
		t.Errorf("Expected empty name for empty id, got %v", got)
	}
}
