package catalog

import (
	"sync"
	"time"

	"github.com/telarmx/artisan-finder/pkg/types"
)

// ScreenSession owns one caller's view of the catalog: the collection
// snapshot, the derived facets and the filter state. It is the Go side of
// what the storefront treats as one product screen session. State is
// rebuilt from scratch on every load, nothing is patched incrementally.
type ScreenSession struct {
	mu         sync.RWMutex
	products   []types.Product
	categories []types.Category
	facets     Facets
	state      types.FilterState
	load       types.LoadState
	fetchErr   error

	// pendingLocality is a navigation supplied locality display name that
	// still has to be resolved against the collection. It is retried on
	// every collection replacement so a slow first fetch does not lose the
	// deep link.
	pendingLocality string

	// keepSearchOnFacetChange disables the rule that changing a facet
	// filter drops a committed text search.
	keepSearchOnFacetChange bool

	seq        uint64
	everLoaded bool
	lastSeen   time.Time
}

// Option configures a ScreenSession.
type Option func(*ScreenSession)

// KeepSearchOnFacetChange keeps a committed text search active across facet
// filter changes instead of dropping it.
func KeepSearchOnFacetChange() Option {
	return func(s *ScreenSession) {
		s.keepSearchOnFacetChange = true
	}
}

func NewScreenSession(opts ...Option) *ScreenSession {
	s := &ScreenSession{
		lastSeen: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Touch updates the last-seen timestamp used for session expiry.
func (s *ScreenSession) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

func (s *ScreenSession) LastSeen() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSeen
}

// BeginRefresh marks a fetch in flight and returns its sequence token.
// Results must be applied with the token so a superseded fetch that
// resolves late is discarded instead of clobbering newer data.
func (s *ScreenSession) BeginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.load = types.LoadPending
	return s.seq
}

// CompleteRefresh replaces the collection with the fetch result. Stale
// tokens are rejected. The replacement recomputes facets, re-runs any
// pending locality resolution and drops an active text search, matching
// how a fresh collection restarts the filter pipeline.
func (s *ScreenSession) CompleteRefresh(token uint64, products []types.Product, categories []types.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	refresh := s.everLoaded
	s.products = products
	s.categories = categories
	s.facets = ExtractFacets(products)
	s.load = types.LoadReady
	s.fetchErr = nil
	s.everLoaded = true

	if s.pendingLocality != "" {
		if id := ResolveLocalityId(products, s.pendingLocality); id != "" {
			s.state.SelectedLocality = id
		}
	} else if refresh {
		// a manual refresh without a pending deep link clears the locality
		// filter, its facet value may no longer exist
		s.state.SelectedLocality = ""
	}
	s.state.SearchTriggered = false
	return true
}

// FailRefresh records a fetch failure. The session presents an
// empty-with-error state until the next successful refresh.
func (s *ScreenSession) FailRefresh(token uint64, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.seq {
		return false
	}
	s.products = nil
	s.categories = nil
	s.facets = Facets{}
	s.load = types.LoadFailed
	s.fetchErr = err
	return true
}

func (s *ScreenSession) LoadState() types.LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load
}

func (s *ScreenSession) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchErr
}

// Products returns the raw collection snapshot, unfiltered.
func (s *ScreenSession) Products() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

func (s *ScreenSession) Categories() []types.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.categories
}

// CategoryName resolves a product's category reference to a display name,
// "" when unknown. Display concern only, never filtering.
func (s *ScreenSession) CategoryName(id types.FlexId) string {
	if id == "" {
		return ""
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.categories {
		if s.categories[i].Key() == id.String() {
			return s.categories[i].Name
		}
	}
	return ""
}

func (s *ScreenSession) Facets() Facets {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.facets
}

func (s *ScreenSession) State() types.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// FilteredProducts applies the current filter state to the collection. A
// session that is not Ready always yields an empty view, the LoadState
// tells callers why.
func (s *ScreenSession) FilteredProducts() []types.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.load != types.LoadReady {
		return []types.Product{}
	}
	state := s.state
	return Apply(s.products, &state)
}

// facetChanged applies the facet-change rule: by default any facet filter
// mutation silently drops a committed text search until the next commit.
func (s *ScreenSession) facetChanged() {
	if !s.keepSearchOnFacetChange {
		s.state.SearchTriggered = false
	}
}

// SetSizeFilter selects a size label, "" clears the filter.
func (s *ScreenSession) SetSizeFilter(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedSize = label
	s.facetChanged()
}

// SetLocalityFilter selects a locality id, "" clears the filter.
func (s *ScreenSession) SetLocalityFilter(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedLocality = id
	s.facetChanged()
}

func (s *ScreenSession) SetAvailabilityOnly(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.OnlyAvailable = on
	s.facetChanged()
}

// SetSearchText updates the pending query without applying it. Typing alone
// never changes the visible result set.
func (s *ScreenSession) SetSearchText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchText = text
	s.state.SearchTriggered = false
}

// CommitSearch freezes the current text input as the active search term.
func (s *ScreenSession) CommitSearch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SearchTriggered = true
}

// ClearLocalityFilter removes the locality filter and forgets any pending
// deep-link locality so a later refresh does not re-apply it.
func (s *ScreenSession) ClearLocalityFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedLocality = ""
	s.pendingLocality = ""
	s.facetChanged()
}

// ClearFilters resets the whole filter state.
func (s *ScreenSession) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Reset()
	s.pendingLocality = ""
}

// ResolveLocalityByName is the deep-link entry point: a navigation link
// supplies a locality display name, not an id. The name is resolved against
// the current collection, and remembered so a collection replacement retries
// it. No match leaves the filter unset, never an error.
func (s *ScreenSession) ResolveLocalityByName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingLocality = name
	if id := ResolveLocalityId(s.products, name); id != "" {
		s.state.SelectedLocality = id
		s.facetChanged()
	}
}
