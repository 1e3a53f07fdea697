package types

import "strings"

// FilterState is the transient, session scoped filter selection. Zero value
// means no filters applied.
type FilterState struct {
	SelectedSize     string `json:"size,omitempty" schema:"size"`
	SelectedLocality string `json:"locality,omitempty" schema:"locality"`
	OnlyAvailable    bool   `json:"available,omitempty" schema:"available"`
	SearchText       string `json:"query,omitempty" schema:"query"`
	// SearchTriggered gates the text predicate. Typing alone never filters,
	// only an explicit commit does.
	SearchTriggered bool `json:"committed,omitempty" schema:"-"`
}

// HasSearch reports whether the text predicate is active: committed and a
// non blank query.
func (f *FilterState) HasSearch() bool {
	return f.SearchTriggered && strings.TrimSpace(f.SearchText) != ""
}

// SearchNeedle returns the trimmed, lower-cased search term.
func (f *FilterState) SearchNeedle() string {
	return strings.ToLower(strings.TrimSpace(f.SearchText))
}

func (f *FilterState) Reset() {
	*f = FilterState{}
}
