package tracking

import (
	"net/http"

	"github.com/telarmx/artisan-finder/pkg/types"
)

// Tracking receives behavioral events from the catalog surface. A nil
// Tracking disables tracking, callers check before use.
type Tracking interface {
	TrackSession(sessionId string, r *http.Request)
	TrackSearch(sessionId string, state *types.FilterState, results int, r *http.Request)
	TrackFilterChange(sessionId string, field string, value string)
	TrackProductView(sessionId string, productId string)
}
