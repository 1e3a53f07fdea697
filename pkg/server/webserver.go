package server

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/telarmx/artisan-finder/pkg/auth"
	"github.com/telarmx/artisan-finder/pkg/catalog"
	"github.com/telarmx/artisan-finder/pkg/client"
	"github.com/telarmx/artisan-finder/pkg/tracking"
	"github.com/telarmx/artisan-finder/pkg/types"
)

var (
	noSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artisanfinder_searches_total",
		Help: "The total number of committed searches",
	})
	noFilterChanges = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artisanfinder_filter_changes_total",
		Help: "The total number of filter mutations",
	})
	noRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artisanfinder_catalog_refreshes_total",
		Help: "The total number of upstream catalog fetches",
	})
	noFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "artisanfinder_catalog_fetch_failures_total",
		Help: "The total number of failed upstream catalog fetches",
	})
)

// WebServer exposes the catalog engine over HTTP. One sid cookie maps to
// one screen session.
type WebServer struct {
	Client   *client.StorefrontClient
	Sessions *SessionRegistry
	Cache    *Cache
	Tracking tracking.Tracking
	Auth     *auth.TokenVerifier
}

// ProductsResponse is the filtered view plus everything the presentation
// layer needs to distinguish loading, error and genuinely empty results.
type ProductsResponse struct {
	State     types.LoadState   `json:"state"`
	Error     string            `json:"error,omitempty"`
	Filters   types.FilterState `json:"filters"`
	Facets    catalog.Facets    `json:"facets"`
	Items     []types.Product   `json:"items"`
	TotalHits int               `json:"totalHits"`
}

// session returns the caller's screen session, fetching the collection on
// first use.
func (ws *WebServer) session(ctx context.Context, sessionId string) *catalog.ScreenSession {
	sess := ws.Sessions.Get(sessionId)
	if sess.LoadState() == types.LoadNotStarted {
		ws.refreshSession(ctx, sess)
	}
	return sess
}

func (ws *WebServer) refreshSession(ctx context.Context, sess *catalog.ScreenSession) {
	token := sess.BeginRefresh()
	noRefreshes.Inc()
	products, categories, err := ws.Client.FetchCatalog(ctx)
	if err != nil {
		if sess.FailRefresh(token, err) {
			noFetchFailures.Inc()
		}
		return
	}
	sess.CompleteRefresh(token, products, categories)
}

func (ws *WebServer) view(sess *catalog.ScreenSession) ProductsResponse {
	items := sess.FilteredProducts()
	resp := ProductsResponse{
		State:     sess.LoadState(),
		Filters:   sess.State(),
		Facets:    sess.Facets(),
		Items:     items,
		TotalHits: len(items),
	}
	if err := sess.Err(); err != nil {
		resp.Error = err.Error()
	}
	return resp
}

// ClientHandler is the public API surface.
func (ws *WebServer) ClientHandler() http.Handler {
	srv := http.NewServeMux()

	srv.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv.HandleFunc("GET /products", ws.GetProducts)
	srv.HandleFunc("GET /products/{id}", ws.GetProduct)
	srv.HandleFunc("GET /facets", ws.GetFacets)
	srv.HandleFunc("POST /filters", ws.ApplyFilters)
	srv.HandleFunc("DELETE /filters", ws.ClearFilters)
	srv.HandleFunc("DELETE /filters/locality", ws.ClearLocalityFilter)
	srv.HandleFunc("PUT /search", ws.SetSearchText)
	srv.HandleFunc("POST /search", ws.CommitSearch)
	srv.HandleFunc("POST /navigate", ws.Navigate)
	srv.HandleFunc("POST /refresh", ws.Refresh)
	srv.HandleFunc("GET /me", ws.Me)

	srv.HandleFunc("GET /categories", cachedList(ws, "categories", ws.Client.FetchCategories))
	srv.HandleFunc("GET /localities", cachedList(ws, "localities", ws.Client.FetchLocalities))
	srv.HandleFunc("GET /sizes", cachedList(ws, "sizes", ws.Client.FetchSizes))
	srv.HandleFunc("GET /services", cachedList(ws, "services", ws.Client.FetchServices))
	srv.HandleFunc("GET /photos", cachedList(ws, "photos", ws.Client.FetchPhotos))
	srv.HandleFunc("GET /videos", cachedList(ws, "videos", ws.Client.FetchVideos))
	srv.HandleFunc("GET /events", cachedList(ws, "events", ws.Client.FetchEvents))
	srv.HandleFunc("GET /collaborators", cachedList(ws, "collaborators", ws.Client.FetchCollaborators))

	return srv
}

// AdminHandler is the operational surface, token protected.
func (ws *WebServer) AdminHandler() http.Handler {
	srv := http.NewServeMux()

	protect := func(fn http.HandlerFunc) http.HandlerFunc {
		if ws.Auth == nil {
			return fn
		}
		return ws.Auth.RequireRole("admin", fn)
	}

	srv.HandleFunc("GET /stats", protect(ws.Stats))
	srv.HandleFunc("POST /sessions/purge", protect(ws.PurgeSessions))

	return srv
}
