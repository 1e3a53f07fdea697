package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/telarmx/artisan-finder/pkg/auth"
	"github.com/telarmx/artisan-finder/pkg/common"
	"github.com/telarmx/artisan-finder/pkg/types"
)

// GetProducts returns the caller's current filtered view. Read only, never
// mutates filter state.
func (ws *WebServer) GetProducts(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		sess := ws.session(r.Context(), sessionId)
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// GetFacets returns the selectable filter values for the caller's current
// collection.
func (ws *WebServer) GetFacets(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		sess := ws.session(r.Context(), sessionId)
		return common.WriteJson(w, sess.Facets())
	})(w, r)
}

// ApplyFilters applies the provided facet filter mutations. Setting a
// query here only stages it, text search still needs a commit.
func (ws *WebServer) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		fr := FilterRequest{}
		if err := GetFilterRequest(r, &fr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return err
		}
		sess := ws.session(r.Context(), sessionId)
		if fr.Size != nil {
			sess.SetSizeFilter(*fr.Size)
			ws.trackFilterChange(sessionId, "size", *fr.Size)
		}
		if fr.Locality != nil {
			sess.SetLocalityFilter(*fr.Locality)
			ws.trackFilterChange(sessionId, "locality", *fr.Locality)
		}
		if fr.Available != nil {
			sess.SetAvailabilityOnly(*fr.Available)
			ws.trackFilterChange(sessionId, "available", boolValue(*fr.Available))
		}
		if fr.Query != nil {
			sess.SetSearchText(*fr.Query)
		}
		if fr.Commit {
			sess.CommitSearch()
		}
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func (ws *WebServer) trackFilterChange(sessionId, field, value string) {
	noFilterChanges.Inc()
	if ws.Tracking != nil {
		ws.Tracking.TrackFilterChange(sessionId, field, value)
	}
}

// ClearFilters resets the whole filter state.
func (ws *WebServer) ClearFilters(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		sess := ws.session(r.Context(), sessionId)
		sess.ClearFilters()
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// ClearLocalityFilter removes the locality filter, including one applied
// through a deep link.
func (ws *WebServer) ClearLocalityFilter(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		sess := ws.session(r.Context(), sessionId)
		sess.ClearLocalityFilter()
		ws.trackFilterChange(sessionId, "locality", "")
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// SetSearchText stages the search text without applying it.
func (ws *WebServer) SetSearchText(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		fr := FilterRequest{}
		if err := GetFilterRequest(r, &fr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return err
		}
		sess := ws.session(r.Context(), sessionId)
		if fr.Query != nil {
			sess.SetSearchText(*fr.Query)
		}
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// CommitSearch freezes the staged text (or one provided with the request)
// as the active search term and returns the searched view.
func (ws *WebServer) CommitSearch(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		fr := FilterRequest{}
		if err := GetFilterRequest(r, &fr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return err
		}
		sess := ws.session(r.Context(), sessionId)
		if fr.Query != nil {
			sess.SetSearchText(*fr.Query)
		}
		sess.CommitSearch()
		noSearches.Inc()
		resp := ws.view(sess)
		if ws.Tracking != nil {
			state := resp.Filters
			ws.Tracking.TrackSearch(sessionId, &state, resp.TotalHits, r)
		}
		return common.WriteJson(w, resp)
	})(w, r)
}

// Navigate is the deep-link entry point: a locality display name arrives
// from elsewhere in the app and is resolved against the collection. An
// unknown name leaves the filter unset.
func (ws *WebServer) Navigate(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		name := r.URL.Query().Get("locality")
		if name == "" {
			http.Error(w, "missing locality parameter", http.StatusBadRequest)
			return nil
		}
		sess := ws.session(r.Context(), sessionId)
		sess.ResolveLocalityByName(name)
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// Refresh replaces the caller's collection with a fresh fetch.
func (ws *WebServer) Refresh(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		sess := ws.Sessions.Get(sessionId)
		ws.refreshSession(r.Context(), sess)
		return common.WriteJson(w, ws.view(sess))
	})(w, r)
}

// ProductDetail is a single product enriched with its resolved category
// name.
type ProductDetail struct {
	types.Product
	CategoryName string `json:"categoryName,omitempty"`
	LocalityName string `json:"localityName,omitempty"`
}

// GetProduct returns one product from the caller's collection, falling
// back to the upstream detail endpoint when the collection misses it.
func (ws *WebServer) GetProduct(w http.ResponseWriter, r *http.Request) {
	common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		id := r.PathValue("id")
		sess := ws.session(r.Context(), sessionId)

		var found *types.Product
		products := sess.Products()
		for i := range products {
			if products[i].Key() == id {
				found = &products[i]
				break
			}
		}
		if found == nil {
			fetched, err := ws.Client.FetchProduct(r.Context(), id)
			if err != nil {
				http.Error(w, "product not found", http.StatusNotFound)
				return err
			}
			found = fetched
		}
		if ws.Tracking != nil {
			ws.Tracking.TrackProductView(sessionId, id)
		}
		return common.WriteJson(w, ProductDetail{
			Product:      *found,
			CategoryName: sess.CategoryName(found.CategoryId),
			LocalityName: found.LocalityName(),
		})
	})(w, r)
}

// MeResponse tells the presentation layer whether the caller is
// authenticated and who they are.
type MeResponse struct {
	Authenticated bool   `json:"authenticated"`
	UserId        string `json:"userId,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
}

// Me exposes the auth capability.
func (ws *WebServer) Me(w http.ResponseWriter, r *http.Request) {
	handle := func(w http.ResponseWriter, r *http.Request) {
		resp := MeResponse{}
		if claims, ok := auth.FromContext(r.Context()); ok {
			resp.Authenticated = true
			resp.UserId = claims.UserId()
			resp.Name = claims.Name
			resp.Role = claims.Role
		}
		_ = common.WriteJson(w, resp)
	}
	if ws.Auth != nil {
		ws.Auth.Middleware(handle)(w, r)
		return
	}
	handle(w, r)
}

// StatsResponse is the admin operational snapshot.
type StatsResponse struct {
	Sessions int `json:"sessions"`
}

func (ws *WebServer) Stats(w http.ResponseWriter, r *http.Request) {
	_ = common.WriteJson(w, StatsResponse{Sessions: ws.Sessions.Len()})
}

func (ws *WebServer) PurgeSessions(w http.ResponseWriter, r *http.Request) {
	removed := ws.Sessions.Purge()
	_ = common.WriteJson(w, map[string]int{"removed": removed})
}

const listCacheTtl = 5 * time.Minute

// cachedList serves an upstream pass-through list through the cache. The
// lists change rarely and are display data only.
func cachedList[V any](ws *WebServer, key string, fetch func(ctx context.Context) ([]V, error)) http.HandlerFunc {
	cacheKey := "list:" + key
	return common.JsonHandler(ws.Tracking, func(w http.ResponseWriter, r *http.Request, sessionId string, enc *json.Encoder) error {
		items := make([]V, 0)
		if ws.Cache != nil && ws.Cache.Get(r.Context(), cacheKey, &items) == nil {
			return common.WriteJson(w, items)
		}
		items, err := fetch(r.Context())
		if err != nil {
			http.Error(w, "upstream unavailable", http.StatusBadGateway)
			return err
		}
		if ws.Cache != nil {
			_ = ws.Cache.Set(r.Context(), cacheKey, items, listCacheTtl)
		}
		return common.WriteJson(w, items)
	})
}
