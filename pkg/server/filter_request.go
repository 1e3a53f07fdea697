package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gorilla/schema"
)

// FilterRequest carries filter mutations. Pointer fields distinguish "not
// provided" from "clear" (an empty value clears the filter).
type FilterRequest struct {
	Size      *string `json:"size,omitempty" schema:"size"`
	Locality  *string `json:"locality,omitempty" schema:"locality"`
	Available *bool   `json:"available,omitempty" schema:"available"`
	Query     *string `json:"query,omitempty" schema:"query"`
	Commit    bool    `json:"commit,omitempty" schema:"commit"`
}

// GetFilterRequest decodes from the query string, then lets a JSON body
// override when one is present.
func GetFilterRequest(r *http.Request, out *FilterRequest) error {
	if err := filterRequestFromQuery(r.URL.Query(), out); err != nil {
		return err
	}
	if r.Method == http.MethodGet || r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(out)
}

func filterRequestFromQuery(query url.Values, out *FilterRequest) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	if err := decoder.Decode(out, query); err != nil {
		return err
	}
	// schema skips empty values, but an explicitly empty parameter means
	// "clear this filter"
	if isExplicitlyEmpty(query, "size") {
		out.Size = new(string)
	}
	if isExplicitlyEmpty(query, "locality") {
		out.Locality = new(string)
	}
	if isExplicitlyEmpty(query, "query") {
		out.Query = new(string)
	}
	return nil
}

func isExplicitlyEmpty(query url.Values, key string) bool {
	vals, ok := query[key]
	return ok && len(vals) > 0 && vals[0] == ""
}
