package server

import (
	"net/url"
	"testing"
)

func TestFilterRequestFromQuery(t *testing.T) {
	query := url.Values{
		"size":      []string{"M"},
		"locality":  []string{"loc2"},
		"available": []string{"true"},
		"query":     []string{"rojo"},
		"commit":    []string{"true"},
	}
	fr := FilterRequest{}
	if err := filterRequestFromQuery(query, &fr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fr.Size == nil || *fr.Size != "M" {
		t.Errorf("Expected size M, got %v", fr.Size)
	}
	if fr.Locality == nil || *fr.Locality != "loc2" {
		t.Errorf("Expected locality loc2, got %v", fr.Locality)
	}
	if fr.Available == nil || !*fr.Available {
		t.Errorf("Expected available true, got %v", fr.Available)
	}
	if fr.Query == nil || *fr.Query != "rojo" {
		t.Errorf("Expected query rojo, got %v", fr.Query)
	}
	if !fr.Commit {
		t.Errorf("Expected commit true")
	}
}

func TestFilterRequestAbsentFieldsStayNil(t *testing.T) {
	fr := FilterRequest{}
	if err := filterRequestFromQuery(url.Values{"size": []string{"S"}}, &fr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fr.Locality != nil || fr.Available != nil || fr.Query != nil {
		t.Errorf("Absent fields must stay nil, got %+v", fr)
	}
}

func TestFilterRequestEmptyValueClears(t *testing.T) {
	fr := FilterRequest{}
	if err := filterRequestFromQuery(url.Values{"size": []string{""}}, &fr); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if fr.Size == nil || *fr.Size != "" {
		t.Errorf("Empty value should decode as an explicit clear, got %v", fr.Size)
	}
}

func TestFilterRequestIgnoresUnknownKeys(t *testing.T) {
	fr := FilterRequest{}
	if err := filterRequestFromQuery(url.Values{"nonsense": []string{"x"}}, &fr); err != nil {
		t.Errorf("Unknown keys must be ignored, got %v", err)
	}
}
