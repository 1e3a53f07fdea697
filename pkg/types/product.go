package types

import (
	"bytes"
	"strings"

	"github.com/telarmx/artisan-finder/pkg/common/jsoncompat"
)

// Product is the upstream catalog record. The backend is inconsistent about
// shapes: the locality can arrive as a bare id or as an embedded object, and
// the size list can live under two different field names with entries that
// are either plain labels or embedded objects. All of that tolerance lives
// in the Unmarshal implementations below so nothing downstream has to
// branch on shape.
type Product struct {
	Id          string      `json:"_id,omitempty"`
	LegacyId    string      `json:"id,omitempty"`
	Name        string      `json:"nombre"`
	Description string      `json:"descripcion,omitempty"`
	FabricType  string      `json:"tipoTela,omitempty"`
	ImageURL    string      `json:"imagenURL,omitempty"`
	CategoryId  FlexId      `json:"categoriaId,omitempty"`
	Locality    LocalityRef `json:"localidadId,omitempty"`
	// LocalityInfo is a separately embedded locality some records carry next
	// to a bare Locality id. Only used as a display name source.
	LocalityInfo *Locality `json:"localidad,omitempty"`
	// Sizes and LegacySizes are the two upstream spellings of the size list.
	// Use SizeLabels, never these fields, to read them.
	Sizes       []SizeEntry `json:"tallasDisponibles,omitempty"`
	LegacySizes []SizeEntry `json:"tallas,omitempty"`
	// Available is a pointer because absence means available. See IsAvailable.
	Available *bool `json:"disponible,omitempty"`
}

// Key returns the stable identifier, falling back to the legacy alias field
// some records use instead of _id.
func (p *Product) Key() string {
	if p.Id != "" {
		return p.Id
	}
	return p.LegacyId
}

// SizeLabels returns the normalized size list: labels from the preferred
// field if it yielded anything, otherwise from the legacy field. Entries
// without a usable label are dropped.
func (p *Product) SizeLabels() []string {
	labels := sizeLabels(p.Sizes)
	if len(labels) > 0 {
		return labels
	}
	return sizeLabels(p.LegacySizes)
}

func sizeLabels(entries []SizeEntry) []string {
	if len(entries) == 0 {
		return nil
	}
	ret := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Label != "" {
			ret = append(ret, e.Label)
		}
	}
	return ret
}

// HasSize reports whether any normalized size entry matches the label
// exactly, case sensitive.
func (p *Product) HasSize(label string) bool {
	for _, l := range p.SizeLabels() {
		if l == label {
			return true
		}
	}
	return false
}

// LocalityId returns the locality identifier regardless of which shape the
// record used, or "" when the record carries none.
func (p *Product) LocalityId() string {
	return p.Locality.Id
}

// LocalityName resolves a display name for the locality. Embedded objects
// answer for themselves (an embedded object without a name yields ""), bare
// ids borrow the separately embedded locality's name and finally fall back
// to the id itself.
func (p *Product) LocalityName() string {
	if p.Locality.Embedded != nil {
		return p.Locality.Embedded.Name
	}
	if p.Locality.Id == "" {
		return ""
	}
	if p.LocalityInfo != nil && p.LocalityInfo.Name != "" {
		return p.LocalityInfo.Name
	}
	return p.Locality.Id
}

// IsAvailable treats anything but an explicit false as available. Absence
// of the field means available, do not "fix" this to default-unavailable.
func (p *Product) IsAvailable() bool {
	return p.Available == nil || *p.Available
}

// MatchesText reports whether the lower-cased needle occurs in the product
// name or description. The needle is expected to be trimmed and lower-cased
// already.
func (p *Product) MatchesText(needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	return p.Description != "" && strings.Contains(strings.ToLower(p.Description), needle)
}

// LocalityRef accepts both upstream shapes for a locality reference: a bare
// identifier string or an embedded locality object.
type LocalityRef struct {
	Id       string
	Embedded *Locality
}

var nullLiteral = []byte("null")

func (l *LocalityRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}
	if data[0] == '"' {
		return jsoncompat.Unmarshal(data, &l.Id)
	}
	loc := Locality{}
	if err := jsoncompat.Unmarshal(data, &loc); err != nil {
		// malformed references are tolerated, the record just loses its
		// locality contribution
		return nil
	}
	l.Embedded = &loc
	l.Id = loc.Id
	return nil
}

func (l LocalityRef) MarshalJSON() ([]byte, error) {
	if l.Embedded != nil {
		return jsoncompat.Marshal(l.Embedded)
	}
	if l.Id == "" {
		return nullLiteral, nil
	}
	return jsoncompat.Marshal(l.Id)
}

// SizeEntry accepts a bare size label or an embedded size object.
type SizeEntry struct {
	Label    string
	Embedded *Size
}

func (s *SizeEntry) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}
	if data[0] == '"' {
		return jsoncompat.Unmarshal(data, &s.Label)
	}
	size := Size{}
	if err := jsoncompat.Unmarshal(data, &size); err != nil {
		return nil
	}
	s.Embedded = &size
	s.Label = size.Label
	return nil
}

func (s SizeEntry) MarshalJSON() ([]byte, error) {
	if s.Embedded != nil {
		return jsoncompat.Marshal(s.Embedded)
	}
	return jsoncompat.Marshal(s.Label)
}

// FlexId absorbs identifiers the backend emits either as JSON strings or
// numbers.
type FlexId string

func (f *FlexId) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := jsoncompat.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexId(s)
		return nil
	}
	*f = FlexId(data)
	return nil
}

func (f FlexId) MarshalJSON() ([]byte, error) {
	return jsoncompat.Marshal(string(f))
}

func (f FlexId) String() string {
	return string(f)
}
