package types

// Locality is a named place a product is produced or sold in. May appear
// standalone or embedded inside a product.
type Locality struct {
	Id          string `json:"_id,omitempty"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	Active      *bool  `json:"activo,omitempty"`
}

// Size is a garment size record. Products may reference sizes as bare
// labels, in which case only Label is populated.
type Size struct {
	Id          string `json:"_id,omitempty"`
	CategoryId  FlexId `json:"categoriaId,omitempty"`
	Gender      string `json:"genero,omitempty"`
	Label       string `json:"talla"`
	AgeRange    string `json:"rangoEdad,omitempty"`
	Measurement string `json:"medida,omitempty"`
}

// Category is only used for display lookups, never for filtering.
type Category struct {
	Id          FlexId `json:"id,omitempty"`
	MongoId     string `json:"_id,omitempty"`
	Name        string `json:"nombre"`
	Description string `json:"descripcion,omitempty"`
	ImageURL    string `json:"imagenURL,omitempty"`
	Active      *bool  `json:"activo,omitempty"`
}

// Key returns the category identifier, preferring the mapped id over the
// raw mongo one, matching how the upstream records are keyed.
func (c *Category) Key() string {
	if c.Id != "" {
		return c.Id.String()
	}
	return c.MongoId
}

// Service is an offered service listed on the services screen.
type Service struct {
	Id          FlexId   `json:"id,omitempty"`
	Name        string   `json:"nombre"`
	Description string   `json:"descripcion,omitempty"`
	Price       *float64 `json:"precio,omitempty"`
	Active      *bool    `json:"activo,omitempty"`
}

// Photo is a gallery image.
type Photo struct {
	Id          FlexId `json:"id,omitempty"`
	Title       string `json:"titulo,omitempty"`
	Description string `json:"descripcion,omitempty"`
	Category    string `json:"categoria,omitempty"`
	ImageURL    string `json:"imagenURL,omitempty"`
	Active      *bool  `json:"activo,omitempty"`
}

// Video is a gallery video.
type Video struct {
	Id          FlexId `json:"id,omitempty"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion,omitempty"`
	Url         string `json:"url"`
	Active      *bool  `json:"activo,omitempty"`
}

// Event is an upcoming event announcement.
type Event struct {
	Id          FlexId `json:"id,omitempty"`
	Title       string `json:"titulo"`
	Description string `json:"descripcion,omitempty"`
	Date        string `json:"fecha"`
	Location    string `json:"ubicacion,omitempty"`
	Active      *bool  `json:"activo,omitempty"`
}

// Collaborator is a listed team member.
type Collaborator struct {
	Id          FlexId `json:"id,omitempty"`
	Name        string `json:"nombre"`
	Role        string `json:"cargo,omitempty"`
	Description string `json:"descripcion,omitempty"`
	Active      *bool  `json:"activo,omitempty"`
}
