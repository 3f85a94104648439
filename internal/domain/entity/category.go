package entity

import "time"

// Slugs de las dos líneas de negocio mostradas en la portada.
const (
	CategorySlugQHSE         = "qhse"
	CategorySlugInformatique = "informatique"
)

// DefaultCategoryColor color de marca por defecto de una categoría.
const DefaultCategoryColor = "#0DE1E7"

// ServiceCategory agrupa servicios (QHSE, Informatique, ...).
type ServiceCategory struct {
	ID          string
	Name        string // único
	Slug        string // único
	Description string
	Icon        string
	Color       string
	Order       int
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
