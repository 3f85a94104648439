package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un Service.
const (
	ServiceStatusActive   = "active"
	ServiceStatusInactive = "inactive"
)

// Service prestación del catálogo. Una vez referenciado por una solicitud solo cambian
// los campos de presentación: ni la categoría ni el borrado están permitidos.
type Service struct {
	ID                string
	CategoryID        string
	Name              string
	Slug              string
	ShortDescription  string
	FullDescription   string
	Image             string
	Icon              string
	PriceStartingFrom decimal.NullDecimal
	Duration          string // "2-4 semaines"
	Status            string // active, inactive
	Featured          bool
	Order             int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	// Category se rellena en lecturas con JOIN; nil si no se cargó.
	Category *ServiceCategory
}

// IsActive indica si el servicio acepta nuevas solicitudes.
func (s *Service) IsActive() bool {
	return s != nil && s.Status == ServiceStatusActive
}
