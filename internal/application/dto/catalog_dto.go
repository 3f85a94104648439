package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest alta/edición de categoría de servicio.
type CategoryRequest struct {
	Name        string `json:"name" form:"name" validate:"required,max=100"`
	Slug        string `json:"slug" form:"slug" validate:"max=100"`
	Description string `json:"description" form:"description"`
	Icon        string `json:"icon" form:"icon" validate:"max=50"`
	Color       string `json:"color" form:"color" validate:"omitempty,hexcolor"`
	Order       int    `json:"order" form:"order"`
	IsActive    bool   `json:"is_active" form:"is_active"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
	IsActive    bool   `json:"is_active"`
}

// ServiceRequestBody alta/edición de servicio del catálogo.
// PriceStartingFrom vacío = sin precio publicado.
type ServiceRequestBody struct {
	CategoryID        string `json:"category_id" form:"category_id" validate:"required"`
	Name              string `json:"name" form:"name" validate:"required,max=200"`
	Slug              string `json:"slug" form:"slug" validate:"max=200"`
	ShortDescription  string `json:"short_description" form:"short_description" validate:"required,max=300"`
	FullDescription   string `json:"full_description" form:"full_description" validate:"required"`
	Image             string `json:"image" form:"image"`
	Icon              string `json:"icon" form:"icon" validate:"max=50"`
	PriceStartingFrom string `json:"price_starting_from" form:"price_starting_from" validate:"omitempty,numeric"`
	Duration          string `json:"duration" form:"duration" validate:"max=100"`
	Status            string `json:"status" form:"status" validate:"omitempty,oneof=active inactive"`
	Featured          bool   `json:"featured" form:"featured"`
	Order             int    `json:"order" form:"order"`
}

// ServiceResponse salida de un servicio con su categoría anidada.
type ServiceResponse struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Slug              string            `json:"slug"`
	ShortDescription  string            `json:"short_description"`
	FullDescription   string            `json:"full_description"`
	Image             string            `json:"image"`
	Icon              string            `json:"icon"`
	PriceStartingFrom *decimal.Decimal  `json:"price_starting_from"`
	Duration          string            `json:"duration"`
	Status            string            `json:"status"`
	Featured          bool              `json:"featured"`
	Order             int               `json:"order"`
	Category          *CategoryResponse `json:"category,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ServiceListResponse listado paginado de servicios.
type ServiceListResponse struct {
	Items []ServiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ServiceDetailResponse detalle público con servicios relacionados.
type ServiceDetailResponse struct {
	Service ServiceResponse   `json:"service"`
	Related []ServiceResponse `json:"related"`
}
