package repository

import "github.com/uranusgroup/uranus-web/internal/domain/entity"

// Page paginación limit/offset. Limit <= 0 = sin límite.
type Page struct {
	Limit  int
	Offset int
}

// UserFilter filtros del listado de usuarios (back-office).
type UserFilter struct {
	Role   entity.Role
	Search string // username, email, nombre, empresa
	Page
}

// ServiceFilter filtros del catálogo.
type ServiceFilter struct {
	CategoryID   string
	CategorySlug string
	Status       string // vacío = todos
	Search       string // nombre, descripción corta y completa
	FeaturedOnly bool
	Page
}

// RequestFilter filtros de list_all para el staff.
type RequestFilter struct {
	ClientID   string
	Status     entity.RequestStatus
	ServiceID  string
	AssignedTo string
	Search     string // título y descripción
	Page
}

// TicketFilter filtros del listado de tickets.
type TicketFilter struct {
	UserID     string
	Status     entity.TicketStatus
	AssignedTo string
	Search     string // asunto y descripción
	Page
}

// ArticleFilter filtros del blog.
type ArticleFilter struct {
	Status       string
	CategorySlug string
	Search       string // título, extracto y contenido
	FeaturedOnly bool
	Page
}

// ContactFilter filtros de mensajes de contacto.
type ContactFilter struct {
	Status string
	Search string // nombre, email, asunto
	Page
}
