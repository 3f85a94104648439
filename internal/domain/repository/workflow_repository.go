package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// ServiceRequestRepository puerto de persistencia para solicitudes de servicio.
type ServiceRequestRepository interface {
	Create(ctx context.Context, r *entity.ServiceRequest) error
	GetByID(ctx context.Context, id string) (*entity.ServiceRequest, error)
	Update(ctx context.Context, r *entity.ServiceRequest) error
	Delete(ctx context.Context, id string) error
	// List ordena por created_at descendente y devuelve el total sin paginar.
	List(ctx context.Context, f RequestFilter) ([]*entity.ServiceRequest, int, error)
}

// DeliverableRepository puerto de persistencia para entregables.
type DeliverableRepository interface {
	Create(ctx context.Context, d *entity.Deliverable) error
	GetByID(ctx context.Context, id string) (*entity.Deliverable, error)
	Delete(ctx context.Context, id string) error
	ListByRequest(ctx context.Context, requestID string) ([]*entity.Deliverable, error)
	// List con clientID vacío devuelve todos.
	List(ctx context.Context, clientID string, page Page) ([]*entity.Deliverable, int, error)
}

// TicketRepository puerto de persistencia para tickets de soporte y sus mensajes.
type TicketRepository interface {
	Create(ctx context.Context, t *entity.SupportTicket) error
	GetByID(ctx context.Context, id string) (*entity.SupportTicket, error)
	Update(ctx context.Context, t *entity.SupportTicket) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f TicketFilter) ([]*entity.SupportTicket, int, error)

	CreateMessage(ctx context.Context, m *entity.TicketMessage) error
	ListMessages(ctx context.Context, ticketID string) ([]*entity.TicketMessage, error)
}
