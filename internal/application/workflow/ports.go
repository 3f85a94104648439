// Package workflow contiene el ciclo de vida de las solicitudes de servicio, sus entregables
// y los tickets de soporte, junto con las notificaciones que generan.
package workflow

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// Repos repositorios ligados a la misma transacción.
type Repos struct {
	Users         repository.UserRepository
	Requests      repository.ServiceRequestRepository
	Tickets       repository.TicketRepository
	Notifications repository.NotificationRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
type TxRunner interface {
	RunWorkflow(ctx context.Context, fn func(repos Repos) error) error
}
