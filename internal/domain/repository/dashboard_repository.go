package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// DashboardRepository consultas read-only para el tablero del back-office.
type DashboardRepository interface {
	// CountRows devuelve el total de filas de una de las tablas conocidas
	// (users, services, service_requests, articles).
	CountRows(ctx context.Context, table string) (int, error)
	RequestsByStatus(ctx context.Context) ([]entity.CountByKey, error)
	UsersByRole(ctx context.Context) ([]entity.CountByKey, error)
	CountContactMessages(ctx context.Context, status string) (int, error)
	CountTickets(ctx context.Context, statuses ...entity.TicketStatus) (int, error)
}
