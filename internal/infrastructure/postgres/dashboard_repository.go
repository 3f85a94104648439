package postgres

import (
	"context"
	"fmt"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var _ repository.DashboardRepository = (*DashboardRepo)(nil)

// countableTables tablas que CountRows acepta; el nombre nunca llega del usuario sin pasar por aquí.
var countableTables = map[string]bool{
	"users":            true,
	"services":         true,
	"service_requests": true,
	"articles":         true,
}

// DashboardRepo consultas agregadas read-only del tablero.
type DashboardRepo struct {
	q Querier
}

func NewDashboardRepository(q Querier) *DashboardRepo {
	return &DashboardRepo{q: q}
}

func (r *DashboardRepo) CountRows(ctx context.Context, table string) (int, error) {
	if !countableTables[table] {
		return 0, fmt.Errorf("count rows: tabla no permitida %q", table)
	}
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *DashboardRepo) RequestsByStatus(ctx context.Context) ([]entity.CountByKey, error) {
	return r.groupCount(ctx, `SELECT status, COUNT(*) FROM service_requests GROUP BY status ORDER BY status`)
}

func (r *DashboardRepo) UsersByRole(ctx context.Context) ([]entity.CountByKey, error) {
	return r.groupCount(ctx, `SELECT role, COUNT(*) FROM users GROUP BY role ORDER BY role`)
}

// CountContactMessages status vacío cuenta todos.
func (r *DashboardRepo) CountContactMessages(ctx context.Context, status string) (int, error) {
	w := &where{}
	if status != "" {
		w.add("status = ?", status)
	}
	n, err := w.count(ctx, r.q, "contact_messages")
	if err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}

// CountTickets sin estados cuenta todos.
func (r *DashboardRepo) CountTickets(ctx context.Context, statuses ...entity.TicketStatus) (int, error) {
	w := &where{}
	if len(statuses) > 0 {
		names := make([]string, len(statuses))
		for i, s := range statuses {
			names[i] = string(s)
		}
		w.add("status = ANY(?)", names)
	}
	n, err := w.count(ctx, r.q, "support_tickets")
	if err != nil {
		return 0, fmt.Errorf("count tickets: %w", err)
	}
	return n, nil
}

func (r *DashboardRepo) groupCount(ctx context.Context, query string) ([]entity.CountByKey, error) {
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("group count: %w", err)
	}
	defer rows.Close()
	var out []entity.CountByKey
	for rows.Next() {
		var c entity.CountByKey
		if err := rows.Scan(&c.Key, &c.Count); err != nil {
			return nil, fmt.Errorf("scan group count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
