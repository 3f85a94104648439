package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var _ repository.TicketRepository = (*TicketRepo)(nil)

// TicketRepo tickets de soporte y su hilo de mensajes.
type TicketRepo struct {
	q Querier
}

// NewTicketRepository construye el repositorio (pool o tx).
func NewTicketRepository(q Querier) *TicketRepo {
	return &TicketRepo{q: q}
}

const ticketFrom = `
	FROM support_tickets t
	JOIN users u ON u.id = t.user_id
	LEFT JOIN users asg ON asg.id = t.assigned_to`

const ticketSelect = `
	SELECT t.id, t.user_id, t.assigned_to::text, t.subject, t.description, t.status, t.priority,
		t.resolved_at, t.created_at, t.updated_at, u.username, COALESCE(asg.username, '')` + ticketFrom

func scanTicket(row pgx.Row) (*entity.SupportTicket, error) {
	var t entity.SupportTicket
	err := row.Scan(&t.ID, &t.UserID, &t.AssignedTo, &t.Subject, &t.Description, &t.Status, &t.Priority,
		&t.ResolvedAt, &t.CreatedAt, &t.UpdatedAt, &t.Username, &t.AssigneeUsername)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TicketRepo) Create(ctx context.Context, t *entity.SupportTicket) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO support_tickets (id, user_id, assigned_to, subject, description, status, priority,
			resolved_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.UserID, t.AssignedTo, t.Subject, t.Description, t.Status, t.Priority,
		t.ResolvedAt, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *TicketRepo) GetByID(ctx context.Context, id string) (*entity.SupportTicket, error) {
	t, err := scanTicket(r.q.QueryRow(ctx, ticketSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	return t, nil
}

func (r *TicketRepo) Update(ctx context.Context, t *entity.SupportTicket) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE support_tickets SET assigned_to = $2, subject = $3, description = $4, status = $5,
			priority = $6, resolved_at = $7, updated_at = $8
		WHERE id = $1`,
		t.ID, t.AssignedTo, t.Subject, t.Description, t.Status, t.Priority, t.ResolvedAt, t.UpdatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update ticket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *TicketRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM support_tickets WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	return nil
}

// List más recientes primero.
func (r *TicketRepo) List(ctx context.Context, f repository.TicketFilter) ([]*entity.SupportTicket, int, error) {
	w := &where{}
	if f.UserID != "" {
		w.add("t.user_id = ?", f.UserID)
	}
	if f.Status != "" {
		w.add("t.status = ?", f.Status)
	}
	if f.AssignedTo != "" {
		w.add("t.assigned_to = ?", f.AssignedTo)
	}
	w.search(f.Search, "t.subject", "t.description")

	total, err := w.count(ctx, r.q, ticketFrom)
	if err != nil {
		return nil, 0, fmt.Errorf("count tickets: %w", err)
	}
	limit, args := w.page(f.Page)
	rows, err := r.q.Query(ctx, ticketSelect+w.sql()+` ORDER BY t.created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tickets: %w", err)
	}
	defer rows.Close()
	var list []*entity.SupportTicket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan ticket: %w", err)
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *TicketRepo) CreateMessage(ctx context.Context, m *entity.TicketMessage) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO ticket_messages (id, ticket_id, user_id, message, attachment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.TicketID, m.UserID, m.Message, m.Attachment, m.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert ticket message: %w", err)
	}
	return nil
}

// ListMessages hilo en orden cronológico con el autor de cada mensaje.
func (r *TicketRepo) ListMessages(ctx context.Context, ticketID string) ([]*entity.TicketMessage, error) {
	rows, err := r.q.Query(ctx, `
		SELECT m.id, m.ticket_id, m.user_id, m.message, m.attachment, m.created_at, u.username, u.role
		FROM ticket_messages m
		JOIN users u ON u.id = m.user_id
		WHERE m.ticket_id = $1
		ORDER BY m.created_at, m.id`, ticketID)
	if err != nil {
		return nil, fmt.Errorf("list ticket messages: %w", err)
	}
	defer rows.Close()
	var list []*entity.TicketMessage
	for rows.Next() {
		var m entity.TicketMessage
		if err := rows.Scan(&m.ID, &m.TicketID, &m.UserID, &m.Message, &m.Attachment, &m.CreatedAt,
			&m.Username, &m.UserRole); err != nil {
			return nil, fmt.Errorf("scan ticket message: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
