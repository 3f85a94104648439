package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var _ repository.ContactMessageRepository = (*ContactRepo)(nil)

// ContactRepo mensajes del formulario de contacto.
type ContactRepo struct {
	q Querier
}

func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, name, email, phone, company, subject, message, status, replied_at, created_at, updated_at`

func scanContact(row pgx.Row) (*entity.ContactMessage, error) {
	var m entity.ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Company, &m.Subject, &m.Message, &m.Status,
		&m.RepliedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ContactRepo) Create(ctx context.Context, m *entity.ContactMessage) error {
	return execInsert(ctx, r.q, "contact message", `INSERT INTO contact_messages (`+contactColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.Name, m.Email, m.Phone, m.Company, m.Subject, m.Message, m.Status, m.RepliedAt, m.CreatedAt, m.UpdatedAt)
}

func (r *ContactRepo) GetByID(ctx context.Context, id string) (*entity.ContactMessage, error) {
	return getRow(ctx, r.q, "contact message", scanContact,
		`SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id)
}

// Update solo cambia el estado de tratamiento; el contenido del mensaje es inmutable.
func (r *ContactRepo) Update(ctx context.Context, m *entity.ContactMessage) error {
	return execUpdate(ctx, r.q, "contact message",
		`UPDATE contact_messages SET status = $2, replied_at = $3, updated_at = $4 WHERE id = $1`,
		m.ID, m.Status, m.RepliedAt, m.UpdatedAt)
}

func (r *ContactRepo) Delete(ctx context.Context, id string) error {
	return execDelete(ctx, r.q, "contact_messages", id)
}

// List más recientes primero.
func (r *ContactRepo) List(ctx context.Context, f repository.ContactFilter) ([]*entity.ContactMessage, int, error) {
	w := &where{}
	if f.Status != "" {
		w.add("status = ?", f.Status)
	}
	w.search(f.Search, "name", "email", "subject")

	total, err := w.count(ctx, r.q, "contact_messages")
	if err != nil {
		return nil, 0, fmt.Errorf("count contact messages: %w", err)
	}
	limit, args := w.page(f.Page)
	list, err := listRows(ctx, r.q, "contact messages", scanContact,
		`SELECT `+contactColumns+` FROM contact_messages`+w.sql()+` ORDER BY created_at DESC`+limit, args...)
	return list, total, err
}
