package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo buzón de notificaciones.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el repositorio (pool o tx).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

const notificationColumns = `id, user_id, title, message, type, read, created_at`

const insertNotification = `INSERT INTO notifications (` + notificationColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// CreateMany intenta un INSERT multi-fila dentro de un savepoint. Si falla (p. ej. un usuario
// borrado entre la lectura y la escritura), reintenta fila a fila, cada una con su savepoint:
// las filas válidas se conservan y la transacción externa sigue utilizable.
func (r *NotificationRepo) CreateMany(ctx context.Context, items []*entity.Notification) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if err := r.insertBatch(ctx, items); err == nil {
		return len(items), nil
	}

	created := 0
	var errs []error
	for _, n := range items {
		if err := r.insertOne(ctx, n); err != nil {
			errs = append(errs, fmt.Errorf("notification for user %s: %w", n.UserID, err))
			continue
		}
		created++
	}
	return created, errors.Join(errs...)
}

func (r *NotificationRepo) insertBatch(ctx context.Context, items []*entity.Notification) error {
	ids := make([]string, len(items))
	users := make([]string, len(items))
	titles := make([]string, len(items))
	messages := make([]string, len(items))
	types := make([]string, len(items))
	reads := make([]bool, len(items))
	created := make([]time.Time, len(items))
	for i, n := range items {
		ids[i], users[i], titles[i], messages[i] = n.ID, n.UserID, n.Title, n.Message
		types[i], reads[i], created[i] = string(n.Type), n.Read, n.CreatedAt
	}
	return r.savepoint(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO notifications (`+notificationColumns+`)
			SELECT * FROM unnest($1::uuid[], $2::uuid[], $3::text[], $4::text[], $5::text[], $6::bool[], $7::timestamptz[])`,
			ids, users, titles, messages, types, reads, created)
		return err
	})
}

func (r *NotificationRepo) insertOne(ctx context.Context, n *entity.Notification) error {
	return r.savepoint(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insertNotification, n.ID, n.UserID, n.Title, n.Message, n.Type, n.Read, n.CreatedAt)
		return err
	})
}

// savepoint Begin sobre una pgx.Tx abre un SAVEPOINT; sobre el pool, una transacción corta.
func (r *NotificationRepo) savepoint(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.q.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// ListByUser más recientes primero, con el total sin paginar.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID string, unreadOnly bool, p repository.Page) ([]*entity.Notification, int, error) {
	w := &where{}
	w.add("user_id = ?", userID)
	if unreadOnly {
		w.add("NOT read")
	}
	return r.listWhere(ctx, w, p)
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead idempotente: marcar una ya leída sigue devolviendo true.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkAllRead devuelve cuántas pasaron de no leídas a leídas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tag, err := r.q.Exec(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	return nil
}

// ListAll vista del back-office.
func (r *NotificationRepo) ListAll(ctx context.Context, p repository.Page) ([]*entity.Notification, int, error) {
	return r.listWhere(ctx, &where{}, p)
}

func (r *NotificationRepo) listWhere(ctx context.Context, w *where, p repository.Page) ([]*entity.Notification, int, error) {
	total, err := w.count(ctx, r.q, "notifications")
	if err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}
	limit, args := w.page(p)
	rows, err := r.q.Query(ctx, `SELECT `+notificationColumns+` FROM notifications`+w.sql()+
		` ORDER BY created_at DESC, id`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan notification: %w", err)
		}
		list = append(list, &n)
	}
	return list, total, rows.Err()
}
