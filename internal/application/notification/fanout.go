// Package notification implementa el buzón de notificaciones por usuario y el fan-out
// de avisos que acompaña a los flujos de solicitudes y tickets.
package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// BatchSize máximo de destinatarios leídos e insertados por lote.
const BatchSize = 500

// Fanout escribe notificaciones con los repositorios que recibe, ligados al pool o a una transacción.
// Los fallos por fila se registran y no interrumpen al resto ni a la operación que los origina.
type Fanout struct {
	Users repository.UserRepository
	Notes repository.NotificationRepository
	Log   *logger.Logger
	Now   func() time.Time
}

// ToUsers crea una notificación por destinatario (IDs repetidos o vacíos se ignoran).
// Devuelve cuántas filas se crearon.
func (f Fanout) ToUsers(ctx context.Context, userIDs []string, title, message string, typ entity.NotificationType) int {
	seen := make(map[string]struct{}, len(userIDs))
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	created := 0
	for start := 0; start < len(ids); start += BatchSize {
		end := start + BatchSize
		if end > len(ids) {
			end = len(ids)
		}
		created += f.write(ctx, ids[start:end], title, message, typ)
	}
	return created
}

// ToRoles notifica a todos los usuarios activos con alguno de los roles, leyendo por lotes.
func (f Fanout) ToRoles(ctx context.Context, roles []entity.Role, title, message string, typ entity.NotificationType) int {
	created := 0
	for offset := 0; ; offset += BatchSize {
		users, err := f.Users.ListActiveByRoles(ctx, roles, repository.Page{Limit: BatchSize, Offset: offset})
		if err != nil {
			f.logger().Warn().Err(err).Msg("notificaciones: no se pudieron leer destinatarios")
			return created
		}
		ids := make([]string, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.ID)
		}
		created += f.write(ctx, ids, title, message, typ)
		if len(users) < BatchSize {
			return created
		}
	}
}

func (f Fanout) write(ctx context.Context, ids []string, title, message string, typ entity.NotificationType) int {
	if len(ids) == 0 {
		return 0
	}
	now := f.now()
	items := make([]*entity.Notification, 0, len(ids))
	for _, id := range ids {
		items = append(items, &entity.Notification{
			ID:        uuid.New().String(),
			UserID:    id,
			Title:     title,
			Message:   message,
			Type:      typ,
			CreatedAt: now,
		})
	}
	n, err := f.Notes.CreateMany(ctx, items)
	if err != nil {
		f.logger().Warn().Err(err).
			Int("solicitadas", len(items)).
			Int("creadas", n).
			Str("title", title).
			Msg("notificaciones: fallo parcial del fan-out")
	}
	return n
}

func (f Fanout) now() time.Time {
	if f.Now != nil {
		return f.Now()
	}
	return time.Now()
}

func (f Fanout) logger() *logger.Logger {
	if f.Log != nil {
		return f.Log
	}
	return logger.Nop()
}
