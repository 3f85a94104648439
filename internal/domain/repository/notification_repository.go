package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// NotificationRepository puerto de persistencia para el buzón de notificaciones.
type NotificationRepository interface {
	// CreateMany inserta cada fila de forma independiente: un fallo no impide las demás.
	// Devuelve cuántas se insertaron y los errores agregados.
	CreateMany(ctx context.Context, items []*entity.Notification) (int, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool, page Page) ([]*entity.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	// MarkRead devuelve false si la notificación no existe o es de otro usuario.
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
	ListAll(ctx context.Context, page Page) ([]*entity.Notification, int, error)
}
