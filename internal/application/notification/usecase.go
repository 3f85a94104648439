package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// UseCase casos de uso del buzón: aviso manual, listado, mark_read y mark_all_read.
type UseCase struct {
	repo   repository.NotificationRepository
	fanout Fanout
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.NotificationRepository, users repository.UserRepository, log *logger.Logger) *UseCase {
	return &UseCase{
		repo:   repo,
		fanout: Fanout{Users: users, Notes: repo, Log: log},
	}
}

// Notify envía un aviso manual (admin) al usuario indicado. Un tipo fuera de
// info, success, warning o error se rechaza. Devuelve el ID de la notificación creada.
func (uc *UseCase) Notify(ctx context.Context, actor *entity.User, in dto.NotifyRequest) (string, error) {
	if err := policy.Admin(actor); err != nil {
		return "", err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if err := dto.Validate(in); err != nil {
		return "", err
	}
	typ := entity.NotificationType(in.Type)
	if !typ.Valid() {
		return "", fmt.Errorf("%w: tipo desconocido %q", domain.ErrInvalidInput, in.Type)
	}
	u, err := uc.fanout.Users.GetByID(ctx, in.UserID)
	if err != nil {
		return "", fmt.Errorf("notificaciones: obtener destinatario: %w", err)
	}
	if u == nil {
		return "", fmt.Errorf("%w: destinatario inexistente", domain.ErrInvalidInput)
	}
	n := &entity.Notification{
		ID:        uuid.New().String(),
		UserID:    u.ID,
		Title:     in.Title,
		Message:   in.Message,
		Type:      typ,
		CreatedAt: uc.fanout.now(),
	}
	if _, err := uc.repo.CreateMany(ctx, []*entity.Notification{n}); err != nil {
		return "", fmt.Errorf("notificaciones: crear: %w", err)
	}
	return n.ID, nil
}

// List devuelve el buzón del usuario (más recientes primero) con el contador de no leídas.
func (uc *UseCase) List(ctx context.Context, userID string, unreadOnly bool, page dto.PageRequest) (*dto.NotificationListResponse, error) {
	page.DefaultPage()
	items, total, err := uc.repo.ListByUser(ctx, userID, unreadOnly, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("notificaciones: listar: %w", err)
	}
	unread, err := uc.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("notificaciones: contar no leídas: %w", err)
	}
	out := &dto.NotificationListResponse{
		Items:  make([]dto.NotificationResponse, 0, len(items)),
		Unread: unread,
		Page:   dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, n := range items {
		out.Items = append(out.Items, ToNotificationResponse(n))
	}
	return out, nil
}

// UnreadCount número de notificaciones sin leer del usuario.
func (uc *UseCase) UnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.repo.CountUnread(ctx, userID)
}

// MarkRead marca una notificación propia como leída. Repetirlo no cambia nada.
// Una notificación de otro usuario se trata como inexistente.
func (uc *UseCase) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := uc.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("notificaciones: marcar leída: %w", err)
	}
	if !ok {
		return domain.ErrNotFound
	}
	return nil
}

// MarkAllRead marca todas las notificaciones del usuario como leídas (idempotente).
func (uc *UseCase) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := uc.repo.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("notificaciones: marcar todas: %w", err)
	}
	return nil
}

// ListAll vista del back-office sobre todos los buzones (admin).
func (uc *UseCase) ListAll(ctx context.Context, actor *entity.User, page dto.PageRequest) ([]*entity.Notification, int, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, 0, err
	}
	page.DefaultPage()
	items, total, err := uc.repo.ListAll(ctx, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, 0, fmt.Errorf("notificaciones: listar todas: %w", err)
	}
	return items, total, nil
}

// Delete borrado definitivo (admin).
func (uc *UseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("notificaciones: eliminar: %w", err)
	}
	return nil
}

// ToNotificationResponse mapea la entidad al DTO.
func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
