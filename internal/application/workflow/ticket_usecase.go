package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// Eventos del flujo de tickets.
const (
	EventTicketOpened        = "ticket.opened"
	EventTicketMessage       = "ticket.message_posted"
	EventTicketStatusChanged = "ticket.status_changed"
)

// TicketUseCase tickets de soporte y su hilo de mensajes.
type TicketUseCase struct {
	tx      TxRunner
	tickets repository.TicketRepository
	events  ports.EventPublisher
	log     *logger.Logger
	now     func() time.Time
}

// NewTicketUseCase construye el caso de uso.
func NewTicketUseCase(tx TxRunner, tickets repository.TicketRepository, events ports.EventPublisher, log *logger.Logger) *TicketUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TicketUseCase{
		tx:      tx,
		tickets: tickets,
		events:  events,
		log:     log.Component("tickets"),
		now:     time.Now,
	}
}

// Open abre un ticket en estado open y avisa a todos los admin.
func (uc *TicketUseCase) Open(ctx context.Context, actor *entity.User, in dto.OpenTicketRequest) (*dto.TicketResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	in.Subject = strings.TrimSpace(in.Subject)
	in.Description = strings.TrimSpace(in.Description)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.Priority(in.Priority)
	}
	now := uc.now()
	t := &entity.SupportTicket{
		ID:          uuid.New().String(),
		UserID:      actor.ID,
		Subject:     in.Subject,
		Description: in.Description,
		Status:      entity.TicketOpen,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
		Username:    actor.Username,
	}
	err := uc.tx.RunWorkflow(ctx, func(repos Repos) error {
		if err := repos.Tickets.Create(ctx, t); err != nil {
			return fmt.Errorf("ticket: crear: %w", err)
		}
		uc.fanout(repos).ToRoles(ctx, []entity.Role{entity.RoleAdmin},
			"Nouveau ticket de support",
			fmt.Sprintf("%s a créé un ticket: %s", actor.Username, t.Subject),
			entity.NotificationInfo,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.events.Publish(ctx, EventTicketOpened, map[string]interface{}{
		"ticket_id": t.ID,
		"user_id":   actor.ID,
		"priority":  string(t.Priority),
	})
	out := ToTicketResponse(t)
	return &out, nil
}

// PostMessage agrega un mensaje al hilo. El primer mensaje del staff sobre un ticket open lo pasa a
// in_progress y lo asigna a su autor en la misma transacción.
func (uc *TicketUseCase) PostMessage(ctx context.Context, actor *entity.User, ticketID string, in dto.PostMessageRequest) (*dto.TicketMessageResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	in.Message = strings.TrimSpace(in.Message)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}

	var (
		msg        *entity.TicketMessage
		autoTaken  bool
		ticketUser string
	)
	err := uc.tx.RunWorkflow(ctx, func(repos Repos) error {
		t, err := repos.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return fmt.Errorf("ticket: obtener: %w", err)
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := policy.PostTicketMessage(actor, t); err != nil {
			return err
		}
		now := uc.now()
		msg = &entity.TicketMessage{
			ID:        uuid.New().String(),
			TicketID:  t.ID,
			UserID:    actor.ID,
			Message:   in.Message,
			CreatedAt: now,
			Username:  actor.Username,
			UserRole:  actor.Role,
		}
		if err := repos.Tickets.CreateMessage(ctx, msg); err != nil {
			return fmt.Errorf("ticket: crear mensaje: %w", err)
		}

		if actor.IsStaff() && t.Status == entity.TicketOpen {
			t.SetStatus(entity.TicketInProgress, now)
			t.AssignedTo = &actor.ID
			autoTaken = true
		}
		t.UpdatedAt = now
		if err := repos.Tickets.Update(ctx, t); err != nil {
			return fmt.Errorf("ticket: actualizar: %w", err)
		}
		ticketUser = t.UserID

		fan := uc.fanout(repos)
		switch {
		case actor.ID != t.UserID && actor.IsStaff():
			fan.ToUsers(ctx, []string{t.UserID},
				"Réponse à votre ticket",
				fmt.Sprintf("%s a répondu à votre ticket: %s", actor.Username, t.Subject),
				entity.NotificationInfo,
			)
		case actor.ID == t.UserID && t.AssignedTo != nil && *t.AssignedTo != actor.ID:
			fan.ToUsers(ctx, []string{*t.AssignedTo},
				"Nouveau message sur un ticket",
				fmt.Sprintf("%s a répondu au ticket: %s", actor.Username, t.Subject),
				entity.NotificationInfo,
			)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, EventTicketMessage, map[string]interface{}{
		"ticket_id": ticketID,
		"author_id": actor.ID,
		"owner_id":  ticketUser,
		"taken":     autoTaken,
	})
	out := ToTicketMessageResponse(msg)
	return &out, nil
}

// Transition cambia estado y/o responsable (staff). La primera resolución estampa resolved_at.
func (uc *TicketUseCase) Transition(ctx context.Context, actor *entity.User, id string, in dto.TicketTransitionRequest) (*dto.TicketResponse, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var (
		updated       *entity.SupportTicket
		statusChanged bool
	)
	err := uc.tx.RunWorkflow(ctx, func(repos Repos) error {
		t, err := repos.Tickets.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("ticket: obtener: %w", err)
		}
		if t == nil {
			return domain.ErrNotFound
		}
		if err := policy.TransitionTicket(actor, t); err != nil {
			return err
		}
		now := uc.now()
		if in.Status != "" {
			statusChanged = t.SetStatus(entity.TicketStatus(in.Status), now)
		}
		switch {
		case in.Unassign:
			t.AssignedTo = nil
		case in.AssignedTo != "":
			assignee, err := repos.Users.GetByID(ctx, in.AssignedTo)
			if err != nil {
				return fmt.Errorf("ticket: obtener responsable: %w", err)
			}
			if assignee == nil || !assignee.IsStaff() || !assignee.IsActive {
				return fmt.Errorf("%w: el responsable debe ser un miembro activo del staff", domain.ErrInvalidInput)
			}
			t.AssignedTo = &assignee.ID
		}
		t.UpdatedAt = now
		if err := repos.Tickets.Update(ctx, t); err != nil {
			return fmt.Errorf("ticket: actualizar: %w", err)
		}
		if statusChanged && t.UserID != actor.ID {
			typ := entity.NotificationInfo
			if t.Status == entity.TicketResolved {
				typ = entity.NotificationSuccess
			}
			uc.fanout(repos).ToUsers(ctx, []string{t.UserID},
				"Mise à jour de votre ticket",
				fmt.Sprintf("Votre ticket \"%s\" est maintenant : %s", t.Subject, t.Status.Label()),
				typ,
			)
		}
		updated, err = repos.Tickets.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("ticket: releer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if statusChanged {
		uc.events.Publish(ctx, EventTicketStatusChanged, map[string]interface{}{
			"ticket_id": updated.ID,
			"status":    string(updated.Status),
			"actor_id":  actor.ID,
		})
	}
	out := ToTicketResponse(updated)
	return &out, nil
}

// Get ticket con su hilo para el propietario, el responsable o un admin.
func (uc *TicketUseCase) Get(ctx context.Context, actor *entity.User, id string) (*dto.TicketDetailResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	t, err := uc.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("ticket: obtener: %w", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.ViewTicket(actor, t); err != nil {
		return nil, err
	}
	msgs, err := uc.tickets.ListMessages(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("ticket: mensajes: %w", err)
	}
	out := &dto.TicketDetailResponse{
		Ticket:   ToTicketResponse(t),
		Messages: make([]dto.TicketMessageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		out.Messages = append(out.Messages, ToTicketMessageResponse(m))
	}
	return out, nil
}

// ListMine tickets propios, más recientes primero.
func (uc *TicketUseCase) ListMine(ctx context.Context, actor *entity.User, q dto.TicketListQuery) (*dto.TicketListResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.TicketFilter{UserID: actor.ID}, q)
}

// ListAll listado del staff con filtro de estado y búsqueda. Los managers solo ven los asignados a ellos.
func (uc *TicketUseCase) ListAll(ctx context.Context, actor *entity.User, q dto.TicketListQuery) (*dto.TicketListResponse, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	f := repository.TicketFilter{}
	if actor.Role != entity.RoleAdmin {
		f.AssignedTo = actor.ID
	}
	return uc.list(ctx, f, q)
}

// ListScoped listado de la API según el rol del actor.
func (uc *TicketUseCase) ListScoped(ctx context.Context, actor *entity.User, q dto.TicketListQuery) (*dto.TicketListResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		return uc.ListAll(ctx, actor, q)
	}
	return uc.ListMine(ctx, actor, q)
}

// Delete borrado definitivo (admin); los mensajes caen en cascada.
func (uc *TicketUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	t, err := uc.tickets.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("ticket: obtener: %w", err)
	}
	if t == nil {
		return domain.ErrNotFound
	}
	if err := uc.tickets.Delete(ctx, id); err != nil {
		return fmt.Errorf("ticket: eliminar: %w", err)
	}
	return nil
}

func (uc *TicketUseCase) list(ctx context.Context, f repository.TicketFilter, q dto.TicketListQuery) (*dto.TicketListResponse, error) {
	f.Status = entity.TicketStatus(q.Status)
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, q.Status)
	}
	q.DefaultPage()
	f.Search = strings.TrimSpace(q.Search)
	f.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}
	items, total, err := uc.tickets.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("ticket: listar: %w", err)
	}
	out := &dto.TicketListResponse{
		Items: make([]dto.TicketResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, t := range items {
		out.Items = append(out.Items, ToTicketResponse(t))
	}
	return out, nil
}

func (uc *TicketUseCase) fanout(repos Repos) notification.Fanout {
	return notification.Fanout{Users: repos.Users, Notes: repos.Notifications, Log: uc.log, Now: uc.now}
}

// ToTicketResponse mapea la entidad al DTO.
func ToTicketResponse(t *entity.SupportTicket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:               t.ID,
		UserID:           t.UserID,
		Username:         t.Username,
		AssignedTo:       t.AssignedTo,
		AssigneeUsername: t.AssigneeUsername,
		Subject:          t.Subject,
		Description:      t.Description,
		Status:           string(t.Status),
		StatusLabel:      t.Status.Label(),
		Priority:         string(t.Priority),
		ResolvedAt:       t.ResolvedAt,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// ToTicketMessageResponse mapea un mensaje del hilo al DTO.
func ToTicketMessageResponse(m *entity.TicketMessage) dto.TicketMessageResponse {
	return dto.TicketMessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Username:  m.Username,
		IsStaff:   m.UserRole.IsStaff(),
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
}

// WithClock sustituye el reloj (tests).
func (uc *TicketUseCase) WithClock(now func() time.Time) *TicketUseCase {
	uc.now = now
	return uc
}
