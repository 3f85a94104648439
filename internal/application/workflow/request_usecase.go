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

// Eventos publicados por el flujo de solicitudes.
const (
	EventRequestCreated       = "service_request.created"
	EventRequestStatusChanged = "service_request.status_changed"
	EventRequestAssigned      = "service_request.assigned"
)

// RequestUseCase flujo de solicitudes de servicio: creación, transición de estado, lectura y listados.
type RequestUseCase struct {
	tx           TxRunner
	services     repository.ServiceRepository
	requests     repository.ServiceRequestRepository
	deliverables repository.DeliverableRepository
	storage      ports.FileStorage
	events       ports.EventPublisher
	log          *logger.Logger
	now          func() time.Time
}

// NewRequestUseCase construye el caso de uso. storage puede ser nil (sin borrado de archivos).
func NewRequestUseCase(
	tx TxRunner,
	services repository.ServiceRepository,
	requests repository.ServiceRequestRepository,
	deliverables repository.DeliverableRepository,
	storage ports.FileStorage,
	events ports.EventPublisher,
	log *logger.Logger,
) *RequestUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &RequestUseCase{
		tx:           tx,
		services:     services,
		requests:     requests,
		deliverables: deliverables,
		storage:      storage,
		events:       events,
		log:          log.Component("requests"),
		now:          time.Now,
	}
}

// Create crea una solicitud en estado pending y notifica a managers y admins.
// Falla con ErrNotFound si el servicio no existe y con ErrInactiveService si está inactivo;
// en ambos casos no se persiste nada.
func (uc *RequestUseCase) Create(ctx context.Context, actor *entity.User, in dto.CreateServiceRequest) (*dto.ServiceRequestResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	priority := entity.PriorityMedium
	if in.Priority != "" {
		priority = entity.Priority(in.Priority)
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	service, err := uc.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("solicitud: obtener servicio: %w", err)
	}
	if service == nil {
		return nil, domain.ErrNotFound
	}
	if !service.IsActive() {
		return nil, domain.ErrInactiveService
	}

	now := uc.now()
	req := &entity.ServiceRequest{
		ID:          uuid.New().String(),
		ServiceID:   service.ID,
		ClientID:    actor.ID,
		Title:       in.Title,
		Description: in.Description,
		Status:      entity.RequestPending,
		Priority:    priority,
		Deadline:    deadline,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = uc.tx.RunWorkflow(ctx, func(repos Repos) error {
		if err := repos.Requests.Create(ctx, req); err != nil {
			return fmt.Errorf("solicitud: crear: %w", err)
		}
		fan := notification.Fanout{Users: repos.Users, Notes: repos.Notifications, Log: uc.log, Now: uc.now}
		fan.ToRoles(ctx, entity.StaffRoles,
			"Nouvelle demande de service",
			fmt.Sprintf("%s a créé une demande pour \"%s\"", actor.Username, service.Name),
			entity.NotificationInfo,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.events.Publish(ctx, EventRequestCreated, map[string]interface{}{
		"request_id": req.ID,
		"service_id": service.ID,
		"client_id":  actor.ID,
		"priority":   string(req.Priority),
	})

	req.ServiceName = service.Name
	req.ClientUsername = actor.Username
	out := ToRequestResponse(req)
	return &out, nil
}

// Transition cambia estado, asignación y campos de presentación. Solo staff.
// Completar estampa completed_at si aún no existe; ningún otro cambio lo toca.
func (uc *RequestUseCase) Transition(ctx context.Context, actor *entity.User, id string, in dto.TransitionRequest) (*dto.ServiceRequestResponse, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	var (
		updated       *entity.ServiceRequest
		statusChanged bool
		newAssignee   string
	)
	err = uc.tx.RunWorkflow(ctx, func(repos Repos) error {
		req, err := repos.Requests.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("solicitud: obtener: %w", err)
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if err := policy.TransitionRequest(actor, req); err != nil {
			return err
		}

		now := uc.now()
		if in.Status != "" {
			statusChanged = req.SetStatus(entity.RequestStatus(in.Status), now)
		}
		switch {
		case in.Unassign:
			req.AssignedTo = nil
		case in.AssignedTo != "":
			if req.AssignedTo == nil || *req.AssignedTo != in.AssignedTo {
				assignee, err := repos.Users.GetByID(ctx, in.AssignedTo)
				if err != nil {
					return fmt.Errorf("solicitud: obtener responsable: %w", err)
				}
				if assignee == nil || !assignee.IsStaff() || !assignee.IsActive {
					return fmt.Errorf("%w: el responsable debe ser un miembro activo del staff", domain.ErrInvalidInput)
				}
				req.AssignedTo = &assignee.ID
				newAssignee = assignee.ID
			}
		}
		if in.Priority != "" {
			req.Priority = entity.Priority(in.Priority)
		}
		switch {
		case in.ClearDeadline:
			req.Deadline = nil
		case deadline != nil:
			req.Deadline = deadline
		}
		req.UpdatedAt = now
		if err := repos.Requests.Update(ctx, req); err != nil {
			return fmt.Errorf("solicitud: actualizar: %w", err)
		}

		fan := notification.Fanout{Users: repos.Users, Notes: repos.Notifications, Log: uc.log, Now: uc.now}
		if statusChanged {
			typ := entity.NotificationInfo
			if req.Status == entity.RequestCompleted {
				typ = entity.NotificationSuccess
			}
			fan.ToUsers(ctx, []string{req.ClientID},
				"Mise à jour de votre demande",
				fmt.Sprintf("Votre demande \"%s\" est maintenant : %s", req.Title, req.Status.Label()),
				typ,
			)
		}
		if newAssignee != "" && newAssignee != actor.ID {
			fan.ToUsers(ctx, []string{newAssignee},
				"Demande assignée",
				fmt.Sprintf("La demande \"%s\" vous a été assignée par %s", req.Title, actor.Username),
				entity.NotificationInfo,
			)
		}

		updated, err = repos.Requests.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("solicitud: releer: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if statusChanged {
		uc.events.Publish(ctx, EventRequestStatusChanged, map[string]interface{}{
			"request_id": updated.ID,
			"status":     string(updated.Status),
			"actor_id":   actor.ID,
		})
	}
	if newAssignee != "" {
		uc.events.Publish(ctx, EventRequestAssigned, map[string]interface{}{
			"request_id":  updated.ID,
			"assigned_to": newAssignee,
			"actor_id":    actor.ID,
		})
	}
	out := ToRequestResponse(updated)
	return &out, nil
}

// Get devuelve la solicitud con sus entregables al propietario o al staff.
func (uc *RequestUseCase) Get(ctx context.Context, actor *entity.User, id string) (*dto.RequestDetailResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("solicitud: obtener: %w", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.ViewRequest(actor, req); err != nil {
		return nil, err
	}
	items, err := uc.deliverables.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("solicitud: entregables: %w", err)
	}
	out := &dto.RequestDetailResponse{
		Request:      ToRequestResponse(req),
		Deliverables: make([]dto.DeliverableResponse, 0, len(items)),
	}
	for _, d := range items {
		out.Deliverables = append(out.Deliverables, ToDeliverableResponse(d))
	}
	return out, nil
}

// ListForClient solicitudes propias, más recientes primero. limit <= 0 = todas.
func (uc *RequestUseCase) ListForClient(ctx context.Context, actor *entity.User, limit int) ([]dto.ServiceRequestResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	items, _, err := uc.requests.List(ctx, repository.RequestFilter{ClientID: actor.ID, Page: repository.Page{Limit: limit}})
	if err != nil {
		return nil, fmt.Errorf("solicitud: listar del cliente: %w", err)
	}
	return toRequestResponses(items), nil
}

// ListAll listado paginado para el staff con filtros de estado, servicio, responsable y búsqueda.
func (uc *RequestUseCase) ListAll(ctx context.Context, actor *entity.User, q dto.RequestListQuery) (*dto.ServiceRequestListResponse, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	return uc.list(ctx, repository.RequestFilter{
		Status:     entity.RequestStatus(q.Status),
		ServiceID:  q.ServiceID,
		AssignedTo: q.AssignedTo,
	}, q)
}

// ListScoped listado de la API: todo para el staff, solo lo propio para el resto.
func (uc *RequestUseCase) ListScoped(ctx context.Context, actor *entity.User, q dto.RequestListQuery) (*dto.ServiceRequestListResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	if actor.IsStaff() {
		return uc.ListAll(ctx, actor, q)
	}
	return uc.list(ctx, repository.RequestFilter{ClientID: actor.ID, Status: entity.RequestStatus(q.Status)}, q)
}

func (uc *RequestUseCase) list(ctx context.Context, f repository.RequestFilter, q dto.RequestListQuery) (*dto.ServiceRequestListResponse, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, f.Status)
	}
	q.DefaultPage()
	f.Search = strings.TrimSpace(q.Search)
	f.Page = repository.Page{Limit: q.Limit, Offset: q.Offset}
	items, total, err := uc.requests.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("solicitud: listar: %w", err)
	}
	return &dto.ServiceRequestListResponse{
		Items: toRequestResponses(items),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}, nil
}

// Delete borrado definitivo (admin). Los archivos de sus entregables se eliminan best-effort.
func (uc *RequestUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	req, err := uc.requests.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("solicitud: obtener: %w", err)
	}
	if req == nil {
		return domain.ErrNotFound
	}
	items, err := uc.deliverables.ListByRequest(ctx, id)
	if err != nil {
		return fmt.Errorf("solicitud: entregables: %w", err)
	}
	if err := uc.requests.Delete(ctx, id); err != nil {
		return fmt.Errorf("solicitud: eliminar: %w", err)
	}
	if uc.storage != nil {
		for _, d := range items {
			if err := uc.storage.Remove(ctx, d.FileKey); err != nil {
				uc.log.Warn().Err(err).Str("key", d.FileKey).Msg("no se pudo eliminar el archivo del entregable")
			}
		}
	}
	return nil
}

// Entity devuelve la entidad sin control de acceso (exportación PDF ya autorizada).
func (uc *RequestUseCase) Entity(ctx context.Context, id string) (*entity.ServiceRequest, error) {
	return uc.requests.GetByID(ctx, id)
}

// ParseDeadline acepta RFC3339, "2006-01-02T15:04" (datetime-local) y "2006-01-02". Vacío = nil.
func ParseDeadline(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: fecha límite inválida %q", domain.ErrInvalidInput, s)
}

// ToRequestResponse mapea la entidad al DTO.
func ToRequestResponse(r *entity.ServiceRequest) dto.ServiceRequestResponse {
	return dto.ServiceRequestResponse{
		ID:               r.ID,
		ServiceID:        r.ServiceID,
		ServiceName:      r.ServiceName,
		ClientID:         r.ClientID,
		ClientUsername:   r.ClientUsername,
		AssignedTo:       r.AssignedTo,
		AssigneeUsername: r.AssigneeUsername,
		Title:            r.Title,
		Description:      r.Description,
		Status:           string(r.Status),
		StatusLabel:      r.Status.Label(),
		Priority:         string(r.Priority),
		PriorityLabel:    r.Priority.Label(),
		Deadline:         r.Deadline,
		CompletedAt:      r.CompletedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toRequestResponses(items []*entity.ServiceRequest) []dto.ServiceRequestResponse {
	out := make([]dto.ServiceRequestResponse, 0, len(items))
	for _, r := range items {
		out = append(out, ToRequestResponse(r))
	}
	return out
}

// WithClock sustituye el reloj (tests).
func (uc *RequestUseCase) WithClock(now func() time.Time) *RequestUseCase {
	uc.now = now
	return uc
}
