package workflow

import (
	"context"
	"fmt"
	"io"
	"path"
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

// EventDeliverableUploaded se publica tras subir un entregable.
const EventDeliverableUploaded = "deliverable.uploaded"

// MaxDeliverableSize tamaño máximo aceptado por archivo (50 MB).
const MaxDeliverableSize int64 = 50 << 20

// DeliverableUseCase subida, listado y descarga de entregables.
type DeliverableUseCase struct {
	requests     repository.ServiceRequestRepository
	deliverables repository.DeliverableRepository
	storage      ports.FileStorage
	fanout       notification.Fanout
	events       ports.EventPublisher
	log          *logger.Logger
	now          func() time.Time
}

// NewDeliverableUseCase construye el caso de uso.
func NewDeliverableUseCase(
	requests repository.ServiceRequestRepository,
	deliverables repository.DeliverableRepository,
	users repository.UserRepository,
	notes repository.NotificationRepository,
	storage ports.FileStorage,
	events ports.EventPublisher,
	log *logger.Logger,
) *DeliverableUseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	l := log.Component("deliverables")
	return &DeliverableUseCase{
		requests:     requests,
		deliverables: deliverables,
		storage:      storage,
		fanout:       notification.Fanout{Users: users, Notes: notes, Log: l},
		events:       events,
		log:          l,
		now:          time.Now,
	}
}

// Upload guarda el archivo y registra el entregable. Solo staff; el cliente recibe un aviso.
// Si el registro falla, el objeto ya subido se elimina best-effort.
func (uc *DeliverableUseCase) Upload(ctx context.Context, actor *entity.User, requestID string, in dto.UploadDeliverableInput, body io.Reader) (*dto.DeliverableResponse, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	in.FileName = sanitizeFileName(in.FileName)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Size > MaxDeliverableSize {
		return nil, fmt.Errorf("%w: el archivo supera el tamaño máximo", domain.ErrInvalidInput)
	}
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("entregable: obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.UploadDeliverable(actor, req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = in.FileName
	}
	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	id := uuid.New().String()
	key := fmt.Sprintf("deliverables/%s/%s-%s", req.ID, id, in.FileName)
	if err := uc.storage.Put(ctx, key, body, in.Size, contentType); err != nil {
		return nil, fmt.Errorf("entregable: guardar archivo: %w", err)
	}

	d := &entity.Deliverable{
		ID:                 id,
		RequestID:          req.ID,
		Name:               name,
		Description:        strings.TrimSpace(in.Description),
		FileKey:            key,
		FileName:           in.FileName,
		ContentType:        contentType,
		Size:               in.Size,
		UploadedBy:         actor.ID,
		UploadedAt:         uc.now(),
		RequestTitle:       req.Title,
		UploadedByUsername: actor.Username,
	}
	if err := uc.deliverables.Create(ctx, d); err != nil {
		if rmErr := uc.storage.Remove(ctx, key); rmErr != nil {
			uc.log.Warn().Err(rmErr).Str("key", key).Msg("no se pudo limpiar el archivo huérfano")
		}
		return nil, fmt.Errorf("entregable: registrar: %w", err)
	}

	uc.fanout.ToUsers(ctx, []string{req.ClientID},
		"Nouveau livrable disponible",
		fmt.Sprintf("Le livrable \"%s\" a été ajouté à votre demande \"%s\"", d.Name, req.Title),
		entity.NotificationSuccess,
	)
	uc.events.Publish(ctx, EventDeliverableUploaded, map[string]interface{}{
		"deliverable_id": d.ID,
		"request_id":     req.ID,
		"uploaded_by":    actor.ID,
	})

	out := ToDeliverableResponse(d)
	return &out, nil
}

// List entregables visibles para el actor: todos para admin, los de sus solicitudes para el resto.
func (uc *DeliverableUseCase) List(ctx context.Context, actor *entity.User, page dto.PageRequest) (*dto.DeliverableListResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	clientID := actor.ID
	if policy.ListAllDeliverables(actor) {
		clientID = ""
	}
	page.DefaultPage()
	items, total, err := uc.deliverables.List(ctx, clientID, repository.Page{Limit: page.Limit, Offset: page.Offset})
	if err != nil {
		return nil, fmt.Errorf("entregable: listar: %w", err)
	}
	out := &dto.DeliverableListResponse{
		Items: make([]dto.DeliverableResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}
	for _, d := range items {
		out.Items = append(out.Items, ToDeliverableResponse(d))
	}
	return out, nil
}

// ListForRequest entregables de una solicitud con la regla de lectura de la solicitud.
func (uc *DeliverableUseCase) ListForRequest(ctx context.Context, actor *entity.User, requestID string) ([]dto.DeliverableResponse, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	req, err := uc.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("entregable: obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.ViewRequest(actor, req); err != nil {
		return nil, err
	}
	items, err := uc.deliverables.ListByRequest(ctx, req.ID)
	if err != nil {
		return nil, fmt.Errorf("entregable: listar: %w", err)
	}
	out := make([]dto.DeliverableResponse, 0, len(items))
	for _, d := range items {
		out = append(out, ToDeliverableResponse(d))
	}
	return out, nil
}

// Download abre el archivo de un entregable para el propietario de la solicitud o el staff.
func (uc *DeliverableUseCase) Download(ctx context.Context, actor *entity.User, id string) (*entity.Deliverable, io.ReadCloser, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, nil, err
	}
	d, err := uc.deliverables.GetByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("entregable: obtener: %w", err)
	}
	if d == nil {
		return nil, nil, domain.ErrNotFound
	}
	req, err := uc.requests.GetByID(ctx, d.RequestID)
	if err != nil {
		return nil, nil, fmt.Errorf("entregable: obtener solicitud: %w", err)
	}
	if req == nil {
		return nil, nil, domain.ErrNotFound
	}
	if err := policy.ViewRequest(actor, req); err != nil {
		return nil, nil, err
	}
	rc, _, err := uc.storage.Get(ctx, d.FileKey)
	if err != nil {
		return nil, nil, fmt.Errorf("entregable: leer archivo: %w", err)
	}
	return d, rc, nil
}

// Delete borra el registro (staff) y después el objeto, best-effort.
func (uc *DeliverableUseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Staff(actor); err != nil {
		return err
	}
	d, err := uc.deliverables.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("entregable: obtener: %w", err)
	}
	if d == nil {
		return domain.ErrNotFound
	}
	if err := uc.deliverables.Delete(ctx, id); err != nil {
		return fmt.Errorf("entregable: eliminar: %w", err)
	}
	if err := uc.storage.Remove(ctx, d.FileKey); err != nil {
		uc.log.Warn().Err(err).Str("key", d.FileKey).Msg("no se pudo eliminar el archivo del entregable")
	}
	return nil
}

// ToDeliverableResponse mapea la entidad al DTO.
func ToDeliverableResponse(d *entity.Deliverable) dto.DeliverableResponse {
	return dto.DeliverableResponse{
		ID:          d.ID,
		RequestID:   d.RequestID,
		Request:     d.RequestTitle,
		Name:        d.Name,
		Description: d.Description,
		FileName:    d.FileName,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedByUsername,
		UploadedAt:  d.UploadedAt,
	}
}

// sanitizeFileName conserva solo el nombre base y sustituye separadores y espacios.
func sanitizeFileName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r':
			return '_'
		}
		return r
	}, name)
}

// WithClock sustituye el reloj (tests).
func (uc *DeliverableUseCase) WithClock(now func() time.Time) *DeliverableUseCase {
	uc.now = now
	return uc
}
