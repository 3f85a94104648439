// Package contact registra los mensajes del formulario público, avisa por correo y
// permite tratarlos desde el back-office.
package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// EventContactReceived se publica tras guardar un mensaje.
const EventContactReceived = "contact.received"

// UseCase formulario de contacto.
type UseCase struct {
	repo   repository.ContactMessageRepository
	mailer ports.Mailer
	events ports.EventPublisher
	inbox  string
	log    *logger.Logger
	now    func() time.Time
}

// NewUseCase construye el caso de uso. inbox es la dirección que recibe los avisos internos.
func NewUseCase(repo repository.ContactMessageRepository, mailer ports.Mailer, events ports.EventPublisher, inbox string, log *logger.Logger) *UseCase {
	if events == nil {
		events = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{repo: repo, mailer: mailer, events: events, inbox: inbox, log: log.Component("contact"), now: time.Now}
}

// Submit guarda el mensaje con estado new y luego intenta dos correos: aviso al buzón del sitio
// y confirmación al remitente. Los fallos de correo se registran y no llegan al llamador.
func (uc *UseCase) Submit(ctx context.Context, in dto.ContactRequest) (*dto.ContactResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	m := &entity.ContactMessage{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    entity.ContactNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("contacto: guardar: %w", err)
	}

	uc.send(ctx, []string{uc.inbox}, "[Uranus Group] Nouveau message: "+m.Subject, staffBody(m))
	uc.send(ctx, []string{m.Email}, "[Uranus Group] Confirmation de réception de votre message", confirmationBody(m))
	uc.events.Publish(ctx, EventContactReceived, map[string]interface{}{
		"contact_id": m.ID,
		"subject":    m.Subject,
	})
	return &dto.ContactResponse{ID: m.ID, Status: m.Status}, nil
}

func (uc *UseCase) send(ctx context.Context, to []string, subject, body string) {
	if uc.mailer == nil || len(to) == 0 || to[0] == "" {
		uc.log.Warn().Str("subject", subject).Msg("correo omitido: sin mailer o destinatario")
		return
	}
	if err := uc.mailer.Send(ctx, to, subject, body); err != nil {
		uc.log.Warn().Err(err).Strs("to", to).Str("subject", subject).Msg("no se pudo enviar el correo de contacto")
	}
}

func staffBody(m *entity.ContactMessage) string {
	return fmt.Sprintf(`Nouveau message de contact:

Nom: %s
Email: %s
Téléphone: %s
Entreprise: %s

Message:
%s
`, m.Name, m.Email, m.Phone, m.Company, m.Message)
}

func confirmationBody(m *entity.ContactMessage) string {
	return fmt.Sprintf(`Bonjour %s,

Nous avons bien reçu votre message concernant "%s".

Notre équipe vous répondra dans les plus brefs délais.

Cordialement,
L'équipe Uranus Group
`, m.Name, m.Subject)
}

// ---- back-office ----

// List mensajes con filtro de estado y búsqueda (admin).
func (uc *UseCase) List(ctx context.Context, actor *entity.User, q dto.ContactListQuery) ([]*entity.ContactMessage, int, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, 0, err
	}
	if q.Status != "" && !validStatus(q.Status) {
		return nil, 0, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, q.Status)
	}
	q.DefaultPage()
	return uc.repo.List(ctx, repository.ContactFilter{
		Status: q.Status,
		Search: strings.TrimSpace(q.Search),
		Page:   repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
}

// Get abre un mensaje; uno nuevo pasa a read al abrirlo.
func (uc *UseCase) Get(ctx context.Context, actor *entity.User, id string) (*entity.ContactMessage, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	if m.Status == entity.ContactNew {
		m.SetStatus(entity.ContactRead, uc.now())
		m.UpdatedAt = uc.now()
		if err := uc.repo.Update(ctx, m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetStatus marca el mensaje como read, replied o archived. replied_at se fija una sola vez.
func (uc *UseCase) SetStatus(ctx context.Context, actor *entity.User, id, status string) (*entity.ContactMessage, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: estado desconocido %q", domain.ErrInvalidInput, status)
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	now := uc.now()
	m.SetStatus(status, now)
	m.UpdatedAt = now
	return m, uc.repo.Update(ctx, m)
}

// Delete borrado definitivo.
func (uc *UseCase) Delete(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

func validStatus(s string) bool {
	for _, x := range entity.ContactStatuses {
		if s == x {
			return true
		}
	}
	return false
}
