// Package apptest ofrece repositorios en memoria y dobles de los puertos de salida para
// probar los casos de uso sin base de datos.
package apptest

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// Store agrupa todos los repositorios en memoria sobre un mismo mutex.
type Store struct {
	mu sync.Mutex

	users        map[string]*entity.User
	categories   map[string]*entity.ServiceCategory
	services     map[string]*entity.Service
	requests     map[string]*entity.ServiceRequest
	deliverables map[string]*entity.Deliverable
	tickets      map[string]*entity.SupportTicket
	messages     []*entity.TicketMessage
	notes        []*entity.Notification
	contacts     map[string]*entity.ContactMessage

	// FailNotificationsFor hace fallar la inserción de notificaciones para esos usuarios.
	FailNotificationsFor map[string]bool
}

// NewStore crea un Store vacío.
func NewStore() *Store {
	return &Store{
		users:                map[string]*entity.User{},
		categories:           map[string]*entity.ServiceCategory{},
		services:             map[string]*entity.Service{},
		requests:             map[string]*entity.ServiceRequest{},
		deliverables:         map[string]*entity.Deliverable{},
		tickets:              map[string]*entity.SupportTicket{},
		contacts:             map[string]*entity.ContactMessage{},
		FailNotificationsFor: map[string]bool{},
	}
}

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s} }

// Categories repositorio de categorías de servicio.
func (s *Store) Categories() *CategoryRepo { return &CategoryRepo{s} }

// Services repositorio del catálogo.
func (s *Store) Services() *ServiceRepo { return &ServiceRepo{s} }

// Requests repositorio de solicitudes.
func (s *Store) Requests() *RequestRepo { return &RequestRepo{s} }

// Deliverables repositorio de entregables.
func (s *Store) Deliverables() *DeliverableRepo { return &DeliverableRepo{s} }

// Tickets repositorio de tickets.
func (s *Store) Tickets() *TicketRepo { return &TicketRepo{s} }

// Notifications repositorio del buzón.
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s} }

// Contacts repositorio de mensajes de contacto.
func (s *Store) Contacts() *ContactRepo { return &ContactRepo{s} }

// RunWorkflow ejecuta fn con los repositorios en memoria. No hay rollback real.
func (s *Store) RunWorkflow(_ context.Context, fn func(repos workflow.Repos) error) error {
	return fn(workflow.Repos{
		Users:         s.Users(),
		Requests:      s.Requests(),
		Tickets:       s.Tickets(),
		Notifications: s.Notifications(),
	})
}

var _ workflow.TxRunner = (*Store)(nil)

func paginate[T any](items []T, p repository.Page) []T {
	if p.Offset > len(items) {
		return nil
	}
	items = items[p.Offset:]
	if p.Limit > 0 && p.Limit < len(items) {
		items = items[:p.Limit]
	}
	return items
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

// ---- users ----

// UserRepo implementa repository.UserRepository.
type UserRepo struct{ s *Store }

var _ repository.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.users {
		if strings.EqualFold(x.Username, u.Username) {
			return domain.ErrUsernameTaken
		}
		if strings.EqualFold(x.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.s.users[u.ID] = clone(u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *UserRepo) List(_ context.Context, f repository.UserFilter) ([]*entity.User, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !contains(u.Username+" "+u.Email+" "+u.FirstName+" "+u.LastName+" "+u.Company, f.Search) {
			continue
		}
		out = append(out, clone(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return paginate(out, f.Page), len(out), nil
}

func (r *UserRepo) ListActiveByRoles(_ context.Context, roles []entity.Role, p repository.Page) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	want := map[entity.Role]bool{}
	for _, role := range roles {
		want[role] = true
	}
	var out []*entity.User
	for _, u := range r.s.users {
		if u.IsActive && want[u.Role] {
			out = append(out, clone(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, p), nil
}

// ---- catalog ----

// CategoryRepo implementa repository.ServiceCategoryRepository.
type CategoryRepo struct{ s *Store }

var _ repository.ServiceCategoryRepository = (*CategoryRepo)(nil)

func (r *CategoryRepo) Create(_ context.Context, c *entity.ServiceCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.categories {
		if x.Slug == c.Slug || x.Name == c.Name {
			return domain.ErrDuplicate
		}
	}
	r.s.categories[c.ID] = clone(c)
	return nil
}

func (r *CategoryRepo) GetByID(_ context.Context, id string) (*entity.ServiceCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.categories[id]; ok {
		return clone(c), nil
	}
	return nil, nil
}

func (r *CategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.ServiceCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.categories {
		if c.Slug == slug {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *CategoryRepo) Update(_ context.Context, c *entity.ServiceCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.categories[c.ID] = clone(c)
	return nil
}

func (r *CategoryRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.categories, id)
	return nil
}

func (r *CategoryRepo) List(_ context.Context, activeOnly bool) ([]*entity.ServiceCategory, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ServiceCategory
	for _, c := range r.s.categories {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, clone(c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// ServiceRepo implementa repository.ServiceRepository.
type ServiceRepo struct{ s *Store }

var _ repository.ServiceRepository = (*ServiceRepo)(nil)

func (r *ServiceRepo) withCategory(sv *entity.Service) *entity.Service {
	out := clone(sv)
	if c, ok := r.s.categories[sv.CategoryID]; ok {
		out.Category = clone(c)
	}
	return out
}

func (r *ServiceRepo) Create(_ context.Context, sv *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.services {
		if x.Slug == sv.Slug {
			return domain.ErrDuplicate
		}
	}
	r.s.services[sv.ID] = clone(sv)
	return nil
}

func (r *ServiceRepo) GetByID(_ context.Context, id string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if sv, ok := r.s.services[id]; ok {
		return r.withCategory(sv), nil
	}
	return nil, nil
}

func (r *ServiceRepo) GetBySlug(_ context.Context, slug string) (*entity.Service, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sv := range r.s.services {
		if sv.Slug == slug {
			return r.withCategory(sv), nil
		}
	}
	return nil, nil
}

func (r *ServiceRepo) Update(_ context.Context, sv *entity.Service) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.services[sv.ID] = clone(sv)
	return nil
}

func (r *ServiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.services, id)
	return nil
}

func (r *ServiceRepo) List(_ context.Context, f repository.ServiceFilter) ([]*entity.Service, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Service
	for _, sv := range r.s.services {
		if f.CategoryID != "" && sv.CategoryID != f.CategoryID {
			continue
		}
		if f.CategorySlug != "" {
			c, ok := r.s.categories[sv.CategoryID]
			if !ok || c.Slug != f.CategorySlug {
				continue
			}
		}
		if f.Status != "" && sv.Status != f.Status {
			continue
		}
		if f.FeaturedOnly && !sv.Featured {
			continue
		}
		if f.Search != "" && !contains(sv.Name+" "+sv.ShortDescription+" "+sv.FullDescription, f.Search) {
			continue
		}
		out = append(out, r.withCategory(sv))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return paginate(out, f.Page), len(out), nil
}

func (r *ServiceRepo) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*entity.Service, error) {
	items, _, err := r.List(ctx, repository.ServiceFilter{CategoryID: categoryID, Status: entity.ServiceStatusActive})
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Service, 0, limit)
	for _, sv := range items {
		if sv.ID == excludeID {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, sv)
	}
	return out, nil
}

func (r *ServiceRepo) IsReferenced(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, req := range r.s.requests {
		if req.ServiceID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- requests ----

// RequestRepo implementa repository.ServiceRequestRepository.
type RequestRepo struct{ s *Store }

var _ repository.ServiceRequestRepository = (*RequestRepo)(nil)

func (r *RequestRepo) hydrate(req *entity.ServiceRequest) *entity.ServiceRequest {
	out := clone(req)
	if sv, ok := r.s.services[req.ServiceID]; ok {
		out.ServiceName = sv.Name
	}
	if u, ok := r.s.users[req.ClientID]; ok {
		out.ClientUsername = u.Username
	}
	out.AssigneeUsername = ""
	if req.AssignedTo != nil {
		if u, ok := r.s.users[*req.AssignedTo]; ok {
			out.AssigneeUsername = u.Username
		}
	}
	return out
}

func (r *RequestRepo) Create(_ context.Context, req *entity.ServiceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.services[req.ServiceID]; !ok {
		return domain.ErrNotFound
	}
	r.s.requests[req.ID] = clone(req)
	return nil
}

func (r *RequestRepo) GetByID(_ context.Context, id string) (*entity.ServiceRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if req, ok := r.s.requests[id]; ok {
		return r.hydrate(req), nil
	}
	return nil, nil
}

func (r *RequestRepo) Update(_ context.Context, req *entity.ServiceRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.requests[req.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.requests[req.ID] = clone(req)
	return nil
}

func (r *RequestRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.requests, id)
	for k, d := range r.s.deliverables {
		if d.RequestID == id {
			delete(r.s.deliverables, k)
		}
	}
	return nil
}

func (r *RequestRepo) List(_ context.Context, f repository.RequestFilter) ([]*entity.ServiceRequest, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ServiceRequest
	for _, req := range r.s.requests {
		if f.ClientID != "" && req.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && req.Status != f.Status {
			continue
		}
		if f.ServiceID != "" && req.ServiceID != f.ServiceID {
			continue
		}
		if f.AssignedTo != "" && (req.AssignedTo == nil || *req.AssignedTo != f.AssignedTo) {
			continue
		}
		if f.Search != "" && !contains(req.Title+" "+req.Description, f.Search) {
			continue
		}
		out = append(out, r.hydrate(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page), len(out), nil
}

// ---- deliverables ----

// DeliverableRepo implementa repository.DeliverableRepository.
type DeliverableRepo struct{ s *Store }

var _ repository.DeliverableRepository = (*DeliverableRepo)(nil)

func (r *DeliverableRepo) Create(_ context.Context, d *entity.Deliverable) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deliverables[d.ID] = clone(d)
	return nil
}

func (r *DeliverableRepo) GetByID(_ context.Context, id string) (*entity.Deliverable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.deliverables[id]; ok {
		return clone(d), nil
	}
	return nil, nil
}

func (r *DeliverableRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.deliverables, id)
	return nil
}

func (r *DeliverableRepo) ListByRequest(_ context.Context, requestID string) ([]*entity.Deliverable, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deliverable
	for _, d := range r.s.deliverables {
		if d.RequestID == requestID {
			out = append(out, clone(d))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r *DeliverableRepo) List(_ context.Context, clientID string, p repository.Page) ([]*entity.Deliverable, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Deliverable
	for _, d := range r.s.deliverables {
		if clientID != "" {
			req, ok := r.s.requests[d.RequestID]
			if !ok || req.ClientID != clientID {
				continue
			}
		}
		out = append(out, clone(d))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return paginate(out, p), len(out), nil
}

// ---- tickets ----

// TicketRepo implementa repository.TicketRepository.
type TicketRepo struct{ s *Store }

var _ repository.TicketRepository = (*TicketRepo)(nil)

func (r *TicketRepo) Create(_ context.Context, t *entity.SupportTicket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.tickets[t.ID] = clone(t)
	return nil
}

func (r *TicketRepo) GetByID(_ context.Context, id string) (*entity.SupportTicket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tickets[id]; ok {
		return clone(t), nil
	}
	return nil, nil
}

func (r *TicketRepo) Update(_ context.Context, t *entity.SupportTicket) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.tickets[t.ID] = clone(t)
	return nil
}

func (r *TicketRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tickets, id)
	return nil
}

func (r *TicketRepo) List(_ context.Context, f repository.TicketFilter) ([]*entity.SupportTicket, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.SupportTicket
	for _, t := range r.s.tickets {
		if f.UserID != "" && t.UserID != f.UserID {
			continue
		}
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.AssignedTo != "" && !t.IsAssignedTo(f.AssignedTo) {
			continue
		}
		if f.Search != "" && !contains(t.Subject+" "+t.Description, f.Search) {
			continue
		}
		out = append(out, clone(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page), len(out), nil
}

func (r *TicketRepo) CreateMessage(_ context.Context, m *entity.TicketMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.messages = append(r.s.messages, clone(m))
	return nil
}

func (r *TicketRepo) ListMessages(_ context.Context, ticketID string) ([]*entity.TicketMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TicketMessage
	for _, m := range r.s.messages {
		if m.TicketID == ticketID {
			out = append(out, clone(m))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ---- notifications ----

// NotificationRepo implementa repository.NotificationRepository.
type NotificationRepo struct{ s *Store }

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// ErrInjected error simulado de inserción.
var ErrInjected = errors.New("apptest: fallo inyectado")

func (r *NotificationRepo) CreateMany(_ context.Context, items []*entity.Notification) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var errs []error
	n := 0
	for _, it := range items {
		if r.s.FailNotificationsFor[it.UserID] {
			errs = append(errs, ErrInjected)
			continue
		}
		r.s.notes = append(r.s.notes, clone(it))
		n++
	}
	return n, errors.Join(errs...)
}

func (r *NotificationRepo) ListByUser(_ context.Context, userID string, unreadOnly bool, p repository.Page) ([]*entity.Notification, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Notification
	for i := len(r.s.notes) - 1; i >= 0; i-- {
		n := r.s.notes[i]
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, clone(n))
	}
	return paginate(out, p), len(out), nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, userID string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := 0
	for _, n := range r.s.notes {
		if n.UserID == userID && !n.Read {
			c++
		}
	}
	return c, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, userID, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notes {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepo) MarkAllRead(_ context.Context, userID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var c int64
	for _, n := range r.s.notes {
		if n.UserID == userID && !n.Read {
			n.Read = true
			c++
		}
	}
	return c, nil
}

func (r *NotificationRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i, n := range r.s.notes {
		if n.ID == id {
			r.s.notes = append(r.s.notes[:i], r.s.notes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *NotificationRepo) ListAll(_ context.Context, p repository.Page) ([]*entity.Notification, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.Notification, 0, len(r.s.notes))
	for i := len(r.s.notes) - 1; i >= 0; i-- {
		out = append(out, clone(r.s.notes[i]))
	}
	return paginate(out, p), len(out), nil
}

// NotificationsFor devuelve las notificaciones de un usuario en orden de creación.
func (s *Store) NotificationsFor(userID string) []*entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Notification
	for _, n := range s.notes {
		if n.UserID == userID {
			out = append(out, clone(n))
		}
	}
	return out
}

// ---- contact ----

// ContactRepo implementa repository.ContactMessageRepository.
type ContactRepo struct{ s *Store }

var _ repository.ContactMessageRepository = (*ContactRepo)(nil)

func (r *ContactRepo) Create(_ context.Context, m *entity.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contacts[m.ID] = clone(m)
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id string) (*entity.ContactMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m, ok := r.s.contacts[id]; ok {
		return clone(m), nil
	}
	return nil, nil
}

func (r *ContactRepo) Update(_ context.Context, m *entity.ContactMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.contacts[m.ID] = clone(m)
	return nil
}

func (r *ContactRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.contacts, id)
	return nil
}

func (r *ContactRepo) List(_ context.Context, f repository.ContactFilter) ([]*entity.ContactMessage, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ContactMessage
	for _, m := range r.s.contacts {
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		if f.Search != "" && !contains(m.Name+" "+m.Email+" "+m.Subject, f.Search) {
			continue
		}
		out = append(out, clone(m))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page), len(out), nil
}
