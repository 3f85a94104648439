package apptest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/uranusgroup/uranus-web/internal/application/ports"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// ---- almacenamiento ----

// MemoryStorage implementa ports.FileStorage en memoria.
type MemoryStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	types   map[string]string
	// FailPut fuerza un error en Put.
	FailPut bool
}

// NewMemoryStorage crea un almacenamiento vacío.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: map[string][]byte{}, types: map[string]string{}}
}

var _ ports.FileStorage = (*MemoryStorage)(nil)

func (m *MemoryStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.FailPut {
		return ErrInjected
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Objects[key] = b
	m.types[key] = contentType
	return nil
}

func (m *MemoryStorage) Get(_ context.Context, key string) (io.ReadCloser, *ports.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.Objects[key]
	if !ok {
		return nil, nil, errors.New("apptest: objeto inexistente")
	}
	return io.NopCloser(bytes.NewReader(b)), &ports.ObjectInfo{Size: int64(len(b)), ContentType: m.types[key]}, nil
}

func (m *MemoryStorage) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, key)
	return nil
}

// Len número de objetos guardados.
func (m *MemoryStorage) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Objects)
}

// ---- correo ----

// SentMail correo registrado por RecordingMailer.
type SentMail struct {
	To      []string
	Subject string
	Body    string
}

// RecordingMailer implementa ports.Mailer registrando cada intento, incluso los que fallan.
type RecordingMailer struct {
	mu       sync.Mutex
	Attempts []SentMail
	// Fail hace fallar todos los envíos.
	Fail bool
}

var _ ports.Mailer = (*RecordingMailer)(nil)

func (m *RecordingMailer) Send(_ context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts = append(m.Attempts, SentMail{To: append([]string(nil), to...), Subject: subject, Body: body})
	if m.Fail {
		return ErrInjected
	}
	return nil
}

// ---- eventos ----

// Event evento publicado.
type Event struct {
	Name    string
	Payload map[string]interface{}
}

// RecordingPublisher implementa ports.EventPublisher guardando los eventos.
type RecordingPublisher struct {
	mu     sync.Mutex
	Events []Event
}

var _ ports.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(_ context.Context, event string, payload map[string]interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Events = append(p.Events, Event{Name: event, Payload: payload})
}

// Names nombres de los eventos en orden.
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Events))
	for _, e := range p.Events {
		out = append(out, e.Name)
	}
	return out
}

// ---- fixtures ----

// AddUser registra un usuario activo con el rol dado y lo devuelve.
func (s *Store) AddUser(id, username string, role entity.Role) *entity.User {
	u := &entity.User{
		ID:        id,
		Username:  username,
		Email:     username + "@example.com",
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.mu.Lock()
	s.users[id] = clone(u)
	s.mu.Unlock()
	return u
}

// AddCategory registra una categoría activa.
func (s *Store) AddCategory(id, name, slug string) *entity.ServiceCategory {
	c := &entity.ServiceCategory{ID: id, Name: name, Slug: slug, Color: entity.DefaultCategoryColor, IsActive: true}
	s.mu.Lock()
	s.categories[id] = clone(c)
	s.mu.Unlock()
	return c
}

// AddService registra un servicio en la categoría con el estado indicado.
func (s *Store) AddService(id, categoryID, name, status string) *entity.Service {
	sv := &entity.Service{ID: id, CategoryID: categoryID, Name: name, Slug: id, Status: status}
	s.mu.Lock()
	s.services[id] = clone(sv)
	s.mu.Unlock()
	return sv
}

// RequestCount número de solicitudes persistidas.
func (s *Store) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// ContactCount número de mensajes de contacto persistidos.
func (s *Store) ContactCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.contacts)
}

// Clock reloj de prueba que avanza manualmente.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock crea un reloj fijado en t.
func NewClock(t time.Time) *Clock { return &Clock{now: t} }

// Now hora actual del reloj.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance adelanta el reloj d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
