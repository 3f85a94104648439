package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// BlogCategoryRepository puerto de persistencia para categorías del blog.
type BlogCategoryRepository interface {
	Create(ctx context.Context, c *entity.BlogCategory) error
	GetByID(ctx context.Context, id string) (*entity.BlogCategory, error)
	Update(ctx context.Context, c *entity.BlogCategory) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.BlogCategory, error)
}

// ArticleRepository puerto de persistencia para artículos del blog.
type ArticleRepository interface {
	Create(ctx context.Context, a *entity.Article) error
	GetByID(ctx context.Context, id string) (*entity.Article, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	Update(ctx context.Context, a *entity.Article) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ArticleFilter) ([]*entity.Article, int, error)
	IncrementViews(ctx context.Context, id string) error
}

// SliderRepository puerto de persistencia para el carrusel.
type SliderRepository interface {
	Create(ctx context.Context, s *entity.SliderItem) error
	GetByID(ctx context.Context, id string) (*entity.SliderItem, error)
	Update(ctx context.Context, s *entity.SliderItem) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*entity.SliderItem, error)
}

// TeamRepository puerto de persistencia para miembros del equipo.
type TeamRepository interface {
	Create(ctx context.Context, m *entity.TeamMember) error
	GetByID(ctx context.Context, id string) (*entity.TeamMember, error)
	Update(ctx context.Context, m *entity.TeamMember) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*entity.TeamMember, error)
}

// TestimonialRepository puerto de persistencia para testimonios.
type TestimonialRepository interface {
	Create(ctx context.Context, t *entity.Testimonial) error
	GetByID(ctx context.Context, id string) (*entity.Testimonial, error)
	Update(ctx context.Context, t *entity.Testimonial) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, featuredOnly bool, limit int) ([]*entity.Testimonial, error)
}

// CertificationRepository puerto de persistencia para certificaciones.
type CertificationRepository interface {
	Create(ctx context.Context, c *entity.Certification) error
	GetByID(ctx context.Context, id string) (*entity.Certification, error)
	Update(ctx context.Context, c *entity.Certification) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit int) ([]*entity.Certification, error)
}

// ContactMessageRepository puerto de persistencia para mensajes del formulario de contacto.
type ContactMessageRepository interface {
	Create(ctx context.Context, m *entity.ContactMessage) error
	GetByID(ctx context.Context, id string) (*entity.ContactMessage, error)
	Update(ctx context.Context, m *entity.ContactMessage) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ContactFilter) ([]*entity.ContactMessage, int, error)
}
