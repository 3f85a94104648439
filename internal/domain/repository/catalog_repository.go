package repository

import (
	"context"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// ServiceCategoryRepository puerto de persistencia para categorías de servicio.
type ServiceCategoryRepository interface {
	Create(ctx context.Context, c *entity.ServiceCategory) error
	GetByID(ctx context.Context, id string) (*entity.ServiceCategory, error)
	GetBySlug(ctx context.Context, slug string) (*entity.ServiceCategory, error)
	Update(ctx context.Context, c *entity.ServiceCategory) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, activeOnly bool) ([]*entity.ServiceCategory, error)
}

// ServiceRepository puerto de persistencia para servicios del catálogo.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Service, error)
	Update(ctx context.Context, s *entity.Service) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ServiceFilter) ([]*entity.Service, int, error)
	ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*entity.Service, error)
	// IsReferenced indica si alguna solicitud apunta al servicio.
	IsReferenced(ctx context.Context, id string) (bool, error)
}
