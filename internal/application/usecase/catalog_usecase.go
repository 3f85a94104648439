package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/slug"
)

// RelatedServicesLimit servicios relacionados mostrados en el detalle.
const RelatedServicesLimit = 4

// CatalogUseCase catálogo de servicios: lectura pública y CRUD del back-office.
type CatalogUseCase struct {
	categories repository.ServiceCategoryRepository
	services   repository.ServiceRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(categories repository.ServiceCategoryRepository, services repository.ServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{categories: categories, services: services}
}

// ListCategories categorías activas ordenadas (público).
func (uc *CatalogUseCase) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	items, err := uc.categories.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar categorías: %w", err)
	}
	out := make([]dto.CategoryResponse, 0, len(items))
	for _, c := range items {
		out = append(out, *ToCategoryResponse(c))
	}
	return out, nil
}

// ListActive servicios activos con filtro opcional por slug de categoría y búsqueda (público).
func (uc *CatalogUseCase) ListActive(ctx context.Context, categorySlug, search string, page dto.PageRequest) (*dto.ServiceListResponse, error) {
	page.DefaultPage()
	items, total, err := uc.services.List(ctx, repository.ServiceFilter{
		CategorySlug: strings.TrimSpace(categorySlug),
		Status:       entity.ServiceStatusActive,
		Search:       strings.TrimSpace(search),
		Page:         repository.Page{Limit: page.Limit, Offset: page.Offset},
	})
	if err != nil {
		return nil, fmt.Errorf("catálogo: listar servicios: %w", err)
	}
	return &dto.ServiceListResponse{
		Items: toServiceResponses(items),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListByCategory hasta limit servicios activos de una categoría (portada).
func (uc *CatalogUseCase) ListByCategory(ctx context.Context, categorySlug string, limit int) ([]dto.ServiceResponse, error) {
	items, _, err := uc.services.List(ctx, repository.ServiceFilter{
		CategorySlug: categorySlug,
		Status:       entity.ServiceStatusActive,
		Page:         repository.Page{Limit: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("catálogo: servicios de %s: %w", categorySlug, err)
	}
	return toServiceResponses(items), nil
}

// GetActiveBySlug detalle público con hasta RelatedServicesLimit servicios de la misma categoría.
// Un servicio inactivo se trata como inexistente.
func (uc *CatalogUseCase) GetActiveBySlug(ctx context.Context, s string) (*dto.ServiceDetailResponse, error) {
	svc, err := uc.services.GetBySlug(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("catálogo: obtener servicio: %w", err)
	}
	return uc.detail(ctx, svc)
}

// GetActiveByID igual que GetActiveBySlug pero por ID (API).
func (uc *CatalogUseCase) GetActiveByID(ctx context.Context, id string) (*dto.ServiceDetailResponse, error) {
	svc, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("catálogo: obtener servicio: %w", err)
	}
	return uc.detail(ctx, svc)
}

func (uc *CatalogUseCase) detail(ctx context.Context, svc *entity.Service) (*dto.ServiceDetailResponse, error) {
	if svc == nil || !svc.IsActive() {
		return nil, domain.ErrNotFound
	}
	related, err := uc.services.ListRelated(ctx, svc.CategoryID, svc.ID, RelatedServicesLimit)
	if err != nil {
		return nil, fmt.Errorf("catálogo: relacionados: %w", err)
	}
	return &dto.ServiceDetailResponse{
		Service: *ToServiceResponse(svc),
		Related: toServiceResponses(related),
	}, nil
}

// ---- back-office ----

// AllCategories todas las categorías, activas o no (staff).
func (uc *CatalogUseCase) AllCategories(ctx context.Context, actor *entity.User) ([]*entity.ServiceCategory, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	return uc.categories.List(ctx, false)
}

// GetCategory categoría por ID (admin).
func (uc *CatalogUseCase) GetCategory(ctx context.Context, actor *entity.User, id string) (*entity.ServiceCategory, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	c, err := uc.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

// SaveCategory crea (id vacío) o sobrescribe una categoría. El slug se genera del nombre si falta.
func (uc *CatalogUseCase) SaveCategory(ctx context.Context, actor *entity.User, id string, in dto.CategoryRequest) (*entity.ServiceCategory, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.ServiceCategory{ID: id, CreatedAt: now}
	if id != "" {
		existing, err := uc.categories.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		c = existing
	}
	c.Name = in.Name
	c.Slug = slug.OrDefault(in.Slug, in.Name)
	c.Description = strings.TrimSpace(in.Description)
	c.Icon = strings.TrimSpace(in.Icon)
	c.Color = in.Color
	if c.Color == "" {
		c.Color = entity.DefaultCategoryColor
	}
	c.Order = in.Order
	c.IsActive = in.IsActive
	c.UpdatedAt = now
	if id == "" {
		c.ID = uuid.New().String()
		err := uc.categories.Create(ctx, c)
		return c, err
	}
	return c, uc.categories.Update(ctx, c)
}

// DeleteCategory borra una categoría sin servicios.
func (uc *CatalogUseCase) DeleteCategory(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	_, total, err := uc.services.List(ctx, repository.ServiceFilter{CategoryID: id, Page: repository.Page{Limit: 1}})
	if err != nil {
		return err
	}
	if total > 0 {
		return fmt.Errorf("%w: la categoría tiene servicios", domain.ErrConflict)
	}
	return uc.categories.Delete(ctx, id)
}

// ListServices listado del back-office con filtros de categoría, estado y búsqueda.
func (uc *CatalogUseCase) ListServices(ctx context.Context, actor *entity.User, f repository.ServiceFilter) ([]*entity.Service, int, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, 0, err
	}
	return uc.services.List(ctx, f)
}

// GetService servicio por ID, activo o no (staff).
func (uc *CatalogUseCase) GetService(ctx context.Context, actor *entity.User, id string) (*entity.Service, error) {
	if err := policy.Staff(actor); err != nil {
		return nil, err
	}
	svc, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return nil, domain.ErrNotFound
	}
	return svc, nil
}

// SaveService crea o sobrescribe un servicio. Un servicio referenciado por solicitudes
// no puede cambiar de categoría.
func (uc *CatalogUseCase) SaveService(ctx context.Context, actor *entity.User, id string, in dto.ServiceRequestBody) (*entity.Service, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.PriceStartingFrom = strings.TrimSpace(in.PriceStartingFrom)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	cat, err := uc.categories.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
	}
	price := decimal.NullDecimal{}
	if in.PriceStartingFrom != "" {
		d, err := decimal.NewFromString(in.PriceStartingFrom)
		if err != nil || d.IsNegative() {
			return nil, fmt.Errorf("%w: precio inválido", domain.ErrInvalidInput)
		}
		price = decimal.NullDecimal{Decimal: d, Valid: true}
	}

	now := time.Now()
	svc := &entity.Service{CreatedAt: now}
	if id != "" {
		existing, err := uc.services.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		if existing.CategoryID != in.CategoryID {
			ref, err := uc.services.IsReferenced(ctx, id)
			if err != nil {
				return nil, err
			}
			if ref {
				return nil, fmt.Errorf("%w: el servicio tiene solicitudes y no puede cambiar de categoría", domain.ErrConflict)
			}
		}
		svc = existing
	}
	svc.CategoryID = cat.ID
	svc.Name = in.Name
	svc.Slug = slug.OrDefault(in.Slug, in.Name)
	svc.ShortDescription = strings.TrimSpace(in.ShortDescription)
	svc.FullDescription = strings.TrimSpace(in.FullDescription)
	svc.Image = strings.TrimSpace(in.Image)
	svc.Icon = strings.TrimSpace(in.Icon)
	svc.PriceStartingFrom = price
	svc.Duration = strings.TrimSpace(in.Duration)
	svc.Status = in.Status
	if svc.Status == "" {
		svc.Status = entity.ServiceStatusActive
	}
	svc.Featured = in.Featured
	svc.Order = in.Order
	svc.UpdatedAt = now
	svc.Category = cat
	if id == "" {
		svc.ID = uuid.New().String()
		err := uc.services.Create(ctx, svc)
		return svc, err
	}
	return svc, uc.services.Update(ctx, svc)
}

// DeleteService borra un servicio que ninguna solicitud referencia.
func (uc *CatalogUseCase) DeleteService(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	ref, err := uc.services.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if ref {
		return fmt.Errorf("%w: el servicio tiene solicitudes", domain.ErrConflict)
	}
	return uc.services.Delete(ctx, id)
}

// ToCategoryResponse mapea la entidad al DTO.
func ToCategoryResponse(c *entity.ServiceCategory) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		Order:       c.Order,
		IsActive:    c.IsActive,
	}
}

// ToServiceResponse mapea la entidad al DTO con su categoría.
func ToServiceResponse(s *entity.Service) *dto.ServiceResponse {
	out := &dto.ServiceResponse{
		ID:               s.ID,
		Name:             s.Name,
		Slug:             s.Slug,
		ShortDescription: s.ShortDescription,
		FullDescription:  s.FullDescription,
		Image:            s.Image,
		Icon:             s.Icon,
		Duration:         s.Duration,
		Status:           s.Status,
		Featured:         s.Featured,
		Order:            s.Order,
		Category:         ToCategoryResponse(s.Category),
		CreatedAt:        s.CreatedAt,
	}
	if s.PriceStartingFrom.Valid {
		p := s.PriceStartingFrom.Decimal
		out.PriceStartingFrom = &p
	}
	return out
}

func toServiceResponses(items []*entity.Service) []dto.ServiceResponse {
	out := make([]dto.ServiceResponse, 0, len(items))
	for _, s := range items {
		out = append(out, *ToServiceResponse(s))
	}
	return out
}
