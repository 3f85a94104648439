package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var (
	_ repository.ServiceCategoryRepository = (*ServiceCategoryRepo)(nil)
	_ repository.ServiceRepository         = (*ServiceRepo)(nil)
)

// ServiceCategoryRepo categorías del catálogo.
type ServiceCategoryRepo struct {
	q Querier
}

// NewServiceCategoryRepository construye el repositorio de categorías.
func NewServiceCategoryRepository(q Querier) *ServiceCategoryRepo {
	return &ServiceCategoryRepo{q: q}
}

const categoryColumns = `id, name, slug, description, icon, color, sort_order, is_active, created_at, updated_at`

func scanCategory(row pgx.Row) (*entity.ServiceCategory, error) {
	var c entity.ServiceCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.Order,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ServiceCategoryRepo) Create(ctx context.Context, c *entity.ServiceCategory) error {
	_, err := r.q.Exec(ctx, `INSERT INTO service_categories (`+categoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.Order, c.IsActive, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert service category: %w", err)
	}
	return nil
}

func (r *ServiceCategoryRepo) get(ctx context.Context, cond string, arg any) (*entity.ServiceCategory, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM service_categories WHERE `+cond, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get service category: %w", err)
	}
	return c, nil
}

func (r *ServiceCategoryRepo) GetByID(ctx context.Context, id string) (*entity.ServiceCategory, error) {
	return r.get(ctx, "id = $1", id)
}

func (r *ServiceCategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.ServiceCategory, error) {
	return r.get(ctx, "slug = $1", slug)
}

func (r *ServiceCategoryRepo) Update(ctx context.Context, c *entity.ServiceCategory) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE service_categories SET name = $2, slug = $3, description = $4, icon = $5, color = $6,
			sort_order = $7, is_active = $8, updated_at = $9
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.Icon, c.Color, c.Order, c.IsActive, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update service category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete falla con ErrConflict si la categoría todavía tiene servicios.
func (r *ServiceCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM service_categories WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete service category: %w", err)
	}
	return nil
}

// List ordenado por sort_order y nombre.
func (r *ServiceCategoryRepo) List(ctx context.Context, activeOnly bool) ([]*entity.ServiceCategory, error) {
	query := `SELECT ` + categoryColumns + ` FROM service_categories`
	if activeOnly {
		query += ` WHERE is_active`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list service categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.ServiceCategory
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ServiceRepo servicios del catálogo, siempre leídos con su categoría.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el repositorio de servicios.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceSelect = `
	SELECT s.id, s.category_id, s.name, s.slug, s.short_description, s.full_description, s.image, s.icon,
		s.price_starting_from, s.duration, s.status, s.featured, s.sort_order, s.created_at, s.updated_at,
		c.id, c.name, c.slug, c.description, c.icon, c.color, c.sort_order, c.is_active, c.created_at, c.updated_at
	FROM services s
	JOIN service_categories c ON c.id = s.category_id`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	var c entity.ServiceCategory
	err := row.Scan(
		&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.ShortDescription, &s.FullDescription, &s.Image, &s.Icon,
		&s.PriceStartingFrom, &s.Duration, &s.Status, &s.Featured, &s.Order, &s.CreatedAt, &s.UpdatedAt,
		&c.ID, &c.Name, &c.Slug, &c.Description, &c.Icon, &c.Color, &c.Order, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	s.Category = &c
	return &s, nil
}

func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO services (id, category_id, name, slug, short_description, full_description, image, icon,
			price_starting_from, duration, status, featured, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.CategoryID, s.Name, s.Slug, s.ShortDescription, s.FullDescription, s.Image, s.Icon,
		s.PriceStartingFrom, s.Duration, s.Status, s.Featured, s.Order, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

func (r *ServiceRepo) get(ctx context.Context, cond string, arg any) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, serviceSelect+` WHERE `+cond, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}
	return s, nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	return r.get(ctx, "s.id = $1", id)
}

func (r *ServiceRepo) GetBySlug(ctx context.Context, slug string) (*entity.Service, error) {
	return r.get(ctx, "s.slug = $1", slug)
}

func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE services SET category_id = $2, name = $3, slug = $4, short_description = $5,
			full_description = $6, image = $7, icon = $8, price_starting_from = $9, duration = $10,
			status = $11, featured = $12, sort_order = $13, updated_at = $14
		WHERE id = $1`,
		s.ID, s.CategoryID, s.Name, s.Slug, s.ShortDescription, s.FullDescription, s.Image, s.Icon,
		s.PriceStartingFrom, s.Duration, s.Status, s.Featured, s.Order, s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update service: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete: la FK RESTRICT de service_requests protege los servicios referenciados.
func (r *ServiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM services WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete service: %w", err)
	}
	return nil
}

// List ordenado por sort_order y nombre.
func (r *ServiceRepo) List(ctx context.Context, f repository.ServiceFilter) ([]*entity.Service, int, error) {
	w := &where{}
	if f.CategoryID != "" {
		w.add("s.category_id = ?", f.CategoryID)
	}
	if f.CategorySlug != "" {
		w.add("c.slug = ?", f.CategorySlug)
	}
	if f.Status != "" {
		w.add("s.status = ?", f.Status)
	}
	if f.FeaturedOnly {
		w.add("s.featured")
	}
	w.search(f.Search, "s.name", "s.short_description", "s.full_description")

	total, err := w.count(ctx, r.q, "services s JOIN service_categories c ON c.id = s.category_id")
	if err != nil {
		return nil, 0, fmt.Errorf("count services: %w", err)
	}
	limit, args := w.page(f.Page)
	list, err := r.list(ctx, serviceSelect+w.sql()+` ORDER BY s.sort_order, s.name`+limit, args...)
	return list, total, err
}

// ListRelated servicios activos de la misma categoría, excluyendo uno.
func (r *ServiceRepo) ListRelated(ctx context.Context, categoryID, excludeID string, limit int) ([]*entity.Service, error) {
	w := &where{}
	w.add("s.category_id = ?", categoryID)
	w.add("s.status = ?", entity.ServiceStatusActive)
	if excludeID != "" {
		w.add("s.id <> ?", excludeID)
	}
	lim, args := w.page(repository.Page{Limit: limit})
	return r.list(ctx, serviceSelect+w.sql()+` ORDER BY s.sort_order, s.name`+lim, args...)
}

func (r *ServiceRepo) IsReferenced(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM service_requests WHERE service_id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("service referenced: %w", err)
	}
	return exists, nil
}

func (r *ServiceRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()
	var list []*entity.Service
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("scan service: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
