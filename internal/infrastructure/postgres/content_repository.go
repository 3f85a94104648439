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
	_ repository.SliderRepository        = (*SliderRepo)(nil)
	_ repository.TeamRepository          = (*TeamRepo)(nil)
	_ repository.TestimonialRepository   = (*TestimonialRepo)(nil)
	_ repository.CertificationRepository = (*CertificationRepo)(nil)
)

// getRow lee una fila o devuelve (nil, nil) si no existe.
func getRow[T any](ctx context.Context, q Querier, what string, scan func(pgx.Row) (*T, error), query string, args ...any) (*T, error) {
	v, err := scan(q.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", what, err)
	}
	return v, nil
}

func listRows[T any](ctx context.Context, q Querier, what string, scan func(pgx.Row) (*T, error), query string, args ...any) ([]*T, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", what, err)
	}
	defer rows.Close()
	var list []*T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// execUpdate traduce 0 filas afectadas a ErrNotFound.
func execUpdate(ctx context.Context, q Querier, what, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update %s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func execInsert(ctx context.Context, q Querier, what, query string, args ...any) error {
	if _, err := q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert %s: %w", what, err)
	}
	return nil
}

func execDelete(ctx context.Context, q Querier, table, id string) error {
	if _, err := q.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// limitClause LIMIT literal; limit <= 0 = sin límite.
func limitClause(limit int) string {
	if limit <= 0 {
		return ""
	}
	return fmt.Sprintf(" LIMIT %d", limit)
}

// ── Slider ──────────────────────────────────────────────────────────────────

type SliderRepo struct{ q Querier }

func NewSliderRepository(q Querier) *SliderRepo { return &SliderRepo{q: q} }

const sliderColumns = `id, title, subtitle, description, image, button_text, button_link, active, sort_order, created_at, updated_at`

func scanSlide(row pgx.Row) (*entity.SliderItem, error) {
	var s entity.SliderItem
	if err := row.Scan(&s.ID, &s.Title, &s.Subtitle, &s.Description, &s.Image, &s.ButtonText, &s.ButtonLink,
		&s.Active, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SliderRepo) Create(ctx context.Context, s *entity.SliderItem) error {
	return execInsert(ctx, r.q, "slider item", `INSERT INTO slider_items (`+sliderColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.Title, s.Subtitle, s.Description, s.Image, s.ButtonText, s.ButtonLink, s.Active, s.Order,
		s.CreatedAt, s.UpdatedAt)
}

func (r *SliderRepo) GetByID(ctx context.Context, id string) (*entity.SliderItem, error) {
	return getRow(ctx, r.q, "slider item", scanSlide, `SELECT `+sliderColumns+` FROM slider_items WHERE id = $1`, id)
}

func (r *SliderRepo) Update(ctx context.Context, s *entity.SliderItem) error {
	return execUpdate(ctx, r.q, "slider item", `
		UPDATE slider_items SET title = $2, subtitle = $3, description = $4, image = $5, button_text = $6,
			button_link = $7, active = $8, sort_order = $9, updated_at = $10
		WHERE id = $1`,
		s.ID, s.Title, s.Subtitle, s.Description, s.Image, s.ButtonText, s.ButtonLink, s.Active, s.Order, s.UpdatedAt)
}

func (r *SliderRepo) Delete(ctx context.Context, id string) error {
	return execDelete(ctx, r.q, "slider_items", id)
}

func (r *SliderRepo) List(ctx context.Context, activeOnly bool) ([]*entity.SliderItem, error) {
	query := `SELECT ` + sliderColumns + ` FROM slider_items`
	if activeOnly {
		query += ` WHERE active`
	}
	return listRows(ctx, r.q, "slider items", scanSlide, query+` ORDER BY sort_order, created_at`)
}

// ── Équipe ──────────────────────────────────────────────────────────────────

type TeamRepo struct{ q Querier }

func NewTeamRepository(q Querier) *TeamRepo { return &TeamRepo{q: q} }

const teamColumns = `id, name, position, bio, photo, email, linkedin, sort_order, created_at, updated_at`

func scanTeamMember(row pgx.Row) (*entity.TeamMember, error) {
	var m entity.TeamMember
	if err := row.Scan(&m.ID, &m.Name, &m.Position, &m.Bio, &m.Photo, &m.Email, &m.LinkedIn, &m.Order,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *TeamRepo) Create(ctx context.Context, m *entity.TeamMember) error {
	return execInsert(ctx, r.q, "team member", `INSERT INTO team_members (`+teamColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		m.ID, m.Name, m.Position, m.Bio, m.Photo, m.Email, m.LinkedIn, m.Order, m.CreatedAt, m.UpdatedAt)
}

func (r *TeamRepo) GetByID(ctx context.Context, id string) (*entity.TeamMember, error) {
	return getRow(ctx, r.q, "team member", scanTeamMember, `SELECT `+teamColumns+` FROM team_members WHERE id = $1`, id)
}

func (r *TeamRepo) Update(ctx context.Context, m *entity.TeamMember) error {
	return execUpdate(ctx, r.q, "team member", `
		UPDATE team_members SET name = $2, position = $3, bio = $4, photo = $5, email = $6, linkedin = $7,
			sort_order = $8, updated_at = $9
		WHERE id = $1`,
		m.ID, m.Name, m.Position, m.Bio, m.Photo, m.Email, m.LinkedIn, m.Order, m.UpdatedAt)
}

func (r *TeamRepo) Delete(ctx context.Context, id string) error {
	return execDelete(ctx, r.q, "team_members", id)
}

func (r *TeamRepo) List(ctx context.Context) ([]*entity.TeamMember, error) {
	return listRows(ctx, r.q, "team members", scanTeamMember,
		`SELECT `+teamColumns+` FROM team_members ORDER BY sort_order, name`)
}

// ── Témoignages ─────────────────────────────────────────────────────────────

type TestimonialRepo struct{ q Querier }

func NewTestimonialRepository(q Querier) *TestimonialRepo { return &TestimonialRepo{q: q} }

const testimonialColumns = `id, client_name, client_position, client_company, client_avatar, content, rating,
	service_id::text, featured, sort_order, created_at, updated_at`

func scanTestimonial(row pgx.Row) (*entity.Testimonial, error) {
	var t entity.Testimonial
	if err := row.Scan(&t.ID, &t.ClientName, &t.ClientPosition, &t.ClientCompany, &t.ClientAvatar, &t.Content,
		&t.Rating, &t.ServiceID, &t.Featured, &t.Order, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TestimonialRepo) Create(ctx context.Context, t *entity.Testimonial) error {
	return execInsert(ctx, r.q, "testimonial", `
		INSERT INTO testimonials (id, client_name, client_position, client_company, client_avatar, content,
			rating, service_id, featured, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.ClientName, t.ClientPosition, t.ClientCompany, t.ClientAvatar, t.Content,
		t.Rating, t.ServiceID, t.Featured, t.Order, t.CreatedAt, t.UpdatedAt)
}

func (r *TestimonialRepo) GetByID(ctx context.Context, id string) (*entity.Testimonial, error) {
	return getRow(ctx, r.q, "testimonial", scanTestimonial,
		`SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id)
}

func (r *TestimonialRepo) Update(ctx context.Context, t *entity.Testimonial) error {
	return execUpdate(ctx, r.q, "testimonial", `
		UPDATE testimonials SET client_name = $2, client_position = $3, client_company = $4, client_avatar = $5,
			content = $6, rating = $7, service_id = $8, featured = $9, sort_order = $10, updated_at = $11
		WHERE id = $1`,
		t.ID, t.ClientName, t.ClientPosition, t.ClientCompany, t.ClientAvatar, t.Content,
		t.Rating, t.ServiceID, t.Featured, t.Order, t.UpdatedAt)
}

func (r *TestimonialRepo) Delete(ctx context.Context, id string) error {
	return execDelete(ctx, r.q, "testimonials", id)
}

func (r *TestimonialRepo) List(ctx context.Context, featuredOnly bool, limit int) ([]*entity.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonials`
	if featuredOnly {
		query += ` WHERE featured`
	}
	return listRows(ctx, r.q, "testimonials", scanTestimonial, query+` ORDER BY sort_order, created_at DESC`+limitClause(limit))
}

// ── Certifications ──────────────────────────────────────────────────────────

type CertificationRepo struct{ q Querier }

func NewCertificationRepository(q Querier) *CertificationRepo { return &CertificationRepo{q: q} }

const certificationColumns = `id, name, code, description, image, category, sort_order, created_at, updated_at`

func scanCertification(row pgx.Row) (*entity.Certification, error) {
	var c entity.Certification
	if err := row.Scan(&c.ID, &c.Name, &c.Code, &c.Description, &c.Image, &c.Category, &c.Order,
		&c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CertificationRepo) Create(ctx context.Context, c *entity.Certification) error {
	return execInsert(ctx, r.q, "certification", `INSERT INTO certifications (`+certificationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		c.ID, c.Name, c.Code, c.Description, c.Image, c.Category, c.Order, c.CreatedAt, c.UpdatedAt)
}

func (r *CertificationRepo) GetByID(ctx context.Context, id string) (*entity.Certification, error) {
	return getRow(ctx, r.q, "certification", scanCertification,
		`SELECT `+certificationColumns+` FROM certifications WHERE id = $1`, id)
}

func (r *CertificationRepo) Update(ctx context.Context, c *entity.Certification) error {
	return execUpdate(ctx, r.q, "certification", `
		UPDATE certifications SET name = $2, code = $3, description = $4, image = $5, category = $6,
			sort_order = $7, updated_at = $8
		WHERE id = $1`,
		c.ID, c.Name, c.Code, c.Description, c.Image, c.Category, c.Order, c.UpdatedAt)
}

func (r *CertificationRepo) Delete(ctx context.Context, id string) error {
	return execDelete(ctx, r.q, "certifications", id)
}

func (r *CertificationRepo) List(ctx context.Context, limit int) ([]*entity.Certification, error) {
	return listRows(ctx, r.q, "certifications", scanCertification,
		`SELECT `+certificationColumns+` FROM certifications ORDER BY sort_order, name`+limitClause(limit))
}
