package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// SiteContentUseCase carrusel, equipo, testimonios y certificaciones.
// Lecturas públicas sin actor; escrituras solo admin.
type SiteContentUseCase struct {
	slider         repository.SliderRepository
	team           repository.TeamRepository
	testimonials   repository.TestimonialRepository
	certifications repository.CertificationRepository
}

// NewSiteContentUseCase construye el caso de uso.
func NewSiteContentUseCase(
	slider repository.SliderRepository,
	team repository.TeamRepository,
	testimonials repository.TestimonialRepository,
	certifications repository.CertificationRepository,
) *SiteContentUseCase {
	return &SiteContentUseCase{slider: slider, team: team, testimonials: testimonials, certifications: certifications}
}

// ---- lecturas públicas ----

// ActiveSlides diapositivas activas ordenadas.
func (uc *SiteContentUseCase) ActiveSlides(ctx context.Context) ([]*entity.SliderItem, error) {
	return uc.slider.List(ctx, true)
}

// Team miembros del equipo ordenados.
func (uc *SiteContentUseCase) Team(ctx context.Context) ([]*entity.TeamMember, error) {
	return uc.team.List(ctx)
}

// FeaturedTestimonials hasta limit testimonios destacados.
func (uc *SiteContentUseCase) FeaturedTestimonials(ctx context.Context, limit int) ([]*entity.Testimonial, error) {
	return uc.testimonials.List(ctx, true, limit)
}

// Certifications hasta limit certificaciones (limit <= 0 = todas).
func (uc *SiteContentUseCase) Certifications(ctx context.Context, limit int) ([]*entity.Certification, error) {
	return uc.certifications.List(ctx, limit)
}

// ---- carrusel ----

// AllSlides todas las diapositivas (admin).
func (uc *SiteContentUseCase) AllSlides(ctx context.Context, actor *entity.User) ([]*entity.SliderItem, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return uc.slider.List(ctx, false)
}

// GetSlide diapositiva por ID.
func (uc *SiteContentUseCase) GetSlide(ctx context.Context, actor *entity.User, id string) (*entity.SliderItem, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return found(uc.slider.GetByID(ctx, id))
}

// SaveSlide crea o sobrescribe una diapositiva.
func (uc *SiteContentUseCase) SaveSlide(ctx context.Context, actor *entity.User, id string, in dto.SliderRequest) (*entity.SliderItem, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.SliderItem{CreatedAt: now}
	if id != "" {
		existing, err := found(uc.slider.GetByID(ctx, id))
		if err != nil {
			return nil, err
		}
		s = existing
	}
	s.Title = strings.TrimSpace(in.Title)
	s.Subtitle = strings.TrimSpace(in.Subtitle)
	s.Description = strings.TrimSpace(in.Description)
	s.Image = strings.TrimSpace(in.Image)
	s.ButtonText = strings.TrimSpace(in.ButtonText)
	s.ButtonLink = strings.TrimSpace(in.ButtonLink)
	s.Active = in.Active
	s.Order = in.Order
	s.UpdatedAt = now
	if id == "" {
		s.ID = uuid.New().String()
		return s, uc.slider.Create(ctx, s)
	}
	return s, uc.slider.Update(ctx, s)
}

// DeleteSlide borrado definitivo.
func (uc *SiteContentUseCase) DeleteSlide(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.slider.Delete(ctx, id)
}

// ---- equipo ----

// GetTeamMember miembro por ID.
func (uc *SiteContentUseCase) GetTeamMember(ctx context.Context, actor *entity.User, id string) (*entity.TeamMember, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return found(uc.team.GetByID(ctx, id))
}

// SaveTeamMember crea o sobrescribe un miembro del equipo.
func (uc *SiteContentUseCase) SaveTeamMember(ctx context.Context, actor *entity.User, id string, in dto.TeamMemberRequest) (*entity.TeamMember, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	m := &entity.TeamMember{CreatedAt: now}
	if id != "" {
		existing, err := found(uc.team.GetByID(ctx, id))
		if err != nil {
			return nil, err
		}
		m = existing
	}
	m.Name = strings.TrimSpace(in.Name)
	m.Position = strings.TrimSpace(in.Position)
	m.Bio = strings.TrimSpace(in.Bio)
	m.Photo = strings.TrimSpace(in.Photo)
	m.Email = strings.TrimSpace(in.Email)
	m.LinkedIn = strings.TrimSpace(in.LinkedIn)
	m.Order = in.Order
	m.UpdatedAt = now
	if id == "" {
		m.ID = uuid.New().String()
		return m, uc.team.Create(ctx, m)
	}
	return m, uc.team.Update(ctx, m)
}

// DeleteTeamMember borrado definitivo.
func (uc *SiteContentUseCase) DeleteTeamMember(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.team.Delete(ctx, id)
}

// ---- testimonios ----

// AllTestimonials todos los testimonios (admin).
func (uc *SiteContentUseCase) AllTestimonials(ctx context.Context, actor *entity.User) ([]*entity.Testimonial, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return uc.testimonials.List(ctx, false, 0)
}

// GetTestimonial testimonio por ID.
func (uc *SiteContentUseCase) GetTestimonial(ctx context.Context, actor *entity.User, id string) (*entity.Testimonial, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return found(uc.testimonials.GetByID(ctx, id))
}

// SaveTestimonial crea o sobrescribe un testimonio (rating 1..5).
func (uc *SiteContentUseCase) SaveTestimonial(ctx context.Context, actor *entity.User, id string, in dto.TestimonialRequest) (*entity.Testimonial, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	t := &entity.Testimonial{CreatedAt: now}
	if id != "" {
		existing, err := found(uc.testimonials.GetByID(ctx, id))
		if err != nil {
			return nil, err
		}
		t = existing
	}
	t.ClientName = strings.TrimSpace(in.ClientName)
	t.ClientPosition = strings.TrimSpace(in.ClientPosition)
	t.ClientCompany = strings.TrimSpace(in.ClientCompany)
	t.ClientAvatar = strings.TrimSpace(in.ClientAvatar)
	t.Content = strings.TrimSpace(in.Content)
	t.Rating = in.Rating
	t.ServiceID = nil
	if sid := strings.TrimSpace(in.ServiceID); sid != "" {
		t.ServiceID = &sid
	}
	t.Featured = in.Featured
	t.Order = in.Order
	t.UpdatedAt = now
	if id == "" {
		t.ID = uuid.New().String()
		return t, uc.testimonials.Create(ctx, t)
	}
	return t, uc.testimonials.Update(ctx, t)
}

// DeleteTestimonial borrado definitivo.
func (uc *SiteContentUseCase) DeleteTestimonial(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.testimonials.Delete(ctx, id)
}

// ---- certificaciones ----

// GetCertification certificación por ID.
func (uc *SiteContentUseCase) GetCertification(ctx context.Context, actor *entity.User, id string) (*entity.Certification, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	return found(uc.certifications.GetByID(ctx, id))
}

// SaveCertification crea o sobrescribe una certificación. Code es único.
func (uc *SiteContentUseCase) SaveCertification(ctx context.Context, actor *entity.User, id string, in dto.CertificationRequest) (*entity.Certification, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := time.Now()
	c := &entity.Certification{CreatedAt: now}
	if id != "" {
		existing, err := found(uc.certifications.GetByID(ctx, id))
		if err != nil {
			return nil, err
		}
		c = existing
	}
	c.Name = strings.TrimSpace(in.Name)
	c.Code = strings.TrimSpace(in.Code)
	c.Description = strings.TrimSpace(in.Description)
	c.Image = strings.TrimSpace(in.Image)
	c.Category = strings.TrimSpace(in.Category)
	c.Order = in.Order
	c.UpdatedAt = now
	if id == "" {
		c.ID = uuid.New().String()
		return c, uc.certifications.Create(ctx, c)
	}
	return c, uc.certifications.Update(ctx, c)
}

// DeleteCertification borrado definitivo.
func (uc *SiteContentUseCase) DeleteCertification(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.certifications.Delete(ctx, id)
}

// found convierte el (nil, nil) de los repositorios en ErrNotFound.
func found[T any](v *T, err error) (*T, error) {
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	return v, nil
}
