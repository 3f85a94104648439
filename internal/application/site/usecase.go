// Package site compone las páginas públicas que agregan varias fuentes (portada, "À propos",
// espacio cliente) y el sitemap.
package site

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// Límites de la portada y del espacio cliente.
const (
	HomeServicesPerCategory = 6
	HomeCertifications      = 8
	HomeTestimonials        = 6
	HomeArticles            = 3
	DashboardRequests       = 5
	DashboardNotifications  = 5
)

// SitemapEncoder serializa las entradas del sitemap.
type SitemapEncoder interface {
	Encode(entries []dto.SitemapEntry) ([]byte, error)
}

// Deps dependencias del caso de uso.
type Deps struct {
	Catalog       *usecase.CatalogUseCase
	Blog          *usecase.BlogUseCase
	Content       *usecase.SiteContentUseCase
	Requests      *workflow.RequestUseCase
	Notifications *notification.UseCase
	Services      repository.ServiceRepository
	Articles      repository.ArticleRepository
	Sitemap       SitemapEncoder
	BaseURL       string
}

// UseCase agregación de páginas públicas.
type UseCase struct {
	d   Deps
	now func() time.Time
}

// NewUseCase construye el caso de uso.
func NewUseCase(d Deps) *UseCase {
	d.BaseURL = strings.TrimRight(d.BaseURL, "/")
	return &UseCase{d: d, now: time.Now}
}

// Home carrusel activo, servicios QHSE e informática, certificaciones y testimonios destacados.
func (uc *UseCase) Home(ctx context.Context) (*dto.HomePage, error) {
	var (
		out = &dto.HomePage{}
		err error
	)
	if out.Slides, err = uc.d.Content.ActiveSlides(ctx); err != nil {
		return nil, fmt.Errorf("portada: carrusel: %w", err)
	}
	if out.QHSEServices, err = uc.d.Catalog.ListByCategory(ctx, entity.CategorySlugQHSE, HomeServicesPerCategory); err != nil {
		return nil, fmt.Errorf("portada: servicios qhse: %w", err)
	}
	if out.ITServices, err = uc.d.Catalog.ListByCategory(ctx, entity.CategorySlugInformatique, HomeServicesPerCategory); err != nil {
		return nil, fmt.Errorf("portada: servicios informática: %w", err)
	}
	if out.Certifications, err = uc.d.Content.Certifications(ctx, HomeCertifications); err != nil {
		return nil, fmt.Errorf("portada: certificaciones: %w", err)
	}
	if out.Testimonials, err = uc.d.Content.FeaturedTestimonials(ctx, HomeTestimonials); err != nil {
		return nil, fmt.Errorf("portada: testimonios: %w", err)
	}
	if uc.d.Blog != nil {
		if out.FeaturedArticles, err = uc.d.Blog.Featured(ctx, HomeArticles); err != nil {
			return nil, fmt.Errorf("portada: artículos: %w", err)
		}
	}
	return out, nil
}

// About equipo y certificaciones.
func (uc *UseCase) About(ctx context.Context) (*dto.AboutPage, error) {
	team, err := uc.d.Content.Team(ctx)
	if err != nil {
		return nil, fmt.Errorf("about: equipo: %w", err)
	}
	certs, err := uc.d.Content.Certifications(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("about: certificaciones: %w", err)
	}
	return &dto.AboutPage{Team: team, Certifications: certs}, nil
}

// ClientDashboard últimas solicitudes propias y notificaciones sin leer.
func (uc *UseCase) ClientDashboard(ctx context.Context, actor *entity.User) (*dto.ClientDashboard, error) {
	if err := policy.Authenticated(actor); err != nil {
		return nil, err
	}
	reqs, err := uc.d.Requests.ListForClient(ctx, actor, DashboardRequests)
	if err != nil {
		return nil, err
	}
	notes, err := uc.d.Notifications.List(ctx, actor.ID, true, dto.PageRequest{Limit: DashboardNotifications})
	if err != nil {
		return nil, err
	}
	return &dto.ClientDashboard{
		Requests:      reqs,
		Notifications: notes.Items,
		UnreadCount:   notes.Unread,
	}, nil
}

// staticPages rutas fijas del sitio con su prioridad.
var staticPages = []struct {
	path     string
	freq     string
	priority float64
}{
	{"/", "weekly", 1.0},
	{"/about", "monthly", 0.8},
	{"/services", "weekly", 0.9},
	{"/blog", "daily", 0.8},
	{"/contact", "yearly", 0.5},
}

// Sitemap páginas fijas, servicios activos y artículos publicados.
func (uc *UseCase) Sitemap(ctx context.Context) ([]byte, error) {
	now := uc.now()
	entries := make([]dto.SitemapEntry, 0, len(staticPages))
	for _, p := range staticPages {
		entries = append(entries, dto.SitemapEntry{Loc: uc.d.BaseURL + p.path, LastMod: now, ChangeFreq: p.freq, Priority: p.priority})
	}

	services, _, err := uc.d.Services.List(ctx, repository.ServiceFilter{Status: entity.ServiceStatusActive})
	if err != nil {
		return nil, fmt.Errorf("sitemap: servicios: %w", err)
	}
	for _, s := range services {
		entries = append(entries, dto.SitemapEntry{
			Loc: uc.d.BaseURL + "/services/" + s.Slug, LastMod: s.UpdatedAt, ChangeFreq: "monthly", Priority: 0.7,
		})
	}

	articles, _, err := uc.d.Articles.List(ctx, repository.ArticleFilter{Status: entity.ArticlePublished})
	if err != nil {
		return nil, fmt.Errorf("sitemap: artículos: %w", err)
	}
	for _, a := range articles {
		entries = append(entries, dto.SitemapEntry{
			Loc: uc.d.BaseURL + "/blog/" + a.Slug, LastMod: a.UpdatedAt, ChangeFreq: "monthly", Priority: 0.6,
		})
	}
	return uc.d.Sitemap.Encode(entries)
}

// WithClock sustituye el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}
