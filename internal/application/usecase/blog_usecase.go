package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/policy"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/pkg/logger"
	"github.com/uranusgroup/uranus-web/pkg/slug"
)

// BlogUseCase blog público y su CRUD del back-office.
type BlogUseCase struct {
	categories repository.BlogCategoryRepository
	articles   repository.ArticleRepository
	log        *logger.Logger
	now        func() time.Time
}

// NewBlogUseCase construye el caso de uso.
func NewBlogUseCase(categories repository.BlogCategoryRepository, articles repository.ArticleRepository, log *logger.Logger) *BlogUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &BlogUseCase{categories: categories, articles: articles, log: log.Component("blog"), now: time.Now}
}

// WithClock sustituye el reloj (tests).
func (uc *BlogUseCase) WithClock(now func() time.Time) *BlogUseCase {
	uc.now = now
	return uc
}

// ListPublished artículos publicados, más recientes primero, con filtro de categoría y búsqueda.
func (uc *BlogUseCase) ListPublished(ctx context.Context, q dto.ArticleListQuery) (*dto.ArticleListResponse, error) {
	q.DefaultPage()
	items, total, err := uc.articles.List(ctx, repository.ArticleFilter{
		Status:       entity.ArticlePublished,
		CategorySlug: strings.TrimSpace(q.Category),
		Search:       strings.TrimSpace(q.Search),
		Page:         repository.Page{Limit: q.Limit, Offset: q.Offset},
	})
	if err != nil {
		return nil, fmt.Errorf("blog: listar: %w", err)
	}
	out := &dto.ArticleListResponse{
		Items: make([]dto.ArticleResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Total: total},
	}
	for _, a := range items {
		out.Items = append(out.Items, ToArticleResponse(a, false))
	}
	return out, nil
}

// Featured hasta limit artículos publicados destacados.
func (uc *BlogUseCase) Featured(ctx context.Context, limit int) ([]dto.ArticleResponse, error) {
	items, _, err := uc.articles.List(ctx, repository.ArticleFilter{
		Status:       entity.ArticlePublished,
		FeaturedOnly: true,
		Page:         repository.Page{Limit: limit},
	})
	if err != nil {
		return nil, fmt.Errorf("blog: destacados: %w", err)
	}
	out := make([]dto.ArticleResponse, 0, len(items))
	for _, a := range items {
		out = append(out, ToArticleResponse(a, false))
	}
	return out, nil
}

// GetPublished detalle por slug; cada lectura incrementa views_count.
// Un artículo no publicado se trata como inexistente.
func (uc *BlogUseCase) GetPublished(ctx context.Context, s string) (*dto.ArticleResponse, error) {
	a, err := uc.articles.GetBySlug(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("blog: obtener: %w", err)
	}
	if a == nil || a.Status != entity.ArticlePublished {
		return nil, domain.ErrNotFound
	}
	if err := uc.articles.IncrementViews(ctx, a.ID); err != nil {
		uc.log.Warn().Err(err).Str("article", a.ID).Msg("no se pudo incrementar el contador de vistas")
	} else {
		a.ViewsCount++
	}
	out := ToArticleResponse(a, true)
	return &out, nil
}

// Categories categorías del blog ordenadas.
func (uc *BlogUseCase) Categories(ctx context.Context) ([]*entity.BlogCategory, error) {
	return uc.categories.List(ctx)
}

// ---- back-office ----

// ListArticles listado del back-office con todos los estados.
func (uc *BlogUseCase) ListArticles(ctx context.Context, actor *entity.User, f repository.ArticleFilter) ([]*entity.Article, int, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, 0, err
	}
	return uc.articles.List(ctx, f)
}

// GetArticle artículo por ID en cualquier estado.
func (uc *BlogUseCase) GetArticle(ctx context.Context, actor *entity.User, id string) (*entity.Article, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	a, err := uc.articles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// SaveArticle crea o sobrescribe un artículo. published_at se fija en la primera publicación
// y no se borra al despublicar.
func (uc *BlogUseCase) SaveArticle(ctx context.Context, actor *entity.User, id string, in dto.ArticleRequest) (*entity.Article, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var categoryID *string
	if in.CategoryID != "" {
		c, err := uc.categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return nil, err
		}
		if c == nil {
			return nil, fmt.Errorf("%w: categoría inexistente", domain.ErrInvalidInput)
		}
		categoryID = &c.ID
	}

	now := uc.now()
	a := &entity.Article{AuthorID: actor.ID, Status: entity.ArticleDraft, CreatedAt: now}
	if id != "" {
		existing, err := uc.articles.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, domain.ErrNotFound
		}
		a = existing
	}
	a.Title = in.Title
	a.Slug = slug.OrDefault(in.Slug, in.Title)
	a.CategoryID = categoryID
	a.Excerpt = strings.TrimSpace(in.Excerpt)
	a.Content = in.Content
	a.FeaturedImage = strings.TrimSpace(in.FeaturedImage)
	a.Featured = in.Featured
	status := in.Status
	if status == "" {
		status = entity.ArticleDraft
	}
	a.SetStatus(status, now)
	a.UpdatedAt = now
	if id == "" {
		a.ID = uuid.New().String()
		return a, uc.articles.Create(ctx, a)
	}
	return a, uc.articles.Update(ctx, a)
}

// DeleteArticle borrado definitivo.
func (uc *BlogUseCase) DeleteArticle(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.articles.Delete(ctx, id)
}

// GetCategory categoría del blog por ID.
func (uc *BlogUseCase) GetCategory(ctx context.Context, actor *entity.User, id string) (*entity.BlogCategory, error) {
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

// SaveCategory crea o sobrescribe una categoría del blog.
func (uc *BlogUseCase) SaveCategory(ctx context.Context, actor *entity.User, id string, in dto.BlogCategoryRequest) (*entity.BlogCategory, error) {
	if err := policy.Admin(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	now := uc.now()
	c := &entity.BlogCategory{CreatedAt: now}
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
	c.Color = in.Color
	if c.Color == "" {
		c.Color = entity.DefaultCategoryColor
	}
	c.Order = in.Order
	c.UpdatedAt = now
	if id == "" {
		c.ID = uuid.New().String()
		return c, uc.categories.Create(ctx, c)
	}
	return c, uc.categories.Update(ctx, c)
}

// DeleteCategory borrado definitivo; los artículos quedan sin categoría.
func (uc *BlogUseCase) DeleteCategory(ctx context.Context, actor *entity.User, id string) error {
	if err := policy.Admin(actor); err != nil {
		return err
	}
	return uc.categories.Delete(ctx, id)
}

// ToArticleResponse mapea la entidad al DTO; withContent incluye el cuerpo completo.
func ToArticleResponse(a *entity.Article, withContent bool) dto.ArticleResponse {
	out := dto.ArticleResponse{
		ID:            a.ID,
		Title:         a.Title,
		Slug:          a.Slug,
		Author:        a.AuthorUsername,
		Category:      a.CategoryName,
		CategorySlug:  a.CategorySlug,
		Excerpt:       a.Excerpt,
		FeaturedImage: a.FeaturedImage,
		Status:        a.Status,
		Featured:      a.Featured,
		ViewsCount:    a.ViewsCount,
		PublishedAt:   a.PublishedAt,
	}
	if withContent {
		out.Content = a.Content
	}
	return out
}
