package apptest

import (
	"context"
	"sort"
	"sync"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

// ContentStore repositorios en memoria del blog y del contenido del sitio.
type ContentStore struct {
	mu sync.Mutex

	blogCategories map[string]*entity.BlogCategory
	articles       map[string]*entity.Article
	slides         map[string]*entity.SliderItem
	team           map[string]*entity.TeamMember
	testimonials   map[string]*entity.Testimonial
	certifications map[string]*entity.Certification
}

// NewContentStore crea un ContentStore vacío.
func NewContentStore() *ContentStore {
	return &ContentStore{
		blogCategories: map[string]*entity.BlogCategory{},
		articles:       map[string]*entity.Article{},
		slides:         map[string]*entity.SliderItem{},
		team:           map[string]*entity.TeamMember{},
		testimonials:   map[string]*entity.Testimonial{},
		certifications: map[string]*entity.Certification{},
	}
}

// BlogCategories repositorio de categorías del blog.
func (c *ContentStore) BlogCategories() *BlogCategoryRepo { return &BlogCategoryRepo{c} }

// Articles repositorio de artículos.
func (c *ContentStore) Articles() *ArticleRepo { return &ArticleRepo{c} }

// Slides repositorio del carrusel.
func (c *ContentStore) Slides() *SliderRepo { return &SliderRepo{c} }

// Team repositorio del equipo.
func (c *ContentStore) Team() *TeamRepo { return &TeamRepo{c} }

// Testimonials repositorio de testimonios.
func (c *ContentStore) Testimonials() *TestimonialRepo { return &TestimonialRepo{c} }

// Certifications repositorio de certificaciones.
func (c *ContentStore) Certifications() *CertificationRepo { return &CertificationRepo{c} }

func byOrder[T any](items []*T, order func(*T) int, name func(*T) string) {
	sort.Slice(items, func(i, j int) bool {
		if order(items[i]) != order(items[j]) {
			return order(items[i]) < order(items[j])
		}
		return name(items[i]) < name(items[j])
	})
}

func limitTo[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// ---- blog ----

// BlogCategoryRepo implementa repository.BlogCategoryRepository.
type BlogCategoryRepo struct{ c *ContentStore }

var _ repository.BlogCategoryRepository = (*BlogCategoryRepo)(nil)

func (r *BlogCategoryRepo) Create(_ context.Context, bc *entity.BlogCategory) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, x := range r.c.blogCategories {
		if x.Slug == bc.Slug {
			return domain.ErrDuplicate
		}
	}
	r.c.blogCategories[bc.ID] = clone(bc)
	return nil
}

func (r *BlogCategoryRepo) GetByID(_ context.Context, id string) (*entity.BlogCategory, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if bc, ok := r.c.blogCategories[id]; ok {
		return clone(bc), nil
	}
	return nil, nil
}

func (r *BlogCategoryRepo) Update(_ context.Context, bc *entity.BlogCategory) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.blogCategories[bc.ID] = clone(bc)
	return nil
}

func (r *BlogCategoryRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.blogCategories, id)
	for _, a := range r.c.articles {
		if a.CategoryID != nil && *a.CategoryID == id {
			a.CategoryID = nil
		}
	}
	return nil
}

func (r *BlogCategoryRepo) List(_ context.Context) ([]*entity.BlogCategory, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.BlogCategory
	for _, bc := range r.c.blogCategories {
		out = append(out, clone(bc))
	}
	byOrder(out, func(x *entity.BlogCategory) int { return x.Order }, func(x *entity.BlogCategory) string { return x.Name })
	return out, nil
}

// ArticleRepo implementa repository.ArticleRepository.
type ArticleRepo struct{ c *ContentStore }

var _ repository.ArticleRepository = (*ArticleRepo)(nil)

func (r *ArticleRepo) hydrate(a *entity.Article) *entity.Article {
	out := clone(a)
	out.CategoryName, out.CategorySlug = "", ""
	if a.CategoryID != nil {
		if bc, ok := r.c.blogCategories[*a.CategoryID]; ok {
			out.CategoryName, out.CategorySlug = bc.Name, bc.Slug
		}
	}
	return out
}

func (r *ArticleRepo) Create(_ context.Context, a *entity.Article) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, x := range r.c.articles {
		if x.Slug == a.Slug {
			return domain.ErrDuplicate
		}
	}
	r.c.articles[a.ID] = clone(a)
	return nil
}

func (r *ArticleRepo) GetByID(_ context.Context, id string) (*entity.Article, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if a, ok := r.c.articles[id]; ok {
		return r.hydrate(a), nil
	}
	return nil, nil
}

func (r *ArticleRepo) GetBySlug(_ context.Context, slug string) (*entity.Article, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, a := range r.c.articles {
		if a.Slug == slug {
			return r.hydrate(a), nil
		}
	}
	return nil, nil
}

func (r *ArticleRepo) Update(_ context.Context, a *entity.Article) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, x := range r.c.articles {
		if x.ID != a.ID && x.Slug == a.Slug {
			return domain.ErrDuplicate
		}
	}
	r.c.articles[a.ID] = clone(a)
	return nil
}

func (r *ArticleRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.articles, id)
	return nil
}

func (r *ArticleRepo) List(_ context.Context, f repository.ArticleFilter) ([]*entity.Article, int, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.Article
	for _, a := range r.c.articles {
		h := r.hydrate(a)
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.CategorySlug != "" && h.CategorySlug != f.CategorySlug {
			continue
		}
		if f.FeaturedOnly && !a.Featured {
			continue
		}
		if f.Search != "" && !contains(a.Title+" "+a.Excerpt+" "+a.Content, f.Search) {
			continue
		}
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginate(out, f.Page), len(out), nil
}

func (r *ArticleRepo) IncrementViews(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if a, ok := r.c.articles[id]; ok {
		a.ViewsCount++
	}
	return nil
}

// ---- contenido del sitio ----

// SliderRepo implementa repository.SliderRepository.
type SliderRepo struct{ c *ContentStore }

var _ repository.SliderRepository = (*SliderRepo)(nil)

func (r *SliderRepo) Create(_ context.Context, s *entity.SliderItem) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.slides[s.ID] = clone(s)
	return nil
}

func (r *SliderRepo) GetByID(_ context.Context, id string) (*entity.SliderItem, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if s, ok := r.c.slides[id]; ok {
		return clone(s), nil
	}
	return nil, nil
}

func (r *SliderRepo) Update(_ context.Context, s *entity.SliderItem) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.slides[s.ID] = clone(s)
	return nil
}

func (r *SliderRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.slides, id)
	return nil
}

func (r *SliderRepo) List(_ context.Context, activeOnly bool) ([]*entity.SliderItem, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.SliderItem
	for _, s := range r.c.slides {
		if activeOnly && !s.Active {
			continue
		}
		out = append(out, clone(s))
	}
	byOrder(out, func(x *entity.SliderItem) int { return x.Order }, func(x *entity.SliderItem) string { return x.Title })
	return out, nil
}

// TeamRepo implementa repository.TeamRepository.
type TeamRepo struct{ c *ContentStore }

var _ repository.TeamRepository = (*TeamRepo)(nil)

func (r *TeamRepo) Create(_ context.Context, m *entity.TeamMember) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.team[m.ID] = clone(m)
	return nil
}

func (r *TeamRepo) GetByID(_ context.Context, id string) (*entity.TeamMember, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if m, ok := r.c.team[id]; ok {
		return clone(m), nil
	}
	return nil, nil
}

func (r *TeamRepo) Update(_ context.Context, m *entity.TeamMember) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.team[m.ID] = clone(m)
	return nil
}

func (r *TeamRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.team, id)
	return nil
}

func (r *TeamRepo) List(_ context.Context) ([]*entity.TeamMember, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.TeamMember
	for _, m := range r.c.team {
		out = append(out, clone(m))
	}
	byOrder(out, func(x *entity.TeamMember) int { return x.Order }, func(x *entity.TeamMember) string { return x.Name })
	return out, nil
}

// TestimonialRepo implementa repository.TestimonialRepository.
type TestimonialRepo struct{ c *ContentStore }

var _ repository.TestimonialRepository = (*TestimonialRepo)(nil)

func (r *TestimonialRepo) Create(_ context.Context, t *entity.Testimonial) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.testimonials[t.ID] = clone(t)
	return nil
}

func (r *TestimonialRepo) GetByID(_ context.Context, id string) (*entity.Testimonial, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if t, ok := r.c.testimonials[id]; ok {
		return clone(t), nil
	}
	return nil, nil
}

func (r *TestimonialRepo) Update(_ context.Context, t *entity.Testimonial) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.testimonials[t.ID] = clone(t)
	return nil
}

func (r *TestimonialRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.testimonials, id)
	return nil
}

func (r *TestimonialRepo) List(_ context.Context, featuredOnly bool, limit int) ([]*entity.Testimonial, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.Testimonial
	for _, t := range r.c.testimonials {
		if featuredOnly && !t.Featured {
			continue
		}
		out = append(out, clone(t))
	}
	byOrder(out, func(x *entity.Testimonial) int { return x.Order }, func(x *entity.Testimonial) string { return x.ClientName })
	return limitTo(out, limit), nil
}

// CertificationRepo implementa repository.CertificationRepository.
type CertificationRepo struct{ c *ContentStore }

var _ repository.CertificationRepository = (*CertificationRepo)(nil)

func (r *CertificationRepo) Create(_ context.Context, ce *entity.Certification) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	for _, x := range r.c.certifications {
		if x.Code == ce.Code {
			return domain.ErrDuplicate
		}
	}
	r.c.certifications[ce.ID] = clone(ce)
	return nil
}

func (r *CertificationRepo) GetByID(_ context.Context, id string) (*entity.Certification, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	if ce, ok := r.c.certifications[id]; ok {
		return clone(ce), nil
	}
	return nil, nil
}

func (r *CertificationRepo) Update(_ context.Context, ce *entity.Certification) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	r.c.certifications[ce.ID] = clone(ce)
	return nil
}

func (r *CertificationRepo) Delete(_ context.Context, id string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	delete(r.c.certifications, id)
	return nil
}

func (r *CertificationRepo) List(_ context.Context, limit int) ([]*entity.Certification, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()
	var out []*entity.Certification
	for _, ce := range r.c.certifications {
		out = append(out, clone(ce))
	}
	byOrder(out, func(x *entity.Certification) int { return x.Order }, func(x *entity.Certification) string { return x.Name })
	return limitTo(out, limit), nil
}

// ---- tablero ----

// Dashboard implementa repository.DashboardRepository sobre el Store y un ContentStore opcional.
type Dashboard struct {
	S *Store
	C *ContentStore
}

var _ repository.DashboardRepository = (*Dashboard)(nil)

func (d *Dashboard) CountRows(_ context.Context, table string) (int, error) {
	switch table {
	case "articles":
		if d.C == nil {
			return 0, nil
		}
		d.C.mu.Lock()
		defer d.C.mu.Unlock()
		return len(d.C.articles), nil
	}
	d.S.mu.Lock()
	defer d.S.mu.Unlock()
	switch table {
	case "users":
		return len(d.S.users), nil
	case "services":
		return len(d.S.services), nil
	case "service_requests":
		return len(d.S.requests), nil
	}
	return 0, domain.ErrInvalidInput
}

func (d *Dashboard) RequestsByStatus(_ context.Context) ([]entity.CountByKey, error) {
	d.S.mu.Lock()
	defer d.S.mu.Unlock()
	counts := map[string]int{}
	for _, r := range d.S.requests {
		counts[string(r.Status)]++
	}
	return sortedCounts(counts), nil
}

func (d *Dashboard) UsersByRole(_ context.Context) ([]entity.CountByKey, error) {
	d.S.mu.Lock()
	defer d.S.mu.Unlock()
	counts := map[string]int{}
	for _, u := range d.S.users {
		counts[string(u.Role)]++
	}
	return sortedCounts(counts), nil
}

func (d *Dashboard) CountContactMessages(_ context.Context, status string) (int, error) {
	d.S.mu.Lock()
	defer d.S.mu.Unlock()
	n := 0
	for _, m := range d.S.contacts {
		if m.Status == status {
			n++
		}
	}
	return n, nil
}

func (d *Dashboard) CountTickets(_ context.Context, statuses ...entity.TicketStatus) (int, error) {
	d.S.mu.Lock()
	defer d.S.mu.Unlock()
	n := 0
	for _, t := range d.S.tickets {
		for _, st := range statuses {
			if t.Status == st {
				n++
				break
			}
		}
	}
	return n, nil
}

func sortedCounts(m map[string]int) []entity.CountByKey {
	out := make([]entity.CountByKey, 0, len(m))
	for k, v := range m {
		out = append(out, entity.CountByKey{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
