package site_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/site"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

type captureEncoder struct{ entries []dto.SitemapEntry }

func (c *captureEncoder) Encode(entries []dto.SitemapEntry) ([]byte, error) {
	c.entries = entries
	return []byte("<urlset/>"), nil
}

type fixture struct {
	s       *apptest.Store
	c       *apptest.ContentStore
	enc     *captureEncoder
	uc      *site.UseCase
	client  *entity.User
	now     time.Time
	ctx     context.Context
	catalog *usecase.CatalogUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	s := apptest.NewStore()
	c := apptest.NewContentStore()
	ctx := context.Background()
	now := time.Date(2024, 4, 1, 12, 0, 0, 0, time.UTC)

	client := s.AddUser("u-client", "acme", entity.RoleClient)
	s.AddCategory("c-qhse", "QHSE", entity.CategorySlugQHSE)
	s.AddCategory("c-info", "Informatique", entity.CategorySlugInformatique)
	for i := 0; i < 8; i++ {
		s.AddService(fmt.Sprintf("q-%d", i), "c-qhse", fmt.Sprintf("QHSE %d", i), entity.ServiceStatusActive)
	}
	s.AddService("i-1", "c-info", "Réseaux", entity.ServiceStatusActive)
	s.AddService("i-2", "c-info", "Ancien", entity.ServiceStatusInactive)

	require.NoError(t, c.Slides().Create(ctx, &entity.SliderItem{ID: "sl-1", Title: "B", Active: true, Order: 2}))
	require.NoError(t, c.Slides().Create(ctx, &entity.SliderItem{ID: "sl-2", Title: "A", Active: true, Order: 1}))
	require.NoError(t, c.Slides().Create(ctx, &entity.SliderItem{ID: "sl-3", Title: "Off", Active: false}))
	for i := 0; i < 10; i++ {
		require.NoError(t, c.Certifications().Create(ctx, &entity.Certification{ID: fmt.Sprintf("ce-%d", i), Code: fmt.Sprintf("ISO-%d", i), Order: i}))
		require.NoError(t, c.Testimonials().Create(ctx, &entity.Testimonial{ID: fmt.Sprintf("te-%d", i), Rating: 5, Featured: i%2 == 0, Order: i}))
	}
	require.NoError(t, c.Team().Create(ctx, &entity.TeamMember{ID: "tm-1", Name: "Awa", Order: 1}))
	require.NoError(t, c.Articles().Create(ctx, &entity.Article{ID: "a-1", Slug: "iso-9001", Status: entity.ArticlePublished, Featured: true, UpdatedAt: now}))
	require.NoError(t, c.Articles().Create(ctx, &entity.Article{ID: "a-2", Slug: "brouillon", Status: entity.ArticleDraft}))

	catalog := usecase.NewCatalogUseCase(s.Categories(), s.Services())
	enc := &captureEncoder{}
	uc := site.NewUseCase(site.Deps{
		Catalog:       catalog,
		Blog:          usecase.NewBlogUseCase(c.BlogCategories(), c.Articles(), nil),
		Content:       usecase.NewSiteContentUseCase(c.Slides(), c.Team(), c.Testimonials(), c.Certifications()),
		Requests:      workflow.NewRequestUseCase(s, s.Services(), s.Requests(), s.Deliverables(), nil, nil, nil),
		Notifications: notification.NewUseCase(s.Notifications(), s.Users(), nil),
		Services:      s.Services(),
		Articles:      c.Articles(),
		Sitemap:       enc,
		BaseURL:       "https://uranus.test/",
	}).WithClock(func() time.Time { return now })

	return &fixture{s: s, c: c, enc: enc, uc: uc, client: client, now: now, ctx: ctx, catalog: catalog}
}

func TestHome_Portada(t *testing.T) {
	f := newFixture(t)
	home, err := f.uc.Home(f.ctx)
	require.NoError(t, err)

	require.Len(t, home.Slides, 2)
	assert.Equal(t, "A", home.Slides[0].Title)
	assert.Len(t, home.QHSEServices, site.HomeServicesPerCategory)
	require.Len(t, home.ITServices, 1, "los servicios inactivos no aparecen")
	assert.Equal(t, "Réseaux", home.ITServices[0].Name)
	assert.Len(t, home.Certifications, site.HomeCertifications)
	assert.Len(t, home.Testimonials, 5, "solo destacados")
	require.Len(t, home.FeaturedArticles, 1)
	assert.Equal(t, "iso-9001", home.FeaturedArticles[0].Slug)
}

func TestAbout_QuienesSomos(t *testing.T) {
	f := newFixture(t)
	about, err := f.uc.About(f.ctx)
	require.NoError(t, err)
	assert.Len(t, about.Team, 1)
	assert.Len(t, about.Certifications, 10)
}

func TestClientDashboard_EspacioCliente(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, f.s.Requests().Create(f.ctx, &entity.ServiceRequest{
			ID: fmt.Sprintf("r-%d", i), ServiceID: "q-0", ClientID: f.client.ID,
			Status: entity.RequestPending, CreatedAt: f.now.Add(time.Duration(i) * time.Minute),
		}))
		_, err := f.s.Notifications().CreateMany(f.ctx, []*entity.Notification{{
			ID: fmt.Sprintf("n-%d", i), UserID: f.client.ID, Title: "x", Type: entity.NotificationInfo,
		}})
		require.NoError(t, err)
	}

	_, err := f.uc.ClientDashboard(f.ctx, nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	out, err := f.uc.ClientDashboard(f.ctx, f.client)
	require.NoError(t, err)
	require.Len(t, out.Requests, site.DashboardRequests)
	assert.Equal(t, "r-6", out.Requests[0].ID)
	assert.Len(t, out.Notifications, site.DashboardNotifications)
	assert.Equal(t, 7, out.UnreadCount)
}

func TestSitemap_URLsPublicas(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Sitemap(f.ctx)
	require.NoError(t, err)

	locs := map[string]bool{}
	for _, e := range f.enc.entries {
		locs[e.Loc] = true
	}
	assert.True(t, locs["https://uranus.test/"])
	assert.True(t, locs["https://uranus.test/contact"])
	assert.True(t, locs["https://uranus.test/services/i-1"])
	assert.False(t, locs["https://uranus.test/services/i-2"], "inactivo")
	assert.True(t, locs["https://uranus.test/blog/iso-9001"])
	assert.False(t, locs["https://uranus.test/blog/brouillon"], "borrador")
}
