package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/uranusgroup/uranus-web/internal/application/apptest"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

func TestCatalog_LecturasPublicas(t *testing.T) {
	s := apptest.NewStore()
	s.AddCategory("c-qhse", "QHSE", "qhse")
	s.AddCategory("c-info", "Informatique", "informatique")
	for _, id := range []string{"audit", "formation", "conseil", "veille", "bilan", "plan"} {
		s.AddService(id, "c-qhse", "QHSE "+id, entity.ServiceStatusActive)
	}
	s.AddService("ancien", "c-qhse", "Ancien", entity.ServiceStatusInactive)
	s.AddService("reseau", "c-info", "Réseau", entity.ServiceStatusActive)
	uc := usecase.NewCatalogUseCase(s.Categories(), s.Services())
	ctx := context.Background()

	list, err := uc.ListActive(ctx, "qhse", "", dto.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 6, list.Page.Total)

	list, err = uc.ListActive(ctx, "", "réseau", dto.PageRequest{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "reseau", list.Items[0].Slug)

	detail, err := uc.GetActiveBySlug(ctx, "audit")
	require.NoError(t, err)
	assert.Len(t, detail.Related, usecase.RelatedServicesLimit)
	for _, r := range detail.Related {
		assert.NotEqual(t, "audit", r.Slug)
		assert.NotEqual(t, "ancien", r.Slug)
	}

	_, err = uc.GetActiveBySlug(ctx, "ancien")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_ServicioReferenciadoBloqueado(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("u-admin", "admin", entity.RoleAdmin)
	client := s.AddUser("u-client", "acme", entity.RoleClient)
	s.AddCategory("c-qhse", "QHSE", "qhse")
	s.AddCategory("c-info", "Informatique", "informatique")
	uc := usecase.NewCatalogUseCase(s.Categories(), s.Services())
	ctx := context.Background()

	in := dto.ServiceRequestBody{
		CategoryID:        "c-qhse",
		Name:              "Audit Sécurité",
		ShortDescription:  "Audit",
		FullDescription:   "Audit complet",
		PriceStartingFrom: "1500.50",
	}
	svc, err := uc.SaveService(ctx, admin, "", in)
	require.NoError(t, err)
	assert.Equal(t, "audit-securite", svc.Slug)
	assert.Equal(t, entity.ServiceStatusActive, svc.Status)
	assert.True(t, svc.PriceStartingFrom.Valid)
	assert.Equal(t, "1500.5", svc.PriceStartingFrom.Decimal.String())

	_, err = uc.SaveService(ctx, client, "", in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, s.Requests().Create(ctx, &entity.ServiceRequest{ID: "r-1", ServiceID: svc.ID, ClientID: client.ID}))

	moved := in
	moved.CategoryID = "c-info"
	_, err = uc.SaveService(ctx, admin, svc.ID, moved)
	assert.ErrorIs(t, err, domain.ErrConflict)

	inactive := in
	inactive.Status = entity.ServiceStatusInactive
	out, err := uc.SaveService(ctx, admin, svc.ID, inactive)
	require.NoError(t, err, "un servicio referenciado puede desactivarse")
	assert.Equal(t, entity.ServiceStatusInactive, out.Status)

	assert.ErrorIs(t, uc.DeleteService(ctx, admin, svc.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.DeleteCategory(ctx, admin, "c-qhse"), domain.ErrConflict)
	assert.NoError(t, uc.DeleteCategory(ctx, admin, "c-info"))

	bad := in
	bad.PriceStartingFrom = "-3"
	_, err = uc.SaveService(ctx, admin, "", bad)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBlog_PublishedAtUnaSolaVez(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("u-admin", "admin", entity.RoleAdmin)
	c := apptest.NewContentStore()
	clock := apptest.NewClock(time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	uc := usecase.NewBlogUseCase(c.BlogCategories(), c.Articles(), nil).WithClock(clock.Now)
	ctx := context.Background()

	cat, err := uc.SaveCategory(ctx, admin, "", dto.BlogCategoryRequest{Name: "Qualité"})
	require.NoError(t, err)
	assert.Equal(t, "qualite", cat.Slug)
	assert.Equal(t, entity.DefaultCategoryColor, cat.Color)

	in := dto.ArticleRequest{Title: "Norme ISO 9001", CategoryID: cat.ID, Excerpt: "Résumé", Content: "Corps"}
	a, err := uc.SaveArticle(ctx, admin, "", in)
	require.NoError(t, err)
	assert.Equal(t, entity.ArticleDraft, a.Status)
	assert.Nil(t, a.PublishedAt)

	_, err = uc.GetPublished(ctx, a.Slug)
	assert.ErrorIs(t, err, domain.ErrNotFound, "un borrador no es público")

	in.Status = entity.ArticlePublished
	a, err = uc.SaveArticle(ctx, admin, a.ID, in)
	require.NoError(t, err)
	require.NotNil(t, a.PublishedAt)
	first := *a.PublishedAt

	clock.Advance(24 * time.Hour)
	in.Status = entity.ArticleArchived
	a, err = uc.SaveArticle(ctx, admin, a.ID, in)
	require.NoError(t, err)
	require.NotNil(t, a.PublishedAt, "despublicar no borra published_at")

	in.Status = entity.ArticlePublished
	a, err = uc.SaveArticle(ctx, admin, a.ID, in)
	require.NoError(t, err)
	assert.True(t, first.Equal(*a.PublishedAt))

	got, err := uc.GetPublished(ctx, "norme-iso-9001")
	require.NoError(t, err)
	assert.Equal(t, 1, got.ViewsCount)
	assert.Equal(t, "Corps", got.Content)
	got, err = uc.GetPublished(ctx, "norme-iso-9001")
	require.NoError(t, err)
	assert.Equal(t, 2, got.ViewsCount)

	list, err := uc.ListPublished(ctx, dto.ArticleListQuery{Category: "qualite"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].Content, "el listado no incluye el cuerpo")

	_, err = uc.SaveArticle(ctx, admin, "", dto.ArticleRequest{Title: "X", CategoryID: "nope", Excerpt: "e", Content: "c"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSiteContent_CRUD(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("u-admin", "admin", entity.RoleAdmin)
	qhse := s.AddUser("u-qhse", "qhse", entity.RoleManagerQHSE)
	c := apptest.NewContentStore()
	uc := usecase.NewSiteContentUseCase(c.Slides(), c.Team(), c.Testimonials(), c.Certifications())
	ctx := context.Background()

	_, err := uc.SaveTestimonial(ctx, admin, "", dto.TestimonialRequest{ClientName: "Awa", Content: "Top", Rating: 6})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tm, err := uc.SaveTestimonial(ctx, admin, "", dto.TestimonialRequest{ClientName: "Awa", Content: "Top", Rating: 5, Featured: true})
	require.NoError(t, err)
	featured, err := uc.FeaturedTestimonials(ctx, 6)
	require.NoError(t, err)
	require.Len(t, featured, 1)
	assert.Equal(t, tm.ID, featured[0].ID)

	_, err = uc.SaveSlide(ctx, qhse, "", dto.SliderRequest{Title: "Bienvenue", Image: "/img/a.jpg"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	sl, err := uc.SaveSlide(ctx, admin, "", dto.SliderRequest{Title: "Bienvenue", Image: "/img/a.jpg", Active: false})
	require.NoError(t, err)
	active, err := uc.ActiveSlides(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = uc.SaveSlide(ctx, admin, sl.ID, dto.SliderRequest{Title: "Bienvenue", Image: "/img/a.jpg", Active: true})
	require.NoError(t, err)
	active, err = uc.ActiveSlides(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	_, err = uc.SaveCertification(ctx, admin, "", dto.CertificationRequest{Name: "ISO 9001", Code: "ISO9001"})
	require.NoError(t, err)
	_, err = uc.SaveCertification(ctx, admin, "", dto.CertificationRequest{Name: "Doublon", Code: "ISO9001"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.GetTeamMember(ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, uc.DeleteSlide(ctx, admin, sl.ID))
}

func TestUsers_GuardadoAdmin(t *testing.T) {
	s := apptest.NewStore()
	admin := s.AddUser("u-admin", "admin", entity.RoleAdmin)
	uc := usecase.NewUserUseCase(s.Users()).WithBcryptCost(bcrypt.MinCost)
	ctx := context.Background()

	in := dto.AdminUserRequest{Username: "qhse", Email: "QHSE@Uranus.test", Password: "secret123", Role: "manager_qhse", IsActive: true}
	u, err := uc.Save(ctx, admin, "", in)
	require.NoError(t, err)
	assert.Equal(t, "qhse@uranus.test", u.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret123")))

	_, err = uc.Save(ctx, admin, "", in)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	noPass := in
	noPass.Username, noPass.Email, noPass.Password = "other", "other@uranus.test", ""
	_, err = uc.Save(ctx, admin, "", noPass)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	edit := in
	edit.Password = ""
	edit.Role = "client"
	u2, err := uc.Save(ctx, admin, u.ID, edit)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleClient, u2.Role)
	assert.Equal(t, u.PasswordHash, u2.PasswordHash, "password vacío no cambia el hash")

	self := dto.AdminUserRequest{Username: "admin", Email: "admin@example.com", Role: "client", IsActive: true}
	_, err = uc.Save(ctx, admin, admin.ID, self)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, admin, admin.ID), domain.ErrConflict)

	items, total, err := uc.List(ctx, admin, repository.UserFilter{Role: entity.RoleClient})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "qhse", items[0].Username)

	root, err := uc.CreateSuperuser(ctx, "root", "root@uranus.test", "rootpass1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, root.Role)
	assert.True(t, root.IsVerified)
}
