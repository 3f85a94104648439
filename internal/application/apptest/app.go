package apptest

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/uranusgroup/uranus-web/internal/application/auth"
	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/site"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// TestJWTSecret secreto de firma usado por App.
const TestJWTSecret = "test-secret"

// App grafo completo de casos de uso sobre repositorios en memoria.
type App struct {
	Store     *Store
	Content   *ContentStore
	Storage   *MemoryStorage
	Mailer    *RecordingMailer
	Publisher *RecordingPublisher

	Auth          *auth.AuthUseCase
	Users         *usecase.UserUseCase
	Catalog       *usecase.CatalogUseCase
	Blog          *usecase.BlogUseCase
	SiteContent   *usecase.SiteContentUseCase
	Requests      *workflow.RequestUseCase
	Deliverables  *workflow.DeliverableUseCase
	Tickets       *workflow.TicketUseCase
	Notifications *notification.UseCase
	Contact       *contact.UseCase
	Dashboard     *backoffice.DashboardUseCase
	PDF           *backoffice.PDFUseCase
	Site          *site.UseCase
	Registry      *backoffice.Registry
}

// NewApp construye el grafo con bcrypt al coste mínimo.
func NewApp() *App {
	s := NewStore()
	c := NewContentStore()
	a := &App{
		Store:     s,
		Content:   c,
		Storage:   NewMemoryStorage(),
		Mailer:    &RecordingMailer{},
		Publisher: &RecordingPublisher{},
	}
	a.Auth = auth.NewAuthUseCase(s.Users(), auth.JWTConfig{Secret: TestJWTSecret, ExpMinutes: 60, Issuer: "uranus-test"}).
		WithBcryptCost(bcrypt.MinCost)
	a.Users = usecase.NewUserUseCase(s.Users()).WithBcryptCost(bcrypt.MinCost)
	a.Catalog = usecase.NewCatalogUseCase(s.Categories(), s.Services())
	a.Blog = usecase.NewBlogUseCase(c.BlogCategories(), c.Articles(), nil)
	a.SiteContent = usecase.NewSiteContentUseCase(c.Slides(), c.Team(), c.Testimonials(), c.Certifications())
	a.Requests = workflow.NewRequestUseCase(s, s.Services(), s.Requests(), s.Deliverables(), a.Storage, a.Publisher, nil)
	a.Deliverables = workflow.NewDeliverableUseCase(s.Requests(), s.Deliverables(), s.Users(), s.Notifications(), a.Storage, a.Publisher, nil)
	a.Tickets = workflow.NewTicketUseCase(s, s.Tickets(), a.Publisher, nil)
	a.Notifications = notification.NewUseCase(s.Notifications(), s.Users(), nil)
	a.Contact = contact.NewUseCase(s.Contacts(), a.Mailer, a.Publisher, "contact@uranusgroup.test", nil)
	a.Dashboard = backoffice.NewDashboardUseCase(&Dashboard{S: s, C: c}, s.Requests())
	a.PDF = backoffice.NewPDFUseCase(s.Requests(), StubPDF{})
	a.Site = site.NewUseCase(site.Deps{
		Catalog:       a.Catalog,
		Blog:          a.Blog,
		Content:       a.SiteContent,
		Requests:      a.Requests,
		Notifications: a.Notifications,
		Services:      s.Services(),
		Articles:      c.Articles(),
		Sitemap:       StubSitemap{},
		BaseURL:       "https://uranusgroup.test",
	})
	a.Registry = backoffice.NewRegistry(backoffice.RegistryDeps{
		Users:         a.Users,
		Catalog:       a.Catalog,
		Blog:          a.Blog,
		Content:       a.SiteContent,
		Requests:      a.Requests,
		Deliverables:  a.Deliverables,
		Tickets:       a.Tickets,
		Notifications: a.Notifications,
		Contact:       a.Contact,
	})
	return a
}

// Token JWT válido para u.
func (a *App) Token(u *entity.User) string {
	out, err := a.Auth.IssueToken(u)
	if err != nil {
		panic(err)
	}
	return out
}

// StubPDF generador que devuelve una cabecera PDF mínima.
type StubPDF struct{}

// GenerateRequestPDF devuelve "%PDF-" seguido del ID.
func (StubPDF) GenerateRequestPDF(_ context.Context, req *entity.ServiceRequest) ([]byte, error) {
	return []byte("%PDF-stub " + req.ID), nil
}

// StubSitemap serializa una URL por línea.
type StubSitemap struct{}

// Encode lista las URLs.
func (StubSitemap) Encode(entries []dto.SitemapEntry) ([]byte, error) {
	var out []byte
	for _, e := range entries {
		out = append(out, fmt.Sprintf("%s\n", e.Loc)...)
	}
	return out, nil
}
