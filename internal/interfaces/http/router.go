package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/uranusgroup/uranus-web/internal/application/auth"
	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/site"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	Catalog       *usecase.CatalogUseCase
	Blog          *usecase.BlogUseCase
	Site          *site.UseCase
	Requests      *workflow.RequestUseCase
	Deliverables  *workflow.DeliverableUseCase
	Tickets       *workflow.TicketUseCase
	Notifications *notification.UseCase
	Contact       *contact.UseCase
	Dashboard     *backoffice.DashboardUseCase
	PDF           *backoffice.PDFUseCase
	Registry      *backoffice.Registry

	Info         SiteInfo
	JWTSecret    string
	CookieSecure bool
	SessionTTL   time.Duration
	// Ping comprueba la base para /health; nil = siempre sano.
	Ping func(ctx context.Context) error
	Log  *logger.Logger
}

var staffRoles = []string{string(entity.RoleAdmin), string(entity.RoleManagerQHSE), string(entity.RoleManagerInfo)}

// Router registra la API, el sitio público, el espacio cliente y el back-office.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Ping != nil {
			if err := deps.Ping(c.UserContext()); err != nil {
				log.Error().Err(err).Msg("health: base de datos no disponible")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apiRoutes(app, deps, log)

	web := NewWebHandler(WebDeps{
		Auth: deps.AuthUC, Catalog: deps.Catalog, Blog: deps.Blog, Site: deps.Site,
		Requests: deps.Requests, Deliverables: deps.Deliverables, Tickets: deps.Tickets,
		Notifications: deps.Notifications, Contact: deps.Contact,
		Info: deps.Info, CookieSecure: deps.CookieSecure, SessionTTL: deps.SessionTTL,
	}, log)

	// Sesión opcional en todas las páginas: la cabecera muestra el usuario conectado.
	app.Use(OptionalAuth(deps.JWTSecret), LoadUser(deps.AuthUC))

	app.Get("/", web.Home)
	app.Get("/about", web.About)
	app.Get("/services", web.Services)
	app.Get("/services/:slug", web.ServiceDetail)
	app.Get("/blog", web.Blog)
	app.Get("/blog/:slug", web.Article)
	app.Get("/contact", web.ContactForm)
	app.Post("/contact", web.ContactSubmit)
	app.Get("/sitemap.xml", web.Sitemap)

	accounts := app.Group("/accounts")
	accounts.Get("/register", web.RegisterForm)
	accounts.Post("/register", web.Register)
	accounts.Get("/login", web.LoginForm)
	accounts.Post("/login", web.Login)
	accounts.Post("/logout", web.Logout)
	accounts.Get("/dashboard", web.RequireLogin, web.Dashboard)
	accounts.Get("/profile", web.RequireLogin, web.ProfileForm)
	accounts.Post("/profile", web.RequireLogin, web.Profile)

	app.Get("/services/:id<guid>/request", web.RequireLogin, web.RequestForm)
	app.Post("/services/:id<guid>/request", web.RequireLogin, web.CreateRequest)

	requests := app.Group("/requests", web.RequireLogin)
	requests.Get("/", web.Requests)
	requests.Get("/:id<guid>", web.RequestDetail)
	requests.Post("/:id<guid>/status", web.TransitionRequest)
	requests.Post("/:id<guid>/deliverables", web.UploadDeliverable)

	app.Get("/deliverables/:id<guid>/download", web.RequireLogin, web.DownloadDeliverable)

	tickets := app.Group("/tickets", web.RequireLogin)
	tickets.Get("/", web.Tickets)
	tickets.Post("/", web.OpenTicket)
	tickets.Get("/:id<guid>", web.TicketDetail)
	tickets.Post("/:id<guid>/messages", web.PostTicketMessage)
	tickets.Post("/:id<guid>/status", web.TransitionTicket)

	notifications := app.Group("/notifications", web.RequireLogin)
	notifications.Get("/", web.Notifications)
	notifications.Post("/read-all", web.MarkAllNotificationsRead)
	notifications.Post("/:id<guid>/read", web.MarkNotificationRead)

	admin := NewAdminHandler(web, deps.Registry, deps.Dashboard, deps.PDF)
	bo := app.Group("/admin", web.RequireAdmin)
	bo.Get("/", admin.Dashboard)
	bo.Get("/service-requests/:id<guid>/pdf", admin.RequestPDF)
	bo.Post("/service-requests/:id<guid>/deliverables", admin.UploadDeliverable)
	bo.Get("/deliverables/:id<guid>/download", admin.DownloadDeliverable)
	bo.Get("/:resource", admin.List)
	bo.Get("/:resource/new", admin.New)
	bo.Post("/:resource/new", admin.Create)
	bo.Get("/:resource/:id<guid>", admin.Edit)
	bo.Post("/:resource/:id<guid>", admin.Update)
	bo.Post("/:resource/:id<guid>/delete", admin.Delete)

	app.Use(web.NotFound)
}

func apiRoutes(app *fiber.App, deps RouterDeps, log *logger.Logger) {
	api := app.Group("/api")
	protect := []fiber.Handler{AuthMiddleware(deps.JWTSecret), LoadUser(deps.AuthUC)}
	staffOnly := RequireRole(staffRoles...)

	// Auth (público salvo /me)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", append(protect, authHandler.Me)...)

	// Catálogo, blog y contacto (público)
	catalogHandler := NewCatalogHandler(deps.Catalog, log)
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/services", catalogHandler.ListServices)
	api.Get("/services/:id<guid>", catalogHandler.GetService)

	blogHandler := NewBlogHandler(deps.Blog, log)
	api.Get("/articles", blogHandler.List)
	api.Get("/articles/:slug", blogHandler.Get)

	contactHandler := NewContactHandler(deps.Contact, log)
	api.Post("/contact", contactHandler.Submit)

	// Solicitudes y entregables (protegido)
	requestHandler := NewRequestHandler(deps.Requests, deps.Deliverables, deps.PDF, log)
	requests := api.Group("/requests", protect...)
	requests.Get("/", requestHandler.List)
	requests.Post("/", requestHandler.Create)
	requests.Get("/:id<guid>", requestHandler.Get)
	requests.Patch("/:id<guid>/status", staffOnly, requestHandler.Transition)
	requests.Post("/:id<guid>/deliverables", staffOnly, requestHandler.UploadDeliverable)
	requests.Get("/:id<guid>/pdf", staffOnly, requestHandler.PDF)

	deliverableHandler := NewDeliverableHandler(deps.Deliverables, log)
	deliverables := api.Group("/deliverables", protect...)
	deliverables.Get("/", deliverableHandler.List)
	deliverables.Get("/:id<guid>/download", deliverableHandler.Download)

	// Tickets (protegido)
	ticketHandler := NewTicketHandler(deps.Tickets, log)
	tickets := api.Group("/tickets", protect...)
	tickets.Get("/", ticketHandler.List)
	tickets.Post("/", ticketHandler.Open)
	tickets.Get("/:id<guid>", ticketHandler.Get)
	tickets.Post("/:id<guid>/messages", ticketHandler.PostMessage)
	tickets.Patch("/:id<guid>/status", staffOnly, ticketHandler.Transition)

	// Notificaciones (protegido)
	notificationHandler := NewNotificationHandler(deps.Notifications, log)
	notifications := api.Group("/notifications", protect...)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/read-all", notificationHandler.MarkAllRead)
	notifications.Post("/:id<guid>/read", notificationHandler.MarkRead)
}
