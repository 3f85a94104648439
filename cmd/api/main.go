package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/uranusgroup/uranus-web/internal/application/auth"
	"github.com/uranusgroup/uranus-web/internal/application/backoffice"
	"github.com/uranusgroup/uranus-web/internal/application/contact"
	"github.com/uranusgroup/uranus-web/internal/application/notification"
	"github.com/uranusgroup/uranus-web/internal/application/site"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/application/workflow"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/events"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/mail"
	infrapdf "github.com/uranusgroup/uranus-web/internal/infrastructure/pdf"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/postgres"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/sitemap"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/storage"
	httpRouter "github.com/uranusgroup/uranus-web/internal/interfaces/http"
	"github.com/uranusgroup/uranus-web/pkg/config"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

//go:generate go tool swag init --dir ../.. --generalInfo cmd/api/main.go --output ../../docs --outputTypes json

// @title                       Uranus Group API
// @version                     1.0
// @description                 API REST du site Uranus Group : catalogue, demandes de service, livrables, tickets et notifications.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewServiceCategoryRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	requestRepo := postgres.NewServiceRequestRepository(pool)
	deliverableRepo := postgres.NewDeliverableRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	blogCategoryRepo := postgres.NewBlogCategoryRepository(pool)
	articleRepo := postgres.NewArticleRepository(pool)
	dashboardRepo := postgres.NewDashboardRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Adaptadores externos
	mailer := mail.NewSMTPMailer(cfg.Mail, log)
	files, err := storage.NewMinioStorage(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MinIO")
	}
	publisher := events.NewKafkaPublisher(splitBrokers(cfg.Kafka.Brokers), cfg.Kafka.Topic, log)
	defer publisher.Close()
	if !publisher.Enabled() {
		log.Warn().Msg("KAFKA_BROKERS vacío: los eventos de flujo no se publican")
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	catalogUC := usecase.NewCatalogUseCase(categoryRepo, serviceRepo)
	blogUC := usecase.NewBlogUseCase(blogCategoryRepo, articleRepo, log)
	contentUC := usecase.NewSiteContentUseCase(
		postgres.NewSliderRepository(pool),
		postgres.NewTeamRepository(pool),
		postgres.NewTestimonialRepository(pool),
		postgres.NewCertificationRepository(pool),
	)

	// Flujo de solicitudes, entregables y tickets
	requestUC := workflow.NewRequestUseCase(txRunner, serviceRepo, requestRepo, deliverableRepo, files, publisher, log)
	deliverableUC := workflow.NewDeliverableUseCase(requestRepo, deliverableRepo, userRepo, notificationRepo, files, publisher, log)
	ticketUC := workflow.NewTicketUseCase(txRunner, ticketRepo, publisher, log)
	notificationUC := notification.NewUseCase(notificationRepo, userRepo, log)
	contactUC := contact.NewUseCase(contactRepo, mailer, publisher, cfg.Site.ContactInbox, log)

	// Back-office: KPIs, PDF de solicitudes y registro de recursos
	dashboardUC := backoffice.NewDashboardUseCase(dashboardRepo, requestRepo)
	pdfUC := backoffice.NewPDFUseCase(requestRepo, infrapdf.NewMarotoPDFGenerator(cfg.Site.SiteTitle))
	registry := backoffice.NewRegistry(backoffice.RegistryDeps{
		Users:         userUC,
		Catalog:       catalogUC,
		Blog:          blogUC,
		Content:       contentUC,
		Requests:      requestUC,
		Deliverables:  deliverableUC,
		Tickets:       ticketUC,
		Notifications: notificationUC,
		Contact:       contactUC,
	})

	siteUC := site.NewUseCase(site.Deps{
		Catalog:       catalogUC,
		Blog:          blogUC,
		Content:       contentUC,
		Requests:      requestUC,
		Notifications: notificationUC,
		Services:      serviceRepo,
		Articles:      articleRepo,
		Sitemap:       sitemap.Builder{},
		BaseURL:       cfg.Site.BaseURL,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimitMB << 20,
		Views:        httpRouter.NewViews(),
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Uranus Group API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		Catalog:       catalogUC,
		Blog:          blogUC,
		Site:          siteUC,
		Requests:      requestUC,
		Deliverables:  deliverableUC,
		Tickets:       ticketUC,
		Notifications: notificationUC,
		Contact:       contactUC,
		Dashboard:     dashboardUC,
		PDF:           pdfUC,
		Registry:      registry,
		Info: httpRouter.SiteInfo{
			Title:      cfg.Site.SiteTitle,
			Header:     cfg.Site.SiteHeader,
			IndexTitle: cfg.Site.IndexTitle,
			BaseURL:    cfg.Site.BaseURL,
		},
		JWTSecret:    cfg.JWT.Secret,
		CookieSecure: cfg.HTTP.CookieSecure,
		SessionTTL:   time.Duration(cfg.JWT.Expiration) * time.Minute,
		Ping:         pool.Ping,
		Log:          log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func splitBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
