package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uranusgroup/uranus-web/internal/application/dto"
	"github.com/uranusgroup/uranus-web/internal/application/usecase"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
	"github.com/uranusgroup/uranus-web/internal/infrastructure/postgres"
	"github.com/uranusgroup/uranus-web/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga el catálogo y el contenido inicial del sitio (idempotente)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		pool, err := e.pool(ctx)
		if err != nil {
			return err
		}
		defer pool.Close()

		s := &seeder{
			categories:     postgres.NewServiceCategoryRepository(pool),
			services:       postgres.NewServiceRepository(pool),
			blogCategories: postgres.NewBlogCategoryRepository(pool),
			articles:       postgres.NewArticleRepository(pool),
			users:          postgres.NewUserRepository(pool),
			log:            e.log,
		}
		s.catalog = usecase.NewCatalogUseCase(s.categories, s.services)
		s.blog = usecase.NewBlogUseCase(s.blogCategories, s.articles, e.log)
		s.slides = postgres.NewSliderRepository(pool)
		s.team = postgres.NewTeamRepository(pool)
		s.testimonials = postgres.NewTestimonialRepository(pool)
		s.certifications = postgres.NewCertificationRepository(pool)
		s.content = usecase.NewSiteContentUseCase(s.slides, s.team, s.testimonials, s.certifications)
		return s.run(ctx)
	},
}

// seeder crea lo que falta; lo existente (mismo slug o tabla no vacía) se deja tal cual.
type seeder struct {
	categories     repository.ServiceCategoryRepository
	services       repository.ServiceRepository
	blogCategories repository.BlogCategoryRepository
	articles       repository.ArticleRepository
	users          repository.UserRepository
	slides         repository.SliderRepository
	team           repository.TeamRepository
	testimonials   repository.TestimonialRepository
	certifications repository.CertificationRepository

	catalog *usecase.CatalogUseCase
	blog    *usecase.BlogUseCase
	content *usecase.SiteContentUseCase
	log     *logger.Logger
}

// system actor administrativo para reutilizar las validaciones de los casos de uso.
var system = &entity.User{ID: "system", Role: entity.RoleAdmin, IsActive: true}

type seedService struct {
	category string
	body     dto.ServiceRequestBody
}

var seedCategories = []dto.CategoryRequest{
	{Name: "QHSE", Slug: entity.CategorySlugQHSE, Description: "Qualité, Hygiène, Sécurité, Environnement", Icon: "fas fa-shield-alt", Color: "#0DE1E7", Order: 1, IsActive: true},
	{Name: "Informatique", Slug: entity.CategorySlugInformatique, Description: "Solutions informatiques et cybersécurité", Icon: "fas fa-laptop-code", Color: "#0DE1E7", Order: 2, IsActive: true},
}

var seedServices = []seedService{
	{entity.CategorySlugQHSE, dto.ServiceRequestBody{Name: "Certification ISO 9001", Slug: "certification-iso-9001", Icon: "fas fa-certificate", PriceStartingFrom: "5000", Duration: "6-12 mois", Order: 1,
		ShortDescription: "Accompagnement complet pour l'obtention de la certification ISO 9001 (Qualité)",
		FullDescription:  "Audit du système actuel, mise en conformité ISO 9001:2015, préparation à la certification et suivi post-certification."}},
	{entity.CategorySlugQHSE, dto.ServiceRequestBody{Name: "Certification ISO 14001", Slug: "certification-iso-14001", Icon: "fas fa-leaf", PriceStartingFrom: "6000", Duration: "6-12 mois", Order: 2,
		ShortDescription: "Mise en place d'un système de management environnemental conforme ISO 14001",
		FullDescription:  "Analyse de l'impact environnemental, mise en place du système de management, formation des équipes et préparation à la certification."}},
	{entity.CategorySlugQHSE, dto.ServiceRequestBody{Name: "Certification ISO 45001", Slug: "certification-iso-45001", Icon: "fas fa-hard-hat", PriceStartingFrom: "5500", Duration: "6-12 mois", Order: 3,
		ShortDescription: "Système de management de la santé et sécurité au travail (SST)",
		FullDescription:  "Évaluation des risques professionnels, mise en place du système SST, formation et préparation à la certification."}},
	{entity.CategorySlugQHSE, dto.ServiceRequestBody{Name: "Certification ISO 22000", Slug: "certification-iso-22000", Icon: "fas fa-utensils", PriceStartingFrom: "6500", Duration: "6-12 mois", Order: 4,
		ShortDescription: "Système de management de la sécurité des denrées alimentaires",
		FullDescription:  "Analyse des dangers (HACCP), mise en place du système de sécurité alimentaire, formation et audit."}},
	{entity.CategorySlugQHSE, dto.ServiceRequestBody{Name: "Certification ISO 27001", Slug: "certification-iso-27001", Icon: "fas fa-lock", PriceStartingFrom: "7000", Duration: "6-12 mois", Order: 5,
		ShortDescription: "Système de management de la sécurité de l'information",
		FullDescription:  "Analyse des risques informatiques, mise en place du SMSI, politiques de sécurité et préparation à la certification."}},
	{entity.CategorySlugInformatique, dto.ServiceRequestBody{Name: "Audit de cybersécurité", Slug: "audit-cybersecurite", Icon: "fas fa-shield-alt", PriceStartingFrom: "3000", Duration: "2-4 semaines", Order: 1,
		ShortDescription: "Évaluation complète de votre sécurité informatique",
		FullDescription:  "Audit technique (pentest, scan de vulnérabilités), audit organisationnel, analyse des risques et plan d'action priorisé."}},
	{entity.CategorySlugInformatique, dto.ServiceRequestBody{Name: "Intelligence Artificielle", Slug: "intelligence-artificielle", Icon: "fas fa-brain", PriceStartingFrom: "10000", Duration: "3-6 mois", Order: 2,
		ShortDescription: "Solutions d'IA sur mesure pour votre entreprise",
		FullDescription:  "Analyse des besoins métier, développement de modèles, intégration dans vos processus et maintenance."}},
	{entity.CategorySlugInformatique, dto.ServiceRequestBody{Name: "Développement d'applications", Slug: "developpement-applications", Icon: "fas fa-mobile-alt", PriceStartingFrom: "8000", Duration: "2-6 mois", Order: 3,
		ShortDescription: "Développement d'applications web et mobiles sur mesure",
		FullDescription:  "Applications web et mobiles, APIs REST, bases de données, déploiement et maintenance."}},
	{entity.CategorySlugInformatique, dto.ServiceRequestBody{Name: "Formation informatique", Slug: "formation-informatique", Icon: "fas fa-chalkboard-teacher", PriceStartingFrom: "1500", Duration: "1-5 jours", Order: 4,
		ShortDescription: "Formations en cybersécurité, développement et outils numériques",
		FullDescription:  "Cybersécurité, développement web et mobile, outils de collaboration, gestion de projet agile et cloud computing."}},
}

func (s *seeder) run(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"catálogo", s.seedCatalog},
		{"certificaciones", s.seedCertifications},
		{"testimonios", s.seedTestimonials},
		{"carrusel", s.seedSlides},
		{"blog", s.seedBlog},
	}
	for _, st := range steps {
		if err := st.fn(ctx); err != nil {
			return fmt.Errorf("seed %s: %w", st.name, err)
		}
		s.log.Info().Str("paso", st.name).Msg("seed completado")
	}
	return nil
}

func (s *seeder) seedCatalog(ctx context.Context) error {
	ids := make(map[string]string, len(seedCategories))
	for _, in := range seedCategories {
		existing, err := s.categories.GetBySlug(ctx, in.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			ids[in.Slug] = existing.ID
			continue
		}
		c, err := s.catalog.SaveCategory(ctx, system, "", in)
		if err != nil {
			return err
		}
		ids[in.Slug] = c.ID
	}
	for _, svc := range seedServices {
		existing, err := s.services.GetBySlug(ctx, svc.body.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		in := svc.body
		in.CategoryID = ids[svc.category]
		in.Status = entity.ServiceStatusActive
		in.Featured = true
		if _, err := s.catalog.SaveService(ctx, system, "", in); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedCertifications(ctx context.Context) error {
	existing, err := s.certifications.List(ctx, 0)
	if err != nil || len(existing) > 0 {
		return err
	}
	for i, code := range []string{"ISO 9001", "ISO 14001", "ISO 45001", "ISO 22000", "ISO 27001"} {
		in := dto.CertificationRequest{Name: code, Code: code, Category: "QHSE", Order: i + 1}
		if _, err := s.content.SaveCertification(ctx, system, "", in); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedTestimonials(ctx context.Context) error {
	existing, err := s.testimonials.List(ctx, false, 0)
	if err != nil || len(existing) > 0 {
		return err
	}
	items := []dto.TestimonialRequest{
		{ClientName: "Jean Dupont", ClientPosition: "Directeur Qualité", ClientCompany: "TechCorp", Rating: 5, Featured: true, Order: 1,
			Content: "Uranus Group nous a accompagnés dans notre certification ISO 9001. Leur expertise et leur professionnalisme ont été remarquables."},
		{ClientName: "Marie Martin", ClientPosition: "DSI", ClientCompany: "Innovate Solutions", Rating: 5, Featured: true, Order: 2,
			Content: "L'audit de cybersécurité réalisé par Uranus Group nous a permis d'identifier et de corriger des vulnérabilités critiques."},
		{ClientName: "Pierre Durand", ClientPosition: "Directeur Général", ClientCompany: "GreenTech", Rating: 5, Featured: true, Order: 3,
			Content: "Nous avons fait appel à Uranus Group pour notre certification ISO 14001. Un accompagnement parfait du début à la fin."},
	}
	for _, in := range items {
		if _, err := s.content.SaveTestimonial(ctx, system, "", in); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) seedSlides(ctx context.Context) error {
	existing, err := s.slides.List(ctx, false)
	if err != nil || len(existing) > 0 {
		return err
	}
	items := []dto.SliderRequest{
		{Title: "Uranus Group", Subtitle: "Expert en QHSE & Informatique", Image: "/static/img/slider/uranus.jpg", Active: true, Order: 1,
			Description: "Accompagnement professionnel pour vos certifications ISO et solutions IT", ButtonText: "Découvrir nos services", ButtonLink: "/services"},
		{Title: "Certifications ISO", Subtitle: "9001, 14001, 45001, 22000, 27001...", Image: "/static/img/slider/iso.jpg", Active: true, Order: 2,
			Description: "Nous vous accompagnons dans l'obtention de vos certifications ISO", ButtonText: "En savoir plus", ButtonLink: "/services?category=qhse"},
		{Title: "Solutions Informatiques", Subtitle: "Cybersécurité, IA, Développement", Image: "/static/img/slider/it.jpg", Active: true, Order: 3,
			Description: "Des solutions IT modernes pour votre entreprise", ButtonText: "Découvrir", ButtonLink: "/services?category=informatique"},
	}
	for _, in := range items {
		if _, err := s.content.SaveSlide(ctx, system, "", in); err != nil {
			return err
		}
	}
	return nil
}

// seedBlog categorías siempre; artículos solo si ya existe un admin que firme como autor.
func (s *seeder) seedBlog(ctx context.Context) error {
	cats, err := s.blogCategories.List(ctx)
	if err != nil {
		return err
	}
	bySlug := make(map[string]string, len(cats))
	for _, c := range cats {
		bySlug[c.Slug] = c.ID
	}
	for _, in := range []dto.BlogCategoryRequest{
		{Name: "QHSE", Slug: entity.CategorySlugQHSE, Order: 1},
		{Name: "Informatique", Slug: entity.CategorySlugInformatique, Order: 2},
		{Name: "Actualités", Slug: "actualites", Order: 3},
	} {
		if _, ok := bySlug[in.Slug]; ok {
			continue
		}
		c, err := s.blog.SaveCategory(ctx, system, "", in)
		if err != nil {
			return err
		}
		bySlug[c.Slug] = c.ID
	}

	admins, _, err := s.users.List(ctx, repository.UserFilter{Role: entity.RoleAdmin, Page: repository.Page{Limit: 1}})
	if err != nil {
		return err
	}
	if len(admins) == 0 {
		s.log.Warn().Msg("seed: sin admin, se omiten los artículos (ejecute createsuperuser)")
		return nil
	}
	author := admins[0]
	articles := []dto.ArticleRequest{
		{Title: "Les avantages de la certification ISO 9001", Slug: "avantages-certification-iso-9001", CategoryID: bySlug[entity.CategorySlugQHSE],
			Excerpt: "Découvrez pourquoi la certification ISO 9001 est un atout majeur pour votre entreprise.",
			Content: "La certification ISO 9001 représente un engagement envers l'excellence et l'amélioration continue.\n\nAmélioration de la qualité, accès aux marchés, optimisation des processus et image de marque.",
			Status:  entity.ArticlePublished, Featured: true},
		{Title: "Cybersécurité : les 10 bonnes pratiques essentielles", Slug: "cybersecurite-bonnes-pratiques", CategoryID: bySlug[entity.CategorySlugInformatique],
			Excerpt: "Protégez votre entreprise avec ces 10 bonnes pratiques de cybersécurité.",
			Content: "Mots de passe forts, mises à jour régulières, sauvegardes, formation des utilisateurs, pare-feu et antivirus.",
			Status:  entity.ArticlePublished, Featured: true},
	}
	for _, in := range articles {
		existing, err := s.articles.GetBySlug(ctx, in.Slug)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		if _, err := s.blog.SaveArticle(ctx, author, "", in); err != nil {
			return err
		}
	}
	return nil
}
