package dto

import (
	"time"

	"github.com/uranusgroup/uranus-web/internal/domain/entity"
)

// HomePage datos de la portada.
type HomePage struct {
	Slides           []*entity.SliderItem    `json:"slides"`
	QHSEServices     []ServiceResponse       `json:"qhse_services"`
	ITServices       []ServiceResponse       `json:"it_services"`
	Certifications   []*entity.Certification `json:"certifications"`
	Testimonials     []*entity.Testimonial   `json:"testimonials"`
	FeaturedArticles []ArticleResponse       `json:"featured_articles"`
}

// AboutPage datos de "À propos".
type AboutPage struct {
	Team           []*entity.TeamMember    `json:"team"`
	Certifications []*entity.Certification `json:"certifications"`
}

// ClientDashboard resumen del espacio cliente.
type ClientDashboard struct {
	Requests      []ServiceRequestResponse `json:"requests"`
	Notifications []NotificationResponse   `json:"notifications"`
	UnreadCount   int                      `json:"unread_count"`
}

// SitemapEntry URL publicada en sitemap.xml.
type SitemapEntry struct {
	Loc        string
	LastMod    time.Time
	ChangeFreq string
	Priority   float64
}
