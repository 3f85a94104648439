package dto

import "time"

// ArticleListQuery filtros públicos del blog.
type ArticleListQuery struct {
	Category string `query:"category"`
	Search   string `query:"search"`
	PageRequest
}

// ArticleResponse salida de un artículo.
type ArticleResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Author        string     `json:"author"`
	Category      string     `json:"category,omitempty"`
	CategorySlug  string     `json:"category_slug,omitempty"`
	Excerpt       string     `json:"excerpt"`
	Content       string     `json:"content,omitempty"`
	FeaturedImage string     `json:"featured_image"`
	Status        string     `json:"status"`
	Featured      bool       `json:"featured"`
	ViewsCount    int        `json:"views_count"`
	PublishedAt   *time.Time `json:"published_at"`
}

// ArticleListResponse listado paginado de artículos.
type ArticleListResponse struct {
	Items []ArticleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
