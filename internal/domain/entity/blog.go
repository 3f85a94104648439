package entity

import "time"

// Estados de un Article.
const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
	ArticleArchived  = "archived"
)

// BlogCategory categoría de artículos.
type BlogCategory struct {
	ID          string
	Name        string
	Slug        string
	Description string
	Color       string
	Order       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Article entrada del blog. PublishedAt se fija la primera vez que pasa a published y no se borra.
type Article struct {
	ID            string
	Title         string
	Slug          string
	AuthorID      string
	CategoryID    *string
	Excerpt       string
	Content       string
	FeaturedImage string
	Status        string
	Featured      bool
	ViewsCount    int
	PublishedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AuthorUsername string
	CategoryName   string
	CategorySlug   string
}

// SetStatus cambia el estado y fija PublishedAt en la primera publicación.
func (a *Article) SetStatus(status string, now time.Time) {
	a.Status = status
	if status == ArticlePublished && a.PublishedAt == nil {
		t := now
		a.PublishedAt = &t
	}
}
