package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/uranusgroup/uranus-web/internal/domain"
	"github.com/uranusgroup/uranus-web/internal/domain/entity"
	"github.com/uranusgroup/uranus-web/internal/domain/repository"
)

var (
	_ repository.BlogCategoryRepository = (*BlogCategoryRepo)(nil)
	_ repository.ArticleRepository      = (*ArticleRepo)(nil)
)

// BlogCategoryRepo categorías del blog.
type BlogCategoryRepo struct {
	q Querier
}

func NewBlogCategoryRepository(q Querier) *BlogCategoryRepo {
	return &BlogCategoryRepo{q: q}
}

const blogCategoryColumns = `id, name, slug, description, color, sort_order, created_at, updated_at`

func scanBlogCategory(row pgx.Row) (*entity.BlogCategory, error) {
	var c entity.BlogCategory
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.Color, &c.Order, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *BlogCategoryRepo) Create(ctx context.Context, c *entity.BlogCategory) error {
	_, err := r.q.Exec(ctx, `INSERT INTO blog_categories (`+blogCategoryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.Order, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert blog category: %w", err)
	}
	return nil
}

func (r *BlogCategoryRepo) GetByID(ctx context.Context, id string) (*entity.BlogCategory, error) {
	c, err := scanBlogCategory(r.q.QueryRow(ctx, `SELECT `+blogCategoryColumns+` FROM blog_categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get blog category: %w", err)
	}
	return c, nil
}

func (r *BlogCategoryRepo) Update(ctx context.Context, c *entity.BlogCategory) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE blog_categories SET name = $2, slug = $3, description = $4, color = $5, sort_order = $6, updated_at = $7
		WHERE id = $1`,
		c.ID, c.Name, c.Slug, c.Description, c.Color, c.Order, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update blog category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete: los artículos de la categoría quedan sin categoría (ON DELETE SET NULL).
func (r *BlogCategoryRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM blog_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete blog category: %w", err)
	}
	return nil
}

func (r *BlogCategoryRepo) List(ctx context.Context) ([]*entity.BlogCategory, error) {
	rows, err := r.q.Query(ctx, `SELECT `+blogCategoryColumns+` FROM blog_categories ORDER BY sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list blog categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.BlogCategory
	for rows.Next() {
		c, err := scanBlogCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ArticleRepo artículos con autor y categoría resueltos.
type ArticleRepo struct {
	q Querier
}

func NewArticleRepository(q Querier) *ArticleRepo {
	return &ArticleRepo{q: q}
}

const articleFrom = `
	FROM articles a
	LEFT JOIN users u ON u.id = a.author_id
	LEFT JOIN blog_categories c ON c.id = a.category_id`

const articleSelect = `
	SELECT a.id, a.title, a.slug, COALESCE(a.author_id::text, ''), a.category_id::text, a.excerpt, a.content,
		a.featured_image, a.status, a.featured, a.views_count, a.published_at, a.created_at, a.updated_at,
		COALESCE(u.username, ''), COALESCE(c.name, ''), COALESCE(c.slug, '')` + articleFrom

func scanArticle(row pgx.Row) (*entity.Article, error) {
	var a entity.Article
	err := row.Scan(&a.ID, &a.Title, &a.Slug, &a.AuthorID, &a.CategoryID, &a.Excerpt, &a.Content,
		&a.FeaturedImage, &a.Status, &a.Featured, &a.ViewsCount, &a.PublishedAt, &a.CreatedAt, &a.UpdatedAt,
		&a.AuthorUsername, &a.CategoryName, &a.CategorySlug)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func articleWriteError(op string, err error) error {
	if isUniqueViolation(err) {
		return domain.ErrDuplicate
	}
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return fmt.Errorf("%s article: %w", op, err)
}

func (r *ArticleRepo) Create(ctx context.Context, a *entity.Article) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO articles (id, title, slug, author_id, category_id, excerpt, content, featured_image,
			status, featured, views_count, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		a.ID, a.Title, a.Slug, nullIfEmpty(a.AuthorID), a.CategoryID, a.Excerpt, a.Content, a.FeaturedImage,
		a.Status, a.Featured, a.ViewsCount, a.PublishedAt, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return articleWriteError("insert", err)
	}
	return nil
}

func (r *ArticleRepo) get(ctx context.Context, cond string, arg any) (*entity.Article, error) {
	a, err := scanArticle(r.q.QueryRow(ctx, articleSelect+` WHERE `+cond, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return a, nil
}

func (r *ArticleRepo) GetByID(ctx context.Context, id string) (*entity.Article, error) {
	return r.get(ctx, "a.id = $1", id)
}

func (r *ArticleRepo) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	return r.get(ctx, "a.slug = $1", slug)
}

// Update no toca views_count: lo mantiene IncrementViews.
func (r *ArticleRepo) Update(ctx context.Context, a *entity.Article) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE articles SET title = $2, slug = $3, author_id = $4, category_id = $5, excerpt = $6, content = $7,
			featured_image = $8, status = $9, featured = $10, published_at = $11, updated_at = $12
		WHERE id = $1`,
		a.ID, a.Title, a.Slug, nullIfEmpty(a.AuthorID), a.CategoryID, a.Excerpt, a.Content,
		a.FeaturedImage, a.Status, a.Featured, a.PublishedAt, a.UpdatedAt)
	if err != nil {
		return articleWriteError("update", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ArticleRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	return nil
}

// List publicados primero por fecha de publicación; borradores por fecha de creación.
func (r *ArticleRepo) List(ctx context.Context, f repository.ArticleFilter) ([]*entity.Article, int, error) {
	w := &where{}
	if f.Status != "" {
		w.add("a.status = ?", f.Status)
	}
	if f.CategorySlug != "" {
		w.add("c.slug = ?", f.CategorySlug)
	}
	if f.FeaturedOnly {
		w.add("a.featured")
	}
	w.search(f.Search, "a.title", "a.excerpt", "a.content")

	total, err := w.count(ctx, r.q, articleFrom)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}
	limit, args := w.page(f.Page)
	rows, err := r.q.Query(ctx, articleSelect+w.sql()+
		` ORDER BY a.published_at DESC NULLS LAST, a.created_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		list = append(list, a)
	}
	return list, total, rows.Err()
}

// IncrementViews suma atómica, sin leer la fila.
func (r *ArticleRepo) IncrementViews(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `UPDATE articles SET views_count = views_count + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment article views: %w", err)
	}
	return nil
}
