package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ArticleRepo defines the persistence operations for Articles.
// The slug column is written once by Create and never updated.
type ArticleRepo interface {
	// Create inserts an article. The caller must have assigned a.Slug.
	// Returns domain.ErrConflict if the slug is already taken.
	Create(ctx context.Context, a domain.Article) (domain.Article, error)

	// ListPublished returns published articles, newest first.
	ListPublished(ctx context.Context) ([]domain.Article, error)

	// GetPublishedBySlug returns a published article.
	// Returns domain.ErrNotFound for unknown or unpublished slugs.
	GetPublishedBySlug(ctx context.Context, slug string) (domain.Article, error)

	// ListAll returns every article ordered by created_at, id.
	ListAll(ctx context.Context) ([]domain.Article, error)

	// SlugExists reports whether slug is used by an article other than exclude.
	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

	// UpdateText overwrites the given text columns
	// (title, preview_description, content).
	UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error
}

var articleTextColumns = []string{"title", "preview_description", "content"}

type pgArticleRepo struct {
	db db
}

// NewArticleRepo constructs an ArticleRepo backed by the provided db connection.
func NewArticleRepo(db db) ArticleRepo {
	return &pgArticleRepo{db: db}
}

const articleColumns = `id, title, slug, content_type, preview_image, preview_description,
		content, video_url, is_published, published_date, created_at`

func (r *pgArticleRepo) Create(ctx context.Context, a domain.Article) (domain.Article, error) {
	const q = `
		INSERT INTO articles (title, slug, content_type, preview_image, preview_description,
		                      content, video_url, is_published, published_date)
		VALUES (@title, @slug, @content_type, @preview_image, @preview_description,
		        @content, @video_url, @is_published, coalesce(@published_date, current_date))
		RETURNING ` + articleColumns

	args := pgx.NamedArgs{
		"title":               a.Title,
		"slug":                a.Slug,
		"content_type":        string(a.ContentType),
		"preview_image":       a.PreviewImage,
		"preview_description": a.PreviewDescription,
		"content":             a.Content,
		"video_url":           a.VideoURL,
		"is_published":        a.IsPublished,
		"published_date":      dateArg(a.PublishedDate),
	}

	result, err := scanArticle(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Article{}, fmt.Errorf("repo.ArticleRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgArticleRepo) ListPublished(ctx context.Context) ([]domain.Article, error) {
	const q = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE is_published
		ORDER BY published_date DESC, created_at DESC`
	return r.list(ctx, "ListPublished", q)
}

func (r *pgArticleRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.Article, error) {
	const q = `
		SELECT ` + articleColumns + `
		FROM articles
		WHERE slug = @slug AND is_published`

	result, err := scanArticle(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Article{}, fmt.Errorf("repo.ArticleRepo.GetPublishedBySlug: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgArticleRepo) ListAll(ctx context.Context) ([]domain.Article, error) {
	const q = `SELECT ` + articleColumns + ` FROM articles ORDER BY created_at, id`
	return r.list(ctx, "ListAll", q)
}

func (r *pgArticleRepo) list(ctx context.Context, method, q string) ([]domain.Article, error) {
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ArticleRepo.%s: %w", method, err)
	}
	articles, err := collect(rows, scanArticle)
	if err != nil {
		return nil, fmt.Errorf("repo.ArticleRepo.%s: rows: %w", method, err)
	}
	return articles, nil
}

func (r *pgArticleRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	exists, err := slugExists(ctx, r.db, "articles", slug, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.ArticleRepo.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgArticleRepo) UpdateText(ctx context.Context, id uuid.UUID, values map[string]string) error {
	if err := updateTextColumns(ctx, r.db, "articles", articleTextColumns, id, values); err != nil {
		return fmt.Errorf("repo.ArticleRepo.UpdateText: %w", err)
	}
	return nil
}

func scanArticle(s scanner) (domain.Article, error) {
	var (
		a           domain.Article
		id          pgtype.UUID
		contentType string
		published   pgtype.Date
	)
	err := s.Scan(&id, &a.Title, &a.Slug, &contentType, &a.PreviewImage, &a.PreviewDescription,
		&a.Content, &a.VideoURL, &a.IsPublished, &published, &a.CreatedAt)
	if err != nil {
		return domain.Article{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.ContentType = domain.ContentType(contentType)
	a.PublishedDate = published.Time
	return a, nil
}
