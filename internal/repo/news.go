package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// NewsRepo defines the persistence operations for News.
type NewsRepo interface {
	// Create inserts a news item. The caller must have assigned n.Slug.
	Create(ctx context.Context, n domain.News) (domain.News, error)

	// ListPublished returns published news, newest first.
	ListPublished(ctx context.Context) ([]domain.News, error)

	// GetPublishedBySlug returns a published news item or domain.ErrNotFound.
	GetPublishedBySlug(ctx context.Context, slug string) (domain.News, error)

	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}

type pgNewsRepo struct {
	db db
}

// NewNewsRepo constructs a NewsRepo backed by the provided db connection.
func NewNewsRepo(db db) NewsRepo {
	return &pgNewsRepo{db: db}
}

const newsColumns = `id, title, slug, description, image, content, is_published, published_date, created_at`

func (r *pgNewsRepo) Create(ctx context.Context, n domain.News) (domain.News, error) {
	const q = `
		INSERT INTO news (title, slug, description, image, content, is_published, published_date)
		VALUES (@title, @slug, @description, @image, @content, @is_published,
		        coalesce(@published_date, current_date))
		RETURNING ` + newsColumns

	content := n.Content
	if content == nil {
		content = []string{}
	}

	args := pgx.NamedArgs{
		"title":          n.Title,
		"slug":           n.Slug,
		"description":    n.Description,
		"image":          n.Image,
		"content":        content,
		"is_published":   n.IsPublished,
		"published_date": dateArg(n.PublishedDate),
	}

	result, err := scanNews(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.News{}, fmt.Errorf("repo.NewsRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgNewsRepo) ListPublished(ctx context.Context) ([]domain.News, error) {
	const q = `
		SELECT ` + newsColumns + `
		FROM news
		WHERE is_published
		ORDER BY published_date DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.NewsRepo.ListPublished: %w", err)
	}
	items, err := collect(rows, scanNews)
	if err != nil {
		return nil, fmt.Errorf("repo.NewsRepo.ListPublished: rows: %w", err)
	}
	return items, nil
}

func (r *pgNewsRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.News, error) {
	const q = `SELECT ` + newsColumns + ` FROM news WHERE slug = @slug AND is_published`

	result, err := scanNews(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.News{}, fmt.Errorf("repo.NewsRepo.GetPublishedBySlug: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgNewsRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	exists, err := slugExists(ctx, r.db, "news", slug, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.NewsRepo.SlugExists: %w", err)
	}
	return exists, nil
}

func scanNews(s scanner) (domain.News, error) {
	var (
		n         domain.News
		id        pgtype.UUID
		published pgtype.Date
	)
	err := s.Scan(&id, &n.Title, &n.Slug, &n.Description, &n.Image, &n.Content,
		&n.IsPublished, &published, &n.CreatedAt)
	if err != nil {
		return domain.News{}, err
	}
	n.ID = uuid.UUID(id.Bytes)
	n.PublishedDate = published.Time
	if n.Content == nil {
		n.Content = []string{}
	}
	return n, nil
}
