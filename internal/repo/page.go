package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// PageRepo defines the persistence operations for static pages, their
// sections and gallery images.
type PageRepo interface {
	// GetPublishedBySlug returns a published page with its sections and
	// gallery, both in sort order. Returns domain.ErrNotFound otherwise.
	GetPublishedBySlug(ctx context.Context, slug string) (domain.Page, error)

	Create(ctx context.Context, p domain.Page) (domain.Page, error)
	CreateSection(ctx context.Context, s domain.PageSection) (domain.PageSection, error)
	AddGalleryImage(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error)

	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)
}

type pgPageRepo struct {
	db db
}

// NewPageRepo constructs a PageRepo backed by the provided db connection.
func NewPageRepo(db db) PageRepo {
	return &pgPageRepo{db: db}
}

const (
	pageColumns    = `id, title, slug, subtitle, hero_image, is_published, sort_order, created_at, updated_at`
	sectionColumns = `id, page_id, title, text, image, sort_order`
	galleryColumns = `id, page_id, image, sort_order`
)

func (r *pgPageRepo) GetPublishedBySlug(ctx context.Context, slug string) (domain.Page, error) {
	const q = `SELECT ` + pageColumns + ` FROM pages WHERE slug = @slug AND is_published`

	page, err := scanPage(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.GetPublishedBySlug: %w", mapErr(err))
	}

	args := pgx.NamedArgs{"page_id": page.ID}

	rows, err := r.db.Query(ctx, `SELECT `+sectionColumns+` FROM page_sections
		WHERE page_id = @page_id ORDER BY sort_order, id`, args)
	if err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.GetPublishedBySlug: sections: %w", err)
	}
	if page.Sections, err = collect(rows, scanSection); err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.GetPublishedBySlug: sections: %w", err)
	}

	rows, err = r.db.Query(ctx, `SELECT `+galleryColumns+` FROM page_gallery_images
		WHERE page_id = @page_id ORDER BY sort_order, id`, args)
	if err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.GetPublishedBySlug: gallery: %w", err)
	}
	if page.Gallery, err = collect(rows, scanGalleryImage); err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.GetPublishedBySlug: gallery: %w", err)
	}

	return page, nil
}

func (r *pgPageRepo) Create(ctx context.Context, p domain.Page) (domain.Page, error) {
	const q = `
		INSERT INTO pages (title, slug, subtitle, hero_image, is_published, sort_order)
		VALUES (@title, @slug, @subtitle, @hero_image, @is_published, @sort_order)
		RETURNING ` + pageColumns

	args := pgx.NamedArgs{
		"title":        p.Title,
		"slug":         p.Slug,
		"subtitle":     p.Subtitle,
		"hero_image":   p.HeroImage,
		"is_published": p.IsPublished,
		"sort_order":   p.Order,
	}

	result, err := scanPage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Page{}, fmt.Errorf("repo.PageRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPageRepo) CreateSection(ctx context.Context, s domain.PageSection) (domain.PageSection, error) {
	const q = `
		INSERT INTO page_sections (page_id, title, text, image, sort_order)
		VALUES (@page_id, @title, @text, @image, @sort_order)
		RETURNING ` + sectionColumns

	args := pgx.NamedArgs{
		"page_id":    s.PageID,
		"title":      s.Title,
		"text":       s.Text,
		"image":      s.Image,
		"sort_order": s.Order,
	}

	result, err := scanSection(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.PageSection{}, fmt.Errorf("repo.PageRepo.CreateSection: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPageRepo) AddGalleryImage(ctx context.Context, g domain.GalleryImage) (domain.GalleryImage, error) {
	const q = `
		INSERT INTO page_gallery_images (page_id, image, sort_order)
		VALUES (@page_id, @image, @sort_order)
		RETURNING ` + galleryColumns

	args := pgx.NamedArgs{"page_id": g.PageID, "image": g.Image, "sort_order": g.Order}

	result, err := scanGalleryImage(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.GalleryImage{}, fmt.Errorf("repo.PageRepo.AddGalleryImage: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgPageRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	exists, err := slugExists(ctx, r.db, "pages", slug, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.PageRepo.SlugExists: %w", err)
	}
	return exists, nil
}

func scanPage(s scanner) (domain.Page, error) {
	var (
		p  domain.Page
		id pgtype.UUID
	)
	err := s.Scan(&id, &p.Title, &p.Slug, &p.Subtitle, &p.HeroImage, &p.IsPublished, &p.Order,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Page{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.Sections = []domain.PageSection{}
	p.Gallery = []domain.GalleryImage{}
	return p, nil
}

func scanSection(s scanner) (domain.PageSection, error) {
	var (
		sec    domain.PageSection
		id     pgtype.UUID
		pageID pgtype.UUID
	)
	if err := s.Scan(&id, &pageID, &sec.Title, &sec.Text, &sec.Image, &sec.Order); err != nil {
		return domain.PageSection{}, err
	}
	sec.ID = uuid.UUID(id.Bytes)
	sec.PageID = uuid.UUID(pageID.Bytes)
	return sec, nil
}

func scanGalleryImage(s scanner) (domain.GalleryImage, error) {
	var (
		g      domain.GalleryImage
		id     pgtype.UUID
		pageID pgtype.UUID
	)
	if err := s.Scan(&id, &pageID, &g.Image, &g.Order); err != nil {
		return domain.GalleryImage{}, err
	}
	g.ID = uuid.UUID(id.Bytes)
	g.PageID = uuid.UUID(pageID.Bytes)
	return g, nil
}
