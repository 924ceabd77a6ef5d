package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
	"github.com/struchkova/konakovo-backend/internal/richtext"
	"github.com/struchkova/konakovo-backend/internal/slug"
)

// Fallback slug tokens per record type, used when a title has no usable
// characters.
const (
	fallbackArticle = "article"
	fallbackNews    = "news"
	fallbackService = "service"
	fallbackTariff  = "tariff"
	fallbackPage    = "page"
)

// ContentService reads and creates articles, news and static pages.
// Bind it to a transaction's Repos to make multi-row creates atomic.
type ContentService struct {
	repos repo.Repos
	rt    *richtext.Renderer
}

// NewContentService constructs a ContentService.
func NewContentService(repos repo.Repos, rt *richtext.Renderer) *ContentService {
	if rt == nil {
		rt = richtext.New()
	}
	return &ContentService{repos: repos, rt: rt}
}

// ListArticles returns published articles, newest first.
func (s *ContentService) ListArticles(ctx context.Context) ([]domain.Article, error) {
	articles, err := s.repos.Articles.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ContentService.ListArticles: %w", err)
	}
	return articles, nil
}

// Article returns a published article by slug.
func (s *ContentService) Article(ctx context.Context, slug string) (domain.Article, error) {
	a, err := s.repos.Articles.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return domain.Article{}, fmt.Errorf("service.ContentService.Article: %w", err)
	}
	return a, nil
}

// ListNews returns published news, newest first.
func (s *ContentService) ListNews(ctx context.Context) ([]domain.News, error) {
	items, err := s.repos.News.ListPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ContentService.ListNews: %w", err)
	}
	return items, nil
}

// News returns a published news item by slug.
func (s *ContentService) News(ctx context.Context, slug string) (domain.News, error) {
	n, err := s.repos.News.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return domain.News{}, fmt.Errorf("service.ContentService.News: %w", err)
	}
	return n, nil
}

// CreateArticle renders a.Content from format into sanitized HTML, assigns
// a unique slug and stores the article. An explicit a.Slug is kept when it
// is free and suffixed otherwise.
func (s *ContentService) CreateArticle(ctx context.Context, a domain.Article, format richtext.Format) (domain.Article, error) {
	a.Title = strings.TrimSpace(a.Title)
	if a.ContentType == "" {
		a.ContentType = domain.ContentTypeArticle
	}

	errs := domain.FieldErrors{}
	if a.Title == "" {
		errs.Add("title", msgRequired)
	}
	if !a.ContentType.Valid() {
		errs.Add("content_type", msgInvalid)
	}
	if err := errs.OrNil(); err != nil {
		return domain.Article{}, err
	}

	html, err := s.rt.Render(a.Content, format)
	if err != nil {
		return domain.Article{}, fmt.Errorf("service.ContentService.CreateArticle: %w", err)
	}
	a.Content = html

	a.Slug, err = uniqueSlug(ctx, a.Slug, a.Title, fallbackArticle, func(ctx context.Context, c string) (bool, error) {
		return s.repos.Articles.SlugExists(ctx, c, a.ID)
	})
	if err != nil {
		return domain.Article{}, fmt.Errorf("service.ContentService.CreateArticle: slug: %w", err)
	}

	out, err := s.repos.Articles.Create(ctx, a)
	if err != nil {
		return domain.Article{}, fmt.Errorf("service.ContentService.CreateArticle: %w", err)
	}
	return out, nil
}

// CreateNews strips markup from every paragraph, drops empty ones, assigns a
// unique slug and stores the news item.
func (s *ContentService) CreateNews(ctx context.Context, n domain.News) (domain.News, error) {
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return domain.News{}, domain.FieldErrors{"title": {msgRequired}}
	}

	paragraphs := make([]string, 0, len(n.Content))
	for _, p := range n.Content {
		if p = s.rt.Plain(p); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	n.Content = paragraphs

	var err error
	n.Slug, err = uniqueSlug(ctx, n.Slug, n.Title, fallbackNews, func(ctx context.Context, c string) (bool, error) {
		return s.repos.News.SlugExists(ctx, c, n.ID)
	})
	if err != nil {
		return domain.News{}, fmt.Errorf("service.ContentService.CreateNews: slug: %w", err)
	}

	out, err := s.repos.News.Create(ctx, n)
	if err != nil {
		return domain.News{}, fmt.Errorf("service.ContentService.CreateNews: %w", err)
	}
	return out, nil
}

// CreatePage stores a page with its sections and gallery. Section text is
// sanitized HTML.
func (s *ContentService) CreatePage(ctx context.Context, p domain.Page) (domain.Page, error) {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return domain.Page{}, domain.FieldErrors{"title": {msgRequired}}
	}

	var err error
	p.Slug, err = uniqueSlug(ctx, p.Slug, p.Title, fallbackPage, func(ctx context.Context, c string) (bool, error) {
		return s.repos.Pages.SlugExists(ctx, c, p.ID)
	})
	if err != nil {
		return domain.Page{}, fmt.Errorf("service.ContentService.CreatePage: slug: %w", err)
	}

	out, err := s.repos.Pages.Create(ctx, p)
	if err != nil {
		return domain.Page{}, fmt.Errorf("service.ContentService.CreatePage: %w", err)
	}

	for _, sec := range p.Sections {
		sec.PageID = out.ID
		sec.Text = s.rt.Sanitize(sec.Text)
		created, err := s.repos.Pages.CreateSection(ctx, sec)
		if err != nil {
			return domain.Page{}, fmt.Errorf("service.ContentService.CreatePage: section: %w", err)
		}
		out.Sections = append(out.Sections, created)
	}
	for _, img := range p.Gallery {
		img.PageID = out.ID
		created, err := s.repos.Pages.AddGalleryImage(ctx, img)
		if err != nil {
			return domain.Page{}, fmt.Errorf("service.ContentService.CreatePage: gallery: %w", err)
		}
		out.Gallery = append(out.Gallery, created)
	}
	return out, nil
}

// uniqueSlug picks the slug for a record being created. A non-empty
// explicit slug takes the place of the title as the base.
func uniqueSlug(ctx context.Context, explicit, title, fallback string, exists slug.ExistsContext) (string, error) {
	base := title
	if strings.TrimSpace(explicit) != "" {
		base = explicit
	}
	return slug.AssignContext(ctx, base, fallback, exists)
}
