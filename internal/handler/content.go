package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ArticleSummary is an item of GET /api/articles.
type ArticleSummary struct {
	Title              string             `json:"title"`
	Slug               string             `json:"slug"`
	PreviewImage       *string            `json:"preview_image"`
	PreviewDescription string             `json:"preview_description"`
	ContentType        string             `json:"content_type"`
	PublishedDate      openapi_types.Date `json:"published_date"`
	CreatedAt          time.Time          `json:"created_at"`
}

// Article is the full article returned by GET /api/articles/{slug}.
type Article struct {
	ID                 uuid.UUID          `json:"id"`
	Title              string             `json:"title"`
	Slug               string             `json:"slug"`
	ContentType        string             `json:"content_type"`
	PreviewImage       *string            `json:"preview_image"`
	PreviewDescription string             `json:"preview_description"`
	Content            string             `json:"content"`
	VideoURL           string             `json:"video_url"`
	IsPublished        bool               `json:"is_published"`
	PublishedDate      openapi_types.Date `json:"published_date"`
	CreatedAt          time.Time          `json:"created_at"`
}

// NewsSummary is an item of GET /api/news.
type NewsSummary struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Description   string             `json:"description"`
	Image         *string            `json:"image"`
	PublishedDate openapi_types.Date `json:"published_date"`
}

// News is the full news item returned by GET /api/news/{slug}.
type News struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Slug          string             `json:"slug"`
	Description   string             `json:"description"`
	Image         *string            `json:"image"`
	Content       []string           `json:"content"`
	IsPublished   bool               `json:"is_published"`
	PublishedDate openapi_types.Date `json:"published_date"`
	CreatedAt     time.Time          `json:"created_at"`
}

// ListArticles handles GET /api/articles.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	articles, err := s.content.ListArticles(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := make([]ArticleSummary, len(articles))
	for i, a := range articles {
		out[i] = ArticleSummary{
			Title:              a.Title,
			Slug:               a.Slug,
			PreviewImage:       s.media.url(r, a.PreviewImage),
			PreviewDescription: a.PreviewDescription,
			ContentType:        string(a.ContentType),
			PublishedDate:      openapi_types.Date{Time: a.PublishedDate},
			CreatedAt:          a.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetArticle handles GET /api/articles/{slug}.
func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.content.Article(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err, "Статья не найдена.")
		return
	}
	writeJSON(w, http.StatusOK, s.articleToResponse(r, a))
}

// ListNews handles GET /api/news.
func (s *Server) ListNews(w http.ResponseWriter, r *http.Request) {
	items, err := s.content.ListNews(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := make([]NewsSummary, len(items))
	for i, n := range items {
		out[i] = NewsSummary{
			ID:            n.ID,
			Title:         n.Title,
			Slug:          n.Slug,
			Description:   n.Description,
			Image:         s.media.url(r, n.Image),
			PublishedDate: openapi_types.Date{Time: n.PublishedDate},
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetNews handles GET /api/news/{slug}.
func (s *Server) GetNews(w http.ResponseWriter, r *http.Request) {
	n, err := s.content.News(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err, "Новость не найдена.")
		return
	}
	content := n.Content
	if content == nil {
		content = []string{}
	}
	writeJSON(w, http.StatusOK, News{
		ID:            n.ID,
		Title:         n.Title,
		Slug:          n.Slug,
		Description:   n.Description,
		Image:         s.media.url(r, n.Image),
		Content:       content,
		IsPublished:   n.IsPublished,
		PublishedDate: openapi_types.Date{Time: n.PublishedDate},
		CreatedAt:     n.CreatedAt,
	})
}

func (s *Server) articleToResponse(r *http.Request, a domain.Article) Article {
	return Article{
		ID:                 a.ID,
		Title:              a.Title,
		Slug:               a.Slug,
		ContentType:        string(a.ContentType),
		PreviewImage:       s.media.url(r, a.PreviewImage),
		PreviewDescription: a.PreviewDescription,
		Content:            a.Content,
		VideoURL:           a.VideoURL,
		IsPublished:        a.IsPublished,
		PublishedDate:      openapi_types.Date{Time: a.PublishedDate},
		CreatedAt:          a.CreatedAt,
	}
}
