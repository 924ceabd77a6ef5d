// Package handler implements the HTTP handlers for the Konakovo site API.
// All handlers are methods on Server. They are split into domain-specific
// files (catalog.go, content.go, lead.go) but share the same struct so they
// can reach its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// CatalogServicer is what the read-only catalog endpoints need.
// Defined here, in the consumer package, so tests can inject a mock.
type CatalogServicer interface {
	Hero(ctx context.Context) (domain.HeroBlock, error)
	Reviews(ctx context.Context) ([]domain.Review, error)
	Services(ctx context.Context) ([]domain.Service, error)
	Service(ctx context.Context, id uuid.UUID) (domain.Service, error)
	Schedule(ctx context.Context) ([]domain.ScheduleMonth, error)
	ScheduleDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error)
	Page(ctx context.Context, slug string) (domain.Page, error)
}

// ContentServicer serves published articles and news.
type ContentServicer interface {
	ListArticles(ctx context.Context) ([]domain.Article, error)
	Article(ctx context.Context, slug string) (domain.Article, error)
	ListNews(ctx context.Context) ([]domain.News, error)
	News(ctx context.Context, slug string) (domain.News, error)
}

// LeadServicer accepts the site's request forms.
type LeadServicer interface {
	CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error)
	CreateDayScenario(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error)
	CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error)
}

// Server holds the dependencies shared by every handler.
type Server struct {
	catalog CatalogServicer
	content ContentServicer
	leads   LeadServicer
	media   mediaResolver
}

// NewServer constructs the Server. mediaURL is the prefix stored media paths
// are served under, e.g. "/media/" or "https://cdn.example.com/media/".
func NewServer(catalog CatalogServicer, content ContentServicer, leads LeadServicer, mediaURL string) *Server {
	return &Server{
		catalog: catalog,
		content: content,
		leads:   leads,
		media:   mediaResolver{base: mediaURL},
	}
}

// Register mounts every route on r. Apply middleware to r before calling.
func (s *Server) Register(r chi.Router) {
	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hero", s.GetHero)
		r.Get("/reviews", s.ListReviews)

		r.Get("/articles", s.ListArticles)
		r.Get("/articles/{slug}", s.GetArticle)
		r.Get("/news", s.ListNews)
		r.Get("/news/{slug}", s.GetNews)

		r.Get("/services", s.ListServices)
		r.Get("/services/{id}", s.GetService)
		r.Get("/schedule", s.ListSchedule)
		r.Get("/schedule/{id}", s.GetScheduleDay)
		r.Get("/pages/{slug}", s.GetPage)

		r.Post("/leads", s.CreateLead)
		r.Post("/day-scenarios", s.CreateDayScenario)
		r.Post("/service-requests", s.CreateServiceRequest)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, notFoundBody("Страница не найдена."))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorDetail{Code: "method_not_allowed", Message: "Метод не поддерживается."}})
	})
}
