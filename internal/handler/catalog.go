package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// Hero is the wire form of domain.HeroBlock.
type Hero struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	BackgroundImage *string   `json:"background_image"`
	Avatar          *string   `json:"avatar"`
}

// Review is the wire form of domain.Review.
type Review struct {
	ID        uuid.UUID          `json:"id"`
	Avatar    *string            `json:"avatar"`
	Name      string             `json:"name"`
	EventName string             `json:"event_name"`
	Rating    int                `json:"rating"`
	Text      string             `json:"text"`
	Date      openapi_types.Date `json:"date"`
	CreatedAt time.Time          `json:"created_at"`
}

// Service is one node of the services tree.
type Service struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsCategory  bool      `json:"is_category"`
	Price       *string   `json:"price"`
	Order       int       `json:"order"`
	Children    []Service `json:"children"`
	Tariffs     []Tariff  `json:"tariffs"`
}

// Tariff is a priced option of a Service.
type Tariff struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Duration    string    `json:"duration"`
	Price       string    `json:"price"`
	Order       int       `json:"order"`
}

// ScheduleMonth groups schedule days of one calendar month.
type ScheduleMonth struct {
	Month       string        `json:"month"`
	Year        int           `json:"year"`
	MonthNumber int           `json:"month_number"`
	Days        []ScheduleDay `json:"days"`
}

// ScheduleDay is a published date with its events.
type ScheduleDay struct {
	ID     uuid.UUID          `json:"id"`
	Date   openapi_types.Date `json:"date"`
	Events []ScheduleEvent    `json:"events"`
}

// ScheduleEvent is one timed activity.
type ScheduleEvent struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	TimeStart   string    `json:"time_start"`
	TimeEnd     string    `json:"time_end"`
	Price       string    `json:"price"`
	Color       string    `json:"color"`
	Order       int       `json:"order"`
	ServiceSlug *string   `json:"service_slug"`
}

// Page is a static page with sections and gallery.
type Page struct {
	Title     string         `json:"title"`
	Slug      string         `json:"slug"`
	Subtitle  string         `json:"subtitle"`
	HeroImage *string        `json:"hero_image"`
	Sections  []PageSection  `json:"sections"`
	Gallery   []GalleryImage `json:"gallery"`
}

// PageSection is one block of a Page.
type PageSection struct {
	Title string  `json:"title"`
	Text  string  `json:"text"`
	Image *string `json:"image"`
	Order int     `json:"order"`
}

// GalleryImage is one picture of a Page gallery.
type GalleryImage struct {
	Image *string `json:"image"`
	Order int     `json:"order"`
}

// GetHero handles GET /api/hero.
func (s *Server) GetHero(w http.ResponseWriter, r *http.Request) {
	h, err := s.catalog.Hero(r.Context())
	if err != nil {
		writeError(w, r, err, "Активный Hero-блок не найден.")
		return
	}
	writeJSON(w, http.StatusOK, Hero{
		ID:              h.ID,
		Title:           h.Title,
		Description:     h.Description,
		BackgroundImage: s.media.url(r, h.BackgroundImage),
		Avatar:          s.media.url(r, h.Avatar),
	})
}

// ListReviews handles GET /api/reviews.
func (s *Server) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := s.catalog.Reviews(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := make([]Review, len(reviews))
	for i, rv := range reviews {
		out[i] = Review{
			ID:        rv.ID,
			Avatar:    s.media.url(r, rv.Avatar),
			Name:      rv.Name,
			EventName: rv.EventName,
			Rating:    rv.Rating,
			Text:      rv.Text,
			Date:      openapi_types.Date{Time: rv.Date},
			CreatedAt: rv.CreatedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// ListServices handles GET /api/services.
func (s *Server) ListServices(w http.ResponseWriter, r *http.Request) {
	tree, err := s.catalog.Services(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, servicesToResponse(tree))
}

// GetService handles GET /api/services/{id}.
func (s *Server) GetService(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody("Услуга не найдена."))
		return
	}
	svc, err := s.catalog.Service(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "Услуга не найдена.")
		return
	}
	writeJSON(w, http.StatusOK, serviceToResponse(svc))
}

// ListSchedule handles GET /api/schedule.
func (s *Server) ListSchedule(w http.ResponseWriter, r *http.Request) {
	months, err := s.catalog.Schedule(r.Context())
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	out := make([]ScheduleMonth, len(months))
	for i, m := range months {
		days := make([]ScheduleDay, len(m.Days))
		for j, d := range m.Days {
			days[j] = dayToResponse(d)
		}
		out[i] = ScheduleMonth{Month: m.Label, Year: m.Year, MonthNumber: m.MonthNumber, Days: days}
	}
	writeJSON(w, http.StatusOK, out)
}

// GetScheduleDay handles GET /api/schedule/{id}.
func (s *Server) GetScheduleDay(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, notFoundBody("День расписания не найден."))
		return
	}
	d, err := s.catalog.ScheduleDay(r.Context(), id)
	if err != nil {
		writeError(w, r, err, "День расписания не найден.")
		return
	}
	writeJSON(w, http.StatusOK, dayToResponse(d))
}

// GetPage handles GET /api/pages/{slug}.
func (s *Server) GetPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.catalog.Page(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err, "Страница не найдена.")
		return
	}

	out := Page{
		Title:     p.Title,
		Slug:      p.Slug,
		Subtitle:  p.Subtitle,
		HeroImage: s.media.url(r, p.HeroImage),
		Sections:  make([]PageSection, len(p.Sections)),
		Gallery:   make([]GalleryImage, len(p.Gallery)),
	}
	for i, sec := range p.Sections {
		out.Sections[i] = PageSection{Title: sec.Title, Text: sec.Text, Image: s.media.url(r, sec.Image), Order: sec.Order}
	}
	for i, img := range p.Gallery {
		out.Gallery[i] = GalleryImage{Image: s.media.url(r, img.Image), Order: img.Order}
	}
	writeJSON(w, http.StatusOK, out)
}

// --- mapping helpers --------------------------------------------------------

func servicesToResponse(services []domain.Service) []Service {
	out := make([]Service, len(services))
	for i, svc := range services {
		out[i] = serviceToResponse(svc)
	}
	return out
}

func serviceToResponse(svc domain.Service) Service {
	resp := Service{
		ID:          svc.ID,
		Title:       svc.Title,
		Slug:        svc.Slug,
		Description: svc.Description,
		IsCategory:  svc.IsCategory,
		Order:       svc.Order,
		Children:    servicesToResponse(svc.Children),
		Tariffs:     make([]Tariff, len(svc.Tariffs)),
	}
	if svc.Price != nil {
		p := svc.Price.StringFixed(2)
		resp.Price = &p
	}
	for i, t := range svc.Tariffs {
		resp.Tariffs[i] = Tariff{
			ID:          t.ID,
			Title:       t.Title,
			Slug:        t.Slug,
			Description: t.Description,
			Duration:    t.Duration,
			Price:       t.Price.StringFixed(2),
			Order:       t.Order,
		}
	}
	return resp
}

func dayToResponse(d domain.ScheduleDay) ScheduleDay {
	resp := ScheduleDay{
		ID:     d.ID,
		Date:   openapi_types.Date{Time: d.Date},
		Events: make([]ScheduleEvent, len(d.Events)),
	}
	for i, e := range d.Events {
		ev := ScheduleEvent{
			ID:          e.ID,
			Title:       e.Title,
			Category:    e.Category,
			Description: e.Description,
			TimeStart:   e.TimeStart,
			TimeEnd:     e.TimeEnd,
			Price:       e.Price.StringFixed(2),
			Color:       e.Color,
			Order:       e.Order,
		}
		if e.ServiceSlug != "" {
			slug := e.ServiceSlug
			ev.ServiceSlug = &slug
		}
		resp.Events[i] = ev
	}
	return resp
}
