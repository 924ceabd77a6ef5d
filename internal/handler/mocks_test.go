package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/handler"
)

// mockCatalog is a test double for handler.CatalogServicer.
// Set only the method fields your test needs.
type mockCatalog struct {
	hero        func(ctx context.Context) (domain.HeroBlock, error)
	reviews     func(ctx context.Context) ([]domain.Review, error)
	services    func(ctx context.Context) ([]domain.Service, error)
	service     func(ctx context.Context, id uuid.UUID) (domain.Service, error)
	schedule    func(ctx context.Context) ([]domain.ScheduleMonth, error)
	scheduleDay func(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error)
	page        func(ctx context.Context, slug string) (domain.Page, error)
}

func (m *mockCatalog) Hero(ctx context.Context) (domain.HeroBlock, error) { return m.hero(ctx) }
func (m *mockCatalog) Reviews(ctx context.Context) ([]domain.Review, error) {
	return m.reviews(ctx)
}
func (m *mockCatalog) Services(ctx context.Context) ([]domain.Service, error) {
	return m.services(ctx)
}
func (m *mockCatalog) Service(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	return m.service(ctx, id)
}
func (m *mockCatalog) Schedule(ctx context.Context) ([]domain.ScheduleMonth, error) {
	return m.schedule(ctx)
}
func (m *mockCatalog) ScheduleDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error) {
	return m.scheduleDay(ctx, id)
}
func (m *mockCatalog) Page(ctx context.Context, slug string) (domain.Page, error) {
	return m.page(ctx, slug)
}

var _ handler.CatalogServicer = (*mockCatalog)(nil)

// mockContent is a test double for handler.ContentServicer.
type mockContent struct {
	listArticles func(ctx context.Context) ([]domain.Article, error)
	article      func(ctx context.Context, slug string) (domain.Article, error)
	listNews     func(ctx context.Context) ([]domain.News, error)
	news         func(ctx context.Context, slug string) (domain.News, error)
}

func (m *mockContent) ListArticles(ctx context.Context) ([]domain.Article, error) {
	return m.listArticles(ctx)
}
func (m *mockContent) Article(ctx context.Context, slug string) (domain.Article, error) {
	return m.article(ctx, slug)
}
func (m *mockContent) ListNews(ctx context.Context) ([]domain.News, error) { return m.listNews(ctx) }
func (m *mockContent) News(ctx context.Context, slug string) (domain.News, error) {
	return m.news(ctx, slug)
}

var _ handler.ContentServicer = (*mockContent)(nil)

// mockLeads is a test double for handler.LeadServicer.
type mockLeads struct {
	createLead           func(ctx context.Context, l domain.Lead) (domain.Lead, error)
	createDayScenario    func(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error)
	createServiceRequest func(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error)
}

func (m *mockLeads) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	return m.createLead(ctx, l)
}
func (m *mockLeads) CreateDayScenario(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error) {
	return m.createDayScenario(ctx, s)
}
func (m *mockLeads) CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
	return m.createServiceRequest(ctx, sr)
}

var _ handler.LeadServicer = (*mockLeads)(nil)

// ---- helpers ---------------------------------------------------------------

// deps bundles the mocks; nil fields become empty mocks.
type deps struct {
	catalog *mockCatalog
	content *mockContent
	leads   *mockLeads
}

// newHTTPHandler wires a Server into a chi router the way main.go does.
func newHTTPHandler(d deps) http.Handler {
	if d.catalog == nil {
		d.catalog = &mockCatalog{}
	}
	if d.content == nil {
		d.content = &mockContent{}
	}
	if d.leads == nil {
		d.leads = &mockLeads{}
	}
	r := chi.NewRouter()
	r.Use(chimiddleware.StripSlashes)
	handler.NewServer(d.catalog, d.content, d.leads, "/media/").Register(r)
	return r
}

func do(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
