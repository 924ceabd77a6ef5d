package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/struchkova/konakovo-backend/internal/cache"
	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
)

// CatalogService serves the read-only parts of the site: hero block, reviews,
// the services tree, the schedule and static pages. The services tree and the
// month-grouped schedule are cached when a cache is configured.
type CatalogService struct {
	repos repo.Repos
	cache cache.Cache
	log   *slog.Logger
}

// NewCatalogService constructs a CatalogService. A nil cache disables caching.
func NewCatalogService(repos repo.Repos, c cache.Cache, log *slog.Logger) *CatalogService {
	if c == nil {
		c = cache.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &CatalogService{repos: repos, cache: c, log: log}
}

// Hero returns the newest active hero block.
// Returns domain.ErrNotFound when none is active.
func (s *CatalogService) Hero(ctx context.Context) (domain.HeroBlock, error) {
	h, err := s.repos.Hero.GetActive(ctx)
	if err != nil {
		return domain.HeroBlock{}, fmt.Errorf("service.CatalogService.Hero: %w", err)
	}
	return h, nil
}

// Reviews returns all reviews, newest first.
func (s *CatalogService) Reviews(ctx context.Context) ([]domain.Review, error) {
	reviews, err := s.repos.Reviews.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Reviews: %w", err)
	}
	if reviews == nil {
		return []domain.Review{}, nil
	}
	return reviews, nil
}

// Services returns the top-level services with nested children and tariffs.
func (s *CatalogService) Services(ctx context.Context) ([]domain.Service, error) {
	var tree []domain.Service
	if s.cached(ctx, cache.KeyServices, &tree) {
		return tree, nil
	}

	services, err := s.repos.Services.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Services: %w", err)
	}
	tariffs, err := s.repos.Services.ListTariffs(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Services: %w", err)
	}

	tree = BuildServiceTree(services, tariffs)
	s.store(ctx, cache.KeyServices, tree)
	return tree, nil
}

// Service returns the subtree rooted at the top-level service id.
// Returns domain.ErrNotFound if id is not a top-level service.
func (s *CatalogService) Service(ctx context.Context, id uuid.UUID) (domain.Service, error) {
	tree, err := s.Services(ctx)
	if err != nil {
		return domain.Service{}, fmt.Errorf("service.CatalogService.Service: %w", err)
	}
	for _, svc := range tree {
		if svc.ID == id {
			return svc, nil
		}
	}
	return domain.Service{}, fmt.Errorf("service.CatalogService.Service: %w", domain.ErrNotFound)
}

// Schedule returns published days grouped by month.
func (s *CatalogService) Schedule(ctx context.Context) ([]domain.ScheduleMonth, error) {
	var months []domain.ScheduleMonth
	if s.cached(ctx, cache.KeySchedule, &months) {
		return months, nil
	}

	days, err := s.repos.Schedule.ListPublishedDays(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.CatalogService.Schedule: %w", err)
	}

	months = GroupByMonth(days)
	s.store(ctx, cache.KeySchedule, months)
	return months, nil
}

// ScheduleDay returns one published day with its events.
func (s *CatalogService) ScheduleDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error) {
	d, err := s.repos.Schedule.GetPublishedDay(ctx, id)
	if err != nil {
		return domain.ScheduleDay{}, fmt.Errorf("service.CatalogService.ScheduleDay: %w", err)
	}
	return d, nil
}

// Page returns a published static page with sections and gallery.
func (s *CatalogService) Page(ctx context.Context, slug string) (domain.Page, error) {
	p, err := s.repos.Pages.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return domain.Page{}, fmt.Errorf("service.CatalogService.Page: %w", err)
	}
	return p, nil
}

// cached reads key into dest. Cache failures are logged and treated as a miss
// so that a Redis outage never breaks the public API.
func (s *CatalogService) cached(ctx context.Context, key string, dest any) bool {
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.WarnContext(ctx, "cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *CatalogService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

// BuildServiceTree nests services under their parents and attaches tariffs.
// Input order is kept at every level; services whose parent is missing are
// dropped. Children and Tariffs are never nil.
func BuildServiceTree(services []domain.Service, tariffs []domain.Tariff) []domain.Service {
	byService := make(map[uuid.UUID][]domain.Tariff)
	for _, t := range tariffs {
		byService[t.ServiceID] = append(byService[t.ServiceID], t)
	}

	children := make(map[uuid.UUID][]domain.Service)
	var roots []domain.Service
	for _, svc := range services {
		if svc.ParentID == nil {
			roots = append(roots, svc)
			continue
		}
		children[*svc.ParentID] = append(children[*svc.ParentID], svc)
	}

	visited := make(map[uuid.UUID]bool, len(services))
	var attach func(svc domain.Service) domain.Service
	attach = func(svc domain.Service) domain.Service {
		visited[svc.ID] = true
		svc.Tariffs = byService[svc.ID]
		if svc.Tariffs == nil {
			svc.Tariffs = []domain.Tariff{}
		}
		svc.Children = []domain.Service{}
		for _, child := range children[svc.ID] {
			if visited[child.ID] {
				continue
			}
			svc.Children = append(svc.Children, attach(child))
		}
		return svc
	}

	tree := make([]domain.Service, 0, len(roots))
	for _, root := range roots {
		tree = append(tree, attach(root))
	}
	return tree
}

// GroupByMonth buckets date-ordered days by (year, month) in first-seen
// order and labels each bucket with the Russian month name and year.
func GroupByMonth(days []domain.ScheduleDay) []domain.ScheduleMonth {
	months := []domain.ScheduleMonth{}
	index := map[[2]int]int{}

	for _, d := range days {
		key := [2]int{d.Date.Year(), int(d.Date.Month())}
		i, ok := index[key]
		if !ok {
			i = len(months)
			index[key] = i
			months = append(months, domain.ScheduleMonth{
				Label:       fmt.Sprintf("%s %d", domain.MonthName(d.Date.Month()), d.Date.Year()),
				Year:        d.Date.Year(),
				MonthNumber: int(d.Date.Month()),
				Days:        []domain.ScheduleDay{},
			})
		}
		months[i].Days = append(months[i].Days, d)
	}
	return months
}
