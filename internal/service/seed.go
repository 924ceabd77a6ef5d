package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/cache"
	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
	"github.com/struchkova/konakovo-backend/internal/richtext"
)

// ServiceSeed is one node of the services seed file.
type ServiceSeed struct {
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	IsCategory  bool             `json:"is_category"`
	Order       int              `json:"order"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Tariffs     []TariffSeed     `json:"tariffs"`
	Children    []ServiceSeed    `json:"children"`
}

// TariffSeed is one tariff of a ServiceSeed.
type TariffSeed struct {
	Title       string          `json:"title"`
	Slug        string          `json:"slug"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Price       decimal.Decimal `json:"price"`
	Order       int             `json:"order"`
}

// SeedCounts reports how many rows a seed command created.
type SeedCounts struct {
	Services int
	Tariffs  int
	Days     int
	Events   int
	Articles int
	News     int
	Pages    int
}

// SeedService replaces catalog data from seed files and generators.
// Every seed runs in one transaction and invalidates the catalog cache
// after commit.
type SeedService struct {
	tx    TxRunner
	cache cache.Cache
	rt    *richtext.Renderer
	log   *slog.Logger
}

// NewSeedService constructs a SeedService. A nil cache means no caching.
func NewSeedService(tx TxRunner, c cache.Cache, rt *richtext.Renderer, log *slog.Logger) *SeedService {
	if c == nil {
		c = cache.Nop{}
	}
	if rt == nil {
		rt = richtext.New()
	}
	if log == nil {
		log = slog.Default()
	}
	return &SeedService{tx: tx, cache: c, rt: rt, log: log}
}

// SeedServices deletes every service and tariff and recreates the tree from
// items. Missing slugs are assigned from titles.
func (s *SeedService) SeedServices(ctx context.Context, items []ServiceSeed) (SeedCounts, error) {
	var counts SeedCounts
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		counts = SeedCounts{}
		if err := r.Services.DeleteAll(ctx); err != nil {
			return err
		}
		return createServiceTree(ctx, r.Services, items, nil, &counts)
	})
	if err != nil {
		return SeedCounts{}, fmt.Errorf("service.SeedService.SeedServices: %w", err)
	}
	s.invalidate(ctx)
	return counts, nil
}

func createServiceTree(ctx context.Context, services repo.ServiceRepo, items []ServiceSeed, parent *uuid.UUID, counts *SeedCounts) error {
	for _, item := range items {
		slug, err := uniqueSlug(ctx, item.Slug, item.Title, fallbackService, func(ctx context.Context, c string) (bool, error) {
			return services.SlugExists(ctx, c, uuid.Nil)
		})
		if err != nil {
			return err
		}

		svc, err := services.Create(ctx, domain.Service{
			ParentID:    parent,
			Title:       item.Title,
			Slug:        slug,
			Description: item.Description,
			IsCategory:  item.IsCategory,
			Price:       item.Price,
			Order:       item.Order,
		})
		if err != nil {
			return err
		}
		counts.Services++

		for _, t := range item.Tariffs {
			tslug, err := uniqueSlug(ctx, t.Slug, t.Title, fallbackTariff, func(ctx context.Context, c string) (bool, error) {
				return services.TariffSlugExists(ctx, svc.ID, c)
			})
			if err != nil {
				return err
			}
			_, err = services.CreateTariff(ctx, domain.Tariff{
				ServiceID:   svc.ID,
				Title:       t.Title,
				Slug:        tslug,
				Description: t.Description,
				Duration:    t.Duration,
				Price:       t.Price,
				Order:       t.Order,
			})
			if err != nil {
				return err
			}
			counts.Tariffs++
		}

		if err := createServiceTree(ctx, services, item.Children, &svc.ID, counts); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleOptions controls the generated schedule.
type ScheduleOptions struct {
	Months    int       // months to fill, starting with the month of Today
	MinEvents int       // lower bound on the total number of events
	Seed      int64     // random seed; equal seeds give equal plans
	Today     time.Time // zero means time.Now()
}

// DefaultScheduleOptions returns the options used by the seed command.
func DefaultScheduleOptions() ScheduleOptions {
	return ScheduleOptions{Months: 8, MinEvents: 110, Seed: 42}
}

// EventTemplate is a kind of activity the schedule generator places on days.
type EventTemplate struct {
	Title       string
	Category    string
	Description string
	PriceMin    int64
	PriceMax    int64
	Color       string
	ServiceSlug string
}

// EventTemplates are the activities offered on the site.
var EventTemplates = []EventTemplate{
	{"Чайная церемония", "Авторская программа", "Камерный формат с практикой внимания и спокойным ритмом.", 2800, 4200, "#E9B949", "avtorskie-programmy"},
	{"Экскурсия в Братство лосей", "Экскурсия", "Маршрут по природной зоне с проводником и остановками в ключевых точках.", 3200, 5400, "#6BA368", "ekskursiya-v-bratstvo-losey"},
	{"Беговой клуб", "Спорт", "Легкая тренировка с акцентом на технику, темп и восстановление.", 1200, 2600, "#C88B3A", "begovye-vstrechi"},
	{"Мастер-класс по дыханию", "Мастер-класс", "Практика для фокуса, снижения напряжения и восстановления энергии.", 1800, 3200, "#7AA2F7", "master-klassy"},
	{"Волонтерская программа", "Сообщество", "Практические задачи в команде с поддержкой координатора.", 900, 1900, "#A68BFF", ""},
	{"Вечерний маршрут у воды", "Экскурсия", "Неспешный формат с наблюдением природы и финальной рефлексией.", 2400, 3900, "#4FB3BF", "ekskursiya-v-bratstvo-losey"},
}

const maxEventsPerDay = 3

// PlanSchedule generates published days with events. Each month gets 8 to
// 15 active days with 1 to 3 events each; when the total is below
// opts.MinEvents, days with spare capacity are topped up in date order.
// Events carry ServiceSlug from their template; ServiceID is left nil.
func PlanSchedule(opts ScheduleOptions) []domain.ScheduleDay {
	rng := rand.New(rand.NewSource(opts.Seed))
	today := opts.Today
	if today.IsZero() {
		today = time.Now()
	}

	var days []domain.ScheduleDay
	total := 0
	for offset := 0; offset < opts.Months; offset++ {
		first := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, time.UTC)
		daysInMonth := first.AddDate(0, 1, -1).Day()

		active := min(8+rng.Intn(8), daysInMonth)
		numbers := rng.Perm(daysInMonth)[:active]
		sort.Ints(numbers)

		for _, n := range numbers {
			d := domain.ScheduleDay{
				Date:        first.AddDate(0, 0, n),
				IsPublished: true,
			}
			perDay := 1 + rng.Intn(maxEventsPerDay)
			baseHour := 8 + rng.Intn(8)
			for idx := 0; idx < perDay; idx++ {
				d.Events = append(d.Events, planEvent(rng, min(baseHour+idx*2, 20), idx))
			}
			total += perDay
			days = append(days, d)
		}
	}

	for total < opts.MinEvents && len(days) > 0 {
		added := false
		for i := range days {
			if total >= opts.MinEvents {
				break
			}
			load := len(days[i].Events)
			if load >= maxEventsPerDay {
				continue
			}
			days[i].Events = append(days[i].Events, planEvent(rng, 9+load*2, load))
			total++
			added = true
		}
		if !added {
			break
		}
	}
	return days
}

func planEvent(rng *rand.Rand, startHour, order int) domain.ScheduleEvent {
	t := EventTemplates[rng.Intn(len(EventTemplates))]
	duration := []int{60, 90, 120}[rng.Intn(3)]
	end := startHour*60 + duration

	return domain.ScheduleEvent{
		Title:       t.Title,
		Category:    t.Category,
		Description: t.Description,
		TimeStart:   fmt.Sprintf("%02d:00", startHour),
		TimeEnd:     fmt.Sprintf("%02d:%02d", end/60, end%60),
		Price:       decimal.NewFromInt(t.PriceMin + rng.Int63n(t.PriceMax-t.PriceMin+1)),
		Color:       t.Color,
		Order:       order,
		ServiceSlug: t.ServiceSlug,
	}
}

// SeedSchedule deletes every schedule day and stores a fresh plan. Events
// are linked to services whose slug matches their template.
func (s *SeedService) SeedSchedule(ctx context.Context, opts ScheduleOptions) (SeedCounts, error) {
	plan := PlanSchedule(opts)

	var counts SeedCounts
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		counts = SeedCounts{}
		if err := r.Schedule.DeleteAll(ctx); err != nil {
			return err
		}

		services, err := r.Services.ListAll(ctx)
		if err != nil {
			return err
		}
		bySlug := make(map[string]uuid.UUID, len(services))
		for _, svc := range services {
			bySlug[svc.Slug] = svc.ID
		}

		for _, d := range plan {
			day, err := r.Schedule.CreateDay(ctx, d)
			if err != nil {
				return err
			}
			counts.Days++
			for _, e := range d.Events {
				e.DayID = day.ID
				if id, ok := bySlug[e.ServiceSlug]; ok && e.ServiceSlug != "" {
					e.ServiceID = &id
				}
				if _, err := r.Schedule.CreateEvent(ctx, e); err != nil {
					return err
				}
				counts.Events++
			}
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, fmt.Errorf("service.SeedService.SeedSchedule: %w", err)
	}
	s.invalidate(ctx)
	return counts, nil
}

// ArticleSeed is an article entry of the content import file.
type ArticleSeed struct {
	Title              string          `yaml:"title"`
	Slug               string          `yaml:"slug"`
	ContentType        string          `yaml:"content_type"`
	PreviewImage       string          `yaml:"preview_image"`
	PreviewDescription string          `yaml:"preview_description"`
	Body               string          `yaml:"body"`
	Format             richtext.Format `yaml:"format"`
	VideoURL           string          `yaml:"video_url"`
	PublishedDate      time.Time       `yaml:"published_date"`
	Draft              bool            `yaml:"draft"`
}

// NewsSeed is a news entry of the content import file.
type NewsSeed struct {
	Title         string    `yaml:"title"`
	Slug          string    `yaml:"slug"`
	Description   string    `yaml:"description"`
	Image         string    `yaml:"image"`
	Content       []string  `yaml:"content"`
	PublishedDate time.Time `yaml:"published_date"`
	Draft         bool      `yaml:"draft"`
}

// PageSeed is a static page entry of the content import file.
type PageSeed struct {
	Title     string `yaml:"title"`
	Slug      string `yaml:"slug"`
	Subtitle  string `yaml:"subtitle"`
	HeroImage string `yaml:"hero_image"`
	Order     int    `yaml:"order"`
	Sections  []struct {
		Title string `yaml:"title"`
		Text  string `yaml:"text"`
		Image string `yaml:"image"`
	} `yaml:"sections"`
	Gallery []string `yaml:"gallery"`
	Draft   bool     `yaml:"draft"`
}

// ContentBundle is the root of the content import file.
type ContentBundle struct {
	Articles []ArticleSeed `yaml:"articles"`
	News     []NewsSeed    `yaml:"news"`
	Pages    []PageSeed    `yaml:"pages"`
}

// ImportContent creates every article, news item and page of b in one
// transaction. Existing records are left alone; slugs that are already taken
// get a numeric suffix.
func (s *SeedService) ImportContent(ctx context.Context, b ContentBundle) (SeedCounts, error) {
	var counts SeedCounts
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		counts = SeedCounts{}
		content := NewContentService(r, s.rt)

		for _, a := range b.Articles {
			_, err := content.CreateArticle(ctx, domain.Article{
				Title:              a.Title,
				Slug:               a.Slug,
				ContentType:        domain.ContentType(a.ContentType),
				PreviewImage:       a.PreviewImage,
				PreviewDescription: a.PreviewDescription,
				Content:            a.Body,
				VideoURL:           a.VideoURL,
				IsPublished:        !a.Draft,
				PublishedDate:      a.PublishedDate,
			}, a.Format)
			if err != nil {
				return fmt.Errorf("article %q: %w", a.Title, err)
			}
			counts.Articles++
		}

		for _, n := range b.News {
			_, err := content.CreateNews(ctx, domain.News{
				Title:         n.Title,
				Slug:          n.Slug,
				Description:   n.Description,
				Image:         n.Image,
				Content:       n.Content,
				IsPublished:   !n.Draft,
				PublishedDate: n.PublishedDate,
			})
			if err != nil {
				return fmt.Errorf("news %q: %w", n.Title, err)
			}
			counts.News++
		}

		for _, p := range b.Pages {
			page := domain.Page{
				Title:       p.Title,
				Slug:        p.Slug,
				Subtitle:    p.Subtitle,
				HeroImage:   p.HeroImage,
				IsPublished: !p.Draft,
				Order:       p.Order,
			}
			for i, sec := range p.Sections {
				page.Sections = append(page.Sections, domain.PageSection{Title: sec.Title, Text: sec.Text, Image: sec.Image, Order: i})
			}
			for i, img := range p.Gallery {
				page.Gallery = append(page.Gallery, domain.GalleryImage{Image: img, Order: i})
			}
			if _, err := content.CreatePage(ctx, page); err != nil {
				return fmt.Errorf("page %q: %w", p.Title, err)
			}
			counts.Pages++
		}
		return nil
	})
	if err != nil {
		return SeedCounts{}, fmt.Errorf("service.SeedService.ImportContent: %w", err)
	}
	return counts, nil
}

func (s *SeedService) invalidate(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.CatalogKeys...); err != nil {
		s.log.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}
