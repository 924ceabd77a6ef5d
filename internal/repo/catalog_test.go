package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
)

func mustCreateService(t *testing.T, r repo.ServiceRepo, s domain.Service) domain.Service {
	t.Helper()
	created, err := r.Create(context.Background(), s)
	require.NoError(t, err, "create service %q", s.Slug)
	return created
}

func TestServiceRepo_CreateWithParentAndPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := mustCreateService(t, s.Services, domain.Service{Title: "Баня", Slug: "banya", IsCategory: true})
	price := decimal.RequireFromString("3500")
	child := mustCreateService(t, s.Services, domain.Service{
		Title: "Парение", Slug: "parenie", ParentID: &parent.ID, Price: &price, Order: 2,
	})

	assert.Nil(t, parent.Price)
	assert.Nil(t, parent.ParentID)
	require.NotNil(t, child.ParentID)
	assert.Equal(t, parent.ID, *child.ParentID)
	require.NotNil(t, child.Price)
	assert.Equal(t, "3500.00", child.Price.StringFixed(2))
	assert.Equal(t, 2, child.Order)

	got, err := s.Services.GetBySlug(ctx, "parenie")
	require.NoError(t, err)
	assert.Equal(t, child.ID, got.ID)
}

func TestServiceRepo_GetBySlug_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Services.GetBySlug(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestServiceRepo_Tariffs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	svc := mustCreateService(t, s.Services, domain.Service{Title: "Сап", Slug: "sap"})

	none, err := s.Services.MinTariffPrice(ctx, svc.ID)
	require.NoError(t, err)
	assert.Nil(t, none, "no tariffs means no minimum")

	for i, p := range []string{"2500.50", "1800", "3000"} {
		_, err := s.Services.CreateTariff(ctx, domain.Tariff{
			ServiceID: svc.ID, Title: "Тариф", Slug: "t" + p, Price: decimal.RequireFromString(p), Order: i,
		})
		require.NoError(t, err)
	}

	lowest, err := s.Services.MinTariffPrice(ctx, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, lowest)
	assert.True(t, lowest.Equal(decimal.RequireFromString("1800")))

	tariffs, err := s.Services.ListTariffs(ctx)
	require.NoError(t, err)
	require.Len(t, tariffs, 3)
	assert.Equal(t, "2500.50", tariffs[0].Price.StringFixed(2))

	taken, err := s.Services.TariffSlugExists(ctx, svc.ID, "t1800")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = s.Services.TariffSlugExists(ctx, uuid.New(), "t1800")
	require.NoError(t, err)
	assert.False(t, taken, "tariff slugs are scoped to their service")
}

func TestServiceRepo_DeleteAllCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	parent := mustCreateService(t, s.Services, domain.Service{Title: "A", Slug: "a"})
	mustCreateService(t, s.Services, domain.Service{Title: "B", Slug: "b", ParentID: &parent.ID})
	_, err := s.Services.CreateTariff(ctx, domain.Tariff{ServiceID: parent.ID, Title: "T", Slug: "t", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	require.NoError(t, s.Services.DeleteAll(ctx))

	all, err := s.Services.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	tariffs, err := s.Services.ListTariffs(ctx)
	require.NoError(t, err)
	assert.Empty(t, tariffs)
}

func TestScheduleRepo_PublishedDaysWithEvents(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	svc := mustCreateService(t, s.Services, domain.Service{Title: "Чайная", Slug: "chaynaya"})

	later, err := s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 4, 2), IsPublished: true})
	require.NoError(t, err)
	earlier, err := s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 3, 30), IsPublished: true})
	require.NoError(t, err)
	_, err = s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 3, 31), IsPublished: false})
	require.NoError(t, err)

	ev, err := s.Schedule.CreateEvent(ctx, domain.ScheduleEvent{
		DayID: earlier.ID, ServiceID: &svc.ID, Title: "Чайная церемония",
		TimeStart: "18:00", TimeEnd: "19:30", Price: decimal.NewFromInt(2000), Color: "#FFB74D",
	})
	require.NoError(t, err)
	assert.Equal(t, "chaynaya", ev.ServiceSlug)
	assert.Equal(t, "18:00", ev.TimeStart)
	assert.Equal(t, "19:30", ev.TimeEnd)

	_, err = s.Schedule.CreateEvent(ctx, domain.ScheduleEvent{
		DayID: earlier.ID, Title: "Утренняя йога", TimeStart: "09:00", TimeEnd: "10:00",
	})
	require.NoError(t, err)

	days, err := s.Schedule.ListPublishedDays(ctx)

	require.NoError(t, err)
	require.Len(t, days, 2, "unpublished days are hidden")
	assert.Equal(t, earlier.ID, days[0].ID)
	assert.Equal(t, later.ID, days[1].ID)
	require.Len(t, days[0].Events, 2)
	assert.Equal(t, "Утренняя йога", days[0].Events[0].Title, "events sort by start time")
	assert.Empty(t, days[0].Events[0].ServiceSlug)
	assert.Nil(t, days[0].Events[0].ServiceID)
	assert.Empty(t, days[1].Events)
	assert.NotNil(t, days[1].Events)
}

func TestScheduleRepo_GetPublishedDay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	d, err := s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 5, 1), IsPublished: true})
	require.NoError(t, err)
	_, err = s.Schedule.CreateEvent(ctx, domain.ScheduleEvent{DayID: d.ID, Title: "Бег", TimeStart: "07:00", TimeEnd: "08:00"})
	require.NoError(t, err)
	hidden, err := s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 5, 2), IsPublished: false})
	require.NoError(t, err)

	got, err := s.Schedule.GetPublishedDay(ctx, d.ID)
	require.NoError(t, err)
	assert.True(t, got.Date.Equal(day(2026, 5, 1)))
	assert.Len(t, got.Events, 1)

	_, err = s.Schedule.GetPublishedDay(ctx, hidden.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestScheduleRepo_DeleteAll(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Schedule.CreateDay(ctx, domain.ScheduleDay{Date: day(2026, 6, 1), IsPublished: true})
	require.NoError(t, err)

	require.NoError(t, s.Schedule.DeleteAll(ctx))

	days, err := s.Schedule.ListPublishedDays(ctx)
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestPageRepo_GetPublishedBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.Pages.Create(ctx, domain.Page{Title: "О нас", Slug: "o-nas", Subtitle: "Кто мы", IsPublished: true})
	require.NoError(t, err)
	_, err = s.Pages.CreateSection(ctx, domain.PageSection{PageID: p.ID, Title: "Второй", Text: "B", Order: 2})
	require.NoError(t, err)
	_, err = s.Pages.CreateSection(ctx, domain.PageSection{PageID: p.ID, Title: "Первый", Text: "A", Order: 1})
	require.NoError(t, err)
	_, err = s.Pages.AddGalleryImage(ctx, domain.GalleryImage{PageID: p.ID, Image: "pages/1.jpg"})
	require.NoError(t, err)

	got, err := s.Pages.GetPublishedBySlug(ctx, "o-nas")

	require.NoError(t, err)
	assert.Equal(t, "Кто мы", got.Subtitle)
	require.Len(t, got.Sections, 2)
	assert.Equal(t, "Первый", got.Sections[0].Title)
	require.Len(t, got.Gallery, 1)
	assert.Equal(t, "pages/1.jpg", got.Gallery[0].Image)

	taken, err := s.Pages.SlugExists(ctx, "o-nas", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestPageRepo_UnpublishedNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Pages.Create(ctx, domain.Page{Title: "Черновик", Slug: "draft"})
	require.NoError(t, err)

	_, err = s.Pages.GetPublishedBySlug(ctx, "draft")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
