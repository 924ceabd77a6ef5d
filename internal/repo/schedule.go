package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ScheduleRepo defines the persistence operations for schedule days and
// their events.
type ScheduleRepo interface {
	// ListPublishedDays returns published days ordered by date, each with its
	// events ordered by sort order and start time.
	ListPublishedDays(ctx context.Context) ([]domain.ScheduleDay, error)

	// GetPublishedDay returns one published day with its events, or
	// domain.ErrNotFound.
	GetPublishedDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error)

	CreateDay(ctx context.Context, d domain.ScheduleDay) (domain.ScheduleDay, error)

	// CreateEvent inserts an event for e.DayID. TimeStart and TimeEnd must be
	// "15:04" strings.
	CreateEvent(ctx context.Context, e domain.ScheduleEvent) (domain.ScheduleEvent, error)

	// DeleteAll removes every day and, by cascade, every event.
	DeleteAll(ctx context.Context) error
}

type pgScheduleRepo struct {
	db db
}

// NewScheduleRepo constructs a ScheduleRepo backed by the provided db connection.
func NewScheduleRepo(db db) ScheduleRepo {
	return &pgScheduleRepo{db: db}
}

const eventColumns = `e.id, e.day_id, e.service_id, coalesce(s.slug, ''), e.title, e.category,
		e.description, to_char(e.time_start, 'HH24:MI'), to_char(e.time_end, 'HH24:MI'),
		e.price::text, e.color, e.sort_order`

func (r *pgScheduleRepo) ListPublishedDays(ctx context.Context) ([]domain.ScheduleDay, error) {
	const daysQ = `
		SELECT id, date, is_published
		FROM schedule_days
		WHERE is_published
		ORDER BY date`

	rows, err := r.db.Query(ctx, daysQ)
	if err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.ListPublishedDays: %w", err)
	}
	days, err := collect(rows, scanDay)
	if err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.ListPublishedDays: rows: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	const eventsQ = `
		SELECT ` + eventColumns + `
		FROM schedule_events e
		JOIN schedule_days d ON d.id = e.day_id
		LEFT JOIN services s ON s.id = e.service_id
		WHERE d.is_published
		ORDER BY e.sort_order, e.time_start`

	events, err := r.events(ctx, eventsQ, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.ScheduleRepo.ListPublishedDays: events: %w", err)
	}

	byDay := make(map[uuid.UUID][]domain.ScheduleEvent, len(days))
	for _, e := range events {
		byDay[e.DayID] = append(byDay[e.DayID], e)
	}
	for i := range days {
		if evs, ok := byDay[days[i].ID]; ok {
			days[i].Events = evs
		}
	}
	return days, nil
}

func (r *pgScheduleRepo) GetPublishedDay(ctx context.Context, id uuid.UUID) (domain.ScheduleDay, error) {
	const dayQ = `SELECT id, date, is_published FROM schedule_days WHERE id = @id AND is_published`

	day, err := scanDay(r.db.QueryRow(ctx, dayQ, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.ScheduleDay{}, fmt.Errorf("repo.ScheduleRepo.GetPublishedDay: %w", mapErr(err))
	}

	const eventsQ = `
		SELECT ` + eventColumns + `
		FROM schedule_events e
		LEFT JOIN services s ON s.id = e.service_id
		WHERE e.day_id = @id
		ORDER BY e.sort_order, e.time_start`

	events, err := r.events(ctx, eventsQ, pgx.NamedArgs{"id": id})
	if err != nil {
		return domain.ScheduleDay{}, fmt.Errorf("repo.ScheduleRepo.GetPublishedDay: events: %w", err)
	}
	day.Events = events
	return day, nil
}

func (r *pgScheduleRepo) events(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.ScheduleEvent, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

func (r *pgScheduleRepo) CreateDay(ctx context.Context, d domain.ScheduleDay) (domain.ScheduleDay, error) {
	const q = `
		INSERT INTO schedule_days (date, is_published)
		VALUES (@date, @is_published)
		RETURNING id, date, is_published`

	args := pgx.NamedArgs{"date": d.Date, "is_published": d.IsPublished}

	result, err := scanDay(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ScheduleDay{}, fmt.Errorf("repo.ScheduleRepo.CreateDay: %w", mapErr(err))
	}
	result.Events = []domain.ScheduleEvent{}
	return result, nil
}

func (r *pgScheduleRepo) CreateEvent(ctx context.Context, e domain.ScheduleEvent) (domain.ScheduleEvent, error) {
	const q = `
		WITH e AS (
			INSERT INTO schedule_events (day_id, service_id, title, category, description,
			                             time_start, time_end, price, color, sort_order)
			VALUES (@day_id, @service_id, @title, @category, @description,
			        @time_start::time, @time_end::time, @price::numeric, @color, @sort_order)
			RETURNING *
		)
		SELECT ` + eventColumns + `
		FROM e
		LEFT JOIN services s ON s.id = e.service_id`

	args := pgx.NamedArgs{
		"day_id":      e.DayID,
		"service_id":  e.ServiceID,
		"title":       e.Title,
		"category":    e.Category,
		"description": e.Description,
		"time_start":  e.TimeStart,
		"time_end":    e.TimeEnd,
		"price":       moneyArg(e.Price),
		"color":       e.Color,
		"sort_order":  e.Order,
	}

	result, err := scanEvent(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("repo.ScheduleRepo.CreateEvent: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgScheduleRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM schedule_days`); err != nil {
		return fmt.Errorf("repo.ScheduleRepo.DeleteAll: %w", err)
	}
	return nil
}

func scanDay(s scanner) (domain.ScheduleDay, error) {
	var (
		d    domain.ScheduleDay
		id   pgtype.UUID
		date pgtype.Date
	)
	if err := s.Scan(&id, &date, &d.IsPublished); err != nil {
		return domain.ScheduleDay{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	d.Date = date.Time
	d.Events = []domain.ScheduleEvent{}
	return d, nil
}

func scanEvent(s scanner) (domain.ScheduleEvent, error) {
	var (
		e         domain.ScheduleEvent
		id        pgtype.UUID
		dayID     pgtype.UUID
		serviceID pgtype.UUID
		price     pgtype.Text
	)
	err := s.Scan(&id, &dayID, &serviceID, &e.ServiceSlug, &e.Title, &e.Category, &e.Description,
		&e.TimeStart, &e.TimeEnd, &price, &e.Color, &e.Order)
	if err != nil {
		return domain.ScheduleEvent{}, err
	}
	e.ID = uuid.UUID(id.Bytes)
	e.DayID = uuid.UUID(dayID.Bytes)
	e.ServiceID = optionalUUID(serviceID)
	if e.Price, err = parseMoney(price); err != nil {
		return domain.ScheduleEvent{}, fmt.Errorf("price: %w", err)
	}
	return e, nil
}
