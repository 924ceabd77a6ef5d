package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// LeadRepo defines the persistence operations for inbound requests from the
// site: contact leads, day scenarios and service requests.
type LeadRepo interface {
	CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error)

	// CreateDayScenario inserts the scenario row only. Items are written with
	// CreateScenarioItem; callers run both inside one transaction.
	CreateDayScenario(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error)
	CreateScenarioItem(ctx context.Context, it domain.ScenarioItem) (domain.ScenarioItem, error)

	CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error)
}

type pgLeadRepo struct {
	db db
}

// NewLeadRepo constructs a LeadRepo backed by the provided db connection.
func NewLeadRepo(db db) LeadRepo {
	return &pgLeadRepo{db: db}
}

func (r *pgLeadRepo) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	const q = `
		INSERT INTO leads (name, contact, message)
		VALUES (@name, @contact, @message)
		RETURNING id, name, contact, message, is_processed, created_at`

	args := pgx.NamedArgs{"name": l.Name, "contact": l.Contact, "message": l.Message}

	var (
		out domain.Lead
		id  pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, args).Scan(&id, &out.Name, &out.Contact, &out.Message, &out.IsProcessed, &out.CreatedAt)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("repo.LeadRepo.CreateLead: %w", mapErr(err))
	}
	out.ID = uuid.UUID(id.Bytes)
	return out, nil
}

func (r *pgLeadRepo) CreateDayScenario(ctx context.Context, s domain.DayScenario) (domain.DayScenario, error) {
	const q = `
		INSERT INTO day_scenarios (name, contact, date, guests_count, comment, total_price)
		VALUES (@name, @contact, @date, @guests_count, @comment, @total_price::numeric)
		RETURNING id, date, total_price::text, is_processed, created_at`

	args := pgx.NamedArgs{
		"name":         s.Name,
		"contact":      s.Contact,
		"date":         s.Date,
		"guests_count": s.GuestsCount,
		"comment":      s.Comment,
		"total_price":  moneyArg(s.TotalPrice),
	}

	var (
		id    pgtype.UUID
		date  pgtype.Date
		total pgtype.Text
	)
	if err := r.db.QueryRow(ctx, q, args).Scan(&id, &date, &total, &s.IsProcessed, &s.CreatedAt); err != nil {
		return domain.DayScenario{}, fmt.Errorf("repo.LeadRepo.CreateDayScenario: %w", mapErr(err))
	}

	var err error
	s.ID = uuid.UUID(id.Bytes)
	s.Date = date.Time
	if s.TotalPrice, err = parseMoney(total); err != nil {
		return domain.DayScenario{}, fmt.Errorf("repo.LeadRepo.CreateDayScenario: total_price: %w", err)
	}
	s.Items = nil
	return s, nil
}

func (r *pgLeadRepo) CreateScenarioItem(ctx context.Context, it domain.ScenarioItem) (domain.ScenarioItem, error) {
	const q = `
		INSERT INTO scenario_items (scenario_id, title, price, quantity)
		VALUES (@scenario_id, @title, @price::numeric, @quantity)
		RETURNING id, price::text`

	args := pgx.NamedArgs{
		"scenario_id": it.ScenarioID,
		"title":       it.Title,
		"price":       moneyArg(it.Price),
		"quantity":    it.Quantity,
	}

	var (
		id    pgtype.UUID
		price pgtype.Text
	)
	if err := r.db.QueryRow(ctx, q, args).Scan(&id, &price); err != nil {
		return domain.ScenarioItem{}, fmt.Errorf("repo.LeadRepo.CreateScenarioItem: %w", mapErr(err))
	}

	var err error
	it.ID = uuid.UUID(id.Bytes)
	if it.Price, err = parseMoney(price); err != nil {
		return domain.ScenarioItem{}, fmt.Errorf("repo.LeadRepo.CreateScenarioItem: price: %w", err)
	}
	return it, nil
}

func (r *pgLeadRepo) CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
	const q = `
		INSERT INTO service_requests (name, contact, service_title, service_slug, price,
		                              total_price, message, preferred_date)
		VALUES (@name, @contact, @service_title, @service_slug, @price::numeric,
		        @total_price::numeric, @message, @preferred_date)
		RETURNING id, is_processed, created_at`

	args := pgx.NamedArgs{
		"name":           sr.Name,
		"contact":        sr.Contact,
		"service_title":  sr.ServiceTitle,
		"service_slug":   sr.ServiceSlug,
		"price":          moneyArg(sr.Price),
		"total_price":    moneyArg(sr.TotalPrice),
		"message":        sr.Message,
		"preferred_date": sr.PreferredDate, // nil becomes NULL
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, args).Scan(&id, &sr.IsProcessed, &sr.CreatedAt); err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("repo.LeadRepo.CreateServiceRequest: %w", mapErr(err))
	}
	sr.ID = uuid.UUID(id.Bytes)
	return sr, nil
}
