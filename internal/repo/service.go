package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// ServiceRepo defines the persistence operations for the services catalog
// (services and their tariffs). Rows are returned flat; building the tree is
// the service layer's job.
type ServiceRepo interface {
	// Create inserts a service. The caller must have assigned s.Slug.
	Create(ctx context.Context, s domain.Service) (domain.Service, error)

	// CreateTariff inserts a tariff for t.ServiceID.
	CreateTariff(ctx context.Context, t domain.Tariff) (domain.Tariff, error)

	// ListAll returns every service ordered by sort order, then title.
	ListAll(ctx context.Context) ([]domain.Service, error)

	// ListTariffs returns every tariff ordered by sort order, then title.
	ListTariffs(ctx context.Context) ([]domain.Tariff, error)

	// GetBySlug returns the service with slug or domain.ErrNotFound.
	GetBySlug(ctx context.Context, slug string) (domain.Service, error)

	// MinTariffPrice returns the cheapest tariff price of the service, or nil
	// when it has no tariffs.
	MinTariffPrice(ctx context.Context, serviceID uuid.UUID) (*decimal.Decimal, error)

	SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error)

	// TariffSlugExists reports whether slug is taken among the tariffs of serviceID.
	TariffSlugExists(ctx context.Context, serviceID uuid.UUID, slug string) (bool, error)

	// DeleteAll removes every service and, by cascade, every tariff.
	DeleteAll(ctx context.Context) error
}

type pgServiceRepo struct {
	db db
}

// NewServiceRepo constructs a ServiceRepo backed by the provided db connection.
func NewServiceRepo(db db) ServiceRepo {
	return &pgServiceRepo{db: db}
}

const (
	serviceColumns = `id, parent_id, title, slug, description, is_category, price::text, sort_order`
	tariffColumns  = `id, service_id, title, slug, description, duration, price::text, sort_order`
)

func (r *pgServiceRepo) Create(ctx context.Context, s domain.Service) (domain.Service, error) {
	const q = `
		INSERT INTO services (parent_id, title, slug, description, is_category, price, sort_order)
		VALUES (@parent_id, @title, @slug, @description, @is_category, @price::numeric, @sort_order)
		RETURNING ` + serviceColumns

	args := pgx.NamedArgs{
		"parent_id":   s.ParentID, // nil becomes NULL
		"title":       s.Title,
		"slug":        s.Slug,
		"description": s.Description,
		"is_category": s.IsCategory,
		"price":       optionalMoneyArg(s.Price),
		"sort_order":  s.Order,
	}

	result, err := scanService(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Service{}, fmt.Errorf("repo.ServiceRepo.Create: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgServiceRepo) CreateTariff(ctx context.Context, t domain.Tariff) (domain.Tariff, error) {
	const q = `
		INSERT INTO tariffs (service_id, title, slug, description, duration, price, sort_order)
		VALUES (@service_id, @title, @slug, @description, @duration, @price::numeric, @sort_order)
		RETURNING ` + tariffColumns

	args := pgx.NamedArgs{
		"service_id":  t.ServiceID,
		"title":       t.Title,
		"slug":        t.Slug,
		"description": t.Description,
		"duration":    t.Duration,
		"price":       moneyArg(t.Price),
		"sort_order":  t.Order,
	}

	result, err := scanTariff(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Tariff{}, fmt.Errorf("repo.ServiceRepo.CreateTariff: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgServiceRepo) ListAll(ctx context.Context) ([]domain.Service, error) {
	const q = `SELECT ` + serviceColumns + ` FROM services ORDER BY sort_order, title`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.ListAll: %w", err)
	}
	services, err := collect(rows, scanService)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.ListAll: rows: %w", err)
	}
	return services, nil
}

func (r *pgServiceRepo) ListTariffs(ctx context.Context) ([]domain.Tariff, error) {
	const q = `SELECT ` + tariffColumns + ` FROM tariffs ORDER BY sort_order, title`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.ListTariffs: %w", err)
	}
	tariffs, err := collect(rows, scanTariff)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.ListTariffs: rows: %w", err)
	}
	return tariffs, nil
}

func (r *pgServiceRepo) GetBySlug(ctx context.Context, slug string) (domain.Service, error) {
	const q = `SELECT ` + serviceColumns + ` FROM services WHERE slug = @slug`

	result, err := scanService(r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug}))
	if err != nil {
		return domain.Service{}, fmt.Errorf("repo.ServiceRepo.GetBySlug: %w", mapErr(err))
	}
	return result, nil
}

func (r *pgServiceRepo) MinTariffPrice(ctx context.Context, serviceID uuid.UUID) (*decimal.Decimal, error) {
	const q = `SELECT min(price)::text FROM tariffs WHERE service_id = @service_id`

	var raw pgtype.Text
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"service_id": serviceID}).Scan(&raw); err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.MinTariffPrice: %w", err)
	}
	price, err := parseOptionalMoney(raw)
	if err != nil {
		return nil, fmt.Errorf("repo.ServiceRepo.MinTariffPrice: parse: %w", err)
	}
	return price, nil
}

func (r *pgServiceRepo) SlugExists(ctx context.Context, slug string, exclude uuid.UUID) (bool, error) {
	exists, err := slugExists(ctx, r.db, "services", slug, exclude)
	if err != nil {
		return false, fmt.Errorf("repo.ServiceRepo.SlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgServiceRepo) TariffSlugExists(ctx context.Context, serviceID uuid.UUID, slug string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM tariffs WHERE service_id = @service_id AND slug = @slug)`

	var exists bool
	args := pgx.NamedArgs{"service_id": serviceID, "slug": slug}
	if err := r.db.QueryRow(ctx, q, args).Scan(&exists); err != nil {
		return false, fmt.Errorf("repo.ServiceRepo.TariffSlugExists: %w", err)
	}
	return exists, nil
}

func (r *pgServiceRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM services`); err != nil {
		return fmt.Errorf("repo.ServiceRepo.DeleteAll: %w", err)
	}
	return nil
}

func scanService(s scanner) (domain.Service, error) {
	var (
		svc      domain.Service
		id       pgtype.UUID
		parentID pgtype.UUID
		price    pgtype.Text
	)
	err := s.Scan(&id, &parentID, &svc.Title, &svc.Slug, &svc.Description, &svc.IsCategory, &price, &svc.Order)
	if err != nil {
		return domain.Service{}, err
	}
	svc.ID = uuid.UUID(id.Bytes)
	svc.ParentID = optionalUUID(parentID)
	if svc.Price, err = parseOptionalMoney(price); err != nil {
		return domain.Service{}, fmt.Errorf("price: %w", err)
	}
	return svc, nil
}

func scanTariff(s scanner) (domain.Tariff, error) {
	var (
		t         domain.Tariff
		id        pgtype.UUID
		serviceID pgtype.UUID
		price     pgtype.Text
	)
	err := s.Scan(&id, &serviceID, &t.Title, &t.Slug, &t.Description, &t.Duration, &price, &t.Order)
	if err != nil {
		return domain.Tariff{}, err
	}
	t.ID = uuid.UUID(id.Bytes)
	t.ServiceID = uuid.UUID(serviceID.Bytes)
	if t.Price, err = parseMoney(price); err != nil {
		return domain.Tariff{}, fmt.Errorf("price: %w", err)
	}
	return t, nil
}
