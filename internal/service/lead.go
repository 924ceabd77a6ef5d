package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/repo"
)

// Messages for service requests that name an unusable service.
const (
	msgServiceNotFound = "Услуга не найдена."
	msgServiceNoPrice  = "Для услуги не задана стоимость."
)

// LeadService accepts contact forms, day scenarios and service requests.
type LeadService struct {
	repos repo.Repos
	tx    TxRunner
}

// NewLeadService constructs a LeadService. Reads and single-row writes go
// through repos; a day scenario and its items are written through tx.
func NewLeadService(repos repo.Repos, tx TxRunner) *LeadService {
	return &LeadService{repos: repos, tx: tx}
}

// CreateLead validates and stores a contact request.
func (s *LeadService) CreateLead(ctx context.Context, l domain.Lead) (domain.Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Contact = strings.TrimSpace(l.Contact)
	l.Message = strings.TrimSpace(l.Message)

	errs := domain.FieldErrors{}
	if err := validateStruct(l, errs); err != nil {
		return domain.Lead{}, fmt.Errorf("service.LeadService.CreateLead: %w", err)
	}
	if err := errs.OrNil(); err != nil {
		return domain.Lead{}, err
	}

	out, err := s.repos.Leads.CreateLead(ctx, l)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("service.LeadService.CreateLead: %w", err)
	}
	return out, nil
}

// CreateDayScenario validates a scenario and stores it with all of its items
// in one transaction. Every item quantity must be at least 1; callers apply
// the default for omitted quantities.
func (s *LeadService) CreateDayScenario(ctx context.Context, sc domain.DayScenario) (domain.DayScenario, error) {
	sc.Name = strings.TrimSpace(sc.Name)
	sc.Contact = strings.TrimSpace(sc.Contact)
	for i := range sc.Items {
		sc.Items[i].Title = strings.TrimSpace(sc.Items[i].Title)
	}

	errs := domain.FieldErrors{}
	if err := validateStruct(sc, errs); err != nil {
		return domain.DayScenario{}, fmt.Errorf("service.LeadService.CreateDayScenario: %w", err)
	}
	if sc.Date.IsZero() {
		errs.Add("date", msgRequired)
	}
	requireNonNegative(errs, "total_price", sc.TotalPrice)
	for i, it := range sc.Items {
		requireNonNegative(errs, fmt.Sprintf("items[%d].price", i), it.Price)
	}
	if err := errs.OrNil(); err != nil {
		return domain.DayScenario{}, err
	}

	var out domain.DayScenario
	err := s.tx.InTx(ctx, func(r repo.Repos) error {
		created, err := r.Leads.CreateDayScenario(ctx, sc)
		if err != nil {
			return err
		}
		created.Items = make([]domain.ScenarioItem, 0, len(sc.Items))
		for _, it := range sc.Items {
			it.ScenarioID = created.ID
			item, err := r.Leads.CreateScenarioItem(ctx, it)
			if err != nil {
				return err
			}
			created.Items = append(created.Items, item)
		}
		out = created
		return nil
	})
	if err != nil {
		return domain.DayScenario{}, fmt.Errorf("service.LeadService.CreateDayScenario: %w", err)
	}
	return out, nil
}

// CreateServiceRequest prices a request from the catalog and stores it.
// The price is the service's own price, or its cheapest tariff when it has
// none; total is price times quantity, which must be at least 1. The
// stored service slug and title are the catalog's canonical ones.
func (s *LeadService) CreateServiceRequest(ctx context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
	sr.Name = strings.TrimSpace(sr.Name)
	sr.Contact = strings.TrimSpace(sr.Contact)
	sr.ServiceSlug = strings.TrimSpace(sr.ServiceSlug)
	sr.Message = strings.TrimSpace(sr.Message)

	errs := domain.FieldErrors{}
	if err := validateStruct(sr, errs); err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("service.LeadService.CreateServiceRequest: %w", err)
	}
	if err := errs.OrNil(); err != nil {
		return domain.ServiceRequest{}, err
	}

	svc, err := s.repos.Services.GetBySlug(ctx, sr.ServiceSlug)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ServiceRequest{}, domain.FieldErrors{"service_slug": {msgServiceNotFound}}
	}
	if err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("service.LeadService.CreateServiceRequest: %w", err)
	}

	price := svc.Price
	if price == nil {
		if price, err = s.repos.Services.MinTariffPrice(ctx, svc.ID); err != nil {
			return domain.ServiceRequest{}, fmt.Errorf("service.LeadService.CreateServiceRequest: %w", err)
		}
	}
	if price == nil {
		return domain.ServiceRequest{}, domain.FieldErrors{"service_slug": {msgServiceNoPrice}}
	}

	sr.ServiceTitle = svc.Title
	sr.ServiceSlug = svc.Slug
	sr.Price = *price
	sr.TotalPrice = price.Mul(decimal.NewFromInt(int64(sr.Quantity)))

	out, err := s.repos.Leads.CreateServiceRequest(ctx, sr)
	if err != nil {
		return domain.ServiceRequest{}, fmt.Errorf("service.LeadService.CreateServiceRequest: %w", err)
	}
	return out, nil
}
