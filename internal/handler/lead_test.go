package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/struchkova/konakovo-backend/internal/domain"
	"github.com/struchkova/konakovo-backend/internal/handler"
)

// ---- POST /api/leads -------------------------------------------------------

func TestCreateLead_201(t *testing.T) {
	var got domain.Lead
	h := newHTTPHandler(deps{leads: &mockLeads{
		createLead: func(_ context.Context, l domain.Lead) (domain.Lead, error) {
			got = l
			l.ID = uuid.New()
			return l, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/leads/", map[string]any{
		"name": "Мария", "contact": "+7 900", "message": "Хочу на экскурсию",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Мария", got.Name)
	assert.Equal(t, handler.LeadRequest{Name: "Мария", Contact: "+7 900", Message: "Хочу на экскурсию"}, decode[handler.LeadRequest](t, rec))
}

func TestCreateLead_422_Fields(t *testing.T) {
	h := newHTTPHandler(deps{leads: &mockLeads{
		createLead: func(context.Context, domain.Lead) (domain.Lead, error) {
			return domain.Lead{}, domain.FieldErrors{"contact": {"Обязательное поле."}}
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/leads", map[string]any{"name": "Мария"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "validation_error", resp.Error.Code)
	assert.Equal(t, "Обязательное поле.", resp.Error.Message)
	assert.Equal(t, []string{"Обязательное поле."}, resp.Error.Fields["contact"])
}

func TestCreateLead_400_MalformedJSON(t *testing.T) {
	rec := do(t, newHTTPHandler(deps{}), http.MethodPost, "/api/leads", `{"name":`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode[handler.ErrorResponse](t, rec).Error.Code)
}

func TestCreateLead_400_EmptyBody(t *testing.T) {
	rec := do(t, newHTTPHandler(deps{}), http.MethodPost, "/api/leads", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateLead_409(t *testing.T) {
	h := newHTTPHandler(deps{leads: &mockLeads{
		createLead: func(context.Context, domain.Lead) (domain.Lead, error) {
			return domain.Lead{}, fmt.Errorf("repo.LeadRepo.CreateLead: %w", domain.ErrConflict)
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/leads", map[string]any{"name": "x"})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

// ---- POST /api/day-scenarios -----------------------------------------------

func TestCreateDayScenario_201(t *testing.T) {
	var got domain.DayScenario
	h := newHTTPHandler(deps{leads: &mockLeads{
		createDayScenario: func(_ context.Context, s domain.DayScenario) (domain.DayScenario, error) {
			got = s
			s.ID = uuid.New()
			return s, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/day-scenarios", `{
		"name": "Иван", "contact": "ivan@example.com", "date": "2026-05-09",
		"guests_count": 4, "total_price": "9000",
		"items": [{"title": "Экскурсия", "price": 3000, "quantity": 2}, {"title": "Чай", "price": "3000.00"}]
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, day(2026, time.May, 9), got.Date)
	require.Len(t, got.Items, 2)
	assert.True(t, got.Items[0].Price.Equal(decimal.NewFromInt(3000)))
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.Equal(t, 1, got.Items[1].Quantity, "omitted quantity means 1")

	resp := decode[handler.DayScenarioResponse](t, rec)
	assert.Equal(t, "9000.00", resp.TotalPrice)
	assert.Equal(t, "2026-05-09", resp.Date.String())
	require.Len(t, resp.Items, 2)
	assert.Equal(t, 1, resp.Items[1].Quantity)
}

func TestCreateDayScenario_400_BadDate(t *testing.T) {
	rec := do(t, newHTTPHandler(deps{}), http.MethodPost, "/api/day-scenarios", `{"date": "09.05.2026"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDayScenario_ExplicitZeroQuantityReachesValidation(t *testing.T) {
	var got domain.DayScenario
	h := newHTTPHandler(deps{leads: &mockLeads{
		createDayScenario: func(_ context.Context, s domain.DayScenario) (domain.DayScenario, error) {
			got = s
			return domain.DayScenario{}, domain.FieldErrors{"items[0].quantity": {"Значение должно быть не меньше 1."}}
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/day-scenarios", `{
		"name": "Иван", "contact": "ivan@example.com", "date": "2026-05-09",
		"guests_count": 1, "total_price": "0", "items": [{"title": "Чай", "price": 0, "quantity": 0}]
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 0, got.Items[0].Quantity)
}

// ---- POST /api/service-requests --------------------------------------------

// quantityGuard mirrors the service rule so handler tests see the 422 path.
func quantityGuard(got *domain.ServiceRequest) *mockLeads {
	return &mockLeads{
		createServiceRequest: func(_ context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
			*got = sr
			if sr.Quantity < 1 {
				return domain.ServiceRequest{}, domain.FieldErrors{"quantity": {"Значение должно быть не меньше 1."}}
			}
			sr.Price = decimal.NewFromInt(1000)
			sr.TotalPrice = sr.Price.Mul(decimal.NewFromInt(int64(sr.Quantity)))
			return sr, nil
		},
	}
}

func TestCreateServiceRequest_422_ZeroQuantity(t *testing.T) {
	var got domain.ServiceRequest
	h := newHTTPHandler(deps{leads: quantityGuard(&got)})

	rec := do(t, h, http.MethodPost, "/api/service-requests", `{
		"name": "Олег", "contact": "oleg@example.com", "service_slug": "sport", "quantity": 0
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, got.Quantity)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Contains(t, resp.Error.Fields, "quantity")
}

func TestCreateServiceRequest_OmittedQuantityMeansOne(t *testing.T) {
	var got domain.ServiceRequest
	h := newHTTPHandler(deps{leads: quantityGuard(&got)})

	rec := do(t, h, http.MethodPost, "/api/service-requests", `{
		"name": "Олег", "contact": "oleg@example.com", "service_slug": "sport"
	}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, got.Quantity)
	assert.Equal(t, "1000.00", decode[handler.ServiceRequestResponse](t, rec).TotalPrice)
}

func TestCreateServiceRequest_201(t *testing.T) {
	h := newHTTPHandler(deps{leads: &mockLeads{
		createServiceRequest: func(_ context.Context, sr domain.ServiceRequest) (domain.ServiceRequest, error) {
			assert.Equal(t, 2, sr.Quantity)
			require.NotNil(t, sr.PreferredDate)
			sr.ServiceTitle = "Беговые встречи"
			sr.Price = decimal.NewFromInt(1500)
			sr.TotalPrice = decimal.NewFromInt(3000)
			return sr, nil
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/service-requests", map[string]any{
		"name": "Олег", "contact": "oleg@example.com", "service_slug": "begovye-vstrechi",
		"quantity": 2, "preferred_date": "2026-06-01",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[handler.ServiceRequestResponse](t, rec)
	assert.Equal(t, "Беговые встречи", resp.ServiceTitle)
	assert.Equal(t, "1500.00", resp.Price)
	assert.Equal(t, "3000.00", resp.TotalPrice)
	require.NotNil(t, resp.PreferredDate)
	assert.Equal(t, "2026-06-01", resp.PreferredDate.String())
	assert.NotContains(t, rec.Body.String(), "quantity", "quantity is write-only")
}

func TestCreateServiceRequest_422_UnknownService(t *testing.T) {
	h := newHTTPHandler(deps{leads: &mockLeads{
		createServiceRequest: func(context.Context, domain.ServiceRequest) (domain.ServiceRequest, error) {
			return domain.ServiceRequest{}, domain.FieldErrors{"service_slug": {"Услуга не найдена."}}
		},
	}})

	rec := do(t, h, http.MethodPost, "/api/service-requests", map[string]any{"service_slug": "nope"})

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decode[handler.ErrorResponse](t, rec)
	assert.Equal(t, "Услуга не найдена.", resp.Error.Message)
	assert.Contains(t, resp.Error.Fields, "service_slug")
}
