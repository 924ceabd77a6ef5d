package handler

import (
	"net/http"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	"github.com/struchkova/konakovo-backend/internal/domain"
)

// LeadRequest is the contact form body, echoed back on success.
type LeadRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Message string `json:"message"`
}

// DayScenarioRequest is a visitor's day plan.
type DayScenarioRequest struct {
	Name        string                `json:"name"`
	Contact     string                `json:"contact"`
	Date        *openapi_types.Date   `json:"date"`
	GuestsCount int                   `json:"guests_count"`
	Comment     string                `json:"comment"`
	TotalPrice  decimal.Decimal       `json:"total_price"`
	Items       []ScenarioItemRequest `json:"items"`
}

// ScenarioItemRequest is one line of a DayScenarioRequest. An omitted
// quantity means 1; an explicit 0 is rejected.
type ScenarioItemRequest struct {
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Quantity *int            `json:"quantity"`
}

// DayScenarioResponse echoes a stored scenario.
type DayScenarioResponse struct {
	Name        string                 `json:"name"`
	Contact     string                 `json:"contact"`
	Date        openapi_types.Date     `json:"date"`
	GuestsCount int                    `json:"guests_count"`
	Comment     string                 `json:"comment"`
	TotalPrice  string                 `json:"total_price"`
	Items       []ScenarioItemResponse `json:"items"`
}

// ScenarioItemResponse is one stored scenario line.
type ScenarioItemResponse struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
}

// ServiceRequestRequest books a catalog service. Quantity defaults to 1 when
// omitted and is used only to compute total_price.
type ServiceRequestRequest struct {
	Name          string              `json:"name"`
	Contact       string              `json:"contact"`
	ServiceSlug   string              `json:"service_slug"`
	Quantity      *int                `json:"quantity"`
	Message       string              `json:"message"`
	PreferredDate *openapi_types.Date `json:"preferred_date"`
}

// ServiceRequestResponse is a stored service request with catalog-derived
// title and prices.
type ServiceRequestResponse struct {
	Name          string              `json:"name"`
	Contact       string              `json:"contact"`
	ServiceTitle  string              `json:"service_title"`
	ServiceSlug   string              `json:"service_slug"`
	Price         string              `json:"price"`
	TotalPrice    string              `json:"total_price"`
	Message       string              `json:"message"`
	PreferredDate *openapi_types.Date `json:"preferred_date"`
}

// CreateLead handles POST /api/leads.
func (s *Server) CreateLead(w http.ResponseWriter, r *http.Request) {
	var body LeadRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	l, err := s.leads.CreateLead(r.Context(), domain.Lead{Name: body.Name, Contact: body.Contact, Message: body.Message})
	if err != nil {
		writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusCreated, LeadRequest{Name: l.Name, Contact: l.Contact, Message: l.Message})
}

// CreateDayScenario handles POST /api/day-scenarios.
func (s *Server) CreateDayScenario(w http.ResponseWriter, r *http.Request) {
	var body DayScenarioRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	sc := domain.DayScenario{
		Name:        body.Name,
		Contact:     body.Contact,
		GuestsCount: body.GuestsCount,
		Comment:     body.Comment,
		TotalPrice:  body.TotalPrice,
		Items:       make([]domain.ScenarioItem, len(body.Items)),
	}
	if body.Date != nil {
		sc.Date = body.Date.Time
	}
	for i, it := range body.Items {
		sc.Items[i] = domain.ScenarioItem{Title: it.Title, Price: it.Price, Quantity: quantityOrDefault(it.Quantity)}
	}

	created, err := s.leads.CreateDayScenario(r.Context(), sc)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	resp := DayScenarioResponse{
		Name:        created.Name,
		Contact:     created.Contact,
		Date:        openapi_types.Date{Time: created.Date},
		GuestsCount: created.GuestsCount,
		Comment:     created.Comment,
		TotalPrice:  created.TotalPrice.StringFixed(2),
		Items:       make([]ScenarioItemResponse, len(created.Items)),
	}
	for i, it := range created.Items {
		resp.Items[i] = ScenarioItemResponse{Title: it.Title, Price: it.Price.StringFixed(2), Quantity: it.Quantity}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// CreateServiceRequest handles POST /api/service-requests.
func (s *Server) CreateServiceRequest(w http.ResponseWriter, r *http.Request) {
	var body ServiceRequestRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	sr := domain.ServiceRequest{
		Name:        body.Name,
		Contact:     body.Contact,
		ServiceSlug: body.ServiceSlug,
		Quantity:    quantityOrDefault(body.Quantity),
		Message:     body.Message,
	}
	if body.PreferredDate != nil {
		d := body.PreferredDate.Time
		sr.PreferredDate = &d
	}

	created, err := s.leads.CreateServiceRequest(r.Context(), sr)
	if err != nil {
		writeError(w, r, err, "")
		return
	}

	resp := ServiceRequestResponse{
		Name:         created.Name,
		Contact:      created.Contact,
		ServiceTitle: created.ServiceTitle,
		ServiceSlug:  created.ServiceSlug,
		Price:        created.Price.StringFixed(2),
		TotalPrice:   created.TotalPrice.StringFixed(2),
		Message:      created.Message,
	}
	if created.PreferredDate != nil {
		resp.PreferredDate = &openapi_types.Date{Time: dateOnly(*created.PreferredDate)}
	}
	writeJSON(w, http.StatusCreated, resp)
}

// quantityOrDefault returns 1 for an omitted quantity. Explicit values,
// including 0, are passed through for validation.
func quantityOrDefault(q *int) int {
	if q == nil {
		return 1
	}
	return *q
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
