package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lead is a generic contact request from the site form.
type Lead struct {
	ID          uuid.UUID
	Name        string `validate:"required,max=255"`
	Contact     string `validate:"required,max=255"`
	Message     string `validate:"required"`
	IsProcessed bool
	CreatedAt   time.Time
}

// DayScenario is a custom day plan assembled by a visitor, with line items.
type DayScenario struct {
	ID          uuid.UUID
	Name        string `validate:"required,max=255"`
	Contact     string `validate:"required,max=255"`
	Date        time.Time
	GuestsCount int `validate:"gte=1"`
	Comment     string
	TotalPrice  decimal.Decimal
	Items       []ScenarioItem `validate:"dive"`
	IsProcessed bool
	CreatedAt   time.Time
}

// ScenarioItem is one line of a DayScenario.
type ScenarioItem struct {
	ID         uuid.UUID
	ScenarioID uuid.UUID
	Title      string `validate:"required,max=255"`
	Price      decimal.Decimal
	Quantity   int `validate:"gte=1"`
}

// ServiceRequest is a booking request for a single catalog service.
// ServiceTitle, Price and TotalPrice are derived from the catalog on creation;
// Quantity is used for the derivation only and is not stored.
type ServiceRequest struct {
	ID            uuid.UUID
	Name          string `validate:"required,max=255"`
	Contact       string `validate:"required,max=255"`
	ServiceTitle  string
	ServiceSlug   string `validate:"required,max=255"`
	Price         decimal.Decimal
	TotalPrice    decimal.Decimal
	Quantity      int `validate:"gte=1"`
	Message       string
	PreferredDate *time.Time
	IsProcessed   bool
	CreatedAt     time.Time
}
