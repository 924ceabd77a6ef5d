package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a node in the services tree. Top-level services have a nil
// ParentID; categories group children and usually carry no price of their own.
type Service struct {
	ID          uuid.UUID
	ParentID    *uuid.UUID
	Title       string
	Slug        string
	Description string
	IsCategory  bool
	Price       *decimal.Decimal // nil when the price comes from tariffs
	Order       int
	Children    []Service
	Tariffs     []Tariff
}

// Tariff is a priced option of a Service.
type Tariff struct {
	ID          uuid.UUID
	ServiceID   uuid.UUID
	Title       string
	Slug        string
	Description string
	Duration    string
	Price       decimal.Decimal
	Order       int
}

// ScheduleDay is a calendar date with one or more events.
type ScheduleDay struct {
	ID          uuid.UUID
	Date        time.Time
	IsPublished bool
	Events      []ScheduleEvent
}

// ScheduleEvent is a single timed activity on a ScheduleDay.
// TimeStart and TimeEnd are "15:04" wall-clock strings.
type ScheduleEvent struct {
	ID          uuid.UUID
	DayID       uuid.UUID
	ServiceID   *uuid.UUID
	ServiceSlug string // empty when the event is not linked to a service
	Title       string
	Category    string
	Description string
	TimeStart   string
	TimeEnd     string
	Price       decimal.Decimal
	Color       string
	Order       int
}

// ScheduleMonth is the month bucket returned by the schedule endpoint.
type ScheduleMonth struct {
	Label       string // e.g. "Март 2026"
	Year        int
	MonthNumber int
	Days        []ScheduleDay
}

// monthNames are the nominative Russian month names used in schedule labels.
var monthNames = [12]string{
	"Январь", "Февраль", "Март", "Апрель", "Май", "Июнь",
	"Июль", "Август", "Сентябрь", "Октябрь", "Ноябрь", "Декабрь",
}

// MonthName returns the Russian name for m.
func MonthName(m time.Month) string {
	return monthNames[m-1]
}
