package domain

import (
	"time"

	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
)

// ServiceRevenue is one service category's accumulated cost, emitted in
// first-seen category order.
type ServiceRevenue struct {
	Service string  `json:"service"`
	Amount  float64 `json:"amount"`
}

// ClientRevenue is one display name's accumulated invoice amount.
type ClientRevenue struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// RevenuePoint is a single invoice plotted on the revenue timeline.
type RevenuePoint struct {
	Date   time.Time                   `json:"date"`
	Amount float64                     `json:"amount"`
	Status billingdomain.PaymentStatus `json:"status"`
}

// Growth compares the two most recent invoice months.
type Growth struct {
	Rate          float64 `json:"rate"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	CurrentMonth  string  `json:"current_month,omitempty"`
	PreviousMonth string  `json:"previous_month,omitempty"`
}

type Summary struct {
	TotalRevenue    float64          `json:"total_revenue"`
	PaidRevenue     float64          `json:"paid_revenue"`
	UnpaidRevenue   float64          `json:"unpaid_revenue"`
	OverdueRevenue  float64          `json:"overdue_revenue"`
	ServiceRevenue  []ServiceRevenue `json:"service_revenue"`
	TopClients      []ClientRevenue  `json:"top_clients"`
	RevenueOverTime []RevenuePoint   `json:"revenue_over_time"`
	Growth          Growth           `json:"growth"`
}

// ClientScore carries the two derived per-client metrics.
type ClientScore struct {
	ClientID  string  `json:"client_id"`
	Name      string  `json:"name"`
	RiskScore float64 `json:"risk_score"`
	LTV       float64 `json:"ltv"`
}

type ClientScores struct {
	Scores   []ClientScore `json:"scores"`
	HighRisk []ClientScore `json:"high_risk"`
}

// InvoiceQuery parameterizes the filtered/sorted invoice view. "all"
// (or empty) disables the status and currency filters.
type InvoiceQuery struct {
	Search        string `form:"search"`
	Status        string `form:"status,default=all"`
	Currency      string `form:"currency,default=all"`
	SortField     string `form:"sort_field,default=billDate"`
	SortDirection string `form:"sort_direction,default=desc"`
}

type ForecastPointType string

const (
	PointActual   ForecastPointType = "actual"
	PointForecast ForecastPointType = "forecast"
)

type ForecastPoint struct {
	Month   string            `json:"month"`
	Revenue float64           `json:"revenue"`
	Type    ForecastPointType `json:"type"`
}

type UpcomingPaymentType string

const (
	UpcomingRecurring UpcomingPaymentType = "recurring"
	UpcomingInvoice   UpcomingPaymentType = "invoice"
)

type UpcomingPayment struct {
	Client  string              `json:"client"`
	Amount  float64             `json:"amount"`
	DueDate time.Time           `json:"due_date"`
	Type    UpcomingPaymentType `json:"type"`
}

type Forecast struct {
	Points   []ForecastPoint   `json:"points"`
	Upcoming []UpcomingPayment `json:"upcoming_payments"`
}

type EngagementLevel string

const (
	EngagementHigh    EngagementLevel = "high"
	EngagementMedium  EngagementLevel = "medium"
	EngagementLow     EngagementLevel = "low"
	EngagementVeryLow EngagementLevel = "very_low"
)

// Engagement is a heatmap cell: a 0-100 activity score per client.
type Engagement struct {
	ClientID string              `json:"client_id"`
	Name     string              `json:"name"`
	Score    float64             `json:"score"`
	Level    EngagementLevel     `json:"level"`
	Status   clientdomain.Status `json:"status"`
}

// Overview carries the dashboard headline tallies.
type Overview struct {
	TotalClients    int                            `json:"total_clients"`
	ActiveClients   int                            `json:"active_clients"`
	TotalInvoices   int                            `json:"total_invoices"`
	OverdueInvoices int                            `json:"overdue_invoices"`
	DueSoonInvoices int                            `json:"due_soon_invoices"`
	ClientsByStatus map[clientdomain.Status]int    `json:"clients_by_status"`
	PlansByModel    map[clientdomain.PlanModel]int `json:"plans_by_model"`
}
