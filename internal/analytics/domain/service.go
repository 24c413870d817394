package domain

import (
	"context"

	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
)

type SummaryRequest struct {
	Currency string `form:"currency,default=all"`
}

// Service computes derived analytics over a fresh snapshot of clients
// and invoices on every call; nothing is persisted.
type Service interface {
	Summary(context.Context, SummaryRequest) (Summary, error)
	ClientScores(context.Context) (ClientScores, error)
	Invoices(context.Context, InvoiceQuery) ([]billingdomain.BillingRecord, error)
	Forecast(context.Context) (Forecast, error)
	Engagement(context.Context) ([]Engagement, error)
	Overview(context.Context) (Overview, error)
}
