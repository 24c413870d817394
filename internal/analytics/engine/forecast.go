package engine

import (
	"sort"
	"time"

	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
)

// Forecast projects revenue forward from the recent monthly trend and
// collects the payments expected inside the upcoming window.
func Forecast(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, cfg config.AnalyticsConfig, now time.Time) domain.Forecast {
	return domain.Forecast{
		Points:   ForecastPoints(records, cfg, now),
		Upcoming: UpcomingPayments(clients, records, cfg, now),
	}
}

// ForecastPoints needs at least three billed months; with fewer it
// returns no points at all. The projection applies the average
// month-over-month growth of the trailing window, floored at zero.
func ForecastPoints(records []*billingdomain.BillingRecord, cfg config.AnalyticsConfig, now time.Time) []domain.ForecastPoint {
	buckets := MonthlyRevenue(records)
	if len(buckets) < 3 {
		return nil
	}

	window := cfg.ForecastMonths
	if window <= 0 {
		window = 6
	}
	recent := buckets
	if len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	var avgGrowth float64
	terms := 0
	for i := 1; i < len(recent); i++ {
		terms++
		if recent[i-1].Revenue == 0 {
			continue
		}
		avgGrowth += (recent[i].Revenue - recent[i-1].Revenue) / recent[i-1].Revenue
	}
	if terms > 0 {
		avgGrowth /= float64(terms)
	}

	points := make([]domain.ForecastPoint, 0, len(recent)+window)
	for _, bucket := range recent {
		points = append(points, domain.ForecastPoint{
			Month:   bucket.Month,
			Revenue: bucket.Revenue,
			Type:    domain.PointActual,
		})
	}

	projected := recent[len(recent)-1].Revenue
	for i := 1; i <= window; i++ {
		projected *= 1 + avgGrowth
		if projected < 0 {
			projected = 0
		}
		points = append(points, domain.ForecastPoint{
			Month:   now.AddDate(0, i, 0).UTC().Format("2006-01"),
			Revenue: projected,
			Type:    domain.PointForecast,
		})
	}

	return points
}

// UpcomingPayments merges active monthly plans due inside the window
// with every dated unpaid invoice, ordered by due date, capped at ten.
func UpcomingPayments(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, cfg config.AnalyticsConfig, now time.Time) []domain.UpcomingPayment {
	windowDays := cfg.UpcomingWindowDays
	if windowDays <= 0 {
		windowDays = 90
	}
	horizon := now.AddDate(0, 0, windowDays)

	index := clientIndex(clients)
	upcoming := make([]domain.UpcomingPayment, 0)

	for _, client := range clients {
		if client == nil || client.Status != clientdomain.StatusActive {
			continue
		}
		plan := client.Plan
		if plan.Model != clientdomain.PlanMonthly || plan.NextDue == nil {
			continue
		}
		due := *plan.NextDue
		if due.After(now) && !due.After(horizon) {
			upcoming = append(upcoming, domain.UpcomingPayment{
				Client:  client.DisplayName(),
				Amount:  plan.Amount,
				DueDate: due,
				Type:    domain.UpcomingRecurring,
			})
		}
	}

	for _, record := range records {
		if record == nil || record.PaymentStatus != billingdomain.StatusUnpaid || record.DueDate == nil {
			continue
		}
		upcoming = append(upcoming, domain.UpcomingPayment{
			Client:  displayName(index, record.ClientID),
			Amount:  record.Amount,
			DueDate: *record.DueDate,
			Type:    domain.UpcomingInvoice,
		})
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].DueDate.Before(upcoming[j].DueDate)
	})

	if len(upcoming) > 10 {
		upcoming = upcoming[:10]
	}
	return upcoming
}
