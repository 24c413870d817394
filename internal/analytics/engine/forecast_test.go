package engine

import (
	"math"
	"testing"
	"time"

	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
)

var forecastNow = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestForecastRequiresThreeMonths(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-04-05")),
		record(2, 10, 200, billingdomain.StatusPaid, date("2024-05-05")),
	}

	points := ForecastPoints(records, config.DefaultAnalyticsConfig(), forecastNow)
	if points != nil {
		t.Fatalf("expected no forecast with two billed months, got %+v", points)
	}
}

func TestForecastProjectsAverageGrowth(t *testing.T) {
	// 100 -> 200 -> 400: average month-over-month growth 100%.
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-03-05")),
		record(2, 10, 200, billingdomain.StatusPaid, date("2024-04-05")),
		record(3, 10, 400, billingdomain.StatusPaid, date("2024-05-05")),
	}

	points := ForecastPoints(records, config.DefaultAnalyticsConfig(), forecastNow)

	if len(points) != 9 {
		t.Fatalf("expected 3 actual + 6 forecast points, got %d", len(points))
	}
	for _, point := range points[:3] {
		if point.Type != domain.PointActual {
			t.Fatalf("expected actual point, got %+v", point)
		}
	}
	if points[3].Type != domain.PointForecast {
		t.Fatalf("expected forecast point, got %+v", points[3])
	}
	if math.Abs(points[3].Revenue-800) > 0.01 {
		t.Fatalf("expected first projection 800, got %v", points[3].Revenue)
	}
	if points[3].Month != "2024-07" {
		t.Fatalf("expected first forecast month 2024-07, got %s", points[3].Month)
	}
}

func TestForecastFloorsAtZero(t *testing.T) {
	// Steep decline drives the projection negative without the floor.
	records := []*billingdomain.BillingRecord{
		record(1, 10, 1000, billingdomain.StatusPaid, date("2024-03-05")),
		record(2, 10, 100, billingdomain.StatusPaid, date("2024-04-05")),
		record(3, 10, 1, billingdomain.StatusPaid, date("2024-05-05")),
	}

	points := ForecastPoints(records, config.DefaultAnalyticsConfig(), forecastNow)
	for _, point := range points {
		if point.Revenue < 0 {
			t.Fatalf("forecast revenue must never be negative, got %+v", point)
		}
	}
}

func TestUpcomingPaymentsMergesPlansAndUnpaidInvoices(t *testing.T) {
	due := forecastNow.AddDate(0, 0, 14)
	farOut := forecastNow.AddDate(0, 0, 120)

	active := testClient(10, "Asha Rao", "Acme Studio", clientdomain.StatusActive)
	active.Plan = clientdomain.BillingPlan{Model: clientdomain.PlanMonthly, Amount: 500, NextDue: &due}

	outOfWindow := testClient(11, "Ben Ortiz", "", clientdomain.StatusActive)
	outOfWindow.Plan = clientdomain.BillingPlan{Model: clientdomain.PlanMonthly, Amount: 900, NextDue: &farOut}

	paused := testClient(12, "Cara Lin", "", clientdomain.StatusPaused)
	paused.Plan = clientdomain.BillingPlan{Model: clientdomain.PlanMonthly, Amount: 700, NextDue: &due}

	invoiceDue := forecastNow.AddDate(0, 0, 7)
	unpaid := record(1, 10, 250, billingdomain.StatusUnpaid, nil)
	unpaid.DueDate = &invoiceDue
	paid := record(2, 10, 999, billingdomain.StatusPaid, nil)
	paid.DueDate = &invoiceDue
	undated := record(3, 10, 400, billingdomain.StatusUnpaid, nil)

	upcoming := UpcomingPayments(
		[]*clientdomain.Client{active, outOfWindow, paused},
		[]*billingdomain.BillingRecord{unpaid, paid, undated},
		config.DefaultAnalyticsConfig(),
		forecastNow,
	)

	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming payments, got %+v", upcoming)
	}
	if upcoming[0].Type != domain.UpcomingInvoice || upcoming[0].Amount != 250 {
		t.Fatalf("expected unpaid invoice first by due date, got %+v", upcoming[0])
	}
	if upcoming[1].Type != domain.UpcomingRecurring || upcoming[1].Client != "Acme Studio" {
		t.Fatalf("expected recurring plan second, got %+v", upcoming[1])
	}
}

func TestUpcomingPaymentsCapAtTen(t *testing.T) {
	var records []*billingdomain.BillingRecord
	for i := int64(1); i <= 15; i++ {
		due := forecastNow.AddDate(0, 0, int(i))
		invoice := record(i, 10, float64(i), billingdomain.StatusUnpaid, nil)
		invoice.DueDate = &due
		records = append(records, invoice)
	}

	upcoming := UpcomingPayments(nil, records, config.DefaultAnalyticsConfig(), forecastNow)
	if len(upcoming) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(upcoming))
	}
	if upcoming[0].Amount != 1 {
		t.Fatalf("expected earliest due first, got %+v", upcoming[0])
	}
}

func TestEngagementScoreBounds(t *testing.T) {
	stale := testClient(10, "Stale", "", clientdomain.StatusInactive)
	stale.UpdatedAt = forecastNow.AddDate(-1, 0, 0)

	fresh := testClient(11, "Fresh", "", clientdomain.StatusActive)
	fresh.UpdatedAt = forecastNow.AddDate(0, 0, -1)

	recentBill := forecastNow.AddDate(0, 0, -10)
	records := []*billingdomain.BillingRecord{}
	for i := int64(1); i <= 6; i++ {
		invoice := record(i, 11, 100, billingdomain.StatusPaid, nil)
		invoice.BillDate = &recentBill
		records = append(records, invoice)
	}

	scores := EngagementScores([]*clientdomain.Client{stale, fresh}, records, forecastNow)

	if len(scores) != 2 {
		t.Fatalf("expected 2 scores, got %d", len(scores))
	}
	// Stale inactive client: 100 - 50 - 30 = 20.
	if scores[0].Score != 20 {
		t.Fatalf("expected stale score 20, got %v", scores[0].Score)
	}
	if scores[0].Level != domain.EngagementVeryLow {
		t.Fatalf("expected very_low level, got %q", scores[0].Level)
	}
	// Fresh active client with heavy billing: 100 + 20 + 10 clamps to 100.
	if scores[1].Score != 100 {
		t.Fatalf("expected fresh score to clamp at 100, got %v", scores[1].Score)
	}
	if scores[1].Level != domain.EngagementHigh {
		t.Fatalf("expected high level, got %q", scores[1].Level)
	}
}

func TestEngagementScorePausedPenalty(t *testing.T) {
	paused := testClient(10, "Paused", "", clientdomain.StatusPaused)
	paused.UpdatedAt = forecastNow.AddDate(0, 0, -5)

	scores := EngagementScores([]*clientdomain.Client{paused}, nil, forecastNow)
	if scores[0].Score != 80 {
		t.Fatalf("expected paused score 80, got %v", scores[0].Score)
	}
}
