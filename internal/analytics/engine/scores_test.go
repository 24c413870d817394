package engine

import (
	"math"
	"testing"
	"time"

	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
)

var scoringNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func TestRiskScoreZeroInvoicesShortCircuits(t *testing.T) {
	client := testClient(10, "A", "", clientdomain.StatusPaused)
	client.UpdatedAt = scoringNow.AddDate(-2, 0, 0)

	score := RiskScore(client, nil, config.DefaultAnalyticsConfig(), scoringNow)
	if score != 0 {
		t.Fatalf("client with no invoices must score 0, got %v", score)
	}
}

func TestRiskScoreClampsAtHundred(t *testing.T) {
	client := testClient(10, "A", "", clientdomain.StatusPaused)
	client.UpdatedAt = scoringNow.AddDate(-3, 0, 0)

	invoices := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusOverdue, nil),
		record(2, 10, 100, billingdomain.StatusOverdue, nil),
		record(3, 10, 100, billingdomain.StatusOverdue, nil),
		record(4, 10, 100, billingdomain.StatusOverdue, nil),
		record(5, 10, 100, billingdomain.StatusOverdue, nil),
	}

	score := RiskScore(client, invoices, config.DefaultAnalyticsConfig(), scoringNow)
	if score != 100 {
		t.Fatalf("score must clamp at 100, got %v", score)
	}
}

func TestRiskScoreTerms(t *testing.T) {
	cfg := config.DefaultAnalyticsConfig()

	client := testClient(10, "A", "", clientdomain.StatusPaused)
	client.UpdatedAt = scoringNow.AddDate(0, 0, -30)

	invoices := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusOverdue, nil),
		record(2, 10, 100, billingdomain.StatusPaid, nil),
	}

	// 1 overdue * 25 + paused 20 + 30 days inactivity * 10/30d = 55
	score := RiskScore(client, invoices, cfg, scoringNow)
	if math.Abs(score-55) > 0.01 {
		t.Fatalf("expected score 55, got %v", score)
	}
}

func TestLifetimeValue(t *testing.T) {
	client := testClient(10, "A", "", clientdomain.StatusActive)
	client.CreatedAt = scoringNow.AddDate(0, 0, -60) // two 30-day months

	invoices := []*billingdomain.BillingRecord{
		record(1, 10, 300, billingdomain.StatusPaid, nil),
		record(2, 10, 300, billingdomain.StatusUnpaid, nil),
	}

	ltv := LifetimeValue(client, invoices, scoringNow)
	if math.Abs(ltv-300) > 0.01 {
		t.Fatalf("expected monthly ltv 300, got %v", ltv)
	}
}

func TestLifetimeValueZeroBilled(t *testing.T) {
	client := testClient(10, "A", "", clientdomain.StatusActive)
	client.CreatedAt = scoringNow.AddDate(-1, 0, 0)

	if ltv := LifetimeValue(client, nil, scoringNow); ltv != 0 {
		t.Fatalf("zero billed must yield zero ltv, got %v", ltv)
	}
}

func TestLifetimeValueMissingCreatedAtDefaultsToOneMonth(t *testing.T) {
	client := testClient(10, "A", "", clientdomain.StatusActive)

	invoices := []*billingdomain.BillingRecord{
		record(1, 10, 450, billingdomain.StatusPaid, nil),
	}

	ltv := LifetimeValue(client, invoices, scoringNow)
	if ltv != 450 {
		t.Fatalf("missing createdAt must default to one month, got %v", ltv)
	}
}

func TestHighRiskStableDescending(t *testing.T) {
	cfg := config.DefaultAnalyticsConfig()

	clients := []*clientdomain.Client{
		testClient(10, "Low", "", clientdomain.StatusActive),
		testClient(11, "TieA", "", clientdomain.StatusPaused),
		testClient(12, "High", "", clientdomain.StatusPaused),
		testClient(13, "TieB", "", clientdomain.StatusPaused),
	}
	for _, client := range clients {
		client.UpdatedAt = scoringNow
	}

	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, nil),
		// TieA and TieB: 2 overdue + paused = 70 each
		record(2, 11, 100, billingdomain.StatusOverdue, nil),
		record(3, 11, 100, billingdomain.StatusOverdue, nil),
		record(6, 13, 100, billingdomain.StatusOverdue, nil),
		record(7, 13, 100, billingdomain.StatusOverdue, nil),
		// High: 3 overdue + paused = 95
		record(4, 12, 100, billingdomain.StatusOverdue, nil),
		record(5, 12, 100, billingdomain.StatusOverdue, nil),
		record(8, 12, 100, billingdomain.StatusOverdue, nil),
	}

	scores := ClientScores(clients, records, cfg, scoringNow)
	high := HighRisk(scores, cfg)

	if len(high) != 3 {
		t.Fatalf("expected 3 high-risk clients, got %d", len(high))
	}
	if high[0].Name != "High" {
		t.Fatalf("expected highest score first, got %+v", high[0])
	}
	if high[1].Name != "TieA" || high[2].Name != "TieB" {
		t.Fatalf("ties must keep input order, got %+v", high)
	}
}
