package engine

import (
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
)

const daysPerMonth = 30

// ClientScores derives risk and lifetime value for every client, in the
// input client order.
func ClientScores(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, cfg config.AnalyticsConfig, now time.Time) []domain.ClientScore {
	byClient := recordsByClient(records)

	scores := make([]domain.ClientScore, 0, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		invoices := byClient[client.ID]
		scores = append(scores, domain.ClientScore{
			ClientID:  client.ID.String(),
			Name:      client.DisplayName(),
			RiskScore: RiskScore(client, invoices, cfg, now),
			LTV:       LifetimeValue(client, invoices, now),
		})
	}
	return scores
}

// RiskScore is min(100, overdue + paused + inactivity). A client with
// no invoices scores zero regardless of the other terms.
func RiskScore(client *clientdomain.Client, invoices []*billingdomain.BillingRecord, cfg config.AnalyticsConfig, now time.Time) float64 {
	if client == nil || len(invoices) == 0 {
		return 0
	}

	var overdue float64
	for _, record := range invoices {
		if record.PaymentStatus == billingdomain.StatusOverdue {
			overdue += cfg.OverdueInvoiceWeight
		}
	}

	var paused float64
	if client.Status == clientdomain.StatusPaused {
		paused = cfg.PausedClientWeight
	}

	var inactivity float64
	if !client.UpdatedAt.IsZero() {
		months := now.Sub(client.UpdatedAt).Hours() / 24 / cfg.InactivityWindowDays
		inactivity = months * cfg.InactivityStep
		if inactivity > 100 {
			inactivity = 100
		}
		if inactivity < 0 {
			inactivity = 0
		}
	}

	score := overdue + paused + inactivity
	if score > 100 {
		score = 100
	}
	return score
}

// LifetimeValue is total billed divided by the client's age in months.
// A missing creation date counts as one month; zero billing is zero.
func LifetimeValue(client *clientdomain.Client, invoices []*billingdomain.BillingRecord, now time.Time) float64 {
	var total float64
	for _, record := range invoices {
		total += record.Amount
	}
	if total == 0 {
		return 0
	}

	months := 1.0
	if client != nil && !client.CreatedAt.IsZero() {
		months = now.Sub(client.CreatedAt).Hours() / 24 / daysPerMonth
	}
	if months <= 0 {
		return total
	}
	return total / months
}

// HighRisk keeps scores above the threshold, descending. The sort is
// stable so ties preserve input client order.
func HighRisk(scores []domain.ClientScore, cfg config.AnalyticsConfig) []domain.ClientScore {
	high := make([]domain.ClientScore, 0)
	for _, score := range scores {
		if score.RiskScore > cfg.HighRiskThreshold {
			high = append(high, score)
		}
	}
	sort.SliceStable(high, func(i, j int) bool {
		return high[i].RiskScore > high[j].RiskScore
	})
	return high
}

func recordsByClient(records []*billingdomain.BillingRecord) map[snowflake.ID][]*billingdomain.BillingRecord {
	byClient := make(map[snowflake.ID][]*billingdomain.BillingRecord)
	for _, record := range records {
		if record == nil {
			continue
		}
		byClient[record.ClientID] = append(byClient[record.ClientID], record)
	}
	return byClient
}
