package engine

import (
	"math"
	"time"

	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
)

// EngagementScores derives a 0-100 activity score per client from
// recency of updates, billing activity in the last 90 days, and
// lifecycle status.
func EngagementScores(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, now time.Time) []domain.Engagement {
	byClient := recordsByClient(records)

	scores := make([]domain.Engagement, 0, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		score := engagementScore(client, byClient[client.ID], now)
		scores = append(scores, domain.Engagement{
			ClientID: client.ID.String(),
			Name:     client.DisplayName(),
			Score:    score,
			Level:    engagementLevel(score),
			Status:   client.Status,
		})
	}
	return scores
}

func engagementLevel(score float64) domain.EngagementLevel {
	switch {
	case score >= 80:
		return domain.EngagementHigh
	case score >= 60:
		return domain.EngagementMedium
	case score >= 40:
		return domain.EngagementLow
	default:
		return domain.EngagementVeryLow
	}
}

func engagementScore(client *clientdomain.Client, invoices []*billingdomain.BillingRecord, now time.Time) float64 {
	lastUpdated := client.UpdatedAt
	if lastUpdated.IsZero() {
		lastUpdated = client.CreatedAt
	}
	daysSinceUpdate := math.Floor(now.Sub(lastUpdated).Hours() / 24)

	cutoff := now.AddDate(0, 0, -90)
	recent := 0
	for _, record := range invoices {
		if record.BillDate != nil && record.BillDate.After(cutoff) {
			recent++
		}
	}

	score := 100.0
	if daysSinceUpdate > 30 {
		score -= math.Min(50, daysSinceUpdate-30)
	}
	score += math.Min(20, float64(recent)*5)

	switch client.Status {
	case clientdomain.StatusActive:
		score += 10
	case clientdomain.StatusPaused:
		score -= 20
	case clientdomain.StatusInactive:
		score -= 30
	}

	return math.Max(0, math.Min(100, score))
}
