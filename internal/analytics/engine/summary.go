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

// CurrencyAll disables currency filtering.
const CurrencyAll = "all"

// Summary reduces the full invoice set into the dashboard summary. Only
// total revenue honors the currency filter; the status partitions and
// every other reduction run over all records.
func Summary(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, currency string, cfg config.AnalyticsConfig) domain.Summary {
	summary := domain.Summary{
		ServiceRevenue:  ServiceRevenue(records),
		TopClients:      TopClients(clients, records, cfg.TopClientLimit),
		RevenueOverTime: RevenueOverTime(records),
		Growth:          Growth(records),
	}

	for _, record := range records {
		if record == nil {
			continue
		}
		if currency == "" || currency == CurrencyAll || record.Currency == currency {
			summary.TotalRevenue += record.Amount
		}
		switch record.PaymentStatus {
		case billingdomain.StatusPaid:
			summary.PaidRevenue += record.Amount
		case billingdomain.StatusUnpaid:
			summary.UnpaidRevenue += record.Amount
		case billingdomain.StatusOverdue:
			summary.OverdueRevenue += record.Amount
		}
	}

	return summary
}

// ServiceRevenue accumulates line-item cost per service category, in
// first-seen category order. Missing costs count as zero.
func ServiceRevenue(records []*billingdomain.BillingRecord) []domain.ServiceRevenue {
	totals := make(map[string]int)
	out := make([]domain.ServiceRevenue, 0)

	for _, record := range records {
		if record == nil {
			continue
		}
		for _, line := range record.Services {
			key := string(line.Service)
			index, seen := totals[key]
			if !seen {
				totals[key] = len(out)
				out = append(out, domain.ServiceRevenue{Service: key})
				index = len(out) - 1
			}
			out[index].Amount += line.Cost
		}
	}

	return out
}

// TopClients ranks accumulated invoice amount by resolved display name
// and keeps the top limit entries. The sort is stable so equal totals
// keep first-seen order.
func TopClients(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, limit int) []domain.ClientRevenue {
	index := clientIndex(clients)
	positions := make(map[string]int)
	totals := make([]domain.ClientRevenue, 0)

	for _, record := range records {
		if record == nil {
			continue
		}
		name := displayName(index, record.ClientID)
		pos, seen := positions[name]
		if !seen {
			positions[name] = len(totals)
			totals = append(totals, domain.ClientRevenue{Name: name})
			pos = len(totals) - 1
		}
		totals[pos].Amount += record.Amount
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})

	if limit <= 0 {
		limit = 5
	}
	if len(totals) > limit {
		totals = totals[:limit]
	}
	return totals
}

// RevenueOverTime emits one point per invoice, ascending by bill date.
// Records without a bill date sort first as the epoch.
func RevenueOverTime(records []*billingdomain.BillingRecord) []domain.RevenuePoint {
	ordered := make([]*billingdomain.BillingRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		ordered = append(ordered, record)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		return billDateOrEpoch(ordered[i]).Before(billDateOrEpoch(ordered[j]))
	})

	points := make([]domain.RevenuePoint, 0, len(ordered))
	for _, record := range ordered {
		points = append(points, domain.RevenuePoint{
			Date:   billDateOrEpoch(record),
			Amount: record.Amount,
			Status: record.PaymentStatus,
		})
	}
	return points
}

// Growth compares the two most recent invoice months. Fewer than two
// distinct months yields all zeros; a zero previous month is reported
// as exactly 100 to avoid a division by zero.
func Growth(records []*billingdomain.BillingRecord) domain.Growth {
	buckets := MonthlyRevenue(records)
	if len(buckets) < 2 {
		return domain.Growth{}
	}

	current := buckets[len(buckets)-1]
	previous := buckets[len(buckets)-2]

	rate := 100.0
	if previous.Revenue > 0 {
		rate = (current.Revenue - previous.Revenue) / previous.Revenue * 100
	}

	return domain.Growth{
		Rate:          rate,
		Current:       current.Revenue,
		Previous:      previous.Revenue,
		CurrentMonth:  current.Month,
		PreviousMonth: previous.Month,
	}
}

// MonthBucket is one "YYYY-MM" revenue total.
type MonthBucket struct {
	Month   string
	Revenue float64
}

// MonthlyRevenue buckets invoice amounts by bill date month, sorted by
// the lexicographic (= chronological) "YYYY-MM" key. Records without a
// bill date are skipped.
func MonthlyRevenue(records []*billingdomain.BillingRecord) []MonthBucket {
	totals := make(map[string]float64)
	for _, record := range records {
		if record == nil || record.BillDate == nil {
			continue
		}
		key := record.BillDate.UTC().Format("2006-01")
		totals[key] += record.Amount
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	buckets := make([]MonthBucket, 0, len(months))
	for _, month := range months {
		buckets = append(buckets, MonthBucket{Month: month, Revenue: totals[month]})
	}
	return buckets
}

// Overview tallies the dashboard headline counters.
func Overview(clients []*clientdomain.Client, records []*billingdomain.BillingRecord, now time.Time) domain.Overview {
	overview := domain.Overview{
		TotalClients:    len(clients),
		TotalInvoices:   len(records),
		ClientsByStatus: make(map[clientdomain.Status]int),
		PlansByModel:    make(map[clientdomain.PlanModel]int),
	}
	for _, client := range clients {
		if client == nil {
			continue
		}
		if client.Status == clientdomain.StatusActive {
			overview.ActiveClients++
		}
		overview.ClientsByStatus[client.Status]++
		if client.Plan.Model != "" {
			overview.PlansByModel[client.Plan.Model]++
		}
	}

	dueCutoff := now.AddDate(0, 0, 7)
	for _, record := range records {
		if record == nil {
			continue
		}
		if record.PaymentStatus == billingdomain.StatusOverdue {
			overview.OverdueInvoices++
		}
		if record.PaymentStatus == billingdomain.StatusUnpaid &&
			record.DueDate != nil && !record.DueDate.After(dueCutoff) {
			overview.DueSoonInvoices++
		}
	}
	return overview
}

func clientIndex(clients []*clientdomain.Client) map[snowflake.ID]*clientdomain.Client {
	index := make(map[snowflake.ID]*clientdomain.Client, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		index[client.ID] = client
	}
	return index
}

func displayName(index map[snowflake.ID]*clientdomain.Client, clientID snowflake.ID) string {
	client, ok := index[clientID]
	if !ok || client == nil {
		return "Unknown"
	}
	return client.DisplayName()
}

func billDateOrEpoch(record *billingdomain.BillingRecord) time.Time {
	if record.BillDate == nil {
		return time.Unix(0, 0).UTC()
	}
	return record.BillDate.UTC()
}
