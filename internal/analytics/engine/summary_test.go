package engine

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
	"gorm.io/datatypes"
)

func date(value string) *time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	t = t.UTC()
	return &t
}

func record(id int64, clientID snowflake.ID, amount float64, status billingdomain.PaymentStatus, billDate *time.Time) *billingdomain.BillingRecord {
	return &billingdomain.BillingRecord{
		ID:            snowflake.ID(id),
		ClientID:      clientID,
		InvoiceNumber: "INV-" + snowflake.ID(id).String(),
		Amount:        amount,
		Currency:      "INR",
		PaymentStatus: status,
		BillDate:      billDate,
	}
}

func testClient(id int64, name, company string, status clientdomain.Status) *clientdomain.Client {
	return &clientdomain.Client{
		ID:          snowflake.ID(id),
		Name:        name,
		CompanyName: company,
		Email:       name + "@example.com",
		Status:      status,
	}
}

func TestSummaryStatusPartition(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-01-05")),
		record(2, 10, 200, billingdomain.StatusOverdue, date("2024-02-10")),
		record(3, 10, 50, billingdomain.StatusUnpaid, date("2024-02-12")),
		record(4, 10, 25, billingdomain.StatusCancelled, date("2024-02-15")),
	}

	summary := Summary(nil, records, "all", config.DefaultAnalyticsConfig())

	if summary.TotalRevenue != 375 {
		t.Fatalf("expected total 375, got %v", summary.TotalRevenue)
	}
	partitioned := summary.PaidRevenue + summary.UnpaidRevenue + summary.OverdueRevenue
	if summary.TotalRevenue != partitioned+25 {
		t.Fatalf("total must equal partitions plus cancelled, got %v vs %v", summary.TotalRevenue, partitioned)
	}
	if summary.PaidRevenue != 100 || summary.UnpaidRevenue != 50 || summary.OverdueRevenue != 200 {
		t.Fatalf("unexpected partition: %+v", summary)
	}
}

func TestSummaryCurrencyFilterOnlyAffectsTotal(t *testing.T) {
	usd := record(1, 10, 100, billingdomain.StatusPaid, date("2024-01-05"))
	usd.Currency = "USD"
	records := []*billingdomain.BillingRecord{
		usd,
		record(2, 10, 200, billingdomain.StatusOverdue, date("2024-02-10")),
	}

	summary := Summary(nil, records, "USD", config.DefaultAnalyticsConfig())

	if summary.TotalRevenue != 100 {
		t.Fatalf("expected filtered total 100, got %v", summary.TotalRevenue)
	}
	if summary.PaidRevenue != 100 || summary.OverdueRevenue != 200 {
		t.Fatalf("status partitions must ignore currency filter: %+v", summary)
	}
}

func TestServiceRevenueFirstSeenOrder(t *testing.T) {
	first := record(1, 10, 200, billingdomain.StatusPaid, date("2024-01-05"))
	first.Services = datatypes.JSONSlice[billingdomain.ServiceLine]{
		{Service: billingdomain.ServiceDesign, Cost: 50},
		{Service: billingdomain.ServiceDevelopment, Cost: 150},
	}
	second := record(2, 10, 30, billingdomain.StatusPaid, date("2024-01-08"))
	second.Services = datatypes.JSONSlice[billingdomain.ServiceLine]{
		{Service: billingdomain.ServiceDesign, Cost: 30},
	}
	third := record(3, 10, 10, billingdomain.StatusPaid, date("2024-01-09"))
	third.Services = datatypes.JSONSlice[billingdomain.ServiceLine]{
		{Service: billingdomain.ServiceHosting},
	}

	breakdown := ServiceRevenue([]*billingdomain.BillingRecord{first, second, third})

	if len(breakdown) != 3 {
		t.Fatalf("expected 3 categories, got %d", len(breakdown))
	}
	if breakdown[0].Service != "design" || breakdown[0].Amount != 80 {
		t.Fatalf("expected design=80 first, got %+v", breakdown[0])
	}
	if breakdown[1].Service != "development" || breakdown[1].Amount != 150 {
		t.Fatalf("expected development=150 second, got %+v", breakdown[1])
	}
	if breakdown[2].Service != "hosting" || breakdown[2].Amount != 0 {
		t.Fatalf("missing cost must count as zero, got %+v", breakdown[2])
	}
}

func TestTopClientsRankingAndUnknown(t *testing.T) {
	clients := []*clientdomain.Client{
		testClient(10, "Asha Rao", "Acme Studio", clientdomain.StatusActive),
		testClient(11, "Ben Ortiz", "", clientdomain.StatusActive),
	}
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-01-05")),
		record(2, 11, 300, billingdomain.StatusPaid, date("2024-01-06")),
		record(3, 99, 50, billingdomain.StatusPaid, date("2024-01-07")),
		record(4, 10, 150, billingdomain.StatusPaid, date("2024-01-08")),
	}

	top := TopClients(clients, records, 5)

	if len(top) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(top))
	}
	if top[0].Name != "Ben Ortiz" || top[0].Amount != 300 {
		t.Fatalf("expected Ben Ortiz=300 first, got %+v", top[0])
	}
	if top[1].Name != "Acme Studio" || top[1].Amount != 250 {
		t.Fatalf("company name must win over personal name, got %+v", top[1])
	}
	if top[2].Name != "Unknown" || top[2].Amount != 50 {
		t.Fatalf("orphan invoice must attribute to Unknown, got %+v", top[2])
	}
}

func TestTopClientsLimit(t *testing.T) {
	var clients []*clientdomain.Client
	var records []*billingdomain.BillingRecord
	for i := int64(1); i <= 8; i++ {
		clients = append(clients, testClient(i, "Client", "", clientdomain.StatusActive))
	}
	// Distinct names so totals do not merge.
	for i, client := range clients {
		client.Name = client.Name + "-" + client.ID.String()
		records = append(records, record(int64(100+i), client.ID, float64(10*(i+1)), billingdomain.StatusPaid, nil))
	}

	top := TopClients(clients, records, 5)
	if len(top) != 5 {
		t.Fatalf("expected top 5, got %d", len(top))
	}
	if top[0].Amount != 80 {
		t.Fatalf("expected largest total first, got %+v", top[0])
	}
}

func TestRevenueOverTimeMissingBillDateSortsFirst(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-02-01")),
		record(2, 10, 200, billingdomain.StatusPaid, nil),
		record(3, 10, 300, billingdomain.StatusPaid, date("2024-01-15")),
	}

	points := RevenueOverTime(records)

	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[0].Amount != 200 {
		t.Fatalf("missing bill date must sort first, got %+v", points[0])
	}
	if !points[0].Date.Equal(time.Unix(0, 0).UTC()) {
		t.Fatalf("missing bill date must surface as epoch, got %v", points[0].Date)
	}
	if points[1].Amount != 300 || points[2].Amount != 100 {
		t.Fatalf("expected chronological order, got %+v", points)
	}
}

func TestGrowthFewerThanTwoMonths(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-01-05")),
		record(2, 10, 50, billingdomain.StatusPaid, date("2024-01-20")),
		record(3, 10, 75, billingdomain.StatusPaid, nil),
	}

	growth := Growth(records)
	if growth.Rate != 0 || growth.Current != 0 || growth.Previous != 0 {
		t.Fatalf("expected zero growth with one billed month, got %+v", growth)
	}
}

func TestGrowthRate(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 100, billingdomain.StatusPaid, date("2024-01-05")),
		record(2, 10, 200, billingdomain.StatusOverdue, date("2024-02-10")),
	}

	growth := Growth(records)
	if growth.Rate != 100 {
		t.Fatalf("expected 100%% growth, got %v", growth.Rate)
	}
	if growth.Current != 200 || growth.Previous != 100 {
		t.Fatalf("unexpected totals: %+v", growth)
	}
	if growth.CurrentMonth != "2024-02" || growth.PreviousMonth != "2024-01" {
		t.Fatalf("unexpected months: %+v", growth)
	}
}

func TestGrowthZeroPreviousIsExactlyHundred(t *testing.T) {
	records := []*billingdomain.BillingRecord{
		record(1, 10, 0, billingdomain.StatusPaid, date("2024-01-05")),
		record(2, 10, 500, billingdomain.StatusPaid, date("2024-02-10")),
	}

	growth := Growth(records)
	if growth.Rate != 100 {
		t.Fatalf("zero previous month must report exactly 100, got %v", growth.Rate)
	}
}

func TestOverviewTallies(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	monthly := testClient(10, "A", "", clientdomain.StatusActive)
	monthly.Plan = clientdomain.BillingPlan{Model: clientdomain.PlanMonthly, Amount: 500}
	clients := []*clientdomain.Client{
		monthly,
		testClient(11, "B", "", clientdomain.StatusPaused),
		testClient(12, "C", "", clientdomain.StatusActive),
	}

	dueSoon := now.AddDate(0, 0, 3)
	farOut := now.AddDate(0, 0, 30)
	unpaidSoon := record(1, 10, 100, billingdomain.StatusUnpaid, nil)
	unpaidSoon.DueDate = &dueSoon
	unpaidLater := record(2, 10, 100, billingdomain.StatusUnpaid, nil)
	unpaidLater.DueDate = &farOut
	records := []*billingdomain.BillingRecord{
		unpaidSoon,
		unpaidLater,
		record(3, 11, 100, billingdomain.StatusOverdue, nil),
	}

	overview := Overview(clients, records, now)
	if overview.TotalClients != 3 || overview.ActiveClients != 2 {
		t.Fatalf("unexpected client tallies: %+v", overview)
	}
	if overview.TotalInvoices != 3 || overview.OverdueInvoices != 1 {
		t.Fatalf("unexpected invoice tallies: %+v", overview)
	}
	if overview.DueSoonInvoices != 1 {
		t.Fatalf("expected one invoice due within 7 days, got %+v", overview)
	}
	if overview.ClientsByStatus[clientdomain.StatusActive] != 2 || overview.ClientsByStatus[clientdomain.StatusPaused] != 1 {
		t.Fatalf("unexpected status breakdown: %+v", overview.ClientsByStatus)
	}
	if overview.PlansByModel[clientdomain.PlanMonthly] != 1 {
		t.Fatalf("unexpected plan breakdown: %+v", overview.PlansByModel)
	}
}
