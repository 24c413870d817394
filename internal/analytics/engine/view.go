package engine

import (
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/analytics/domain"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
)

// FilterSort produces the invoice table view: search plus exact status
// and currency filters, then a stable sort on the requested field with
// missing values last in both directions. The input slices are never
// mutated.
func FilterSort(records []*billingdomain.BillingRecord, clients []*clientdomain.Client, query domain.InvoiceQuery) []billingdomain.BillingRecord {
	index := clientIndex(clients)
	search := strings.ToLower(strings.TrimSpace(query.Search))

	filtered := make([]billingdomain.BillingRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}

		if search != "" {
			name := strings.ToLower(resolvedName(index, record))
			number := strings.ToLower(record.InvoiceNumber)
			if !strings.Contains(number, search) && !strings.Contains(name, search) {
				continue
			}
		}
		if query.Status != "" && query.Status != "all" && string(record.PaymentStatus) != query.Status {
			continue
		}
		if query.Currency != "" && query.Currency != "all" && record.Currency != query.Currency {
			continue
		}

		filtered = append(filtered, *record)
	}

	sortRecords(filtered, query.SortField, query.SortDirection)
	return filtered
}

func resolvedName(index map[snowflake.ID]*clientdomain.Client, record *billingdomain.BillingRecord) string {
	client, ok := index[record.ClientID]
	if !ok || client == nil {
		return ""
	}
	if client.CompanyName != "" {
		return client.CompanyName
	}
	return client.Name
}

// sortValue extracts the requested field. ok=false means the value is
// missing and the record sorts last regardless of direction.
func sortValue(record billingdomain.BillingRecord, field string) (kind byte, num float64, str string, ts time.Time, ok bool) {
	switch field {
	case "invoiceNumber", "invoice_number":
		return 's', 0, record.InvoiceNumber, time.Time{}, true
	case "amount":
		return 'n', record.Amount, "", time.Time{}, true
	case "currency":
		return 's', 0, record.Currency, time.Time{}, true
	case "paymentStatus", "payment_status":
		return 's', 0, string(record.PaymentStatus), time.Time{}, true
	case "notes":
		return 's', 0, record.Notes, time.Time{}, true
	case "billDate", "bill_date":
		if record.BillDate == nil {
			return 0, 0, "", time.Time{}, false
		}
		return 't', 0, "", *record.BillDate, true
	case "dueDate", "due_date":
		if record.DueDate == nil {
			return 0, 0, "", time.Time{}, false
		}
		return 't', 0, "", *record.DueDate, true
	case "createdAt", "created_at":
		return 't', 0, "", record.CreatedAt, true
	default:
		return 0, 0, "", time.Time{}, false
	}
}

func sortRecords(records []billingdomain.BillingRecord, field, direction string) {
	if field == "" {
		return
	}
	desc := direction == "desc"

	sort.SliceStable(records, func(i, j int) bool {
		aKind, aNum, aStr, aTime, aOK := sortValue(records[i], field)
		bKind, bNum, bStr, bTime, bOK := sortValue(records[j], field)

		// Missing values always order last.
		if !aOK || !bOK {
			return !bOK && aOK
		}

		comparison := 0
		switch {
		case aKind == 'n' && bKind == 'n':
			if aNum < bNum {
				comparison = -1
			} else if aNum > bNum {
				comparison = 1
			}
		case aKind == 't' && bKind == 't':
			if aTime.Before(bTime) {
				comparison = -1
			} else if aTime.After(bTime) {
				comparison = 1
			}
		default:
			comparison = strings.Compare(aStr, bStr)
		}

		if desc {
			return comparison > 0
		}
		return comparison < 0
	})
}
