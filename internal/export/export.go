package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/clientdesk/internal/analytics/engine"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Type string

const (
	TypeInvoices Type = "invoices"
	TypeClients  Type = "clients"
	TypeRevenue  Type = "revenue"
)

var ErrInvalidType = errors.New("invalid_export_type")

type Request struct {
	Type Type `json:"type"`
}

// Result is a rendered CSV document plus its attachment filename.
type Result struct {
	Filename string
	Content  []byte
}

type Service interface {
	Export(ctx context.Context, req Request) (Result, error)
}

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	ClientRepo  clientdomain.Repository
	BillingRepo billingdomain.Repository
}

type service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	clientRepo  clientdomain.Repository
	billingRepo billingdomain.Repository
}

func New(p Params) Service {
	return &service{
		db:          p.DB,
		log:         p.Log.Named("export.service"),
		clock:       p.Clock,
		clientRepo:  p.ClientRepo,
		billingRepo: p.BillingRepo,
	}
}

func (s *service) Export(ctx context.Context, req Request) (Result, error) {
	var header []string
	var rows [][]string

	switch req.Type {
	case TypeInvoices:
		records, err := s.billingRepo.ListAll(ctx, s.db)
		if err != nil {
			return Result{}, err
		}
		header, rows = invoiceRows(records)
	case TypeClients:
		clients, err := s.clientRepo.ListAll(ctx, s.db)
		if err != nil {
			return Result{}, err
		}
		header, rows = clientRows(clients)
	case TypeRevenue:
		records, err := s.billingRepo.ListAll(ctx, s.db)
		if err != nil {
			return Result{}, err
		}
		header, rows = revenueRows(records)
	default:
		return Result{}, ErrInvalidType
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return Result{}, err
	}
	if err := writer.WriteAll(rows); err != nil {
		return Result{}, err
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return Result{}, err
	}

	filename := fmt.Sprintf("%s-export-%s.csv", req.Type, s.clock.Now().Format("2006-01-02"))
	return Result{Filename: filename, Content: buf.Bytes()}, nil
}

func invoiceRows(records []*billingdomain.BillingRecord) ([]string, [][]string) {
	header := []string{"invoiceNumber", "clientId", "amount", "currency", "paymentStatus", "billDate", "dueDate"}
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		rows = append(rows, []string{
			record.InvoiceNumber,
			record.ClientID.String(),
			formatFloat(record.Amount),
			record.Currency,
			string(record.PaymentStatus),
			formatTime(record.BillDate),
			formatTime(record.DueDate),
		})
	}
	return header, rows
}

func clientRows(clients []*clientdomain.Client) ([]string, [][]string) {
	header := []string{"name", "companyName", "email", "status", "billingPlan.model", "billingPlan.amount"}
	rows := make([][]string, 0, len(clients))
	for _, client := range clients {
		if client == nil {
			continue
		}
		planAmount := ""
		if client.Plan.Model != "" {
			planAmount = formatFloat(client.Plan.Amount)
		}
		rows = append(rows, []string{
			client.Name,
			client.CompanyName,
			client.Email,
			string(client.Status),
			string(client.Plan.Model),
			planAmount,
		})
	}
	return header, rows
}

func revenueRows(records []*billingdomain.BillingRecord) ([]string, [][]string) {
	header := []string{"date", "amount", "status"}
	points := engine.RevenueOverTime(records)
	rows := make([][]string, 0, len(points))
	for _, point := range points {
		rows = append(rows, []string{
			point.Date.Format(time.RFC3339),
			formatFloat(point.Amount),
			string(point.Status),
		})
	}
	return header, rows
}

func formatFloat(value float64) string {
	return fmt.Sprintf("%g", value)
}

func formatTime(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
