package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/internal/config"
	reminderlogdomain "github.com/smallbiznis/clientdesk/internal/reminderlog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const reminderTemplate = "payment_reminder"

// ReminderOutcome is the per-invoice result of one reminder attempt.
type ReminderOutcome struct {
	InvoiceID     string                           `json:"invoice_id"`
	InvoiceNumber string                           `json:"invoice_number"`
	Recipient     string                           `json:"recipient"`
	Status        reminderlogdomain.DeliveryStatus `json:"status"`
	Error         string                           `json:"error,omitempty"`
}

// BulkReminderResult reports a whole batch; a single failed send never
// aborts the remaining invoices.
type BulkReminderResult struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	Outcomes   []ReminderOutcome `json:"outcomes"`
}

type ReminderService interface {
	SendReminder(ctx context.Context, invoiceID string) (ReminderOutcome, error)
	SendBulkReminders(ctx context.Context, invoiceIDs []string) (BulkReminderResult, error)
}

type ReminderParams struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Config      config.Config
	Provider    Provider
	BillingRepo billingdomain.Repository
	ClientRepo  clientdomain.Repository
	LogRepo     reminderlogdomain.Repository
}

type reminderService struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	company     config.CompanyConfig
	provider    Provider
	billingRepo billingdomain.Repository
	clientRepo  clientdomain.Repository
	logRepo     reminderlogdomain.Repository
}

func NewReminderService(p ReminderParams) ReminderService {
	return &reminderService{
		db:          p.DB,
		log:         p.Log.Named("email.reminder"),
		genID:       p.GenID,
		clock:       p.Clock,
		company:     p.Config.Company,
		provider:    p.Provider,
		billingRepo: p.BillingRepo,
		clientRepo:  p.ClientRepo,
		logRepo:     p.LogRepo,
	}
}

func (s *reminderService) SendReminder(ctx context.Context, invoiceID string) (ReminderOutcome, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return ReminderOutcome{}, billingdomain.ErrInvalidID
	}

	record, err := s.billingRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return ReminderOutcome{}, err
	}
	if record == nil {
		return ReminderOutcome{}, billingdomain.ErrNotFound
	}

	if record.PaymentStatus != billingdomain.StatusUnpaid && record.PaymentStatus != billingdomain.StatusOverdue {
		return ReminderOutcome{}, billingdomain.ErrInvoiceNotRemindable
	}

	return s.send(ctx, record)
}

// SendBulkReminders processes the given invoices sequentially. Only
// overdue records are eligible; everything else is reported as failed
// without an email attempt.
func (s *reminderService) SendBulkReminders(ctx context.Context, invoiceIDs []string) (BulkReminderResult, error) {
	result := BulkReminderResult{Outcomes: make([]ReminderOutcome, 0, len(invoiceIDs))}

	for _, rawID := range invoiceIDs {
		outcome := s.sendBulkOne(ctx, rawID)
		if outcome.Status == reminderlogdomain.DeliverySent {
			result.Successful++
		} else {
			result.Failed++
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result, nil
}

func (s *reminderService) sendBulkOne(ctx context.Context, rawID string) ReminderOutcome {
	failed := func(detail string) ReminderOutcome {
		return ReminderOutcome{
			InvoiceID: strings.TrimSpace(rawID),
			Status:    reminderlogdomain.DeliveryFailed,
			Error:     detail,
		}
	}

	id, err := snowflake.ParseString(strings.TrimSpace(rawID))
	if err != nil || id == 0 {
		return failed("invalid invoice id")
	}

	record, err := s.billingRepo.FindByID(ctx, s.db, id)
	if err != nil {
		return failed(err.Error())
	}
	if record == nil {
		return failed("invoice not found")
	}
	if record.PaymentStatus != billingdomain.StatusOverdue {
		outcome := failed("invoice not overdue")
		outcome.InvoiceNumber = record.InvoiceNumber
		return outcome
	}

	outcome, err := s.send(ctx, record)
	if err != nil {
		return failed(err.Error())
	}
	return outcome
}

func (s *reminderService) send(ctx context.Context, record *billingdomain.BillingRecord) (ReminderOutcome, error) {
	client, err := s.clientRepo.FindByID(ctx, s.db, record.ClientID)
	if err != nil {
		return ReminderOutcome{}, err
	}
	if client == nil {
		return ReminderOutcome{}, billingdomain.ErrClientNotFound
	}

	subject := fmt.Sprintf("Payment Reminder: Invoice %s", record.InvoiceNumber)
	data := map[string]interface{}{
		"subject":        subject,
		"client_name":    client.DisplayName(),
		"invoice_number": record.InvoiceNumber,
		"currency":       record.Currency,
		"amount":         fmt.Sprintf("%.2f", record.Amount),
		"payment_status": string(record.PaymentStatus),
		"company_name":   s.company.Name,
		"company_email":  s.company.Email,
	}
	if record.DueDate != nil {
		data["due_date"] = record.DueDate.Format("2006-01-02")
	}

	outcome := ReminderOutcome{
		InvoiceID:     record.ID.String(),
		InvoiceNumber: record.InvoiceNumber,
		Recipient:     client.Email,
		Status:        reminderlogdomain.DeliverySent,
	}

	sendErr := s.provider.SendTemplate(ctx, []string{client.Email}, reminderTemplate, data)
	if sendErr != nil {
		outcome.Status = reminderlogdomain.DeliveryFailed
		outcome.Error = sendErr.Error()
	}

	entry := reminderlogdomain.ReminderLog{
		ID:        s.genID.Generate(),
		ClientID:  client.ID,
		InvoiceID: record.ID,
		Recipient: client.Email,
		Subject:   subject,
		Status:    outcome.Status,
		Error:     outcome.Error,
		Metadata: datatypes.JSONMap{
			"payment_status": string(record.PaymentStatus),
			"amount":         record.Amount,
			"currency":       record.Currency,
		},
		CreatedAt: s.clock.Now(),
	}
	if err := s.logRepo.Insert(ctx, s.db, &entry); err != nil {
		s.log.Warn("reminder log write failed",
			zap.String("invoice_number", record.InvoiceNumber),
			zap.Error(err),
		)
	}

	if sendErr != nil {
		s.log.Warn("reminder delivery failed",
			zap.String("invoice_number", record.InvoiceNumber),
			zap.String("recipient", client.Email),
			zap.Error(sendErr),
		)
	}

	return outcome, nil
}
