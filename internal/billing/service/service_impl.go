package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/internal/config"
	"github.com/smallbiznis/clientdesk/internal/providers/pdf"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultCurrency = "INR"

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Config     config.Config
	Repo       domain.Repository
	ClientRepo clientdomain.Repository
	PDF        pdf.Provider
	Store      pdf.ObjectStore
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	company    config.CompanyConfig
	repo       domain.Repository
	clientRepo clientdomain.Repository
	pdf        pdf.Provider
	store      pdf.ObjectStore
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("billing.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		company:    p.Config.Company,
		repo:       p.Repo,
		clientRepo: p.ClientRepo,
		pdf:        p.PDF,
		store:      p.Store,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateBillingRequest) (domain.BillingRecord, error) {
	clientID, err := snowflake.ParseString(strings.TrimSpace(req.ClientID))
	if err != nil || clientID == 0 {
		return domain.BillingRecord{}, domain.ErrInvalidClient
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, clientID)
	if err != nil {
		return domain.BillingRecord{}, err
	}
	if client == nil {
		return domain.BillingRecord{}, domain.ErrClientNotFound
	}

	if req.Amount < 0 {
		return domain.BillingRecord{}, domain.ErrInvalidAmount
	}

	status := req.PaymentStatus
	if status == "" {
		status = domain.StatusUnpaid
	}
	if !status.Valid() {
		return domain.BillingRecord{}, domain.ErrInvalidStatus
	}

	for _, line := range req.Services {
		if !line.Service.Valid() {
			return domain.BillingRecord{}, domain.ErrInvalidService
		}
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	id := s.genID.Generate()
	invoiceNumber := strings.TrimSpace(req.InvoiceNumber)
	if invoiceNumber == "" {
		invoiceNumber = "INV-" + id.String()
	}
	exists, err := s.repo.ExistsInvoiceNumber(ctx, s.db, invoiceNumber)
	if err != nil {
		return domain.BillingRecord{}, err
	}
	if exists {
		return domain.BillingRecord{}, domain.ErrDuplicateInvoice
	}

	now := s.clock.Now()
	record := domain.BillingRecord{
		ID:            id,
		ClientID:      clientID,
		InvoiceNumber: invoiceNumber,
		Amount:        req.Amount,
		Currency:      currency,
		Services:      req.Services,
		PaymentStatus: status,
		BillDate:      req.BillDate,
		DueDate:       req.DueDate,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		TransactionID: strings.TrimSpace(req.TransactionID),
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	// PDF generation is best effort; the invoice is still created when
	// rendering or storage fails.
	if object, err := s.renderPDF(ctx, record, *client); err != nil {
		s.log.Warn("invoice pdf generation failed",
			zap.String("invoice_number", record.InvoiceNumber),
			zap.Error(err),
		)
	} else {
		record.PDFObject = object
	}

	if err := s.repo.Insert(ctx, s.db, &record); err != nil {
		return domain.BillingRecord{}, err
	}

	s.log.Info("billing record created",
		zap.String("billing_record_id", record.ID.String()),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.Float64("amount", record.Amount),
	)

	return record, nil
}

func (s *Service) List(ctx context.Context, req domain.ListBillingRequest) (domain.ListBillingResponse, error) {
	if req.Status != "" && !req.Status.Valid() {
		return domain.ListBillingResponse{}, domain.ErrInvalidStatus
	}

	filter := domain.ListBillingFilter{
		ClientID: strings.TrimSpace(req.ClientID),
		Status:   req.Status,
		Currency: strings.TrimSpace(req.Currency),
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListBillingResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(record *domain.BillingRecord) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	records := make([]domain.BillingRecord, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		records = append(records, *item)
	}

	resp := domain.ListBillingResponse{Records: records}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetBillingRequest) (domain.BillingRecord, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.BillingRecord{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BillingRecord{}, err
	}
	if item == nil {
		return domain.BillingRecord{}, domain.ErrNotFound
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateBillingRequest) (domain.BillingRecord, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.BillingRecord{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.BillingRecord{}, err
	}
	if item == nil {
		return domain.BillingRecord{}, domain.ErrNotFound
	}

	record := *item
	if req.Amount != nil {
		if *req.Amount < 0 {
			return domain.BillingRecord{}, domain.ErrInvalidAmount
		}
		record.Amount = *req.Amount
	}
	if req.Currency != nil {
		currency := strings.TrimSpace(*req.Currency)
		if currency == "" {
			currency = defaultCurrency
		}
		record.Currency = currency
	}
	if req.Services != nil {
		for _, line := range *req.Services {
			if !line.Service.Valid() {
				return domain.BillingRecord{}, domain.ErrInvalidService
			}
		}
		record.Services = *req.Services
	}
	if req.PaymentStatus != nil {
		if !req.PaymentStatus.Valid() {
			return domain.BillingRecord{}, domain.ErrInvalidStatus
		}
		record.PaymentStatus = *req.PaymentStatus
	}
	if req.BillDate != nil {
		record.BillDate = req.BillDate
	}
	if req.DueDate != nil {
		record.DueDate = req.DueDate
	}
	if req.PaymentMethod != nil {
		record.PaymentMethod = strings.TrimSpace(*req.PaymentMethod)
	}
	if req.TransactionID != nil {
		record.TransactionID = strings.TrimSpace(*req.TransactionID)
	}
	if req.Notes != nil {
		record.Notes = *req.Notes
	}
	record.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, &record); err != nil {
		return domain.BillingRecord{}, err
	}

	return record, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteBillingRequest) error {
	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	if item.PDFObject != "" {
		if err := s.store.Delete(ctx, item.PDFObject); err != nil {
			s.log.Warn("invoice pdf cleanup failed",
				zap.String("pdf_object", item.PDFObject),
				zap.Error(err),
			)
		}
	}

	return s.repo.Delete(ctx, s.db, id)
}

// GetPDF streams the stored invoice document, rendering it on demand
// when no object was persisted at create time.
func (s *Service) GetPDF(ctx context.Context, req domain.GetBillingRequest) (io.ReadCloser, error) {
	id, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	if item.PDFObject != "" {
		reader, err := s.store.Get(ctx, item.PDFObject)
		if err == nil {
			return reader, nil
		}
		if err != pdf.ErrObjectNotFound {
			return nil, err
		}
	}

	client, err := s.clientRepo.FindByID(ctx, s.db, item.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrClientNotFound
	}

	record := *item
	object, err := s.renderPDF(ctx, record, *client)
	if err != nil {
		return nil, err
	}

	record.PDFObject = object
	record.UpdatedAt = s.clock.Now()
	if err := s.repo.Update(ctx, s.db, &record); err != nil {
		return nil, err
	}

	return s.store.Get(ctx, object)
}

func (s *Service) renderPDF(ctx context.Context, record domain.BillingRecord, client clientdomain.Client) (string, error) {
	items := make([]pdf.InvoiceItem, 0, len(record.Services))
	for _, line := range record.Services {
		items = append(items, pdf.InvoiceItem{
			Service:     string(line.Service),
			Description: line.Description,
			Cost:        formatAmount(line.Cost),
		})
	}

	data := pdf.InvoiceData{
		CompanyName:    s.company.Name,
		CompanyAddress: s.company.Address,
		CompanyEmail:   s.company.Email,
		CompanyPhone:   s.company.Phone,
		InvoiceNumber:  record.InvoiceNumber,
		BillDate:       formatDate(record.BillDate, s.clock.Now()),
		DueDate:        formatDate(record.DueDate, s.clock.Now()),
		BillToName:     client.Name,
		BillToCompany:  client.CompanyName,
		BillToEmail:    client.Email,
		BillToPhone:    client.Phone,
		BillToAddress:  client.Address,
		Currency:       record.Currency,
		Items:          items,
		Total:          formatAmount(record.Amount),
		PaymentStatus:  strings.ToUpper(string(record.PaymentStatus)),
		PaymentMethod:  record.PaymentMethod,
		TransactionID:  record.TransactionID,
		Notes:          record.Notes,
	}

	doc, err := s.pdf.GenerateInvoice(ctx, data)
	if err != nil {
		return "", err
	}

	object := uuid.NewString() + ".pdf"
	if err := s.store.Put(ctx, object, doc); err != nil {
		return "", err
	}
	return object, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

func formatDate(t *time.Time, fallback time.Time) string {
	if t == nil {
		return fallback.Format("2006-01-02")
	}
	return t.Format("2006-01-02")
}
