package service

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/billing/domain"
	"github.com/smallbiznis/clientdesk/internal/billing/repository"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	clientrepo "github.com/smallbiznis/clientdesk/internal/client/repository"
	"github.com/smallbiznis/clientdesk/internal/clock"
	"github.com/smallbiznis/clientdesk/internal/config"
	"github.com/smallbiznis/clientdesk/internal/providers/pdf"
	"github.com/smallbiznis/clientdesk/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubPDFProvider struct {
	calls int
	fail  bool
}

func (p *stubPDFProvider) GenerateInvoice(ctx context.Context, data pdf.InvoiceData) (io.Reader, error) {
	p.calls++
	_ = ctx
	if p.fail {
		return nil, io.ErrUnexpectedEOF
	}
	return bytes.NewReader([]byte("%PDF-1.4 " + data.InvoiceNumber)), nil
}

type memoryStore struct {
	objects map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}}
}

func (s *memoryStore) Put(ctx context.Context, name string, body io.Reader) error {
	_ = ctx
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.objects[name] = data
	return nil
}

func (s *memoryStore) Get(ctx context.Context, name string) (io.ReadCloser, error) {
	_ = ctx
	data, ok := s.objects[name]
	if !ok {
		return nil, pdf.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *memoryStore) Delete(ctx context.Context, name string) error {
	_ = ctx
	delete(s.objects, name)
	return nil
}

func setupBillingService(t *testing.T) (domain.Service, *gorm.DB, *stubPDFProvider, *memoryStore) {
	t.Helper()

	conn, err := db.NewTest()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&clientdomain.Client{}, &domain.BillingRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	provider := &stubPDFProvider{}
	store := newMemoryStore()
	service := New(Params{
		DB:         conn,
		Log:        zap.NewNop(),
		GenID:      mustNode(t),
		Clock:      clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)),
		Config:     config.Config{Company: config.CompanyConfig{Name: "Clientdesk"}},
		Repo:       repository.Provide(),
		ClientRepo: clientrepo.Provide(),
		PDF:        provider,
		Store:      store,
	})

	return service, conn, provider, store
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func seedClient(t *testing.T, conn *gorm.DB) clientdomain.Client {
	t.Helper()
	client := clientdomain.Client{
		ID:          snowflake.ID(10),
		Name:        "Asha Rao",
		CompanyName: "Acme Studio",
		Email:       "asha@example.com",
		Status:      clientdomain.StatusActive,
	}
	if err := conn.Create(&client).Error; err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func TestCreateBillingGeneratesInvoiceNumber(t *testing.T) {
	service, conn, provider, store := setupBillingService(t)
	client := seedClient(t, conn)

	record, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: client.ID.String(),
		Amount:   1500,
		Services: []domain.ServiceLine{{Service: domain.ServiceDevelopment, Cost: 1500}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if !strings.HasPrefix(record.InvoiceNumber, "INV-") {
		t.Fatalf("expected generated invoice number, got %q", record.InvoiceNumber)
	}
	if record.Currency != "INR" {
		t.Fatalf("expected default currency, got %q", record.Currency)
	}
	if record.PaymentStatus != domain.StatusUnpaid {
		t.Fatalf("expected default unpaid status, got %q", record.PaymentStatus)
	}
	if provider.calls != 1 {
		t.Fatalf("expected one render call, got %d", provider.calls)
	}
	if record.PDFObject == "" {
		t.Fatal("expected stored pdf object name")
	}
	if _, ok := store.objects[record.PDFObject]; !ok {
		t.Fatalf("expected object %q in store", record.PDFObject)
	}
}

func TestCreateBillingRejectsUnknownClient(t *testing.T) {
	service, _, _, _ := setupBillingService(t)

	_, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: snowflake.ID(99).String(),
		Amount:   100,
	})
	if err != domain.ErrClientNotFound {
		t.Fatalf("expected client_not_found, got %v", err)
	}
}

func TestCreateBillingRejectsDuplicateInvoiceNumber(t *testing.T) {
	service, conn, _, _ := setupBillingService(t)
	client := seedClient(t, conn)

	first, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID:      client.ID.String(),
		InvoiceNumber: "INV-1001",
		Amount:        100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID:      client.ID.String(),
		InvoiceNumber: first.InvoiceNumber,
		Amount:        200,
	})
	if err != domain.ErrDuplicateInvoice {
		t.Fatalf("expected duplicate_invoice_number, got %v", err)
	}
}

func TestCreateBillingSurvivesRenderFailure(t *testing.T) {
	service, conn, provider, _ := setupBillingService(t)
	provider.fail = true
	client := seedClient(t, conn)

	record, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: client.ID.String(),
		Amount:   300,
	})
	if err != nil {
		t.Fatalf("create must succeed even when rendering fails: %v", err)
	}
	if record.PDFObject != "" {
		t.Fatalf("expected no stored object, got %q", record.PDFObject)
	}
}

func TestGetPDFRerendersMissingObject(t *testing.T) {
	service, conn, provider, store := setupBillingService(t)
	client := seedClient(t, conn)

	record, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: client.ID.String(),
		Amount:   500,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate object loss behind the service's back.
	delete(store.objects, record.PDFObject)

	reader, err := service.GetPDF(context.Background(), domain.GetBillingRequest{ID: record.ID.String()})
	if err != nil {
		t.Fatalf("get pdf: %v", err)
	}
	defer reader.Close()

	body, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read pdf: %v", err)
	}
	if !strings.Contains(string(body), record.InvoiceNumber) {
		t.Fatalf("unexpected pdf body %q", body)
	}
	if provider.calls != 2 {
		t.Fatalf("expected re-render, got %d calls", provider.calls)
	}
}

func TestUpdateBillingPartialFields(t *testing.T) {
	service, conn, _, _ := setupBillingService(t)
	client := seedClient(t, conn)

	record, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: client.ID.String(),
		Amount:   100,
		Notes:    "initial",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid := domain.StatusPaid
	updated, err := service.Update(context.Background(), domain.UpdateBillingRequest{
		ID:            record.ID.String(),
		PaymentStatus: &paid,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.PaymentStatus != domain.StatusPaid {
		t.Fatalf("expected paid, got %q", updated.PaymentStatus)
	}
	if updated.Notes != "initial" {
		t.Fatalf("expected notes preserved, got %q", updated.Notes)
	}
	if updated.Amount != 100 {
		t.Fatalf("expected amount preserved, got %v", updated.Amount)
	}
}

func TestDeleteBillingRemovesStoredObject(t *testing.T) {
	service, conn, _, store := setupBillingService(t)
	client := seedClient(t, conn)

	record, err := service.Create(context.Background(), domain.CreateBillingRequest{
		ClientID: client.ID.String(),
		Amount:   100,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := service.Delete(context.Background(), domain.DeleteBillingRequest{ID: record.ID.String()}); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, ok := store.objects[record.PDFObject]; ok {
		t.Fatal("expected stored object to be removed")
	}
	if _, err := service.GetByID(context.Background(), domain.GetBillingRequest{ID: record.ID.String()}); err != domain.ErrNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
