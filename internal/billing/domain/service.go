package domain

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
)

type CreateBillingRequest struct {
	ClientID      string        `json:"client_id"`
	InvoiceNumber string        `json:"invoice_number"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Services      []ServiceLine `json:"services_billed"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	BillDate      *time.Time    `json:"bill_date"`
	DueDate       *time.Time    `json:"due_date"`
	PaymentMethod string        `json:"payment_method"`
	TransactionID string        `json:"transaction_id"`
	Notes         string        `json:"notes"`
}

type UpdateBillingRequest struct {
	ID            string         `json:"-"`
	Amount        *float64       `json:"amount"`
	Currency      *string        `json:"currency"`
	Services      *[]ServiceLine `json:"services_billed"`
	PaymentStatus *PaymentStatus `json:"payment_status"`
	BillDate      *time.Time     `json:"bill_date"`
	DueDate       *time.Time     `json:"due_date"`
	PaymentMethod *string        `json:"payment_method"`
	TransactionID *string        `json:"transaction_id"`
	Notes         *string        `json:"notes"`
}

type ListBillingRequest struct {
	PageToken string
	PageSize  int32
	ClientID  string
	Status    PaymentStatus
	Currency  string
}

type ListBillingFilter struct {
	ClientID string
	Status   PaymentStatus
	Currency string
}

type ListBillingResponse struct {
	pagination.PageInfo
	Records []BillingRecord `json:"billing_records"`
}

type GetBillingRequest struct {
	ID string
}

type DeleteBillingRequest struct {
	ID string
}

type Service interface {
	Create(context.Context, CreateBillingRequest) (BillingRecord, error)
	List(context.Context, ListBillingRequest) (ListBillingResponse, error)
	GetByID(context.Context, GetBillingRequest) (BillingRecord, error)
	Update(context.Context, UpdateBillingRequest) (BillingRecord, error)
	Delete(context.Context, DeleteBillingRequest) error
	GetPDF(context.Context, GetBillingRequest) (io.ReadCloser, error)
}

var (
	ErrInvalidClient        = errors.New("invalid_client")
	ErrClientNotFound       = errors.New("client_not_found")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidStatus        = errors.New("invalid_status")
	ErrInvalidService       = errors.New("invalid_service")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicateInvoice     = errors.New("duplicate_invoice_number")
	ErrInvoiceNotRemindable = errors.New("invoice_not_remindable")
)
