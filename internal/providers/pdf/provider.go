package pdf

import (
	"context"
	"io"
)

// InvoiceData is the flattened render input for one invoice document.
type InvoiceData struct {
	CompanyName    string
	CompanyAddress string
	CompanyEmail   string
	CompanyPhone   string

	InvoiceNumber string
	BillDate      string
	DueDate       string

	BillToName    string
	BillToCompany string
	BillToEmail   string
	BillToPhone   string
	BillToAddress string

	Currency      string
	Items         []InvoiceItem
	Total         string
	PaymentStatus string
	PaymentMethod string
	TransactionID string
	Notes         string
}

type InvoiceItem struct {
	Service     string
	Description string
	Cost        string
}

type Provider interface {
	GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateInvoice(ctx context.Context, data InvoiceData) (io.Reader, error) {
	return nil, nil
}
