package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PaymentStatus is the settlement state of one invoice.
type PaymentStatus string

const (
	StatusPaid      PaymentStatus = "paid"
	StatusUnpaid    PaymentStatus = "unpaid"
	StatusOverdue   PaymentStatus = "overdue"
	StatusCancelled PaymentStatus = "cancelled"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case StatusPaid, StatusUnpaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// ServiceCategory labels a billed line item.
type ServiceCategory string

const (
	ServiceDesign      ServiceCategory = "design"
	ServiceDevelopment ServiceCategory = "development"
	ServiceSEO         ServiceCategory = "SEO"
	ServiceMaintenance ServiceCategory = "maintenance"
	ServiceHosting     ServiceCategory = "hosting"
	ServiceDomain      ServiceCategory = "domain"
	ServiceAnalytics   ServiceCategory = "analytics"
	ServiceEcommerce   ServiceCategory = "ecommerce"
	ServiceOther       ServiceCategory = "other"
)

func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceDesign, ServiceDevelopment, ServiceSEO, ServiceMaintenance,
		ServiceHosting, ServiceDomain, ServiceAnalytics, ServiceEcommerce, ServiceOther:
		return true
	}
	return false
}

// ServiceLine is one billed service on an invoice. Cost is optional on
// input and treated as zero in every aggregation.
type ServiceLine struct {
	Service     ServiceCategory `json:"service"`
	Description string          `json:"description,omitempty"`
	Cost        float64         `json:"cost,omitempty"`
}

type BillingRecord struct {
	ID            snowflake.ID                     `gorm:"primaryKey" json:"id"`
	ClientID      snowflake.ID                     `gorm:"not null;index" json:"client_id"`
	InvoiceNumber string                           `gorm:"not null;uniqueIndex" json:"invoice_number"`
	Amount        float64                          `gorm:"not null" json:"amount"`
	Currency      string                           `gorm:"not null;default:INR" json:"currency"`
	Services      datatypes.JSONSlice[ServiceLine] `gorm:"type:jsonb" json:"services_billed,omitempty"`
	PaymentStatus PaymentStatus                    `gorm:"not null;index;default:unpaid" json:"payment_status"`
	BillDate      *time.Time                       `gorm:"index" json:"bill_date,omitempty"`
	DueDate       *time.Time                       `json:"due_date,omitempty"`
	PaymentMethod string                           `json:"payment_method,omitempty"`
	TransactionID string                           `json:"transaction_id,omitempty"`
	Notes         string                           `json:"notes,omitempty"`
	PDFObject     string                           `gorm:"column:pdf_object" json:"pdf_object,omitempty"`
	CreatedAt     time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
