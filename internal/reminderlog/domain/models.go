package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// DeliveryStatus is the outcome of one reminder attempt.
type DeliveryStatus string

const (
	DeliverySent   DeliveryStatus = "sent"
	DeliveryFailed DeliveryStatus = "failed"
)

// ReminderLog records one reminder email attempt for an invoice.
// Append-only; failures are logged with the delivery error.
type ReminderLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	ClientID  snowflake.ID      `gorm:"not null;index" json:"client_id"`
	InvoiceID snowflake.ID      `gorm:"not null;index" json:"invoice_id"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Status    DeliveryStatus    `gorm:"not null;index" json:"status"`
	Error     string            `json:"error,omitempty"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
