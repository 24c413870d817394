package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, log *ReminderLog) error
	ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*ReminderLog, error)
	ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*ReminderLog, error)
}
