package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*BillingRecord, error)
	ExistsInvoiceNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (bool, error)
	List(ctx context.Context, db *gorm.DB, filter ListBillingFilter, page pagination.Pagination) ([]*BillingRecord, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*BillingRecord, error)
	ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*BillingRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *BillingRecord) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
