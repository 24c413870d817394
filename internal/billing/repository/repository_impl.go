package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/billing/domain"
	"github.com/smallbiznis/clientdesk/pkg/db/option"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.BillingRecord, error) {
	var record domain.BillingRecord
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) ExistsInvoiceNumber(ctx context.Context, db *gorm.DB, invoiceNumber string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&domain.BillingRecord{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListBillingFilter, page pagination.Pagination) ([]*domain.BillingRecord, error) {
	var records []*domain.BillingRecord
	stmt := db.WithContext(ctx).Model(&domain.BillingRecord{})
	if filter.ClientID != "" {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("payment_status = ?", filter.Status)
	}
	if filter.Currency != "" {
		stmt = stmt.Where("currency = ?", filter.Currency)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.BillingRecord, error) {
	var records []*domain.BillingRecord
	err := db.WithContext(ctx).
		Model(&domain.BillingRecord{}).
		Order("created_at asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) ListByClient(ctx context.Context, db *gorm.DB, clientID snowflake.ID) ([]*domain.BillingRecord, error) {
	var records []*domain.BillingRecord
	err := db.WithContext(ctx).
		Model(&domain.BillingRecord{}).
		Where("client_id = ?", clientID).
		Order("created_at asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) error {
	return db.WithContext(ctx).
		Model(&domain.BillingRecord{}).
		Where("id = ?", record.ID).
		Select("*").
		Omit("id", "client_id", "invoice_number", "created_at").
		Updates(record).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.BillingRecord{}).Error
}
