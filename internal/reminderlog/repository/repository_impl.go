package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/reminderlog/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, log *domain.ReminderLog) error {
	return db.WithContext(ctx).Create(log).Error
}

func (r *repo) ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]*domain.ReminderLog, error) {
	var logs []*domain.ReminderLog
	err := db.WithContext(ctx).
		Model(&domain.ReminderLog{}).
		Where("invoice_id = ?", invoiceID).
		Order("created_at desc, id desc").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repo) ListRecent(ctx context.Context, db *gorm.DB, limit int) ([]*domain.ReminderLog, error) {
	if limit <= 0 {
		limit = 100
	}
	var logs []*domain.ReminderLog
	err := db.WithContext(ctx).
		Model(&domain.ReminderLog{}).
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
