package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/internal/client/domain"
	"github.com/smallbiznis/clientdesk/pkg/db/option"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).Create(client).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Client, error) {
	var client domain.Client
	err := db.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == 0 {
		return nil, nil
	}
	return &client, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListClientFilter, page pagination.Pagination) ([]*domain.Client, error) {
	var clients []*domain.Client
	stmt := db.WithContext(ctx).Model(&domain.Client{})
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		stmt = stmt.Where(
			"LOWER(name) LIKE ? OR LOWER(company_name) LIKE ? OR LOWER(email) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	err := stmt.
		Order("created_at desc, id desc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) ListAll(ctx context.Context, db *gorm.DB) ([]*domain.Client, error) {
	var clients []*domain.Client
	err := db.WithContext(ctx).
		Model(&domain.Client{}).
		Order("created_at asc, id asc").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, client *domain.Client) error {
	return db.WithContext(ctx).
		Model(&domain.Client{}).
		Where("id = ?", client.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(client).Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Client{}).Error
}
