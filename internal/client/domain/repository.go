package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, client *Client) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Client, error)
	List(ctx context.Context, db *gorm.DB, filter ListClientFilter, page pagination.Pagination) ([]*Client, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]*Client, error)
	Update(ctx context.Context, db *gorm.DB, client *Client) error
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
