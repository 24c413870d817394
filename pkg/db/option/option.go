package option

import (
	"time"

	"github.com/smallbiznis/clientdesk/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type optionFunc func(stmt *gorm.DB) *gorm.DB

func (f optionFunc) Apply(stmt *gorm.DB) *gorm.DB { return f(stmt) }

// ApplyPagination translates a cursor page request into a keyset
// predicate plus a limit of pageSize+1, so callers can detect HasMore.
func ApplyPagination(page pagination.Pagination) Option {
	return optionFunc(func(stmt *gorm.DB) *gorm.DB {
		pageSize := page.PageSize
		if pageSize <= 0 {
			pageSize = 50
		}

		if page.PageToken != "" {
			cursor, err := pagination.DecodeCursor(page.PageToken)
			if err == nil {
				createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt)
				if parseErr == nil {
					stmt = stmt.Where(
						"(created_at < ?) OR (created_at = ? AND id < ?)",
						createdAt, createdAt, cursor.ID,
					)
				}
			}
		}

		return stmt.Limit(pageSize + 1)
	})
}
