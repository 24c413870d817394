package migration

import (
	"strings"

	billingdomain "github.com/smallbiznis/clientdesk/internal/billing/domain"
	clientdomain "github.com/smallbiznis/clientdesk/internal/client/domain"
	reminderlogdomain "github.com/smallbiznis/clientdesk/internal/reminderlog/domain"
	"github.com/smallbiznis/clientdesk/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// SQLite deployments (and tests) rely on AutoMigrate; versioned
		// SQL migrations target postgres only.
		if strings.HasPrefix(cfg.DBType, "sqlite") {
			return conn.AutoMigrate(
				&clientdomain.Client{},
				&billingdomain.BillingRecord{},
				&reminderlogdomain.ReminderLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		return RunMigrations(sqlDB)
	}),
)
