package migration

import (
	"github.com/saralbooks/saralbooks/internal/config"
	"github.com/saralbooks/saralbooks/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module migrates the schema and resolves the default company. The resolved
// ID is provided so the HTTP layer scopes header-less requests to a company
// that actually exists, even when DEFAULT_COMPANY_ID is unset.
var Module = fx.Module("migrations",
	fx.Provide(func(conn *gorm.DB, cfg config.Config) (seed.DefaultCompany, error) {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return seed.DefaultCompany{}, err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return seed.DefaultCompany{}, err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return seed.DefaultCompany{}, err
			}
		}

		return seed.EnsureDefaultCompany(conn, cfg.DefaultCompanyID)
	}),
)
