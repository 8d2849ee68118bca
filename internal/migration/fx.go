package migration

import (
	clientdomain "github.com/estilistapro/estilista/internal/client/domain"
	"github.com/estilistapro/estilista/internal/config"
	jobdomain "github.com/estilistapro/estilista/internal/job/domain"
	"github.com/estilistapro/estilista/internal/seed"
	settingsdomain "github.com/estilistapro/estilista/internal/settings/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := applySchema(conn, cfg); err != nil {
			return err
		}

		if cfg.IsStandalone() && cfg.DefaultUserID != 0 {
			return seed.EnsureDefaultUser(conn, cfg.DefaultUserID)
		}
		return nil
	}),
)

// applySchema runs the versioned SQL on postgres. The migration files
// use postgres types, so sqlite and mysql installs derive their schema
// from the models instead.
func applySchema(conn *gorm.DB, cfg config.Config) error {
	if cfg.DBType == "postgres" {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}

	return conn.AutoMigrate(
		&seed.User{},
		&clientdomain.Client{},
		&jobdomain.Job{},
		&settingsdomain.Snapshot{},
	)
}
