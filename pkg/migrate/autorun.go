package migrate

import (
	"context"
	"fmt"

	"github.com/swapsafe/swapsafe-backend/pkg/config"
	"github.com/swapsafe/swapsafe-backend/pkg/db"
	"github.com/swapsafe/swapsafe-backend/pkg/db/models"
	"github.com/swapsafe/swapsafe-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date when the AutoMigrate flag is set in
// dev. Postgres runs the goose migrations; sqlite syncs from the gorm models
// because the SQL files use Postgres column types.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	return Apply(ctx, logg, client)
}

// Apply migrates the schema for whichever driver client was opened with.
func Apply(ctx context.Context, logg *logger.Logger, client *db.Client) error {
	ctx = logg.WithField(ctx, "db_driver", client.Driver())

	if client.Driver() == config.DriverSQLite {
		logg.Info(ctx, "syncing sqlite schema from models")
		if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
			return fmt.Errorf("auto-migrating sqlite schema: %w", err)
		}
		return nil
	}

	sqlDB, err := client.SQLDB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, sqlDB, Source{}, "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
