package postgres

import (
	"fmt"
	"log/slog"

	"github.com/LavaJover/shvark-moderation-service/internal/config"
	"github.com/LavaJover/shvark-moderation-service/internal/infrastructure/migrate"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// InitDB opens the moderation database and applies pending migrations.
func InitDB(cfg config.ModerationDB, logger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init db: %w", err)
	}

	if err := migrate.RunMigrations(db, cfg.MigrationsPath, logger); err != nil {
		return nil, err
	}
	return db, nil
}
