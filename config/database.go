package config

import (
	"fmt"

	"newsdesk/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database.
func InitDB(cfg DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dsn := cfg.DSN
		if dsn == "" {
			dsn = "newsdesk.db"
		}
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("config: open database: %w", err)
	}
	return db, nil
}

func (c DatabaseConfig) PostgresDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// Migrate creates or updates the schema for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Group{},
		&models.User{},
		&models.Publisher{},
		&models.Article{},
		&models.PublisherSubscription{},
		&models.JournalistFollow{},
	)
}
