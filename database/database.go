package database

import (
	"fmt"
	"os"

	"catalog-backend/logger"
	"catalog-backend/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database selected by DB_DRIVER ("postgres" by default, or "sqlite").
func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	driver := os.Getenv("DB_DRIVER")

	cfg := &gorm.Config{
		// Category and subcategory deletes do not cascade and must not be blocked by children.
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	}

	switch driver {
	case "sqlite":
		if dsn == "" {
			dsn = "catalog.db"
		}
		return gorm.Open(sqlite.Open(dsn), cfg)
	case "", "postgres":
		if dsn == "" {
			dsn = "host=localhost user=postgres password=postgres dbname=catalog port=5432 sslmode=disable"
		}
		return gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Subcategory{},
		&models.Product{},
	)
}

// CreateDefaultAdmin seeds an admin account when none with the configured username exists.
// The password is stored as given; login compares it verbatim.
func CreateDefaultAdmin(db *gorm.DB) error {
	username := os.Getenv("ADMIN_USERNAME")
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")

	if username == "" {
		username = "admin"
	}
	if email == "" {
		email = "admin@catalog.local"
	}
	if password == "" {
		password = "admin123"
	}

	var count int64
	if err := db.Model(&models.User{}).Where("username = ? OR email = ?", username, email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	admin := models.User{
		Username: username,
		Email:    email,
		Password: password,
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	logger.Named("database").Info("default admin created", zap.String("username", username))
	return nil
}
