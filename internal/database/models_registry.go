package database

import (
	"context"
	"fmt"

	"chirper/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns the schema-managed GORM models in dependency order.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Tweet{},
		&models.Comment{},
	}
}

// Migrate creates or updates the schema for every persistent model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(PersistentModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
