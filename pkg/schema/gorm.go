package schema

import (
	"gorm.io/gorm"
)

// AllModels returns all schema models for GORM AutoMigrate. Referenced
// tables go first.
func AllModels() []any {
	return []any{
		&Item{},
		&Tag{},
		&ItemTag{},
		&Derivative{},
	}
}

// TableNames returns names of all catalog tables in creation order.
func TableNames() []string {
	return []string{
		Item{}.TableName(),
		Tag{}.TableName(),
		ItemTag{}.TableName(),
		Derivative{}.TableName(),
	}
}

// Migrate runs GORM AutoMigrate to create or update schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
