package lifecycle

import (
	"context"
)

// SchemaManager defines the interface for catalog schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent - safe to run multiple times.
type SchemaManager interface {
	// Create creates the catalog schema: items, tags, item_tags and
	// derivatives tables together with their indexes.
	Create(ctx context.Context) error

	// Migrate updates the schema to the latest version of the models.
	Migrate(ctx context.Context) error
}
