package ioschema

import "fmt"

// formatIndexSQL formats an idempotent CREATE INDEX statement.
func formatIndexSQL(name, table, columns string) string {
	return fmt.Sprintf(
		"CREATE INDEX IF NOT EXISTS %s ON %s (%s)", name, table, columns,
	)
}
