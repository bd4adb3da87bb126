package database

import (
	"context"
	_ "embed"
	"fmt"

	"go.uber.org/zap"
)

//go:embed schema.sql
var schemaSQL string

// ApplySchema creates the story archive tables if they do not exist.
// It is idempotent and safe to call on every startup; every statement in
// schema.sql uses IF NOT EXISTS.
func ApplySchema(ctx context.Context, db *DB, logger *zap.Logger) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	logger.Info("Database schema applied")
	return nil
}
