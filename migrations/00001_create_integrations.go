package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateIntegrations, downCreateIntegrations)
}

func upCreateIntegrations(ctx context.Context, tx *sql.Tx) error {
	createIntegrationsTable := `
	CREATE TABLE integrations (
		id UUID PRIMARY KEY,
		owner_id VARCHAR(64) NOT NULL,
		provider VARCHAR(32) NOT NULL,
		instagram_account_id VARCHAR(64),
		facebook_page_id VARCHAR(64),
		access_token TEXT NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		deleted_at TIMESTAMP WITH TIME ZONE
	);
	CREATE INDEX idx_integrations_owner_id ON integrations (owner_id);
	CREATE INDEX idx_integrations_deleted_at ON integrations (deleted_at);
	`
	if _, err := tx.ExecContext(ctx, createIntegrationsTable); err != nil {
		return fmt.Errorf("could not create integrations table: %w", err)
	}
	return nil
}

func downCreateIntegrations(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS integrations;"); err != nil {
		return fmt.Errorf("could not drop table integrations: %w", err)
	}
	return nil
}
