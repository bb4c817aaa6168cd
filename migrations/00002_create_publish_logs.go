package migrations

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreatePublishLogs, downCreatePublishLogs)
}

func upCreatePublishLogs(ctx context.Context, tx *sql.Tx) error {
	createPublishLogsTable := `
	CREATE TABLE publish_logs (
		id UUID PRIMARY KEY,
		batch_key VARCHAR(255) NOT NULL,
		owner_id VARCHAR(64) NOT NULL,
		destination_id VARCHAR(128) NOT NULL,
		kind VARCHAR(20) NOT NULL,
		success BOOLEAN NOT NULL,
		post_id VARCHAR(128),
		error_code VARCHAR(64),
		error_message TEXT,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	CREATE INDEX idx_publish_logs_batch_key ON publish_logs (batch_key);
	`
	if _, err := tx.ExecContext(ctx, createPublishLogsTable); err != nil {
		return fmt.Errorf("could not create publish_logs table: %w", err)
	}
	return nil
}

func downCreatePublishLogs(ctx context.Context, tx *sql.Tx) error {
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS publish_logs;"); err != nil {
		return fmt.Errorf("could not drop table publish_logs: %w", err)
	}
	return nil
}
