// Package migration creates the notification schema on first start.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_configurations",
		SQL: `CREATE TABLE IF NOT EXISTS configurations (
  id                   BIGSERIAL PRIMARY KEY,
  name                 TEXT      NOT NULL,
  environment          TEXT      NOT NULL DEFAULT 'sandbox',
  api_key              TEXT      NOT NULL DEFAULT '',
  certificate          BYTEA,
  certificate_filename TEXT      NOT NULL DEFAULT '',
  company_name         TEXT      NOT NULL DEFAULT '',
  company_tax_id       TEXT      NOT NULL DEFAULT '',
  active               BOOLEAN   NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id                      UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  dehu_id                 TEXT        NOT NULL,
  origin_code             INTEGER     NOT NULL,
  subject                 TEXT        NOT NULL DEFAULT '',
  description             TEXT        NOT NULL DEFAULT '',
  notification_type       TEXT        NOT NULL DEFAULT '',
  available_date          TEXT,
  status                  TEXT        NOT NULL DEFAULT 'pending'
                          CHECK (status IN ('pending', 'accepted', 'rejected', 'expired', 'read')),
  issuer_entity           TEXT        NOT NULL DEFAULT '',
  issuer_root_entity      TEXT        NOT NULL DEFAULT '',
  holder_nif              TEXT        NOT NULL DEFAULT '',
  holder_name             TEXT        NOT NULL DEFAULT '',
  recipient_nif           TEXT        NOT NULL DEFAULT '',
  recipient_name          TEXT        NOT NULL DEFAULT '',
  document_name           TEXT        NOT NULL DEFAULT '',
  document_content        TEXT,
  document_mimetype       TEXT        NOT NULL DEFAULT '',
  document_hash           TEXT        NOT NULL DEFAULT '',
  document_hash_algorithm TEXT        NOT NULL DEFAULT '',
  document_metadata       TEXT        NOT NULL DEFAULT '',
  receipt_reference       TEXT        NOT NULL DEFAULT '',
  receipt_csv             TEXT        NOT NULL DEFAULT '',
  created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_unique_index_notifications_identity",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS uq_notifications_identity ON notifications (dehu_id, origin_code);`,
	},
	{
		Name: "create_index_notifications_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications (status);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  notification_id UUID        NOT NULL REFERENCES notifications (id) ON DELETE CASCADE,
  name            TEXT        NOT NULL DEFAULT '',
  content         TEXT,
  mimetype        TEXT        NOT NULL DEFAULT '',
  reference       TEXT        NOT NULL DEFAULT '',
  metadata        TEXT,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_notification_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_notification_id ON attachments (notification_id);`,
	},
}

// sentinel is checked to decide whether the schema is already in place.
const sentinel = "public.notifications"

// EnsureMigrated runs every step when the notifications table does not exist yet.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *zap.Logger, dbHost string) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.Named("migration").With(zap.String("db_host", dbHost))
	start := time.Now()

	log.Info("db_migration_check")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", sentinel).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			zap.Error(err),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}
	if exists {
		log.Info("db_migration_skip",
			zap.String("reason", "schema already exists"),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", zap.Int("steps", len(steps)))
	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				zap.String("migration_step", step.Name),
				zap.Error(err),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info("db_migration_step",
			zap.String("migration_step", step.Name),
			zap.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success", zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	return nil
}
