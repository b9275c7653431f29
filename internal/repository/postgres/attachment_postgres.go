package postgres

import (
	"context"
	"database/sql"

	"dehusync/internal/model"
	"dehusync/internal/repository"
)

// AttachmentPostgres is a PostgreSQL implementation of repository.AttachmentRepository.
type AttachmentPostgres struct {
	db *sql.DB
}

// NewAttachmentPostgres creates a new AttachmentPostgres repository.
func NewAttachmentPostgres(db *sql.DB) *AttachmentPostgres {
	return &AttachmentPostgres{db: db}
}

var _ repository.AttachmentRepository = (*AttachmentPostgres)(nil)

// Create inserts an attachment row and returns the stored record.
func (r *AttachmentPostgres) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	const q = `
		INSERT INTO attachments (id, notification_id, name, content, mimetype, reference, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, notification_id, name, content, mimetype, reference, metadata, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.NotificationID,
		a.Name,
		a.Content,
		a.MimeType,
		a.Reference,
		a.Metadata,
		a.CreatedAt,
	)
	var out model.Attachment
	if err := row.Scan(
		&out.ID,
		&out.NotificationID,
		&out.Name,
		&out.Content,
		&out.MimeType,
		&out.Reference,
		&out.Metadata,
		&out.CreatedAt,
	); err != nil {
		return nil, mapError(err)
	}
	return &out, nil
}

// ListByNotification returns the attachments of a notification in creation order.
func (r *AttachmentPostgres) ListByNotification(ctx context.Context, notificationID string) ([]model.Attachment, error) {
	const q = `
		SELECT id, notification_id, name, content, mimetype, reference, metadata, created_at
		FROM attachments
		WHERE notification_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, q, notificationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Attachment, 0)
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(
			&a.ID,
			&a.NotificationID,
			&a.Name,
			&a.Content,
			&a.MimeType,
			&a.Reference,
			&a.Metadata,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
