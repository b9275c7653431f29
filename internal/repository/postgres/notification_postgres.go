package postgres

import (
	"context"
	"database/sql"

	"dehusync/internal/model"
	"dehusync/internal/repository"
)

// NotificationPostgres is a PostgreSQL implementation of repository.NotificationRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotificationPostgres struct {
	db *sql.DB
}

// NewNotificationPostgres creates a new NotificationPostgres repository.
func NewNotificationPostgres(db *sql.DB) *NotificationPostgres {
	return &NotificationPostgres{db: db}
}

var _ repository.NotificationRepository = (*NotificationPostgres)(nil)

const notificationColumns = `id, dehu_id, origin_code, subject, description, notification_type,
		available_date, status, issuer_entity, issuer_root_entity, holder_nif, holder_name,
		recipient_nif, recipient_name, document_name, document_content, document_mimetype,
		document_hash, document_hash_algorithm, document_metadata, receipt_reference, receipt_csv,
		created_at, updated_at`

// notificationSelect adds the computed has_attachments flag to notificationColumns.
const notificationSelect = notificationColumns + `,
		EXISTS (SELECT 1 FROM attachments a WHERE a.notification_id = notifications.id) AS has_attachments`

type scanner interface {
	Scan(dest ...any) error
}

func scanNotification(s scanner) (*model.Notification, error) {
	var n model.Notification
	var status string
	if err := s.Scan(
		&n.ID,
		&n.DehuID,
		&n.OriginCode,
		&n.Subject,
		&n.Description,
		&n.NotificationType,
		&n.AvailableDate,
		&status,
		&n.IssuerEntity,
		&n.IssuerRootEntity,
		&n.HolderNIF,
		&n.HolderName,
		&n.RecipientNIF,
		&n.RecipientName,
		&n.DocumentName,
		&n.DocumentContent,
		&n.DocumentMimeType,
		&n.DocumentHash,
		&n.DocumentHashAlgorithm,
		&n.DocumentMetadata,
		&n.ReceiptReference,
		&n.ReceiptCSV,
		&n.CreatedAt,
		&n.UpdatedAt,
		&n.HasAttachments,
	); err != nil {
		return nil, err
	}
	n.Status = model.Status(status)
	return &n, nil
}

// Create inserts a new notification row and returns the stored record.
func (r *NotificationPostgres) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	const q = `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24)
		RETURNING ` + notificationColumns + `, FALSE AS has_attachments`
	row := r.db.QueryRowContext(ctx, q,
		n.ID,
		n.DehuID,
		n.OriginCode,
		n.Subject,
		n.Description,
		n.NotificationType,
		n.AvailableDate,
		string(n.Status),
		n.IssuerEntity,
		n.IssuerRootEntity,
		n.HolderNIF,
		n.HolderName,
		n.RecipientNIF,
		n.RecipientName,
		n.DocumentName,
		n.DocumentContent,
		n.DocumentMimeType,
		n.DocumentHash,
		n.DocumentHashAlgorithm,
		n.DocumentMetadata,
		n.ReceiptReference,
		n.ReceiptCSV,
		n.CreatedAt,
		n.UpdatedAt,
	)
	out, err := scanNotification(row)
	if err != nil {
		return nil, mapError(err)
	}
	return out, nil
}

// FindByID fetches a single notification by its ID.
func (r *NotificationPostgres) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	q := `SELECT ` + notificationSelect + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRowContext(ctx, q, id))
}

// FindByIdentity fetches a notification by its (dehu_id, origin_code) pair.
func (r *NotificationPostgres) FindByIdentity(ctx context.Context, dehuID string, originCode int) (*model.Notification, error) {
	q := `SELECT ` + notificationSelect + ` FROM notifications WHERE dehu_id = $1 AND origin_code = $2 LIMIT 1`
	return scanNotification(r.db.QueryRowContext(ctx, q, dehuID, originCode))
}

// Update writes the mutable fields of a notification. Identity fields are never changed.
func (r *NotificationPostgres) Update(ctx context.Context, n *model.Notification) error {
	const q = `
		UPDATE notifications SET
			status = $2,
			available_date = $3,
			document_name = $4,
			document_content = $5,
			document_mimetype = $6,
			document_hash = $7,
			document_hash_algorithm = $8,
			document_metadata = $9,
			receipt_reference = $10,
			receipt_csv = $11,
			recipient_nif = $12,
			recipient_name = $13,
			updated_at = now()
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, q,
		n.ID,
		string(n.Status),
		n.AvailableDate,
		n.DocumentName,
		n.DocumentContent,
		n.DocumentMimeType,
		n.DocumentHash,
		n.DocumentHashAlgorithm,
		n.DocumentMetadata,
		n.ReceiptReference,
		n.ReceiptCSV,
		n.RecipientNIF,
		n.RecipientName,
	)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// UpdateStatus sets the status and availability date of a notification.
func (r *NotificationPostgres) UpdateStatus(ctx context.Context, id string, status model.Status, availableDate *string) error {
	const q = `UPDATE notifications SET status = $2, available_date = $3, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, string(status), availableDate)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// UpdateReceiptReference records the object storage key of the archived receipt.
func (r *NotificationPostgres) UpdateReceiptReference(ctx context.Context, id, reference string) error {
	const q = `UPDATE notifications SET receipt_reference = $2, updated_at = now() WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id, reference)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

// List returns notifications using LIMIT/OFFSET pagination and a total count.
func (r *NotificationPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	const qCount = `SELECT COUNT(*) FROM notifications`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + notificationSelect + `
		FROM notifications
		ORDER BY available_date DESC NULLS LAST, created_at DESC, id DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Notification]{
		Items: items,
		Total: total,
	}, nil
}

// expectOneRow turns an update that matched nothing into sql.ErrNoRows.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
