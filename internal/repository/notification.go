package repository

import (
	"context"

	"dehusync/internal/model"
)

// NotificationRepository defines data access for notifications using SQL queries only.
// No business logic here, strictly persistence operations.
type NotificationRepository interface {
	// Create inserts a new notification. It returns ErrDuplicate when the
	// (dehu_id, origin_code) pair is already stored.
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)

	// FindByID returns a notification by its ID.
	FindByID(ctx context.Context, id string) (*model.Notification, error)

	// FindByIdentity returns the notification with the given identity pair, or sql.ErrNoRows.
	FindByIdentity(ctx context.Context, dehuID string, originCode int) (*model.Notification, error)

	// Update writes every mutable field of the notification.
	Update(ctx context.Context, n *model.Notification) error

	// UpdateStatus sets status and availability date in place.
	UpdateStatus(ctx context.Context, id string, status model.Status, availableDate *string) error

	// UpdateReceiptReference stores where the receipt PDF was archived.
	UpdateReceiptReference(ctx context.Context, id, reference string) error

	// List returns a page of notifications, most recently available first.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Notification], error)
}
