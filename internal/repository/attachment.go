package repository

import (
	"context"

	"dehusync/internal/model"
)

// AttachmentRepository persists notification attachments. Attachments are never updated.
type AttachmentRepository interface {
	Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error)
	ListByNotification(ctx context.Context, notificationID string) ([]model.Attachment, error)
}
