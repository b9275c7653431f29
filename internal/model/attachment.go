package model

import "time"

// Attachment belongs to exactly one notification.
// Content is base64 encoded and nil for attachments published only as an external link.
type Attachment struct {
	ID             string    `json:"id"`
	NotificationID string    `json:"notification_id"`
	Name           string    `json:"name"`
	Content        *string   `json:"content,omitempty"`
	MimeType       string    `json:"mimetype"`
	Reference      string    `json:"reference"`
	Metadata       *string   `json:"metadata,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
