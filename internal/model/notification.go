package model

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a notification as reported by the remote service.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
	StatusRead     Status = "read"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusExpired, StatusRead:
		return true
	}
	return false
}

// Notification type codes.
const (
	TypeCommunication = "1"
	TypeNotification  = "2"
)

// Notification is one remote notification instance.
// DehuID and OriginCode together form its natural key.
type Notification struct {
	ID               string  `json:"id"`
	DehuID           string  `json:"dehu_id"`
	OriginCode       int     `json:"origin_code"`
	Subject          string  `json:"subject"`
	Description      string  `json:"description"`
	NotificationType string  `json:"notification_type"`
	AvailableDate    *string `json:"available_date,omitempty"`
	Status           Status  `json:"status"`

	IssuerEntity     string `json:"issuer_entity"`
	IssuerRootEntity string `json:"issuer_root_entity"`
	HolderNIF        string `json:"holder_nif"`
	HolderName       string `json:"holder_name"`
	RecipientNIF     string `json:"recipient_nif"`
	RecipientName    string `json:"recipient_name"`

	DocumentName          string  `json:"document_name"`
	DocumentContent       *string `json:"document_content,omitempty"`
	DocumentMimeType      string  `json:"document_mimetype"`
	DocumentHash          string  `json:"document_hash"`
	DocumentHashAlgorithm string  `json:"document_hash_algorithm"`
	DocumentMetadata      string  `json:"document_metadata"`

	ReceiptReference string `json:"receipt_reference"`
	ReceiptCSV       string `json:"receipt_csv"`

	// HasAttachments is computed on read and never written.
	HasAttachments bool `json:"has_attachments"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NotificationKey builds the display key of an identity pair, e.g. "EXP123-7".
func NotificationKey(dehuID string, originCode int) string {
	return fmt.Sprintf("%s-%d", dehuID, originCode)
}

// Key returns the display key of the notification.
func (n *Notification) Key() string {
	return NotificationKey(n.DehuID, n.OriginCode)
}

// ReceiptPDF is the acknowledgment document of an accepted notification.
// Content is base64 encoded.
type ReceiptPDF struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	MimeType string `json:"mimetype"`
}
