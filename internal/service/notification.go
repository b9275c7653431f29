// Package service holds the synchronization use cases: fetching pending notifications,
// accepting them, retrieving their attachments and receipts, and applying webhook updates.
package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"dehusync/internal/model"
	"dehusync/internal/repository"
	"dehusync/internal/storage"
)

// ErrReceiptNotArchived is returned when a notification has no receipt in object storage.
var ErrReceiptNotArchived = errors.New("receipt has not been archived")

const defaultReceiptURLExpiry = 15 * time.Minute

// NotificationListResult is the service-level DTO for paginated notifications.
type NotificationListResult struct {
	Items []model.Notification `json:"data"`
	Total int                  `json:"total"`
}

// ArchivedReceipt locates a receipt PDF kept in object storage.
type ArchivedReceipt struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	URL  string `json:"url"`
}

// NotificationService defines the notification use cases. Each operation that talks to the remote
// service resolves the active configuration once and hands it to the components it runs.
type NotificationService interface {
	// FetchPending mirrors the notifications of the last window into storage.
	FetchPending(ctx context.Context) (*FetchResult, error)

	// ApplyPush applies a webhook delivery.
	ApplyPush(ctx context.Context, items []PushNotification) (*PushResult, error)

	// Process accepts the notification and stores its document and attachments.
	Process(ctx context.Context, id string) (*ProcessResult, error)

	// DownloadReceipt returns the receipt PDF without storing it.
	DownloadReceipt(ctx context.Context, id string) (*model.ReceiptPDF, error)

	// ArchiveReceipt downloads the receipt PDF into object storage and records its key.
	// The object is removed again when the record cannot be updated.
	ArchiveReceipt(ctx context.Context, id string) (*ArchivedReceipt, error)

	// OpenArchivedReceipt streams a previously archived receipt. The caller closes the reader.
	OpenArchivedReceipt(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	List(ctx context.Context, limit, offset int) (*NotificationListResult, error)
	Get(ctx context.Context, id string) (*model.Notification, error)
	ListAttachments(ctx context.Context, id string) ([]model.Attachment, error)
}

// Deps are the collaborators of the notification service.
type Deps struct {
	Configurations   repository.ConfigurationRepository
	Notifications    repository.NotificationRepository
	Attachments      repository.AttachmentRepository
	Store            storage.Storage
	Reconciler       *Reconciler
	Processor        *Processor
	Receipts         *ReceiptFetcher
	ReceiptURLExpiry time.Duration
	Logger           *zap.Logger
}

type notificationService struct {
	configs       repository.ConfigurationRepository
	notifications repository.NotificationRepository
	attachments   repository.AttachmentRepository
	store         storage.Storage
	reconciler    *Reconciler
	processor     *Processor
	receipts      *ReceiptFetcher
	urlExpiry     time.Duration
	logger        *zap.Logger
}

// NewNotificationService constructs a new NotificationService.
func NewNotificationService(d Deps) NotificationService {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	expiry := d.ReceiptURLExpiry
	if expiry <= 0 {
		expiry = defaultReceiptURLExpiry
	}
	return &notificationService{
		configs:       d.Configurations,
		notifications: d.Notifications,
		attachments:   d.Attachments,
		store:         d.Store,
		reconciler:    d.Reconciler,
		processor:     d.Processor,
		receipts:      d.Receipts,
		urlExpiry:     expiry,
		logger:        logger.Named("notifications"),
	}
}

func (s *notificationService) activeConfiguration(ctx context.Context) (*model.Configuration, error) {
	cfg, err := s.configs.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveConfiguration
		}
		return nil, fmt.Errorf("find active configuration: %w", err)
	}
	return cfg, nil
}

func (s *notificationService) FetchPending(ctx context.Context) (*FetchResult, error) {
	cfg, err := s.activeConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return s.reconciler.FetchPending(ctx, cfg)
}

func (s *notificationService) ApplyPush(ctx context.Context, items []PushNotification) (*PushResult, error) {
	return s.reconciler.ApplyPush(ctx, items)
}

func (s *notificationService) Process(ctx context.Context, id string) (*ProcessResult, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cfg, err := s.activeConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return s.processor.Process(ctx, cfg, n)
}

func (s *notificationService) DownloadReceipt(ctx context.Context, id string) (*model.ReceiptPDF, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.downloadReceipt(ctx, n)
}

func (s *notificationService) downloadReceipt(ctx context.Context, n *model.Notification) (*model.ReceiptPDF, error) {
	if n.ReceiptCSV == "" {
		return nil, ErrNoReceiptAvailable
	}
	cfg, err := s.activeConfiguration(ctx)
	if err != nil {
		return nil, err
	}
	return s.receipts.Download(ctx, cfg, n)
}

func (s *notificationService) ArchiveReceipt(ctx context.Context, id string) (*ArchivedReceipt, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	pdf, err := s.downloadReceipt(ctx, n)
	if err != nil {
		return nil, err
	}
	raw, err := base64.StdEncoding.DecodeString(pdf.Content)
	if err != nil {
		return nil, fmt.Errorf("decode receipt: %w", err)
	}

	key := storage.ReceiptKey(n.Key())
	info, err := s.store.Put(ctx, key, bytes.NewReader(raw), storage.PutObjectOptions{
		Size:        int64(len(raw)),
		ContentType: pdf.MimeType,
		Metadata: map[string]string{
			"notification-id": n.ID,
			"receipt-name":    pdf.Name,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	if err := s.notifications.UpdateReceiptReference(ctx, n.ID, key); err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	url, err := s.store.PresignGet(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign receipt: %w", err)
	}

	s.logger.Info("receipt archived", zap.String("notification", n.Key()), zap.String("key", key))
	return &ArchivedReceipt{Key: key, Name: pdf.Name, Size: info.Size, URL: url}, nil
}

func (s *notificationService) OpenArchivedReceipt(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, storage.ObjectInfo{}, err
	}
	if n.ReceiptReference == "" {
		return nil, storage.ObjectInfo{}, ErrReceiptNotArchived
	}
	rc, info, err := s.store.Get(ctx, n.ReceiptReference)
	if errors.Is(err, storage.ErrObjectNotFound) {
		s.logger.Warn("archived receipt missing from storage", zap.String("key", n.ReceiptReference))
		return nil, storage.ObjectInfo{}, ErrReceiptNotArchived
	}
	if err != nil {
		return nil, storage.ObjectInfo{}, fmt.Errorf("read storage: %w", err)
	}
	return rc, info, nil
}

// List returns paginated notifications without exposing repository types.
func (s *notificationService) List(ctx context.Context, limit, offset int) (*NotificationListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.notifications.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &NotificationListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *notificationService) Get(ctx context.Context, id string) (*model.Notification, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	n, err := s.notifications.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *notificationService) ListAttachments(ctx context.Context, id string) ([]model.Attachment, error) {
	n, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.attachments.ListByNotification(ctx, n.ID)
}
