package service

import (
	"context"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"dehusync/internal/dehu"
	"dehusync/internal/model"
	"dehusync/internal/repository"
)

const (
	kindReference = "reference"
	kindURL       = "url"

	externalLinkPrefix = "External link: "
)

// Skip records a by-reference attachment that could not be stored.
type Skip struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

// AttachmentReport is the outcome of one manifest.
type AttachmentReport struct {
	Created []model.Attachment `json:"created"`
	Skipped []Skip             `json:"skipped"`
}

// AttachmentRetriever stores the attachments listed in an access manifest.
type AttachmentRetriever struct {
	factory     dehu.Factory
	attachments repository.AttachmentRepository
	metrics     *Metrics
	logger      *zap.Logger
}

// NewAttachmentRetriever constructs an AttachmentRetriever. metrics may be nil.
func NewAttachmentRetriever(factory dehu.Factory, attachments repository.AttachmentRepository, metrics *Metrics, logger *zap.Logger) *AttachmentRetriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttachmentRetriever{
		factory:     factory,
		attachments: attachments,
		metrics:     metrics,
		logger:      logger.Named("attachments"),
	}
}

// Retrieve downloads every by-reference item, each over its own session, and records every
// by-URL item as a link. A failing by-reference item is skipped and reported; the rest continue.
// A storage failure on a by-URL item aborts, keeping what was already stored.
func (a *AttachmentRetriever) Retrieve(ctx context.Context, cfg *model.Configuration, n *model.Notification, manifest *dehu.Manifest) (*AttachmentReport, error) {
	report := &AttachmentReport{
		Created: make([]model.Attachment, 0),
		Skipped: make([]Skip, 0),
	}

	for _, item := range manifest.ReferenceItems() {
		att, err := a.fetchByReference(ctx, cfg, n, item)
		if err != nil {
			a.metrics.attachment(kindReference, "skipped")
			a.logger.Warn("attachment skipped",
				zap.String("notification", n.Key()),
				zap.String("attachment", item.Name),
				zap.String("reference", item.DocumentReference),
				zap.Error(err),
			)
			report.Skipped = append(report.Skipped, Skip{
				Name:      item.Name,
				Reference: item.DocumentReference,
				Reason:    err.Error(),
			})
			continue
		}
		a.metrics.attachment(kindReference, "created")
		report.Created = append(report.Created, *att)
	}

	for _, item := range manifest.URLItems() {
		metadata := externalLinkPrefix + item.Link
		att, err := a.attachments.Create(ctx, &model.Attachment{
			ID:             uuid.NewString(),
			NotificationID: n.ID,
			Name:           item.Name,
			MimeType:       item.MimeType,
			Reference:      item.Link,
			Metadata:       &metadata,
			CreatedAt:      time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
		a.metrics.attachment(kindURL, "created")
		report.Created = append(report.Created, *att)
	}

	return report, nil
}

func (a *AttachmentRetriever) fetchByReference(ctx context.Context, cfg *model.Configuration, n *model.Notification, item dehu.ReferenceAttachment) (*model.Attachment, error) {
	svc, err := a.factory.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := svc.QueryAttachment(ctx, dehu.QueryAttachmentRequest{
		ReceiverNIF: cfg.CompanyTaxID,
		Identifier:  n.DehuID,
		OriginCode:  n.OriginCode,
		Reference:   item.DocumentReference,
	})
	if err != nil {
		a.metrics.remoteError(dehu.OpQueryAttachment)
		return nil, err
	}
	a.metrics.remoteReply(dehu.OpQueryAttachment, resp.Code)
	if resp.Code != dehu.CodeOK {
		return nil, &RemoteRejectionError{Code: resp.Code, Description: resp.Description}
	}

	att := &model.Attachment{
		ID:             uuid.NewString(),
		NotificationID: n.ID,
		Name:           item.Name,
		MimeType:       item.MimeType,
		Reference:      item.DocumentReference,
		CreatedAt:      time.Now().UTC(),
	}
	if doc := resp.Document; doc != nil {
		if doc.Content != nil {
			content := doc.Content.Base64()
			att.Content = &content
			if att.MimeType == "" {
				att.MimeType = mimetype.Detect(*doc.Content).String()
			}
		}
		att.Metadata = doc.Metadata
	}
	return a.attachments.Create(ctx, att)
}
