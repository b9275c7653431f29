package service

import (
	"context"

	"go.uber.org/zap"

	"dehusync/internal/dehu"
	"dehusync/internal/model"
	"dehusync/internal/repository"
)

// ProcessResult is the accepted notification and, when the reply listed any, its attachments.
type ProcessResult struct {
	Notification *model.Notification `json:"notification"`
	Attachments  *AttachmentReport   `json:"attachments,omitempty"`
}

// Processor accepts notifications on the remote service and stores the released document.
type Processor struct {
	factory       dehu.Factory
	notifications repository.NotificationRepository
	retriever     *AttachmentRetriever
	metrics       *Metrics
	logger        *zap.Logger
}

// NewProcessor constructs a Processor. metrics may be nil.
func NewProcessor(factory dehu.Factory, notifications repository.NotificationRepository, retriever *AttachmentRetriever, metrics *Metrics, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		factory:       factory,
		notifications: notifications,
		retriever:     retriever,
		metrics:       metrics,
		logger:        logger.Named("processor"),
	}
}

// Process sends the acceptance event for n. On response code "200" the notification becomes
// accepted, its document is stored and the attachment manifest is retrieved. Any other code leaves
// n untouched. Every failure is returned as *ProcessingError.
func (p *Processor) Process(ctx context.Context, cfg *model.Configuration, n *model.Notification) (*ProcessResult, error) {
	annotate(ctx, attrNotification.String(n.Key()))
	res, err := p.process(ctx, cfg, n)
	if err != nil {
		recordError(ctx, err)
		p.logger.Error("error processing notification", zap.String("notification", n.Key()), zap.Error(err))
		return nil, &ProcessingError{Key: n.Key(), Err: err}
	}
	return res, nil
}

func (p *Processor) process(ctx context.Context, cfg *model.Configuration, n *model.Notification) (*ProcessResult, error) {
	svc, err := p.factory.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := svc.RequestAccess(ctx, dehu.RequestAccessRequest{
		Identifier:   n.DehuID,
		OriginCode:   n.OriginCode,
		ReceiverNIF:  cfg.CompanyTaxID,
		ReceiverName: cfg.CompanyName,
		Event:        dehu.EventAccepted,
		Subject:      n.Subject,
	})
	if err != nil {
		p.metrics.remoteError(dehu.OpRequestAccess)
		return nil, err
	}
	p.metrics.remoteReply(dehu.OpRequestAccess, resp.Code)

	if resp.Code != dehu.CodeOK {
		return nil, &RemoteRejectionError{Code: resp.Code, Description: resp.Description}
	}
	doc := resp.Document
	if doc == nil {
		return nil, ErrNoDocument
	}

	updated := *n
	updated.Status = model.StatusAccepted
	updated.DocumentName = doc.Name
	updated.DocumentMimeType = doc.MimeType
	updated.ReceiptCSV = doc.CSV
	if doc.Content != nil {
		content := doc.Content.Base64()
		updated.DocumentContent = &content
	}
	if err := p.notifications.Update(ctx, &updated); err != nil {
		return nil, err
	}
	*n = updated

	res := &ProcessResult{Notification: n}
	if resp.Attachments != nil {
		report, err := p.retriever.Retrieve(ctx, cfg, n, resp.Attachments)
		if err != nil {
			return nil, err
		}
		res.Attachments = report
	}

	p.logger.Info("notification accepted",
		zap.String("notification", n.Key()),
		zap.String("document", doc.Name),
	)
	return res, nil
}
