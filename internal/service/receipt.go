package service

import (
	"context"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"dehusync/internal/dehu"
	"dehusync/internal/model"
)

// ReceiptFetcher downloads the acknowledgment PDF of an accepted notification. It stores nothing.
type ReceiptFetcher struct {
	factory dehu.Factory
	metrics *Metrics
	logger  *zap.Logger
}

// NewReceiptFetcher constructs a ReceiptFetcher. metrics may be nil.
func NewReceiptFetcher(factory dehu.Factory, metrics *Metrics, logger *zap.Logger) *ReceiptFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReceiptFetcher{factory: factory, metrics: metrics, logger: logger.Named("receipt")}
}

// Download returns the receipt of n. A notification without receipt CSV fails with
// ErrNoReceiptAvailable before any remote call. Every other failure is returned as *ReceiptDownloadError.
func (f *ReceiptFetcher) Download(ctx context.Context, cfg *model.Configuration, n *model.Notification) (*model.ReceiptPDF, error) {
	if n.ReceiptCSV == "" {
		return nil, ErrNoReceiptAvailable
	}
	annotate(ctx, attrNotification.String(n.Key()))
	pdf, err := f.download(ctx, cfg, n)
	if err != nil {
		recordError(ctx, err)
		f.logger.Error("error downloading receipt", zap.String("notification", n.Key()), zap.Error(err))
		return nil, &ReceiptDownloadError{Key: n.Key(), Err: err}
	}
	return pdf, nil
}

func (f *ReceiptFetcher) download(ctx context.Context, cfg *model.Configuration, n *model.Notification) (*model.ReceiptPDF, error) {
	svc, err := f.factory.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	resp, err := svc.QueryReceiptPDF(ctx, dehu.QueryReceiptRequest{
		ReceiverNIF: cfg.CompanyTaxID,
		Identifier:  n.DehuID,
		OriginCode:  n.OriginCode,
		Receipt:     dehu.ReceiptIdentifier{CSV: n.ReceiptCSV},
	})
	if err != nil {
		f.metrics.remoteError(dehu.OpQueryReceiptPDF)
		return nil, err
	}
	f.metrics.remoteReply(dehu.OpQueryReceiptPDF, resp.Code)

	if resp.Code != dehu.CodeOK {
		return nil, &RemoteRejectionError{Code: resp.Code, Description: resp.Description}
	}
	if resp.Receipt == nil {
		return nil, ErrNoDocument
	}

	mimeType := resp.Receipt.MimeType
	if mimeType == "" {
		mimeType = mimetype.Detect(resp.Receipt.Content).String()
	}
	return &model.ReceiptPDF{
		Name:     resp.Receipt.Name,
		Content:  resp.Receipt.Content.Base64(),
		MimeType: mimeType,
	}, nil
}
