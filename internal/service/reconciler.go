package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"dehusync/internal/dehu"
	"dehusync/internal/model"
	"dehusync/internal/repository"
)

const (
	// DefaultFetchWindowDays is how far back a fetch looks for notifications.
	DefaultFetchWindowDays = 30

	windowLayout = "2006-01-02T15:04:05"

	sourceFetch = "fetch"
	sourcePush  = "push"
)

// Window is the time range queried by a fetch, ending now in Location.
type Window struct {
	Days     int
	Location *time.Location
	Now      func() time.Time
}

// Bounds returns both ends as local timestamps without zone, second precision.
func (w Window) Bounds() (from, to string) {
	days := w.Days
	if days <= 0 {
		days = DefaultFetchWindowDays
	}
	now := time.Now
	if w.Now != nil {
		now = w.Now
	}
	loc := w.Location
	if loc == nil {
		loc = time.Local
	}
	end := now().In(loc)
	return end.AddDate(0, 0, -days).Format(windowLayout), end.Format(windowLayout)
}

// FetchResult summarizes one fetch.
type FetchResult struct {
	Seen    int `json:"seen"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
}

// Reconciler mirrors remote notifications into local storage, keyed by identity pair.
type Reconciler struct {
	factory       dehu.Factory
	notifications repository.NotificationRepository
	window        Window
	metrics       *Metrics
	logger        *zap.Logger
}

// NewReconciler constructs a Reconciler. metrics may be nil.
func NewReconciler(factory dehu.Factory, notifications repository.NotificationRepository, window Window, metrics *Metrics, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		factory:       factory,
		notifications: notifications,
		window:        window,
		metrics:       metrics,
		logger:        logger.Named("reconciler"),
	}
}

// FetchPending locates the notifications made available to the configuration owner within the
// window and creates the ones not stored yet. Existing records are never modified.
// Records created before a failure stay; the failure is returned as *FetchError.
func (r *Reconciler) FetchPending(ctx context.Context, cfg *model.Configuration) (*FetchResult, error) {
	svc, err := r.factory.New(ctx, cfg)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	from, to := r.window.Bounds()
	resp, err := svc.Locate(ctx, dehu.LocateRequest{
		HolderNIF: cfg.CompanyTaxID,
		DateFrom:  from,
		DateTo:    to,
	})
	if err != nil {
		r.metrics.remoteError(dehu.OpLocate)
		return nil, &FetchError{Err: err}
	}
	r.metrics.remoteReply(dehu.OpLocate, dehu.CodeOK)

	res := &FetchResult{}
	for _, s := range resp.Items() {
		res.Seen++
		created, err := r.createIfMissing(ctx, &s)
		if err != nil {
			return nil, &FetchError{Err: fmt.Errorf("notification %s: %w", model.NotificationKey(s.Identifier, s.OriginCode), err)}
		}
		if created {
			res.Created++
			r.metrics.notification(sourceFetch, "created")
		} else {
			res.Skipped++
			r.metrics.notification(sourceFetch, "skipped")
		}
	}

	annotate(ctx,
		attribute.String("dehu.window.from", from),
		attribute.String("dehu.window.to", to),
		attribute.Int("dehu.fetch.created", res.Created),
	)
	r.logger.Info("pending notifications fetched",
		zap.String("from", from),
		zap.String("to", to),
		zap.Int("seen", res.Seen),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped),
	)
	return res, nil
}

func (r *Reconciler) createIfMissing(ctx context.Context, s *dehu.Shipment) (bool, error) {
	_, err := r.notifications.FindByIdentity(ctx, s.Identifier, s.OriginCode)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, err
	}

	n := newNotification(s.Identifier, s.OriginCode)
	n.Subject = s.Subject
	n.Description = s.Description
	n.NotificationType = s.Type
	n.AvailableDate = normalizeAvailableDate(s.AvailableDate)
	if n.AvailableDate == nil && s.AvailableDate != "" {
		r.logger.Warn("unparseable availability date",
			zap.String("notification", n.Key()),
			zap.String("value", s.AvailableDate),
		)
	}
	n.IssuerEntity = s.IssuerName()
	n.IssuerRootEntity = s.IssuerRootName()
	n.HolderNIF = s.HolderNIF()
	n.HolderName = s.HolderName()

	if _, err := r.notifications.Create(ctx, n); err != nil {
		// Another writer stored the same pair since the lookup.
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func newNotification(dehuID string, originCode int) *model.Notification {
	now := time.Now().UTC()
	return &model.Notification{
		ID:         uuid.NewString(),
		DehuID:     dehuID,
		OriginCode: originCode,
		Status:     model.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
