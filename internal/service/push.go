package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"dehusync/internal/model"
	"dehusync/internal/repository"
)

// OriginCode accepts the origin code as a JSON number or a numeric string.
type OriginCode int

func (o *OriginCode) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*o = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	v, err := strconv.Atoi(string(bytes.TrimSpace(b)))
	if err != nil {
		return fmt.Errorf("invalid codigoOrigen %q", string(b))
	}
	*o = OriginCode(v)
	return nil
}

// PushOrganism is an issuing body in a webhook payload.
type PushOrganism struct {
	Name string `json:"nombreOrganismo"`
}

// PushHolder is the notification holder in a webhook payload.
type PushHolder struct {
	NIF  string `json:"nifTitular"`
	Name string `json:"nombreTitular"`
}

// PushNotification is one entry of a webhook delivery.
type PushNotification struct {
	Identifier    string        `json:"identificador" validate:"required"`
	OriginCode    OriginCode    `json:"codigoOrigen"`
	Subject       string        `json:"concepto"`
	Description   string        `json:"descripcion"`
	Type          string        `json:"tipoEnvio"`
	AvailableDate string        `json:"fechaPuestaDisposicion"`
	Status        string        `json:"estado"`
	Issuer        *PushOrganism `json:"organismoEmisor"`
	IssuerRoot    *PushOrganism `json:"organismoEmisorRaiz"`
	Holder        *PushHolder   `json:"titular"`
}

// PushResult summarizes one webhook delivery.
type PushResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ApplyPush upserts webhook entries by identity pair. Found records get status and availability
// overwritten; missing ones are created. An unknown status aborts the batch with ErrInvalidStatus;
// entries applied before it stay.
func (r *Reconciler) ApplyPush(ctx context.Context, items []PushNotification) (*PushResult, error) {
	res := &PushResult{}
	for i := range items {
		p := &items[i]
		key := model.NotificationKey(p.Identifier, int(p.OriginCode))

		status := model.StatusPending
		if p.Status != "" {
			status = model.Status(p.Status)
			if !status.Valid() {
				return nil, fmt.Errorf("notification %s: %w: %q", key, ErrInvalidStatus, p.Status)
			}
		}
		date := normalizeAvailableDate(p.AvailableDate)
		if date == nil && p.AvailableDate != "" {
			r.logger.Warn("unparseable availability date",
				zap.String("notification", key),
				zap.String("value", p.AvailableDate),
			)
		}

		created, err := r.upsert(ctx, p, status, date)
		if err != nil {
			return nil, fmt.Errorf("notification %s: %w", key, err)
		}
		if created {
			res.Created++
			r.metrics.notification(sourcePush, "created")
		} else {
			res.Updated++
			r.metrics.notification(sourcePush, "updated")
		}
	}

	r.logger.Info("webhook notifications applied",
		zap.Int("received", len(items)),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
	)
	return res, nil
}

func (r *Reconciler) upsert(ctx context.Context, p *PushNotification, status model.Status, date *string) (bool, error) {
	existing, err := r.notifications.FindByIdentity(ctx, p.Identifier, int(p.OriginCode))
	switch {
	case err == nil:
		return false, r.notifications.UpdateStatus(ctx, existing.ID, status, date)
	case !errors.Is(err, sql.ErrNoRows):
		return false, err
	}

	n := newNotification(p.Identifier, int(p.OriginCode))
	n.Status = status
	n.Subject = p.Subject
	n.Description = p.Description
	n.NotificationType = p.Type
	n.AvailableDate = date
	if p.Issuer != nil {
		n.IssuerEntity = p.Issuer.Name
	}
	if p.IssuerRoot != nil {
		n.IssuerRootEntity = p.IssuerRoot.Name
	}
	if p.Holder != nil {
		n.HolderNIF = p.Holder.NIF
		n.HolderName = p.Holder.Name
	}

	if _, err := r.notifications.Create(ctx, n); err != nil {
		if !errors.Is(err, repository.ErrDuplicate) {
			return false, err
		}
		existing, err := r.notifications.FindByIdentity(ctx, p.Identifier, int(p.OriginCode))
		if err != nil {
			return false, err
		}
		return false, r.notifications.UpdateStatus(ctx, existing.ID, status, date)
	}
	return true, nil
}
