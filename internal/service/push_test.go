package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dehusync/internal/model"
	"dehusync/internal/repository"
	repoMocks "dehusync/internal/repository/mocks"
)

func strPtr(s string) *string { return &s }

func TestOriginCode_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    OriginCode
		wantErr bool
	}{
		{"number", `{"codigoOrigen": 7}`, 7, false},
		{"numeric string", `{"codigoOrigen": "12"}`, 12, false},
		{"padded string", `{"codigoOrigen": " 3 "}`, 3, false},
		{"null", `{"codigoOrigen": null}`, 0, false},
		{"absent", `{}`, 0, false},
		{"not a number", `{"codigoOrigen": "abc"}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PushNotification
			err := json.Unmarshal([]byte(tt.body), &p)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.OriginCode)
		})
	}
}

func TestNormalizeAvailableDate(t *testing.T) {
	tests := []struct {
		in   string
		want *string
	}{
		{"2024-03-01T10:00:00+01:00", strPtr("2024-03-01 09:00:00")},
		{"2024-03-01T10:00:00Z", strPtr("2024-03-01 10:00:00")},
		{"2024-03-01T10:00:00", strPtr("2024-03-01 10:00:00")},
		{"2024-03-01 10:00:00", strPtr("2024-03-01 10:00:00")},
		{"2024-03-01", strPtr("2024-03-01 00:00:00")},
		{"", nil},
		{"yesterday-ish", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAvailableDate(tt.in))
		})
	}
}

func TestReconciler_ApplyPush(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		items      []PushNotification
		setupMocks func(r *repoMocks.MockNotificationRepository)
		want       *PushResult
		wantErr    error
		wantErrMsg string
	}{
		{
			name: "updates existing in place",
			items: []PushNotification{{
				Identifier:    "EXP1",
				OriginCode:    7,
				Status:        "expired",
				AvailableDate: "2024-03-01T10:00:00+01:00",
			}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP1", 7).Return(&model.Notification{ID: "n-1"}, nil)
				r.On("UpdateStatus", ctx, "n-1", model.StatusExpired, strPtr("2024-03-01 09:00:00")).Return(nil)
			},
			want: &PushResult{Updated: 1},
		},
		{
			name:  "missing status defaults to pending on update",
			items: []PushNotification{{Identifier: "EXP1", OriginCode: 7}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP1", 7).Return(&model.Notification{ID: "n-1", Status: model.StatusRead}, nil)
				r.On("UpdateStatus", ctx, "n-1", model.StatusPending, (*string)(nil)).Return(nil)
			},
			want: &PushResult{Updated: 1},
		},
		{
			name: "creates unknown with payload fields",
			items: []PushNotification{{
				Identifier:    "EXP2",
				OriginCode:    1,
				Subject:       "Liquidación",
				Description:   "Propuesta",
				Type:          model.TypeCommunication,
				AvailableDate: "2024-03-01T10:00:00Z",
				Status:        "read",
				Issuer:        &PushOrganism{Name: "AEAT"},
				IssuerRoot:    &PushOrganism{Name: "Hacienda"},
				Holder:        &PushHolder{NIF: "B12345678", Name: "ACME SL"},
			}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP2", 1).Return(nil, sql.ErrNoRows)
				r.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
					return n.Key() == "EXP2-1" &&
						n.Status == model.StatusRead &&
						n.Subject == "Liquidación" &&
						n.NotificationType == model.TypeCommunication &&
						n.AvailableDate != nil && *n.AvailableDate == "2024-03-01 10:00:00" &&
						n.IssuerEntity == "AEAT" &&
						n.IssuerRootEntity == "Hacienda" &&
						n.HolderNIF == "B12345678"
				})).Return(&model.Notification{ID: "n-2"}, nil)
			},
			want: &PushResult{Created: 1},
		},
		{
			name:  "unparseable date is stored absent",
			items: []PushNotification{{Identifier: "EXP3", OriginCode: 1, AvailableDate: "next tuesday"}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP3", 1).Return(nil, sql.ErrNoRows)
				r.On("Create", ctx, mock.MatchedBy(func(n *model.Notification) bool {
					return n.AvailableDate == nil && n.Status == model.StatusPending
				})).Return(&model.Notification{ID: "n-3"}, nil)
			},
			want: &PushResult{Created: 1},
		},
		{
			name:  "duplicate on create falls back to update",
			items: []PushNotification{{Identifier: "EXP4", OriginCode: 2, Status: "accepted"}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP4", 2).Return(nil, sql.ErrNoRows).Once()
				r.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicate)
				r.On("FindByIdentity", ctx, "EXP4", 2).Return(&model.Notification{ID: "n-4"}, nil).Once()
				r.On("UpdateStatus", ctx, "n-4", model.StatusAccepted, (*string)(nil)).Return(nil)
			},
			want: &PushResult{Updated: 1},
		},
		{
			name: "unknown status aborts after earlier entries",
			items: []PushNotification{
				{Identifier: "EXP5", OriginCode: 1, Status: "read"},
				{Identifier: "EXP6", OriginCode: 1, Status: "archived"},
			},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP5", 1).Return(&model.Notification{ID: "n-5"}, nil)
				r.On("UpdateStatus", ctx, "n-5", model.StatusRead, (*string)(nil)).Return(nil)
			},
			wantErr: ErrInvalidStatus,
		},
		{
			name:  "storage error",
			items: []PushNotification{{Identifier: "EXP7", OriginCode: 1}},
			setupMocks: func(r *repoMocks.MockNotificationRepository) {
				r.On("FindByIdentity", ctx, "EXP7", 1).Return(nil, errors.New("db down"))
			},
			wantErrMsg: "notification EXP7-1: db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := new(repoMocks.MockNotificationRepository)
			tt.setupMocks(r)

			rec := NewReconciler(nil, r, testWindow, nil, nil)
			got, err := rec.ApplyPush(ctx, tt.items)

			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			case tt.wantErrMsg != "":
				assert.EqualError(t, err, tt.wantErrMsg)
				assert.Nil(t, got)
			default:
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}

			r.AssertExpectations(t)
		})
	}
}
