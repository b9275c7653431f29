package mocks

import (
	"context"

	"dehusync/internal/model"
	"dehusync/internal/repository"
	"github.com/stretchr/testify/mock"
)

type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) FindActive(ctx context.Context) (*model.Configuration, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Configuration), args.Error(1)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByIdentity(ctx context.Context, dehuID string, originCode int) (*model.Notification, error) {
	args := m.Called(ctx, dehuID, originCode)
	if f, ok := args.Get(0).(func(context.Context, string, int) (*model.Notification, error)); ok {
		return f(ctx, dehuID, originCode)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) Update(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateStatus(ctx context.Context, id string, status model.Status, availableDate *string) error {
	args := m.Called(ctx, id, status, availableDate)
	return args.Error(0)
}

func (m *MockNotificationRepository) UpdateReceiptReference(ctx context.Context, id, reference string) error {
	args := m.Called(ctx, id, reference)
	return args.Error(0)
}

func (m *MockNotificationRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Notification], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Notification]), args.Error(1)
}

type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) Create(ctx context.Context, a *model.Attachment) (*model.Attachment, error) {
	args := m.Called(ctx, a)
	if f, ok := args.Get(0).(func(context.Context, *model.Attachment) (*model.Attachment, error)); ok {
		return f(ctx, a)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) ListByNotification(ctx context.Context, notificationID string) ([]model.Attachment, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Attachment), args.Error(1)
}
