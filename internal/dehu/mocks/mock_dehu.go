package mocks

import (
	"context"

	"dehusync/internal/dehu"
	"dehusync/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockFactory struct {
	mock.Mock
}

func (m *MockFactory) New(ctx context.Context, cfg *model.Configuration) (dehu.Service, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(dehu.Service), args.Error(1)
}

type MockService struct {
	mock.Mock
}

func (m *MockService) Locate(ctx context.Context, req dehu.LocateRequest) (*dehu.LocateResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dehu.LocateResponse), args.Error(1)
}

func (m *MockService) RequestAccess(ctx context.Context, req dehu.RequestAccessRequest) (*dehu.RequestAccessResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dehu.RequestAccessResponse), args.Error(1)
}

func (m *MockService) QueryAttachment(ctx context.Context, req dehu.QueryAttachmentRequest) (*dehu.QueryAttachmentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dehu.QueryAttachmentResponse), args.Error(1)
}

func (m *MockService) QueryReceiptPDF(ctx context.Context, req dehu.QueryReceiptRequest) (*dehu.QueryReceiptResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dehu.QueryReceiptResponse), args.Error(1)
}
