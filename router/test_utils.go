package router

import (
	"context"

	"github.com/itsolution4india/webhook-develop/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockProcessor struct {
	mock.Mock
}

func (m *MockProcessor) ProcessPayload(ctx context.Context, p *models.WebhookPayload) {
	m.Called(ctx, p)
}

type MockLister struct {
	mock.Mock
}

func (m *MockLister) ListReports(limit, offset int) ([]*models.ReportRecord, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReportRecord), args.Error(1)
}
