package services

import (
	"context"

	"github.com/itsolution4india/webhook-develop/internal/db"
	"github.com/itsolution4india/webhook-develop/internal/models"

	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upsert(rec *models.ReportRecord) (db.UpsertResult, error) {
	args := m.Called(rec)
	return args.Get(0).(db.UpsertResult), args.Error(1)
}

type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) MaybeForward(ctx context.Context, p *models.WebhookPayload) (bool, error) {
	args := m.Called(ctx, p)
	return args.Bool(0), args.Error(1)
}

type MockReplier struct {
	mock.Mock
}

func (m *MockReplier) SendText(ctx context.Context, phoneNumberID, to, body string) error {
	args := m.Called(ctx, phoneNumberID, to, body)
	return args.Error(0)
}

type MockAudit struct {
	mock.Mock
}

func (m *MockAudit) Append(entryID string, payload interface{}) error {
	args := m.Called(entryID, payload)
	return args.Error(0)
}
