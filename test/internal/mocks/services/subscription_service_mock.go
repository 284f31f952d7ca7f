package services

import (
	"context"

	"event-content-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type SubscriptionServiceMock struct {
	mock.Mock
}

func NewSubscriptionServiceMock() *SubscriptionServiceMock {
	return &SubscriptionServiceMock{}
}

func (m *SubscriptionServiceMock) Request(ctx context.Context, userID int) (*model.ProvisionJob, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProvisionJob), args.Error(1)
}

func (m *SubscriptionServiceMock) Provision(ctx context.Context, job *model.ProvisionJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}
