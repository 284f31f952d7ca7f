package services

import (
	"context"
	"time"

	"event-content-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func (m *EventServiceMock) Create(ctx context.Context, userID int, req model.CreateEventRequest, now time.Time) (*model.Event, error) {
	args := m.Called(ctx, userID, req, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) Update(ctx context.Context, userID int, params model.UpdateEventParams, now time.Time) (*model.Event, error) {
	args := m.Called(ctx, userID, params, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetByUser(ctx context.Context, userID int) (*model.Event, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetBySubDomain(ctx context.Context, subdomain string) (*model.Event, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) CheckSubDomainAvailable(ctx context.Context, subdomain string, userID int) (bool, error) {
	args := m.Called(ctx, subdomain, userID)
	return args.Bool(0), args.Error(1)
}

func (m *EventServiceMock) SkipSetupWizard(ctx context.Context, userID int, now time.Time) (*model.Event, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}
