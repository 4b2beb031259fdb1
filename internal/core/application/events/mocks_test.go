package events_test

import (
	"context"

	"fulfillment/internal/core/application/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockNotificationRepository struct{ mock.Mock }

func (m *MockNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByRecipient(
	ctx context.Context, recipient kernel.UUID,
) ([]*notification.Notification, error) {
	args := m.Called(ctx, recipient)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Notification), args.Error(1)
}

type MockProcessedEventRepository struct{ mock.Mock }

func (m *MockProcessedEventRepository) Add(ctx context.Context, marker *notification.ProcessedEvent) error {
	args := m.Called(ctx, marker)
	return args.Error(0)
}

func (m *MockProcessedEventRepository) Delete(ctx context.Context, eventID kernel.UUID, consumer string) error {
	args := m.Called(ctx, eventID, consumer)
	return args.Error(0)
}

type MockNotificationUoW struct{ mock.Mock }

func (m *MockNotificationUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockNotificationUoW) NotificationRepository() ports.NotificationRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationRepository)
}

func (m *MockNotificationUoW) ProcessedEventRepository() ports.ProcessedEventRepository {
	args := m.Called()
	return args.Get(0).(ports.ProcessedEventRepository)
}

type MockNotificationUoWFactory struct{ mock.Mock }

func (m *MockNotificationUoWFactory) Create() events.NotificationUoW {
	args := m.Called()
	return args.Get(0).(events.NotificationUoW)
}
