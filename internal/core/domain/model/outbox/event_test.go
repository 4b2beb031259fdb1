package outbox_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
)

func pendingEvent(t *testing.T, now time.Time) *outbox.Event {
	t.Helper()

	event, err := outbox.NewEvent(
		kernel.NewUUID(), "order.placed", kernel.NewUUID(), "fulfillment-core",
		json.RawMessage(`{"orderId":"abc"}`), now)
	require.NoError(t, err)
	return event
}

func TestNewEvent(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should create pending record eligible immediately", func(t *testing.T) {
		event := pendingEvent(t, now)

		assert.Equal(t, outbox.DeliveryPending, event.Status())
		assert.Equal(t, 0, event.Attempts())
		assert.Equal(t, now, event.NextAttemptAt())
		assert.Empty(t, event.LeaseHolder())
		assert.Nil(t, event.LeasedAt())
	})

	t.Run("should require a type and a source", func(t *testing.T) {
		_, err := outbox.NewEvent(
			kernel.NewUUID(), "", kernel.NewUUID(), "fulfillment-core", nil, now)
		require.Error(t, err)

		_, err = outbox.NewEvent(
			kernel.NewUUID(), "order.placed", kernel.NewUUID(), "", nil, now)
		require.Error(t, err)
	})

	t.Run("should require constructed identities", func(t *testing.T) {
		_, err := outbox.NewEvent(
			kernel.UUID{}, "order.placed", kernel.NewUUID(), "fulfillment-core", nil, now)
		require.Error(t, err)
	})
}

func TestEvent_RecordFailure(t *testing.T) {
	now := time.Now().UTC()

	t.Run("should double the backoff on each attempt", func(t *testing.T) {
		event := pendingEvent(t, now)

		expected := outbox.BackoffBase
		for attempt := 1; attempt < outbox.MaxAttempts; attempt++ {
			event.RecordFailure(now)

			assert.Equal(t, outbox.DeliveryPending, event.Status())
			assert.Equal(t, attempt, event.Attempts())
			assert.Equal(t, now.Add(expected), event.NextAttemptAt(),
				"attempt %d backoff", attempt)
			expected *= 2
		}
	})

	t.Run("should park the event after the attempt budget", func(t *testing.T) {
		event := pendingEvent(t, now)

		for range outbox.MaxAttempts {
			event.RecordFailure(now)
		}

		assert.Equal(t, outbox.DeliveryFailed, event.Status())
		assert.Equal(t, outbox.MaxAttempts, event.Attempts())
	})

	t.Run("should clear the lease", func(t *testing.T) {
		leasedAt := now
		event, err := outbox.RestoreEvent(
			kernel.NewUUID(), "order.placed", now, kernel.NewUUID(), "fulfillment-core",
			nil, outbox.DeliveryPending, 0, "worker-1", &leasedAt, now)
		require.NoError(t, err)

		event.RecordFailure(now)

		assert.Empty(t, event.LeaseHolder())
		assert.Nil(t, event.LeasedAt())
	})
}

func TestEvent_MarkDispatched(t *testing.T) {
	now := time.Now().UTC()
	leasedAt := now
	event, err := outbox.RestoreEvent(
		kernel.NewUUID(), "order.placed", now, kernel.NewUUID(), "fulfillment-core",
		nil, outbox.DeliveryPending, 2, "worker-1", &leasedAt, now)
	require.NoError(t, err)

	event.MarkDispatched()

	assert.Equal(t, outbox.DeliveryDispatched, event.Status())
	assert.Empty(t, event.LeaseHolder())
	assert.Nil(t, event.LeasedAt())
}

func TestOrderEventPayload_RoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	payload := outbox.OrderEventPayload{
		OrderID:     kernel.NewUUID().String(),
		CustomerID:  kernel.NewUUID().String(),
		FromStatus:  "CREATED",
		ToStatus:    "CONFIRMED",
		ActorRole:   "ADMIN",
		ActorID:     kernel.NewUUID().String(),
		TotalAmount: 4300,
		OccurredAt:  now,
	}

	raw, err := payload.Marshal()
	require.NoError(t, err)

	parsed, err := outbox.ParseOrderEventPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, payload, parsed)
}

func TestOrderEventPayload_OmitsEmptyOptionalFields(t *testing.T) {
	payload := outbox.OrderEventPayload{
		OrderID:    kernel.NewUUID().String(),
		CustomerID: kernel.NewUUID().String(),
		ToStatus:   "CREATED",
		ActorRole:  "CUSTOMER",
		ActorID:    kernel.NewUUID().String(),
		OccurredAt: time.Now().UTC(),
	}

	raw, err := payload.Marshal()
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "fromStatus")
	assert.NotContains(t, string(raw), "reason")
}

func TestParseOrderEventPayload_Malformed(t *testing.T) {
	_, err := outbox.ParseOrderEventPayload(json.RawMessage(`{"orderId":`))
	require.Error(t, err)
}
