// Package outbox contains the durable event record written in the same
// atomic commit as the business mutation it describes. The record's delivery
// lifecycle (PENDING -> DISPATCHED | FAILED, with lease-based claiming and
// exponential backoff) is driven by the dispatcher job; the event identity is
// unique in storage so republishing the same occurrence is a no-op.
package outbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	// MaxAttempts is the delivery budget before an event is parked as FAILED
	// for alerting instead of being retried forever.
	MaxAttempts = 8

	// BackoffBase is the first retry delay; each further attempt doubles it.
	BackoffBase = 2 * time.Second

	// LeaseTTL is how long a dispatcher worker owns a claimed event before
	// another worker may steal the claim.
	LeaseTTL = 30 * time.Second
)

// DeliveryStatus is the delivery state of an outbox record.
type DeliveryStatus string

const (
	// DeliveryPending means the event still awaits successful dispatch.
	DeliveryPending DeliveryStatus = "PENDING"
	// DeliveryDispatched means all subscribers received the event.
	DeliveryDispatched DeliveryStatus = "DISPATCHED"
	// DeliveryFailed means the attempt budget was exhausted.
	DeliveryFailed DeliveryStatus = "FAILED"
)

// Validate checks if the status is a defined delivery state.
func (s DeliveryStatus) Validate() error {
	switch s {
	case DeliveryPending, DeliveryDispatched, DeliveryFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("deliveryStatus",
			fmt.Errorf("%q is not a valid delivery status", string(s)))
	}
}

// Event is one durable at-least-once delivery intent.
//
// The event identity is globally unique and, for order transitions, derived
// deterministically from (order id, target status): re-running the same
// transition after a crash collides with the existing row instead of queueing
// a duplicate.
type Event struct {
	id         kernel.UUID
	eventType  string
	occurredAt time.Time
	actorID    kernel.UUID
	source     string
	payload    json.RawMessage

	status        DeliveryStatus
	attempts      int
	leaseHolder   string
	leasedAt      *time.Time
	nextAttemptAt time.Time
}

// NewEvent creates a PENDING outbox record eligible for immediate dispatch.
func NewEvent(id kernel.UUID, eventType string, actorID kernel.UUID, source string, payload json.RawMessage, now time.Time) (*Event, error) {
	if err := errors.Join(id.Validate(), actorID.Validate()); err != nil {
		return nil, err
	}
	if eventType == "" {
		return nil, errs.NewValueIsRequiredError("eventType")
	}
	if source == "" {
		return nil, errs.NewValueIsRequiredError("source")
	}

	return &Event{
		id:            id,
		eventType:     eventType,
		occurredAt:    now,
		actorID:       actorID,
		source:        source,
		payload:       payload,
		status:        DeliveryPending,
		nextAttemptAt: now,
	}, nil
}

// RestoreEvent reconstructs an outbox record from persistence.
func RestoreEvent(
	id kernel.UUID,
	eventType string,
	occurredAt time.Time,
	actorID kernel.UUID,
	source string,
	payload json.RawMessage,
	status DeliveryStatus,
	attempts int,
	leaseHolder string,
	leasedAt *time.Time,
	nextAttemptAt time.Time,
) (*Event, error) {
	if err := errors.Join(id.Validate(), status.Validate()); err != nil {
		return nil, err
	}

	return &Event{
		id:            id,
		eventType:     eventType,
		occurredAt:    occurredAt,
		actorID:       actorID,
		source:        source,
		payload:       payload,
		status:        status,
		attempts:      attempts,
		leaseHolder:   leaseHolder,
		leasedAt:      leasedAt,
		nextAttemptAt: nextAttemptAt,
	}, nil
}

// ID returns the globally unique event identity.
func (e *Event) ID() kernel.UUID { return e.id }

// Type returns the event type, e.g. "order.confirmed".
func (e *Event) Type() string { return e.eventType }

// OccurredAt returns the logical occurrence time of the business change.
func (e *Event) OccurredAt() time.Time { return e.occurredAt }

// ActorID returns the identity that caused the business change.
func (e *Event) ActorID() kernel.UUID { return e.actorID }

// Source returns the producing component name.
func (e *Event) Source() string { return e.source }

// Payload returns the raw JSON event payload.
func (e *Event) Payload() json.RawMessage { return e.payload }

// Status returns the delivery state.
func (e *Event) Status() DeliveryStatus { return e.status }

// Attempts returns how many deliveries were tried so far.
func (e *Event) Attempts() int { return e.attempts }

// LeaseHolder returns the worker currently owning the claim, if any.
func (e *Event) LeaseHolder() string { return e.leaseHolder }

// LeasedAt returns when the current lease was taken, if any.
func (e *Event) LeasedAt() *time.Time { return e.leasedAt }

// NextAttemptAt returns when the event becomes eligible for the next attempt.
func (e *Event) NextAttemptAt() time.Time { return e.nextAttemptAt }

// MarkDispatched finalizes the record after successful delivery.
func (e *Event) MarkDispatched() {
	e.status = DeliveryDispatched
	e.leaseHolder = ""
	e.leasedAt = nil
}

// RecordFailure counts a failed attempt and schedules the next one with
// exponential backoff. After MaxAttempts the event is parked as FAILED.
func (e *Event) RecordFailure(now time.Time) {
	e.attempts++
	e.leaseHolder = ""
	e.leasedAt = nil

	if e.attempts >= MaxAttempts {
		e.status = DeliveryFailed
		return
	}

	backoff := BackoffBase << (e.attempts - 1)
	e.nextAttemptAt = now.Add(backoff)
}
