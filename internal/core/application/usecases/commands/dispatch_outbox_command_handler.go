package commands

import (
	"context"
	"errors"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"
)

// dispatchBatchSize bounds how many events one drain may process.
const dispatchBatchSize = 50

// EventDeliverer hands one claimed outbox event to its subscribers.
// Delivery is at-least-once: the deliverer may see the same event again after
// a crash between delivery and finalization, so subscribers dedup on the
// event identity.
type EventDeliverer interface {
	Deliver(ctx context.Context, event *outbox.Event) error
}

// DispatchOutboxCommandHandler drains the event outbox.
// Each event goes through three steps: a short transaction that claims it
// with a lease, the delivery itself outside any transaction, and a second
// short transaction that finalizes the outcome. Keeping delivery outside the
// transactions means a slow subscriber never holds row locks, at the price of
// possible redelivery after a crash.
//
// Example:
//
//	handler := NewDispatchOutboxCommandHandler(uowFactory, bus, hostname)
//	cmd := NewDispatchOutboxCommand()
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Outbox drain failed: %v", err)
//	}
type DispatchOutboxCommandHandler struct {
	uowFactory OutboxUoWFactory
	deliverer  EventDeliverer
	holder     string

	// delivered suppresses redundant deliveries within this process lifetime.
	// It is best-effort only; the durable guarantee lives in the consumers'
	// dedup ledgers.
	mu        *sync.Mutex
	delivered map[string]struct{}
}

// NewDispatchOutboxCommandHandler creates a handler for outbox drains.
// The holder names this worker on every lease it takes, so a finalize by a
// worker whose lease was stolen is rejected by the storage layer.
func NewDispatchOutboxCommandHandler(
	uowFactory OutboxUoWFactory, deliverer EventDeliverer, holder string,
) DispatchOutboxCommandHandler {
	return DispatchOutboxCommandHandler{
		uowFactory: uowFactory,
		deliverer:  deliverer,
		holder:     holder,
		mu:         &sync.Mutex{},
		delivered:  make(map[string]struct{}),
	}
}

// alreadyDelivered reports whether this process delivered the event before.
func (h DispatchOutboxCommandHandler) alreadyDelivered(eventID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, seen := h.delivered[eventID]
	return seen
}

func (h DispatchOutboxCommandHandler) rememberDelivered(eventID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.delivered[eventID] = struct{}{}
}

// Handle processes one outbox drain.
// Claims eligible events one at a time until the outbox is empty or the
// batch budget is spent. A failed delivery is recorded with exponential
// backoff and does not stop the drain.
func (h DispatchOutboxCommandHandler) Handle(ctx context.Context, cmd DispatchOutboxCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	for processed := 0; processed < dispatchBatchSize; processed++ {
		event, err := h.claimNext(ctx)
		if errors.Is(err, errs.ErrObjectNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		var deliverErr error
		if !h.alreadyDelivered(event.ID().String()) {
			deliverErr = h.deliverer.Deliver(ctx, event)
			if deliverErr == nil {
				h.rememberDelivered(event.ID().String())
			}
		}

		if err = h.finalize(ctx, event, deliverErr); err != nil {
			return err
		}
	}

	return nil
}

// claimNext takes a lease on the oldest eligible event in its own short
// transaction, so the lease is visible to other workers before delivery
// starts.
func (h DispatchOutboxCommandHandler) claimNext(ctx context.Context) (*outbox.Event, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	event, err := uow.OutboxRepository().ClaimNext(ctx, h.holder, time.Now().UTC(), outbox.LeaseTTL)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return event, nil
}

// finalize writes the delivery outcome back in its own short transaction:
// success marks the record DISPATCHED, failure counts the attempt and
// schedules the retry.
func (h DispatchOutboxCommandHandler) finalize(ctx context.Context, event *outbox.Event, deliverErr error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if deliverErr == nil {
		event.MarkDispatched()
		if err := uow.OutboxRepository().MarkDispatched(ctx, event.ID(), h.holder); err != nil {
			return err
		}
	} else {
		event.RecordFailure(time.Now().UTC())
		if err := uow.OutboxRepository().RecordFailure(ctx, event, h.holder); err != nil {
			return err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
