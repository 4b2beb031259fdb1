package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/outbox"
)

// OutboxRepository defines persistence for the event outbox.
type OutboxRepository interface {
	// Add persists a new outbox record inside the caller's transaction.
	// The event identity is unique; inserting an identity that already
	// exists is treated as success, so republishing the same logical
	// occurrence never queues a duplicate.
	Add(ctx context.Context, event *outbox.Event) error

	// Get retrieves an outbox record by event identity.
	Get(ctx context.Context, id kernel.UUID) (*outbox.Event, error)

	// ClaimNext atomically leases the oldest eligible PENDING record for the
	// given holder: eligible means its next-attempt time has passed and it
	// carries no lease, or a lease older than leaseTTL (a crashed worker's
	// stale claim). Returns errs.ErrObjectNotFound when nothing is eligible.
	ClaimNext(ctx context.Context, holder string, now time.Time, leaseTTL time.Duration) (*outbox.Event, error)

	// MarkDispatched finalizes a record after successful delivery, clearing
	// the lease. Only the current lease holder may finalize.
	MarkDispatched(ctx context.Context, id kernel.UUID, holder string) error

	// RecordFailure writes back the attempt count, backoff schedule, and
	// terminal FAILED status computed by the domain event, clearing the lease.
	RecordFailure(ctx context.Context, event *outbox.Event, holder string) error
}
