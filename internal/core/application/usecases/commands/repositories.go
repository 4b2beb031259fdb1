// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the narrow slice of repositories it touches,
// so tests mock exactly what a command uses and nothing more.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// ReservationRepoFactory provides access to the reservation repository within a transaction.
	ReservationRepoFactory interface {
		ReservationRepository() ports.ReservationRepository
	}

	// ProductRepoFactory provides access to the product repository within a transaction.
	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	// AdjustmentRepoFactory provides access to the adjustment repository within a transaction.
	AdjustmentRepoFactory interface {
		AdjustmentRepository() ports.AdjustmentRepository
	}

	// OutboxRepoFactory provides access to the outbox repository within a transaction.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// PartnerRepoFactory provides access to the partner repository within a transaction.
	PartnerRepoFactory interface {
		PartnerRepository() ports.PartnerRepository
	}

	// PlacementUoW manages the order-placement transaction: the new order,
	// its stock reservations, and the placement outbox event commit together.
	PlacementUoW interface {
		TxManager
		OrderRepoFactory
		ReservationRepoFactory
		ProductRepoFactory
		OutboxRepoFactory
	}

	// PlacementUoWFactory creates placement unit of work instances.
	PlacementUoWFactory interface {
		Create() PlacementUoW
	}

	// TransitionUoW manages the state-machine transaction: order mutation,
	// reservation ledger side effects, history append, and outbox write are
	// one atomic commit.
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		ReservationRepoFactory
		ProductRepoFactory
		AdjustmentRepoFactory
		OutboxRepoFactory
		PartnerRepoFactory
	}

	// TransitionUoWFactory creates transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// AssignmentUoW manages the assignment transaction across the order, the
	// winning partner's load counter, and the assignment outbox event.
	AssignmentUoW interface {
		TxManager
		OrderRepoFactory
		PartnerRepoFactory
		OutboxRepoFactory
	}

	// AssignmentUoWFactory creates assignment unit of work instances.
	AssignmentUoWFactory interface {
		Create() AssignmentUoW
	}

	// OutboxUoW manages the dispatcher's short claim and finalize
	// transactions over the outbox alone.
	OutboxUoW interface {
		TxManager
		OutboxRepoFactory
	}

	// OutboxUoWFactory creates outbox unit of work instances.
	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// SweepUoW manages the expiry sweeper's transaction over reservations
	// and product counters.
	SweepUoW interface {
		TxManager
		ReservationRepoFactory
		ProductRepoFactory
	}

	// SweepUoWFactory creates sweep unit of work instances.
	SweepUoWFactory interface {
		Create() SweepUoW
	}

	// PartnerUoW manages transactions touching only partner aggregates.
	PartnerUoW interface {
		TxManager
		PartnerRepoFactory
	}

	// PartnerUoWFactory creates partner unit of work instances.
	PartnerUoWFactory interface {
		Create() PartnerUoW
	}
)
