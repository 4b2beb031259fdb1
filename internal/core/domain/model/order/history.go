package order

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// HistoryEntry is an immutable audit record of one applied transition.
// Entries are append-only; the slice order on the aggregate is the total
// order of the order's lifecycle.
type HistoryEntry struct {
	from      Status
	to        Status
	actorRole Role
	actorID   kernel.UUID
	at        time.Time
	meta      map[string]string
}

// NewHistoryEntry creates an audit record for a from->to transition.
// The meta map is copied so later caller mutations cannot alter the record.
func NewHistoryEntry(from, to Status, actor Actor, at time.Time, meta map[string]string) HistoryEntry {
	var copied map[string]string
	if len(meta) > 0 {
		copied = make(map[string]string, len(meta))
		for k, v := range meta {
			copied[k] = v
		}
	}

	return HistoryEntry{
		from:      from,
		to:        to,
		actorRole: actor.Role(),
		actorID:   actor.ID(),
		at:        at,
		meta:      copied,
	}
}

// RestoreHistoryEntry reconstructs an audit record from persistence.
func RestoreHistoryEntry(from, to Status, actorRole Role, actorID kernel.UUID, at time.Time, meta map[string]string) HistoryEntry {
	return HistoryEntry{
		from:      from,
		to:        to,
		actorRole: actorRole,
		actorID:   actorID,
		at:        at,
		meta:      meta,
	}
}

// From returns the status the order transitioned out of.
func (h HistoryEntry) From() Status { return h.from }

// To returns the status the order transitioned into.
func (h HistoryEntry) To() Status { return h.to }

// ActorRole returns the role of the actor that performed the transition.
func (h HistoryEntry) ActorRole() Role { return h.actorRole }

// ActorID returns the identity of the actor that performed the transition.
func (h HistoryEntry) ActorID() kernel.UUID { return h.actorID }

// At returns when the transition was applied.
func (h HistoryEntry) At() time.Time { return h.at }

// Meta returns a copy of the free-form transition metadata.
func (h HistoryEntry) Meta() map[string]string {
	if h.meta == nil {
		return nil
	}
	copied := make(map[string]string, len(h.meta))
	for k, v := range h.meta {
		copied[k] = v
	}
	return copied
}
