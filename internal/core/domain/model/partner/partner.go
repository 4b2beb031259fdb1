// Package partner contains the delivery partner aggregate.
//
// The partner aggregate ID is the single canonical identity used for order
// assignment and for authorizing partner-driven transitions; account-level
// identities never leak into the order's partner reference.
package partner

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrPartnerIsNotConstructed is returned when using an improperly initialized Partner.
var ErrPartnerIsNotConstructed = errors.New("Partner must be created via NewPartner or RestorePartner constructor")

// MaxActiveLoad caps how many orders one partner may carry at a time.
// Assignment skips candidates at capacity and moves to the next ranked one.
const MaxActiveLoad = 3

// Partner represents a delivery partner available for order assignment.
//
// Besides identity and position, the aggregate carries the signals the
// candidate ranking combines: the active-load counter (bumped atomically by
// the same conditional update that wins an assignment race), the same-day
// rejection count, and the last assignment time used for the anti-hot-spot
// decay penalty.
type Partner struct {
	id   kernel.UUID
	name string

	location kernel.Location

	activeLoad      int
	rejectionsToday int
	rejectionsDay   time.Time
	lastAssignedAt  *time.Time

	guard guard.ConstructorGuard
}

// NewPartner creates a Partner with no load and no history.
func NewPartner(id kernel.UUID, name string, location kernel.Location) (*Partner, error) {
	p := &Partner{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePartner reconstructs a Partner aggregate from persistence.
func RestorePartner(
	id kernel.UUID,
	name string,
	location kernel.Location,
	activeLoad, rejectionsToday int,
	rejectionsDay time.Time,
	lastAssignedAt *time.Time,
) (*Partner, error) {
	p := &Partner{
		activeLoad:      activeLoad,
		rejectionsToday: rejectionsToday,
		rejectionsDay:   rejectionsDay,
		lastAssignedAt:  lastAssignedAt,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		p.setID(id),
		p.setName(name),
		p.setLocation(location),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// Validate ensures the Partner instance was properly constructed.
func (p *Partner) Validate() error {
	if p == nil {
		return ErrPartnerIsNotConstructed
	}
	return p.guard.Validate(ErrPartnerIsNotConstructed)
}

// ID returns the partner's canonical identity.
func (p *Partner) ID() kernel.UUID { return p.id }

// Name returns the partner's display name.
func (p *Partner) Name() string { return p.name }

// Location returns the partner's last reported position.
func (p *Partner) Location() kernel.Location { return p.location }

// ActiveLoad returns the number of orders currently assigned to the partner.
func (p *Partner) ActiveLoad() int { return p.activeLoad }

// RejectionsOn returns the partner's rejection count for the given day.
// Counts from earlier days read as zero.
func (p *Partner) RejectionsOn(day time.Time) int {
	if !sameDay(p.rejectionsDay, day) {
		return 0
	}
	return p.rejectionsToday
}

// RejectionsDay returns the day the rejection counter belongs to.
func (p *Partner) RejectionsDay() time.Time { return p.rejectionsDay }

// LastAssignedAt returns when the partner last won an assignment, if ever.
func (p *Partner) LastAssignedAt() *time.Time { return p.lastAssignedAt }

// MoveTo updates the partner's reported position.
func (p *Partner) MoveTo(location kernel.Location) error {
	return p.setLocation(location)
}

// RecordAssignment bumps the in-memory load counter and assignment time.
// The authoritative increment happens in the storage layer's conditional
// update; this keeps a loaded aggregate consistent with that write.
func (p *Partner) RecordAssignment(now time.Time) {
	p.activeLoad++
	p.lastAssignedAt = &now
}

// RecordRejection counts a same-day rejection, resetting the counter when the
// day rolled over.
func (p *Partner) RecordRejection(now time.Time) {
	if !sameDay(p.rejectionsDay, now) {
		p.rejectionsToday = 0
		p.rejectionsDay = now
	}
	p.rejectionsToday++
}

// ReleaseLoad decrements the active-load counter when an order reaches a
// terminal delivery outcome.
func (p *Partner) ReleaseLoad() {
	if p.activeLoad > 0 {
		p.activeLoad--
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func (p *Partner) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Partner) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}
	p.name = name
	return nil
}

func (p *Partner) setLocation(location kernel.Location) error {
	if err := location.Validate(); err != nil {
		return err
	}
	p.location = location
	return nil
}
