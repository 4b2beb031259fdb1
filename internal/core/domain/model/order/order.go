package order

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through NewOrder or RestoreOrder. This ensures all orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// PaymentStatus tracks where the order's payment stands.
type PaymentStatus string

const (
	// PaymentPending means payment was initiated but not yet confirmed.
	PaymentPending PaymentStatus = "PENDING"
	// PaymentPaid means the external payment boundary confirmed success.
	PaymentPaid PaymentStatus = "PAID"
	// PaymentRefunded means the payment was returned after cancellation or return.
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Order is the aggregate root for a physical-goods order moving through the
// multi-party fulfillment lifecycle. All mutations go through Transition, so
// the status field, per-status timestamps, and the append-only history stay
// consistent with each other.
//
// Invariants:
//   - status always belongs to the Status enum
//   - every applied transition existed in the static transition table
//   - history is append-only and totally ordered per order
//   - a partner reference is only set from Assigned onward
type Order struct {
	id          kernel.UUID
	customerID  kernel.UUID
	destination kernel.Location

	items       []Item
	totalAmount int64

	paymentMethod string
	paymentStatus PaymentStatus

	status      Status
	statusTimes map[Status]time.Time

	partnerID *kernel.UUID

	history []HistoryEntry

	verification *VerificationCode
	window       *DeliveryWindow

	cancellationReason string
	failureReason      string
	returnReason       string

	guard guard.ConstructorGuard
}

// TransitionOptions carries the per-transition inputs that only some target
// statuses need: the partner for assignment, the supplied verification code
// for delivery, an explicit delivery window for transit entry, and free-form
// metadata recorded in the history entry.
type TransitionOptions struct {
	PartnerID        *kernel.UUID
	VerificationCode string
	Window           *DeliveryWindow
	Reason           string
	Meta             map[string]string
}

// NewOrder creates an Order in Created status from validated placement data.
// The total amount is derived from the line-item snapshots.
func NewOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	destination kernel.Location,
	items []Item,
	paymentMethod string,
	now time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		paymentStatus: PaymentPending,
		statusTimes:   map[Status]time.Time{Created: now},
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setDestination(destination),
		o.setItems(items),
		o.setPaymentMethod(paymentMethod),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrderParams carries every persisted attribute needed to reconstruct
// an Order from storage.
type RestoreOrderParams struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	Destination   kernel.Location
	Items         []Item
	TotalAmount   int64
	PaymentMethod string
	PaymentStatus PaymentStatus
	Status        Status
	StatusTimes   map[Status]time.Time
	PartnerID     *kernel.UUID
	History       []HistoryEntry
	Verification  *VerificationCode
	Window        *DeliveryWindow

	CancellationReason string
	FailureReason      string
	ReturnReason       string
}

// RestoreOrder reconstructs an Order aggregate from persistence.
// Unlike NewOrder it trusts the stored lifecycle fields, but still validates
// identity and status enum membership to catch corrupted rows.
func RestoreOrder(p RestoreOrderParams) (*Order, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.CustomerID.Validate(),
		p.Destination.Validate(),
		p.Status.Validate(),
	); err != nil {
		return nil, err
	}

	statusTimes := p.StatusTimes
	if statusTimes == nil {
		statusTimes = make(map[Status]time.Time)
	}

	return &Order{
		id:                 p.ID,
		customerID:         p.CustomerID,
		destination:        p.Destination,
		items:              p.Items,
		totalAmount:        p.TotalAmount,
		paymentMethod:      p.PaymentMethod,
		paymentStatus:      p.PaymentStatus,
		status:             p.Status,
		statusTimes:        statusTimes,
		partnerID:          p.PartnerID,
		history:            p.History,
		verification:       p.Verification,
		window:             p.Window,
		cancellationReason: p.CancellationReason,
		failureReason:      p.FailureReason,
		returnReason:       p.ReturnReason,
		guard:              guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID { return o.id }

// CustomerID returns the owning customer's identity.
func (o *Order) CustomerID() kernel.UUID { return o.customerID }

// Destination returns the delivery destination.
func (o *Order) Destination() kernel.Location { return o.destination }

// Items returns the snapshotted order lines.
func (o *Order) Items() []Item { return o.items }

// TotalAmount returns the order total in minor currency units.
func (o *Order) TotalAmount() int64 { return o.totalAmount }

// PaymentMethod returns the payment method chosen at placement.
func (o *Order) PaymentMethod() string { return o.paymentMethod }

// PaymentStatus returns the current payment status.
func (o *Order) PaymentStatus() PaymentStatus { return o.paymentStatus }

// Status returns the current lifecycle status.
func (o *Order) Status() Status { return o.status }

// StatusTime returns when the order entered the given status, if it ever did.
func (o *Order) StatusTime(s Status) (time.Time, bool) {
	t, ok := o.statusTimes[s]
	return t, ok
}

// StatusTimes returns a copy of all per-status timestamps.
func (o *Order) StatusTimes() map[Status]time.Time {
	copied := make(map[Status]time.Time, len(o.statusTimes))
	for k, v := range o.statusTimes {
		copied[k] = v
	}
	return copied
}

// Partner returns the assigned delivery partner's identity, or nil before
// assignment. The partner aggregate ID is the single canonical identity used
// for assignment and for partner authorization checks.
func (o *Order) Partner() *kernel.UUID { return o.partnerID }

// History returns the append-only transition log, oldest first.
func (o *Order) History() []HistoryEntry { return o.history }

// Verification returns the issued delivery verification code, or nil if the
// order has not entered transit.
func (o *Order) Verification() *VerificationCode { return o.verification }

// Window returns the estimated delivery window, or nil before transit.
func (o *Order) Window() *DeliveryWindow { return o.window }

// CancellationReason returns the reason recorded on cancellation, if any.
func (o *Order) CancellationReason() string { return o.cancellationReason }

// FailureReason returns the reason recorded on delivery failure, if any.
func (o *Order) FailureReason() string { return o.failureReason }

// ReturnReason returns the reason recorded on return, if any.
func (o *Order) ReturnReason() string { return o.returnReason }

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// Transition applies one lifecycle transition. It performs the structural
// check against the static transition table, then the target-status-specific
// behavior in this sequence:
//
//   - Assigned requires opts.PartnerID and records it.
//   - InTransit stores the delivery window (opts.Window or none yet; the
//     caller computes the default) and issues a verification code scoped to
//     the acting identity.
//   - Delivered verifies opts.VerificationCode before any mutation.
//   - Confirmed marks the payment as paid.
//   - Cancelled, Failed, and Returned capture opts.Reason.
//
// On success the status, its timestamp, and a history entry are recorded
// atomically in memory; nothing is mutated when any check fails. Role
// authorization is not this method's concern; callers run the transition
// policy first.
func (o *Order) Transition(to Status, actor Actor, at time.Time, opts TransitionOptions) error {
	if err := errors.Join(o.Validate(), actor.Validate(), to.Validate()); err != nil {
		return err
	}

	from := o.status
	if !from.CanTransitionTo(to) {
		return NewInvalidTransitionError(from, to)
	}

	// All failure paths must come before the first mutation.
	switch to {
	case Assigned:
		if opts.PartnerID == nil {
			return errs.NewValueIsRequiredError("partnerID")
		}
		if err := opts.PartnerID.Validate(); err != nil {
			return err
		}
	case Delivered:
		if o.verification == nil {
			return NewVerificationError("no verification code was issued for this order")
		}
		if err := o.verification.Verify(opts.VerificationCode, actor.ID(), at); err != nil {
			return err
		}
	case InTransit:
		if o.window == nil && opts.Window == nil {
			return errs.NewValueIsRequiredError("deliveryWindow")
		}
	}

	var issued *VerificationCode
	if to == InTransit {
		code, err := NewVerificationCode(actor.ID(), at)
		if err != nil {
			return err
		}
		issued = &code
	}

	switch to {
	case Confirmed:
		o.paymentStatus = PaymentPaid
	case Assigned:
		o.partnerID = opts.PartnerID
	case InTransit:
		if opts.Window != nil {
			o.window = opts.Window
		}
		o.verification = issued
	case Cancelled:
		o.cancellationReason = opts.Reason
	case Failed:
		o.failureReason = opts.Reason
	case Returned:
		o.returnReason = opts.Reason
	}

	meta := opts.Meta
	if opts.Reason != "" {
		if meta == nil {
			meta = map[string]string{}
		} else {
			copied := make(map[string]string, len(meta)+1)
			for k, v := range meta {
				copied[k] = v
			}
			meta = copied
		}
		meta["reason"] = opts.Reason
	}

	o.status = to
	o.statusTimes[to] = at
	o.history = append(o.history, NewHistoryEntry(from, to, actor, at, meta))

	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerID", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setDestination(destination kernel.Location) error {
	if err := destination.Validate(); err != nil {
		return err
	}
	o.destination = destination
	return nil
}

func (o *Order) setItems(items []Item) error {
	if err := validateItems(items); err != nil {
		return err
	}

	var total int64
	for _, item := range items {
		total += item.Subtotal()
	}

	o.items = items
	o.totalAmount = total
	return nil
}

func (o *Order) setPaymentMethod(method string) error {
	if method == "" {
		return errs.NewValueIsRequiredError("paymentMethod")
	}
	if method != "CARD" && method != "COD" && method != "WALLET" {
		return errs.NewValueIsInvalidErrorWithCause("paymentMethod",
			fmt.Errorf("%q is not a supported payment method", method))
	}
	o.paymentMethod = method
	return nil
}
