package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
)

func orderInStatus(t *testing.T, status order.Status, customerID kernel.UUID, partnerID *kernel.UUID) *order.Order {
	t.Helper()

	destination, err := kernel.NewLocation(4, 7)
	require.NoError(t, err)

	item, err := order.NewItem(kernel.NewUUID(), "Wireless mouse", 2500, 1)
	require.NoError(t, err)

	o, err := order.RestoreOrder(order.RestoreOrderParams{
		ID:            kernel.NewUUID(),
		CustomerID:    customerID,
		Destination:   destination,
		Items:         []order.Item{item},
		TotalAmount:   2500,
		PaymentMethod: "CARD",
		PaymentStatus: order.PaymentPending,
		Status:        status,
		StatusTimes:   map[order.Status]time.Time{status: time.Now().UTC()},
		PartnerID:     partnerID,
	})
	require.NoError(t, err)
	return o
}

func policyActor(t *testing.T, role order.Role, id kernel.UUID) order.Actor {
	t.Helper()

	actor, err := order.NewActor(role, id)
	require.NoError(t, err)
	return actor
}

func TestTransitionPolicy_Check_Customer(t *testing.T) {
	policy := services.NewTransitionPolicy()
	customerID := kernel.NewUUID()

	t.Run("may cancel their own created order", func(t *testing.T) {
		o := orderInStatus(t, order.Created, customerID, nil)
		actor := policyActor(t, order.RoleCustomer, customerID)

		require.NoError(t, policy.Check(o, order.Cancelled, actor))
	})

	t.Run("may not cancel somebody else's order", func(t *testing.T) {
		o := orderInStatus(t, order.Created, customerID, nil)
		actor := policyActor(t, order.RoleCustomer, kernel.NewUUID())

		err := policy.Check(o, order.Cancelled, actor)

		var forbidden *order.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("may not cancel once the order is confirmed", func(t *testing.T) {
		o := orderInStatus(t, order.Confirmed, customerID, nil)
		actor := policyActor(t, order.RoleCustomer, customerID)

		err := policy.Check(o, order.Cancelled, actor)

		var forbidden *order.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("may not confirm", func(t *testing.T) {
		o := orderInStatus(t, order.Created, customerID, nil)
		actor := policyActor(t, order.RoleCustomer, customerID)

		err := policy.Check(o, order.Confirmed, actor)

		var forbidden *order.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
	})
}

func TestTransitionPolicy_Check_AdminAndSystem(t *testing.T) {
	policy := services.NewTransitionPolicy()
	customerID := kernel.NewUUID()

	for _, role := range []order.Role{order.RoleAdmin, order.RoleSystem} {
		actor := policyActor(t, role, kernel.NewUUID())

		t.Run(role.String()+" drives warehouse-side edges", func(t *testing.T) {
			require.NoError(t, policy.Check(
				orderInStatus(t, order.Created, customerID, nil), order.Confirmed, actor))
			require.NoError(t, policy.Check(
				orderInStatus(t, order.Confirmed, customerID, nil), order.Packed, actor))
			require.NoError(t, policy.Check(
				orderInStatus(t, order.Packed, customerID, nil), order.Cancelled, actor))
			require.NoError(t, policy.Check(
				orderInStatus(t, order.Failed, customerID, nil), order.Returned, actor))
		})

		t.Run(role.String()+" may not drive the delivery leg", func(t *testing.T) {
			partnerID := kernel.NewUUID()
			o := orderInStatus(t, order.Assigned, customerID, &partnerID)

			err := policy.Check(o, order.PickedUp, actor)

			var forbidden *order.ForbiddenTransitionError
			require.ErrorAs(t, err, &forbidden)
		})
	}
}

func TestTransitionPolicy_Check_Partner(t *testing.T) {
	policy := services.NewTransitionPolicy()
	customerID := kernel.NewUUID()
	partnerID := kernel.NewUUID()

	t.Run("assigned partner drives the delivery leg", func(t *testing.T) {
		actor := policyActor(t, order.RolePartner, partnerID)

		require.NoError(t, policy.Check(
			orderInStatus(t, order.Assigned, customerID, &partnerID), order.PickedUp, actor))
		require.NoError(t, policy.Check(
			orderInStatus(t, order.PickedUp, customerID, &partnerID), order.InTransit, actor))
		require.NoError(t, policy.Check(
			orderInStatus(t, order.InTransit, customerID, &partnerID), order.Delivered, actor))
		require.NoError(t, policy.Check(
			orderInStatus(t, order.InTransit, customerID, &partnerID), order.Failed, actor))
	})

	t.Run("a different partner is rejected", func(t *testing.T) {
		actor := policyActor(t, order.RolePartner, kernel.NewUUID())
		o := orderInStatus(t, order.Assigned, customerID, &partnerID)

		err := policy.Check(o, order.PickedUp, actor)

		var forbidden *order.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
	})

	t.Run("may not drive warehouse edges", func(t *testing.T) {
		actor := policyActor(t, order.RolePartner, partnerID)
		o := orderInStatus(t, order.Created, customerID, nil)

		err := policy.Check(o, order.Confirmed, actor)

		var forbidden *order.ForbiddenTransitionError
		require.ErrorAs(t, err, &forbidden)
	})
}

func TestTransitionPolicy_Check_InvalidEdge(t *testing.T) {
	policy := services.NewTransitionPolicy()
	actor := policyActor(t, order.RoleAdmin, kernel.NewUUID())
	o := orderInStatus(t, order.Created, kernel.NewUUID(), nil)

	err := policy.Check(o, order.Delivered, actor)

	var invalid *order.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.NotErrorAs(t, err, new(*order.ForbiddenTransitionError))
}
