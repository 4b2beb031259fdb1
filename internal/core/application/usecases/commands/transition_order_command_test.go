package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

func TestNewTransitionOrderCommand_ValidInput(t *testing.T) {
	orderID := kernel.NewUUID()
	actor := newActor(t, order.RolePartner, kernel.NewUUID())

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Delivered, actor, "123456", "")
	require.NoError(t, err)
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, order.Delivered, cmd.ToStatus())
	assert.Equal(t, actor, cmd.Actor())
	assert.Equal(t, "123456", cmd.VerificationCode())
	assert.Empty(t, cmd.Reason())
	assert.NoError(t, cmd.Validate())
}

func TestNewTransitionOrderCommand_InvalidOrderID(t *testing.T) {
	actor := newActor(t, order.RoleAdmin, kernel.NewUUID())

	_, err := commands.NewTransitionOrderCommand(kernel.UUID{}, order.Confirmed, actor, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewTransitionOrderCommand_InvalidStatus(t *testing.T) {
	actor := newActor(t, order.RoleAdmin, kernel.NewUUID())

	_, err := commands.NewTransitionOrderCommand(kernel.NewUUID(), order.Unknown, actor, "", "")
	require.Error(t, err)
}

func TestNewTransitionOrderCommand_InvalidActor(t *testing.T) {
	_, err := commands.NewTransitionOrderCommand(
		kernel.NewUUID(), order.Confirmed, order.Actor{}, "", "")
	require.Error(t, err)
}

func TestTransitionOrderCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.TransitionOrderCommand
	err := cmd.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrTransitionOrderCommandIsNotConstructed)
}
