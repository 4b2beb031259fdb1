package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

func TestCreatePartnerCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	location, err := kernel.NewLocation(5, 5)
	require.NoError(t, err)
	cmd, err := commands.NewCreatePartnerCommand(kernel.NewUUID(), "North Depot Rider", location)
	require.NoError(t, err)

	uow := &MockUoW{}
	factory := &MockPartnerUoWFactory{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("Add", mock.Anything, mock.AnythingOfType("*partner.Partner")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreatePartnerCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	partnerRepo.AssertExpectations(t)
}

func TestCreatePartnerCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := &MockPartnerUoWFactory{}

	handler := commands.NewCreatePartnerCommandHandler(factory)
	err := handler.Handle(ctx, commands.CreatePartnerCommand{})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrCreatePartnerCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreatePartnerCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	location, err := kernel.NewLocation(5, 5)
	require.NoError(t, err)
	cmd, err := commands.NewCreatePartnerCommand(kernel.NewUUID(), "North Depot Rider", location)
	require.NoError(t, err)

	expectedErr := errors.New("insert failed")

	uow := &MockUoW{}
	factory := &MockPartnerUoWFactory{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("Add", mock.Anything, mock.AnythingOfType("*partner.Partner")).
			Return(expectedErr).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreatePartnerCommandHandler(factory)
	err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
