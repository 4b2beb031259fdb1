package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
)

func newLocationReport(t *testing.T, partnerID kernel.UUID) commands.ReportPartnerLocationCommand {
	t.Helper()

	location, err := kernel.NewLocation(9, 2)
	require.NoError(t, err)

	cmd, err := commands.NewReportPartnerLocationCommand(partnerID, location)
	require.NoError(t, err)
	return cmd
}

func TestReportPartnerLocationCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := newCandidate(t, "North Depot Rider", 5, 5)
	cmd := newLocationReport(t, aggregate.ID())

	uow := &MockUoW{}
	factory := &MockPartnerUoWFactory{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("Get", mock.Anything, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("Update", mock.Anything, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewReportPartnerLocationCommandHandler(factory)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, cmd.Location(), aggregate.Location())
	uow.AssertExpectations(t)
	partnerRepo.AssertExpectations(t)
}

func TestReportPartnerLocationCommandHandler_Handle_SustainedFloodIsRateLimited(t *testing.T) {
	ctx := t.Context()
	partnerID := kernel.NewUUID()
	cmd := newLocationReport(t, partnerID)

	uow := &MockUoW{}
	factory := &MockPartnerUoWFactory{}
	partnerRepo := &MockPartnerRepository{}

	aggregate := newCandidate(t, "Flooding Rider", 5, 5)

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("PartnerRepository").Return(partnerRepo)
	partnerRepo.On("Get", mock.Anything, partnerID).Return(aggregate, nil)
	partnerRepo.On("Update", mock.Anything, mock.AnythingOfType("*partner.Partner")).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewReportPartnerLocationCommandHandler(factory)

	// The bucket allows an initial burst of five; the sixth immediate report
	// must be refused before any transaction is opened.
	for range 5 {
		require.NoError(t, handler.Handle(ctx, cmd))
	}
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrLocationRateLimited)
}

func TestReportPartnerLocationCommandHandler_Handle_IndependentBucketsPerPartner(t *testing.T) {
	ctx := t.Context()
	flooding := kernel.NewUUID()
	quiet := kernel.NewUUID()

	uow := &MockUoW{}
	factory := &MockPartnerUoWFactory{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow)
	uow.On("Begin", ctx).Return(nil)
	uow.On("PartnerRepository").Return(partnerRepo)
	partnerRepo.On("Get", mock.Anything, mock.Anything).Return(
		newCandidate(t, "Rider", 5, 5), nil)
	partnerRepo.On("Update", mock.Anything, mock.AnythingOfType("*partner.Partner")).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewReportPartnerLocationCommandHandler(factory)

	floodCmd := newLocationReport(t, flooding)
	for range 5 {
		require.NoError(t, handler.Handle(ctx, floodCmd))
	}
	require.ErrorIs(t, handler.Handle(ctx, floodCmd), commands.ErrLocationRateLimited)

	// The other partner's budget is untouched.
	require.NoError(t, handler.Handle(ctx, newLocationReport(t, quiet)))
}

func TestReportPartnerLocationCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := &MockPartnerUoWFactory{}

	handler := commands.NewReportPartnerLocationCommandHandler(factory)
	err := handler.Handle(ctx, commands.ReportPartnerLocationCommand{})

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrReportPartnerLocationCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}
