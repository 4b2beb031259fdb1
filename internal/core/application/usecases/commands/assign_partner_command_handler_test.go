package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/partner"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// newCandidate restores an idle partner at the given coordinates. The ranker
// orders idle partners purely by distance to the destination, so tests place
// the intended winner closest.
func newCandidate(t *testing.T, name string, x, y kernel.Coordinate) *partner.Partner {
	t.Helper()

	location, err := kernel.NewLocation(x, y)
	require.NoError(t, err)

	candidate, err := partner.RestorePartner(
		kernel.NewUUID(), name, location, 0, 0, time.Time{}, nil)
	require.NoError(t, err)
	return candidate
}

func newAssignCommand(t *testing.T, orderID kernel.UUID) commands.AssignPartnerCommand {
	t.Helper()

	cmd, err := commands.NewAssignPartnerCommand(orderID)
	require.NoError(t, err)
	return cmd
}

func TestAssignPartnerCommandHandler_Handle_ClosestCandidateWins(t *testing.T) {
	ctx := t.Context()
	fixture := newOrderFixture(t, order.Packed)
	orderID := fixture.aggregate.ID()
	cmd := newAssignCommand(t, orderID)

	// The destination is (4, 7); "near" is one step away, "far" is across
	// the board.
	near := newCandidate(t, "Near Partner", 4, 6)
	far := newCandidate(t, "Far Partner", 10, 10)

	uow := &MockUoW{}
	factory := &MockAssignmentUoWFactory{}
	orderRepo := &MockOrderRepository{}
	partnerRepo := &MockPartnerRepository{}
	outboxRepo := &MockOutboxRepository{}

	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, orderID).Return(fixture.aggregate, nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("GetAll", mock.Anything).Return([]*partner.Partner{far, near}, nil).Once(),
		uow.On("PartnerRepository").Return(partnerRepo).Once(),
		partnerRepo.On("IncrementLoad", mock.Anything, near.ID(), mock.AnythingOfType("time.Time")).
			Return(true, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("AssignPartner", mock.Anything, orderID, near.ID(), mock.AnythingOfType("time.Time")).
			Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("AppendHistory", mock.Anything, orderID, mock.AnythingOfType("order.HistoryEntry")).
			Return(nil).Once(),
		uow.On("OutboxRepository").Return(outboxRepo).Once(),
		outboxRepo.On("Add", mock.Anything, mock.AnythingOfType("*outbox.Event")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAssignPartnerCommandHandler(factory, services.NewCandidateRanker())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Assigned, fixture.aggregate.Status())
	require.NotNil(t, fixture.aggregate.Partner())
	assert.True(t, fixture.aggregate.Partner().IsEqual(near.ID()))
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	partnerRepo.AssertExpectations(t)
	outboxRepo.AssertExpectations(t)
}

func TestAssignPartnerCommandHandler_Handle_SkipsSaturatedCandidate(t *testing.T) {
	ctx := t.Context()
	fixture := newOrderFixture(t, order.Packed)
	orderID := fixture.aggregate.ID()
	cmd := newAssignCommand(t, orderID)

	near := newCandidate(t, "Near Partner", 4, 6)
	far := newCandidate(t, "Far Partner", 10, 10)

	uow := &MockUoW{}
	factory := &MockAssignmentUoWFactory{}
	orderRepo := &MockOrderRepository{}
	partnerRepo := &MockPartnerRepository{}
	outboxRepo := &MockOutboxRepository{}

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("PartnerRepository").Return(partnerRepo)
	uow.On("OutboxRepository").Return(outboxRepo).Once()
	orderRepo.On("Get", mock.Anything, orderID).Return(fixture.aggregate, nil).Once()
	partnerRepo.On("GetAll", mock.Anything).Return([]*partner.Partner{near, far}, nil).Once()

	mock.InOrder(
		partnerRepo.On("IncrementLoad", mock.Anything, near.ID(), mock.AnythingOfType("time.Time")).
			Return(false, nil).Once(),
		partnerRepo.On("IncrementLoad", mock.Anything, far.ID(), mock.AnythingOfType("time.Time")).
			Return(true, nil).Once(),
		orderRepo.On("AssignPartner", mock.Anything, orderID, far.ID(), mock.AnythingOfType("time.Time")).
			Return(nil).Once(),
	)

	orderRepo.On("AppendHistory", mock.Anything, orderID, mock.AnythingOfType("order.HistoryEntry")).
		Return(nil).Once()
	outboxRepo.On("Add", mock.Anything, mock.AnythingOfType("*outbox.Event")).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewAssignPartnerCommandHandler(factory, services.NewCandidateRanker())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, fixture.aggregate.Partner())
	assert.True(t, fixture.aggregate.Partner().IsEqual(far.ID()))
	partnerRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestAssignPartnerCommandHandler_Handle_AllCandidatesAtCapacity(t *testing.T) {
	ctx := t.Context()
	fixture := newOrderFixture(t, order.Packed)
	orderID := fixture.aggregate.ID()
	cmd := newAssignCommand(t, orderID)

	uow := &MockUoW{}
	factory := &MockAssignmentUoWFactory{}
	orderRepo := &MockOrderRepository{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("PartnerRepository").Return(partnerRepo)
	orderRepo.On("Get", mock.Anything, orderID).Return(fixture.aggregate, nil).Once()
	partnerRepo.On("GetAll", mock.Anything).Return([]*partner.Partner{
		newCandidate(t, "First", 4, 6),
		newCandidate(t, "Second", 5, 7),
	}, nil).Once()
	partnerRepo.On("IncrementLoad", mock.Anything, mock.Anything, mock.AnythingOfType("time.Time")).
		Return(false, nil).Twice()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewAssignPartnerCommandHandler(factory, services.NewCandidateRanker())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrNoPartnerAvailable)
	assert.Equal(t, order.Packed, fixture.aggregate.Status())
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	orderRepo.AssertNotCalled(t, "AssignPartner",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignPartnerCommandHandler_Handle_OrderNotPacked(t *testing.T) {
	ctx := t.Context()
	fixture := newOrderFixture(t, order.Confirmed)
	orderID := fixture.aggregate.ID()
	cmd := newAssignCommand(t, orderID)

	uow := &MockUoW{}
	factory := &MockAssignmentUoWFactory{}
	orderRepo := &MockOrderRepository{}

	factory.On("Create").Return(uow).Once()

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, orderID).Return(fixture.aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewAssignPartnerCommandHandler(factory, services.NewCandidateRanker())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrOrderAlreadyAssigned)
	uow.AssertNotCalled(t, "PartnerRepository")
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestAssignPartnerCommandHandler_Handle_LostRaceOnOrderUpdate(t *testing.T) {
	ctx := t.Context()
	fixture := newOrderFixture(t, order.Packed)
	orderID := fixture.aggregate.ID()
	cmd := newAssignCommand(t, orderID)

	winner := newCandidate(t, "Near Partner", 4, 6)

	uow := &MockUoW{}
	factory := &MockAssignmentUoWFactory{}
	orderRepo := &MockOrderRepository{}
	partnerRepo := &MockPartnerRepository{}

	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("PartnerRepository").Return(partnerRepo)
	orderRepo.On("Get", mock.Anything, orderID).Return(fixture.aggregate, nil).Once()
	partnerRepo.On("GetAll", mock.Anything).Return([]*partner.Partner{winner}, nil).Once()
	partnerRepo.On("IncrementLoad", mock.Anything, winner.ID(), mock.AnythingOfType("time.Time")).
		Return(true, nil).Once()
	orderRepo.On("AssignPartner", mock.Anything, orderID, winner.ID(), mock.AnythingOfType("time.Time")).
		Return(ports.ErrOrderAlreadyAssigned).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewAssignPartnerCommandHandler(factory, services.NewCandidateRanker())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrOrderAlreadyAssigned)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertNotCalled(t, "OutboxRepository")
}
