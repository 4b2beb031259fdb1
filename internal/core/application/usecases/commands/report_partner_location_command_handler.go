package commands

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/time/rate"
)

// ErrLocationRateLimited is returned when a partner's device reports
// positions faster than the per-partner budget allows.
var ErrLocationRateLimited = errors.New("partner location reports are rate limited")

const (
	// locationReportBurst is how many reports a quiet device may send at once.
	locationReportBurst = 5
	// locationReportRate is the sustained refill of one report per second.
	locationReportRate = rate.Limit(1)
)

// ReportPartnerLocationCommandHandler records partner position reports.
// A per-partner token bucket absorbs device bursts while refusing sustained
// flooding before any transaction is opened.
//
// Example:
//
//	handler := NewReportPartnerLocationCommandHandler(uowFactory)
//	cmd, _ := NewReportPartnerLocationCommand(partnerID, location)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, ErrLocationRateLimited) {
//	    // respond 429 without retrying
//	}
type ReportPartnerLocationCommandHandler struct {
	uowFactory PartnerUoWFactory

	mu       *sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewReportPartnerLocationCommandHandler creates a handler for position
// reports. Requires a PartnerUoWFactory for transactional persistence.
func NewReportPartnerLocationCommandHandler(uowFactory PartnerUoWFactory) ReportPartnerLocationCommandHandler {
	return ReportPartnerLocationCommandHandler{
		uowFactory: uowFactory,
		mu:         &sync.Mutex{},
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Handle processes one position report.
// Consumes one token from the partner's bucket, then moves the partner
// aggregate to the reported location inside a transaction.
func (h ReportPartnerLocationCommandHandler) Handle(ctx context.Context, cmd ReportPartnerLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if !h.limiter(cmd.PartnerID().String()).Allow() {
		return ErrLocationRateLimited
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.PartnerRepository().Get(ctx, cmd.PartnerID())
	if err != nil {
		return err
	}

	if err = aggregate.MoveTo(cmd.Location()); err != nil {
		return err
	}

	if err = uow.PartnerRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// limiter returns the partner's token bucket, creating it on first use.
func (h ReportPartnerLocationCommandHandler) limiter(partnerID string) *rate.Limiter {
	h.mu.Lock()
	defer h.mu.Unlock()

	limiter, ok := h.limiters[partnerID]
	if !ok {
		limiter = rate.NewLimiter(locationReportRate, locationReportBurst)
		h.limiters[partnerID] = limiter
	}

	return limiter
}
