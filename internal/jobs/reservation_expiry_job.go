package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ReservationExpiryJob manages the scheduled release of overdue reservations.
// Runs every ten seconds to flip expired ACTIVE reservations and return the
// held quantities to available stock.
type ReservationExpiryJob struct {
	handler commands.ExpireReservationsCommandHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewReservationExpiryJob creates a new job for expiring reservations.
// Uses ExpireReservationsCommandHandler to sweep a bounded batch of overdue
// reservations on each tick.
func NewReservationExpiryJob(handler commands.ExpireReservationsCommandHandler, logger *slog.Logger) *ReservationExpiryJob {
	return &ReservationExpiryJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "reservation_expiry_job"),
	}
}

// Start begins the reservation expiry job to run every ten seconds.
func (j *ReservationExpiryJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()
		cmd := commands.NewExpireReservationsCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Reservation expiry job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reservation expiry job started (running every ten seconds)")
	return nil
}

// Stop stops the reservation expiry job.
func (j *ReservationExpiryJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reservation expiry job stopped")
}
