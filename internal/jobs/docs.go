// Package jobs provides scheduled background tasks for the fulfillment system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order fulfillment.
//
// # Available Jobs
//
// 1. OutboxDispatchJob - Runs every second to lease and deliver pending outbox events
// 2. ReservationExpiryJob - Runs every ten seconds to release overdue stock reservations
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dispatchHandler, expiryHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "* * * * * *" (every second) so
// committed events leave the outbox with minimal lag. The expiry sweeper runs
// on "*/10 * * * * *" since reservation TTLs are measured in minutes and a
// tighter cadence would only add load.
//
// # Error Handling
//
// Both handlers treat an empty queue as a normal tick and return nil, so any
// error surfaced here indicates a system issue and is logged at error level.
// Failed job starts will stop any already running jobs.
package jobs
