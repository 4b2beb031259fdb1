// Package services provides domain services that implement business rules
// spanning multiple aggregates in the fulfillment system.
//
// The package includes:
//   - TransitionPolicy: role-based authorization layered over the order state machine
//   - CandidateRanker: scoring of delivery partners for assignment
//
// Domain services stay free of persistence concerns; they operate on loaded
// aggregates and return plain results or typed domain errors.
package services
