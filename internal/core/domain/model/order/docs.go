// Package order contains the order aggregate and its lifecycle state machine.
//
// An order moves through a fixed set of statuses from placement to a terminal
// state. Structural transition rules (which from->to edges exist at all) live
// on the Status type; role authorization for a particular actor is layered on
// top by the services package. Every applied transition appends an immutable
// history entry, so the aggregate carries its own audit log.
package order
