// Package inventory contains the stock reservation ledger entities.
//
// A Reservation ties a quantity of one product to one order before the sale
// is final; its lifecycle (ACTIVE -> COMMITTED | RELEASED | EXPIRED) is
// independent of the order's own status string. An Adjustment is the
// idempotency receipt that makes stock restoration apply at most once per
// (order, reason). The real mutual exclusion for all of this lives in the
// storage layer's conditional updates; the types here encode which moves are
// legal at all.
package inventory
