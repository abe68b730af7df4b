// Package paymentsettlement implements the time-driven payment
// settlement and multi-party revenue-split ledger.
//
// The module owns the payment, earnings ledger, split policy and outbox
// tables and exposes HTTP command/query handlers plus worker entrypoints
// for the settlement sweep and outbox relay.
package paymentsettlement
