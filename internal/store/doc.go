// Package store provides durable SQLite storage for the garden's ephemeral
// field entities, feeding progress, and the default inventory/currency
// ledgers.
//
// Every scheduler deadline is a persisted column, never an in-process
// timer, so a restart loses no pending transitions: the next sweep simply
// re-reads the due rows. DeleteIfExists is the single synchronization
// primitive for transition-vs-collect races; it succeeds for exactly one
// caller per row.
package store
