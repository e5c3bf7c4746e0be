// Package sqlite provides SQLite-backed persistence for dashboard records.
//
// It is the durable counterpart of the volatile memory backend: identities
// are assigned by SQLite row identity, migrations are embedded, and only
// this package translates record structs into concrete SQL rows and
// transactions.
package sqlite
