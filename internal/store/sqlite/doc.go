// Package sqlite provides a SQLite-backed document store.
//
// Several processes on one host can open the same database file and act as
// independent clients of one shared session document, which is how the
// synchronizer is exercised outside of tests. Writes are unconditional
// upserts: the store keeps no versions and the last writer wins.
package sqlite
