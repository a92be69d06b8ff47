// Package database provides SQLite-backed storage: a TTL-bounded fetch
// cache the fetch client reads through, and a history of completed
// extraction reports.
package database
