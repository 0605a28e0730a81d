// Package history archives rendered page snapshots in SQLite.
//
// Snapshots are written when a page is about to disappear from the live
// store (remove, clear) or when the CLI renders a scenario with --db. The
// archive is append-only and ordered by seq, a logical clock assigned by
// SQLite. Wall-clock time is never stored.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package history
