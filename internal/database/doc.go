// Package database provides SQLite-based run history for i18nscan.
//
// This package implements the HistoryDB, which stores:
//   - Find runs with their complete report and per-file content hashes
//   - Exchange and auto runs with their rewrite summaries
//
// Design decision: We use SQLite (via modernc.org/sqlite) because:
// 1. The history is a single file under the XDG data directory
// 2. The CGO-free driver keeps cross-compilation trivial
// 3. WAL mode lets the history command read while a find run writes
//
// Timestamps are stored as fixed-width UTC text (nanoseconds, "Z" suffix)
// rather than integers so that ORDER BY on the column is chronological and
// the rows stay readable in the sqlite3 shell.
//
// Two find runs over the same root can be compared to see which hardcoded
// strings are new and which were resolved between them.
package database
