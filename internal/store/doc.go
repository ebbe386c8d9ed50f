// Package store provides a SQLite-backed ledger of minted identifiers.
//
// Each row is keyed by the 16-byte canonical encoding of a lexid.ID. SQLite
// compares BLOBs with memcmp, so ORDER BY id returns rows in creation order
// without a separate timestamp index.
//
// # Critical Patterns
//
// Idempotent writes:
//   - INSERT ... ON CONFLICT(id) DO NOTHING
//   - Recording the same identifier twice is a no-op, not an error
//
// Keyset pagination:
//   - List resumes strictly after a given id
//   - Stable under concurrent inserts of newer identifiers
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// The timestamp, jitter and worker_id columns duplicate fields of the key
// so that the ledger can be queried ad hoc with plain SQL.
package store
