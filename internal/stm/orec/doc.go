// Package orec implements OrecLazy, a word-based software transactional
// memory with commit-time locking and a redo log.
//
// It is the transaction algorithm behind the barrier surface: a Tx
// implements the masked word read and write primitives the access engine
// consumes, the stack-scope queries of the stack-locality filter, and the
// undo log used when a nested scope is cancelled.
//
// Design:
//   - A global clock orders commits. A transaction samples it at start.
//   - Every word hashes to an ownership record (orec) holding either the
//     clock value of the last commit that wrote it or a lock word naming
//     the committing transaction.
//   - Reads check the orec against the start time and log it. A newer
//     orec triggers a validation of all logged orecs, after which the start
//     time is extended to the current clock.
//   - Writes are buffered in a masked write set. At commit the write set's
//     orecs are locked, the read orecs validated, the write set written
//     back and the locks released at a fresh clock value.
//   - A transaction starts read-only and switches to writing mode on its
//     first write.
//
// Conflicts abort the transaction by panicking with an unexported
// sentinel which Atomically recovers before retrying. Any other panic
// rolls the transaction back and propagates unchanged.
//
// Thread Safety: an STM is safe for concurrent use. A Tx is confined to
// the goroutine running the transaction.
package orec
