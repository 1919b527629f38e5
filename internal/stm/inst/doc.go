// Package inst implements the generic transactional access engine.
//
// The engine turns a typed load or store of any fixed-size value into a
// sequence of masked word accesses issued to the STM algorithm through the
// Tx interface. It is correct for aligned, unaligned, subword and multiword
// values:
//
//	shape              condition                         word accesses
//	Aligned            offset 0, size >= word            N, all full masks
//	Unaligned          offset != 0, size >= word         N+1 (first/middle/last)
//	Subword            size < word, fits in its word     1, mask [off, off+size)
//	SubwordOverflow    size < word, crosses a boundary   2, like Unaligned with N=1
//
// The layout class of a type (whether it can ever be unaligned or overflow a
// word) is resolved once when its Access is created, so only the checks a
// type can actually need run per call.
//
// # Ordering
//
// Word accesses for one value are always issued in increasing address
// order: the first word, the middle words low to high, then the last word.
// Algorithms may rely on this order for their own bookkeeping.
//
// # Read-after-write
//
// Every word read first consults a read-after-write policy (RAW). NoRAW
// never hits; RedoRAW serves bytes the transaction has already buffered in
// its write set and merges partially buffered words with the memory value.
// Read-only transactions always use NoRAW with the algorithm's read-only
// word read, chosen once per access.
//
// # Value buffer
//
// Values are assembled in and disassembled from a stack-local buffer of
// words by explicit byte copies in native byte order; no storage is shared
// between the typed value and the word view.
package inst
