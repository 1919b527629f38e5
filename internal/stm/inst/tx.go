package inst

import (
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/word"
)

// Tx is the transaction handle the engine borrows for the duration of one
// access. It is owned by the STM algorithm.
//
// ReadWord and WriteWord may transfer control out of the access (for
// example by panicking to abort the transaction). The engine does not
// intercept such transfers.
type Tx interface {
	// ReadWord transactionally reads the word at addr. Only the bytes
	// selected by mask are of interest to the caller.
	ReadWord(addr *word.Word, mask word.Word) word.Word

	// WriteWord transactionally writes the bytes of val selected by mask
	// to the word at addr. Whether the write is buffered or applied in
	// place is up to the algorithm.
	WriteWord(addr *word.Word, val, mask word.Word)
}

// ReadOnlyTx is implemented by transactions that can run in a read-only
// mode with a cheaper read barrier.
type ReadOnlyTx interface {
	Tx

	// IsReadOnly reports whether the transaction currently executes in
	// read-only mode.
	IsReadOnly() bool

	// ReadWordRO is the read-only variant of ReadWord.
	ReadWordRO(addr *word.Word, mask word.Word) word.Word
}

// WriteBuffer is implemented by transactions that buffer writes (redo
// logging). RedoRAW uses it to find pending writes.
type WriteBuffer interface {
	// FindWrite returns the buffered value and mask for the word at addr.
	FindWrite(addr *word.Word) (val, mask word.Word, ok bool)
}

// Prefilter decides whether an access bypasses instrumentation and is
// performed as a plain memory access instead.
type Prefilter interface {
	// Filter reports whether the size bytes at addr are private to tx.
	// For writes it may record whatever is needed to undo the access
	// before returning true.
	Filter(tx Tx, addr unsafe.Pointer, size uintptr, write bool) bool
}
