package inst

import "github.com/kolkov/stminst/internal/stm/word"

// RAW is the read-after-write policy constraint. P is the policy's state,
// one value of which lives for the duration of a single access.
//
// For each word the engine calls Hit first. If Hit reports true the policy
// has already stored the word into dst and no transactional read is made.
// Otherwise the engine reads the word and hands it to Merge, which stores
// the final value into dst.
type RAW[P any] interface {
	*P
	Hit(tx Tx, addr *word.Word, dst *word.Word, mask word.Word) bool
	Merge(src word.Word, dst *word.Word)
}

// NoRAW never finds buffered data. It is the policy for read-only
// transactions and for algorithms that write in place.
type NoRAW struct{}

// Hit always reports false.
//
//go:nosplit
func (*NoRAW) Hit(Tx, *word.Word, *word.Word, word.Word) bool { return false }

// Merge stores src unchanged.
//
//go:nosplit
func (*NoRAW) Merge(src word.Word, dst *word.Word) { *dst = src }

// RedoRAW serves reads from the transaction's write set when the
// transaction implements WriteBuffer.
type RedoRAW struct {
	val     word.Word
	mask    word.Word
	partial bool
}

// Hit reports whether buffered writes cover every byte of mask. When they
// only cover some bytes, they are remembered for the following Merge.
func (r *RedoRAW) Hit(tx Tx, addr *word.Word, dst *word.Word, mask word.Word) bool {
	r.partial = false
	wb, ok := tx.(WriteBuffer)
	if !ok {
		return false
	}
	val, have, found := wb.FindWrite(addr)
	if !found || have&mask == 0 {
		return false
	}
	if have&mask == mask {
		*dst = val
		return true
	}
	r.val, r.mask, r.partial = val, have, true
	return false
}

// Merge overlays any partially buffered bytes on src.
func (r *RedoRAW) Merge(src word.Word, dst *word.Word) {
	if r.partial {
		src = word.Merge(src, r.val, r.mask)
	}
	*dst = src
}

// RAWKind selects the read-after-write policy of an Access.
type RAWKind uint8

const (
	// RAWNone uses NoRAW.
	RAWNone RAWKind = iota

	// RAWRedo uses RedoRAW.
	RAWRedo
)

// String returns the policy name.
func (k RAWKind) String() string {
	switch k {
	case RAWNone:
		return "none"
	case RAWRedo:
		return "redo"
	default:
		return "unknown"
	}
}
