package word

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Word is the unit of transactional access: one pointer-sized machine word.
type Word = uintptr

const (
	// Size is the number of bytes in a Word (4 or 8).
	Size = unsafe.Sizeof(Word(0))

	// Full is the mask selecting every byte of a word.
	Full = ^Word(0)

	// alignMask extracts the offset of an address within its word.
	alignMask = Size - 1
)

// Lane returns the bit position of memory byte k (0 <= k < Size) inside a
// word loaded from that memory.
//
//go:nosplit
func Lane(k uintptr) uintptr {
	if cpu.IsBigEndian {
		return 8 * (Size - 1 - k)
	}
	return 8 * k
}

// MakeMask returns a mask with bytes [i, j) set to 0xFF and every other byte
// zero.
//
// The range must satisfy 0 <= i < j <= Size. The range is not checked: a
// malformed range is a programming error and yields an unspecified mask.
// With constant arguments the whole function folds to a constant.
//
//go:nosplit
func MakeMask(i, j uintptr) Word {
	// Shift zeros into the top, then into the bottom.
	m := Full >> (8 * (Size - j + i))
	if cpu.IsBigEndian {
		return m << (8 * (Size - j))
	}
	return m << (8 * i)
}

// ByteSet reports whether memory byte k is selected by mask.
//
//go:nosplit
func ByteSet(mask Word, k uintptr) bool {
	return (mask>>Lane(k))&0xFF == 0xFF
}

// Merge overlays the bytes of val selected by mask onto dst.
//
//go:nosplit
func Merge(dst, val, mask Word) Word {
	return dst&^mask | val&mask
}

// Load performs an atomic load of a whole word.
//
//go:nosplit
func Load(p *Word) Word {
	return atomic.LoadUintptr(p)
}

// StoreMasked stores the bytes of val selected by mask into *p, leaving the
// other bytes of the word untouched.
//
// A full mask is a single atomic store. A partial mask is applied with a
// compare-and-swap loop so bytes outside the mask that are concurrently
// updated through StoreMasked are never clobbered.
func StoreMasked(p *Word, val, mask Word) {
	if mask == Full {
		atomic.StoreUintptr(p, val)
		return
	}
	for {
		old := atomic.LoadUintptr(p)
		if atomic.CompareAndSwapUintptr(p, old, Merge(old, val, mask)) {
			return
		}
	}
}
