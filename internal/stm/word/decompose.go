package word

import "unsafe"

// Descriptor describes where a typed value lives in word-granular terms.
//
// Invariant: Offset+size <= Words*Size with Words minimal, where size is
// the byte size the descriptor was computed for.
type Descriptor struct {
	// Base is the word-aligned address at or below the value.
	Base unsafe.Pointer

	// Offset is the position of the value's first byte within Base's word.
	Offset uintptr

	// Words is the number of words the value's byte range touches.
	Words uintptr
}

// OffsetOf returns the byte offset of addr within its word.
//
//go:nosplit
func OffsetOf(addr unsafe.Pointer) uintptr {
	return uintptr(addr) & alignMask
}

// BaseOf returns addr rounded down to its word boundary.
//
//go:nosplit
func BaseOf(addr unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(addr, -int(OffsetOf(addr)))
}

// WordsFor returns the minimal number of words covering the byte range
// [offset, offset+size).
//
//go:nosplit
func WordsFor(offset, size uintptr) uintptr {
	return (offset + size + alignMask) / Size
}

// At returns the i-th word starting at base.
//
//go:nosplit
func At(base unsafe.Pointer, i uintptr) *Word {
	return (*Word)(unsafe.Add(base, i*Size))
}

// Decompose computes the access descriptor for a value of size bytes at addr.
//
// When forceAligned is set the caller guarantees the value never crosses a
// word boundary it does not start on: values of at least one word are taken
// to start at offset 0, and subword values are taken to fit in a single
// word. Violating that guarantee is a caller error.
//
// size must be at least 1.
func Decompose(addr unsafe.Pointer, size uintptr, forceAligned bool) Descriptor {
	if forceAligned {
		if size >= Size {
			return Descriptor{Base: addr, Words: WordsFor(0, size)}
		}
		off := OffsetOf(addr)
		return Descriptor{Base: unsafe.Add(addr, -int(off)), Offset: off, Words: 1}
	}
	off := OffsetOf(addr)
	return Descriptor{
		Base:   unsafe.Add(addr, -int(off)),
		Offset: off,
		Words:  WordsFor(off, size),
	}
}
