package inst

import (
	"fmt"
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/word"
)

// Shape classifies a single access by the word accesses it needs.
type Shape uint8

const (
	// Aligned values start on a word boundary and span whole words.
	Aligned Shape = iota

	// Unaligned values of at least one word start inside a word.
	Unaligned

	// Subword values fit inside one word.
	Subword

	// SubwordOverflow values are smaller than a word but cross into the
	// next one. They are handled exactly like Unaligned values of one word.
	SubwordOverflow
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case Aligned:
		return "aligned"
	case Unaligned:
		return "unaligned"
	case Subword:
		return "subword"
	case SubwordOverflow:
		return "subword-overflow"
	default:
		return "unknown"
	}
}

// ShapeOf returns the shape of a size-byte access starting offset bytes
// into its first word.
func ShapeOf(offset, size uintptr) Shape {
	switch {
	case size < word.Size && offset+size <= word.Size:
		return Subword
	case size < word.Size:
		return SubwordOverflow
	case offset == 0:
		return Aligned
	default:
		return Unaligned
	}
}

// layout is the static access class of a type.
type layout uint8

const (
	// layoutAligned types always start on a word boundary.
	layoutAligned layout = iota

	// layoutSubword types never cross a word boundary.
	layoutSubword

	// layoutSubwordOverflow types are subword but may cross a boundary.
	layoutSubwordOverflow

	// layoutGeneral types may start anywhere in a word.
	layoutGeneral
)

// Options configures an Access.
type Options struct {
	// ForceAligned treats the type as never crossing a word boundary it
	// does not start on, regardless of its natural alignment. The library
	// API uses this for word-sized accesses.
	ForceAligned bool

	// RAW selects the read-after-write policy for writing transactions.
	RAW RAWKind

	// Prefilter, if set, runs before any instrumentation.
	Prefilter Prefilter
}

// Access is the instrumentation for one value type T. Its layout is
// computed once by NewAccess; Read and Write only perform the runtime checks
// the layout requires.
//
// An Access is immutable and safe for concurrent use.
type Access[T any] struct {
	size   uintptr
	words  uintptr
	layout layout
	raw    RAWKind
	filter Prefilter
}

// NewAccess resolves the access layout of T.
//
// It panics if T is zero-sized or larger than MaxValueSize; neither can be
// instrumented.
func NewAccess[T any](opts Options) *Access[T] {
	var zero T
	size := unsafe.Sizeof(zero)
	align := unsafe.Alignof(zero)
	if size == 0 {
		panic(fmt.Sprintf("inst: cannot instrument zero-sized type %T", zero))
	}
	if size > MaxValueSize {
		panic(fmt.Sprintf("inst: type %T is %d bytes, larger than the %d byte limit", zero, size, MaxValueSize))
	}

	a := &Access[T]{
		size:   size,
		raw:    opts.RAW,
		filter: opts.Prefilter,
	}
	switch {
	case size >= word.Size && (opts.ForceAligned || (align >= word.Size && size%word.Size == 0)):
		a.layout = layoutAligned
		a.words = word.WordsFor(0, size)
	case size < word.Size && (opts.ForceAligned || neverCrosses(size, align)):
		a.layout = layoutSubword
		a.words = 1
	case size < word.Size:
		a.layout = layoutSubwordOverflow
		a.words = 1
	default:
		a.layout = layoutGeneral
		a.words = word.WordsFor(0, size)
	}
	return a
}

// neverCrosses reports whether a naturally aligned subword value of this
// size can never straddle a word boundary.
func neverCrosses(size, align uintptr) bool {
	return size&(size-1) == 0 && align >= size
}

// Size returns the byte size of T.
func (a *Access[T]) Size() uintptr { return a.size }

// locate returns the offset of addr within its word and the number of
// words the access touches.
//
//go:nosplit
func (a *Access[T]) locate(p unsafe.Pointer) (off, n uintptr) {
	switch a.layout {
	case layoutAligned:
		return 0, a.words
	case layoutSubword:
		return word.OffsetOf(p), 1
	case layoutSubwordOverflow:
		off = word.OffsetOf(p)
		if off+a.size <= word.Size {
			return off, 1
		}
		return off, 2
	default:
		off = word.OffsetOf(p)
		return off, word.WordsFor(off, a.size)
	}
}

// Describe returns the word decomposition the engine uses for addr.
func (a *Access[T]) Describe(addr *T) word.Descriptor {
	p := unsafe.Pointer(addr)
	off, n := a.locate(p)
	return word.Descriptor{Base: unsafe.Add(p, -int(off)), Offset: off, Words: n}
}

// ShapeAt returns the shape of an access to addr.
func (a *Access[T]) ShapeAt(addr *T) Shape {
	off, _ := a.locate(unsafe.Pointer(addr))
	return ShapeOf(off, a.size)
}

// Read transactionally loads the value at addr using the configured
// read-after-write policy.
func (a *Access[T]) Read(tx Tx, addr *T) T {
	if a.raw == RAWRedo {
		return ReadWith[T, RedoRAW](a, tx, addr)
	}
	return ReadWith[T, NoRAW](a, tx, addr)
}

// ReadWith is Read with an explicit read-after-write policy P.
//
// If the prefilter claims addr the value is loaded directly. Otherwise every
// word the value touches is obtained from the policy or from a
// transactional read, and the value is reassembled from those words.
func ReadWith[T any, P any, PP RAW[P]](a *Access[T], tx Tx, addr *T) T {
	p := unsafe.Pointer(addr)
	if a.filter != nil && a.filter.Filter(tx, p, a.size, false) {
		return *addr
	}

	off, n := a.locate(p)
	base := unsafe.Add(p, -int(off))

	var buf buffer
	if ro, ok := tx.(ReadOnlyTx); ok && ro.IsReadOnly() {
		readWords[NoRAW](tx, ro.ReadWordRO, base, off, a.size, n, &buf)
	} else {
		readWords[P, PP](tx, tx.ReadWord, base, off, a.size, n, &buf)
	}
	return load[T](&buf, off, a.size)
}

// Write transactionally stores val at addr.
//
// If the prefilter claims addr the value is stored directly. Otherwise the
// value is laid out at its word offset in a scratch buffer and written with
// one masked word write per touched word.
func (a *Access[T]) Write(tx Tx, addr *T, val T) {
	p := unsafe.Pointer(addr)
	if a.filter != nil && a.filter.Filter(tx, p, a.size, true) {
		*addr = val
		return
	}

	off, n := a.locate(p)

	var buf buffer
	store(&buf, off, a.size, &val)
	writeWords(tx, unsafe.Add(p, -int(off)), off, a.size, n, &buf)
}

type readFunc func(addr *word.Word, mask word.Word) word.Word

// readWords fills buf[0:n] from the n words at base.
func readWords[P any, PP RAW[P]](tx Tx, read readFunc, base unsafe.Pointer, off, size, n uintptr, buf *buffer) {
	// Some policies keep state between Hit and Merge.
	var raw P
	r := PP(&raw)

	// First word: there is always one.
	mask := firstMask(off, size)
	p := word.At(base, 0)
	if !r.Hit(tx, p, &buf[0], mask) {
		r.Merge(read(p, mask), &buf[0])
	}

	// Middle words.
	for i := uintptr(1); i+1 < n; i++ {
		p = word.At(base, i)
		if r.Hit(tx, p, &buf[i], word.Full) {
			continue
		}
		r.Merge(read(p, word.Full), &buf[i])
	}

	// Last word.
	if n > 1 {
		last := n - 1
		mask = lastMask(off, size, n)
		p = word.At(base, last)
		if !r.Hit(tx, p, &buf[last], mask) {
			r.Merge(read(p, mask), &buf[last])
		}
	}
}

// writeWords stores buf[0:n] to the n words at base.
func writeWords(tx Tx, base unsafe.Pointer, off, size, n uintptr, buf *buffer) {
	tx.WriteWord(word.At(base, 0), buf[0], firstMask(off, size))

	for i := uintptr(1); i+1 < n; i++ {
		tx.WriteWord(word.At(base, i), buf[i], word.Full)
	}

	if n > 1 {
		last := n - 1
		tx.WriteWord(word.At(base, last), buf[last], lastMask(off, size, n))
	}
}

// firstMask selects the value's bytes in its first word.
//
//go:nosplit
func firstMask(off, size uintptr) word.Word {
	return word.MakeMask(off, min(word.Size, off+size))
}

// lastMask selects the value's bytes in the last of n > 1 words. For an
// unaligned value whose size is a multiple of the word size this is
// [0, off).
//
//go:nosplit
func lastMask(off, size, n uintptr) word.Word {
	return word.MakeMask(0, off+size-(n-1)*word.Size)
}
