package inst

import (
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/word"
)

// MaxValueSize is the largest value, in bytes, the engine instruments.
const MaxValueSize = 64

// bufferWords leaves room for one spill word past the largest value.
const bufferWords = MaxValueSize/word.Size + 1

// buffer is the per-access scratch area holding a value's word pieces in
// memory order.
type buffer [bufferWords]word.Word

func (b *buffer) bytes() []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&b[0])), bufferWords*word.Size)
}

// valueBytes views the size bytes of *v.
func valueBytes[T any](v *T, size uintptr) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(v)), size)
}

// load copies size bytes starting at off out of the buffer into a T.
func load[T any](b *buffer, off, size uintptr) T {
	var v T
	copy(valueBytes(&v, size), b.bytes()[off:off+size])
	return v
}

// store copies v into the buffer starting at byte off.
func store[T any](b *buffer, off, size uintptr, v *T) {
	copy(b.bytes()[off:off+size], valueBytes(v, size))
}
