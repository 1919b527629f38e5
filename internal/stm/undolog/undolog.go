// Package undolog records prior byte values of memory written in place so a
// scope can restore them when it is cancelled.
//
// Snapshots of the running goroutine's stack are recorded by depth below
// the stack's high end, so they are restored to the right place after the
// stack has been copied. Other memory is recorded by address.
//
// Thread Safety: a Log belongs to one transaction scope and is not safe for
// concurrent use. Append and Replay must run on the goroutine that owns
// the logged stack memory.
package undolog

import (
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/gstack"
)

type entry struct {
	addr  unsafe.Pointer // nil for stack memory
	depth uintptr
	off   int
	size  int
}

// Log is an undo log. The zero value is ready to use.
type Log struct {
	entries []entry
	data    []byte
}

// Append snapshots the size bytes currently at addr. It must be called
// before the bytes are overwritten.
func (l *Log) Append(addr unsafe.Pointer, size uintptr) {
	if d, ok := gstack.Depth(uintptr(addr)); ok {
		l.AppendStack(d, size)
		return
	}
	l.entries = append(l.entries, entry{addr: addr, off: len(l.data), size: int(size)})
	l.data = append(l.data, unsafe.Slice((*byte)(addr), size)...)
}

// AppendStack snapshots the size bytes of the running goroutine's stack
// at depth, as returned by gstack.Depth.
func (l *Log) AppendStack(depth, size uintptr) {
	l.entries = append(l.entries, entry{depth: depth, off: len(l.data), size: int(size)})
	l.data = append(l.data, unsafe.Slice((*byte)(gstack.At(depth)), size)...)
}

// Replay restores every snapshot, newest first, so the oldest value of each
// location wins.
func (l *Log) Replay() {
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		p := e.addr
		if p == nil {
			p = gstack.At(e.depth)
		}
		copy(unsafe.Slice((*byte)(p), e.size), l.data[e.off:e.off+e.size])
	}
}

// Absorb moves all of child's snapshots to the end of l and resets child.
// It is used when a nested scope commits into its parent.
func (l *Log) Absorb(child *Log) {
	base := len(l.data)
	for _, e := range child.entries {
		e.off += base
		l.entries = append(l.entries, e)
	}
	l.data = append(l.data, child.data...)
	child.Reset()
}

// Len returns the number of snapshots.
func (l *Log) Len() int { return len(l.entries) }

// Reset discards all snapshots, keeping storage.
func (l *Log) Reset() {
	clear(l.entries)
	l.entries = l.entries[:0]
	l.data = l.data[:0]
}
