// Package stackfilter implements the stack-locality fast path for
// transactional writes.
//
// Memory on the executing goroutine's own stack that was allocated inside
// the transaction is private to it and needs no transactional
// instrumentation. Each active scope records a stack-high watermark, the
// highest stack address live when the scope began. With the stack growing
// downwards the address space splits into four regions:
//
//	addr < frame           below the current frame: not stack-local
//	frame <= addr < inner  allocated inside the innermost scope: Direct
//	inner <= addr <= outer allocated before the innermost scope began but
//	                       inside the transaction: DirectWithUndoLog
//	addr > outer           allocated before the transaction: not stack-local
//
// Accesses straddling the inner watermark are promoted to
// DirectWithUndoLog. Accesses straddling the outer watermark are assumed
// not to occur and are not detected.
//
// Goroutine stacks are copied when they grow and may be shrunk by the
// garbage collector, so scopes report watermarks as depths below the
// stack's high end (see package gstack). Only addresses inside the running
// goroutine's live stack are ever classified local; the watermarks are
// turned back into addresses against the current bounds, with no call in
// between that could move the stack. A transaction without watermarks, or
// a platform where the stack bounds cannot be read, classifies every
// access as NotLocal.
//
// A variable whose address is passed to a barrier escapes to the heap:
// the pointer reaches the transaction through interface calls, which the
// compiler's escape analysis cannot see through. Barrier operands are
// therefore never on the stack and always take the NotLocal path. Check
// itself does not retain addr, so a stack address given to it directly
// stays on the stack and is classified by region.
package stackfilter

import (
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/gstack"
	"github.com/kolkov/stminst/internal/stm/inst"
)

// Locality is the outcome of the stack-locality decision.
type Locality uint8

const (
	// NotLocal accesses go through the transactional engine.
	NotLocal Locality = iota

	// Direct accesses are plain memory accesses.
	Direct

	// DirectWithUndoLog accesses are plain memory accesses preceded by an
	// undo-log append to the innermost scope.
	DirectWithUndoLog
)

// String returns the locality name.
func (l Locality) String() string {
	switch l {
	case NotLocal:
		return "not-local"
	case Direct:
		return "direct"
	case DirectWithUndoLog:
		return "direct-undo"
	default:
		return "unknown"
	}
}

// Scopes is the stack-scope view of a transaction.
//
// Watermarks are depths below the high end of the goroutine's stack, as
// returned by gstack.Depth. Zero means the scope has no watermark.
type Scopes interface {
	// InnerStackDepth returns the watermark of the innermost active scope.
	InnerStackDepth() uintptr

	// OuterStackDepth returns the watermark of the outermost scope.
	OuterStackDepth() uintptr

	// LogUndo appends the current size bytes at addr to the innermost
	// scope's undo log.
	LogUndo(addr unsafe.Pointer, size uintptr)
}

// Classify decides the locality of the size bytes at addr given the current
// frame address and the inner and outer watermarks.
//
//go:nosplit
func Classify(frame, inner, outer, addr, size uintptr) Locality {
	switch {
	case addr < frame:
		return NotLocal
	case addr > outer:
		return NotLocal
	case addr+size <= inner:
		return Direct
	default:
		// Includes ranges that start below inner and end above it.
		return DirectWithUndoLog
	}
}

// FrameAddress returns an address in a frame just below its caller's, which
// bounds the caller's live stack from below.
//
//go:nosplit
//go:noinline
func FrameAddress() uintptr {
	var marker byte
	return uintptr(unsafe.Pointer(&marker))
}

// classifyDepths is Classify for depth watermarks against the stack
// [lo, hi). Addresses outside the stack are NotLocal.
//
//go:nosplit
func classifyDepths(lo, hi, frame, inner, outer, addr, size uintptr) Locality {
	if outer == 0 || outer > hi-lo || addr < lo || addr > hi || size > hi-addr {
		return NotLocal
	}
	var innerHigh uintptr
	if inner != 0 && inner <= hi-lo {
		innerHigh = hi - inner
	}
	return Classify(frame, innerHigh, hi-outer, addr, size)
}

// locate classifies addr against the running goroutine's stack. Being
// nosplit, it cannot be interrupted by a stack copy between reading the
// bounds and comparing addr.
//
//go:nosplit
func locate(inner, outer uintptr, addr unsafe.Pointer, size uintptr) Locality {
	lo, hi, ok := gstack.Bounds()
	if !ok {
		return NotLocal
	}
	return classifyDepths(lo, hi, FrameAddress(), inner, outer, uintptr(addr), size)
}

// Filter performs the stack-locality decision for a transaction.
//
// The zero value uses the running goroutine's stack.
type Filter struct {
	// Stack, if set, replaces the running goroutine's stack bounds and
	// frame address.
	Stack func() (lo, hi, frame uintptr, ok bool)
}

// Check classifies the size bytes at addr for the transaction s.
func (f *Filter) Check(s Scopes, addr unsafe.Pointer, size uintptr) Locality {
	inner, outer := s.InnerStackDepth(), s.OuterStackDepth()
	if outer == 0 {
		return NotLocal
	}
	if f.Stack != nil {
		lo, hi, frame, ok := f.Stack()
		if !ok {
			return NotLocal
		}
		return classifyDepths(lo, hi, frame, inner, outer, uintptr(addr), size)
	}
	return locate(inner, outer, addr, size)
}

// Filter implements inst.Prefilter for writes. Direct writes are claimed;
// DirectWithUndoLog writes are logged and claimed. Reads and transactions
// without stack scopes are never claimed.
func (f *Filter) Filter(tx inst.Tx, addr unsafe.Pointer, size uintptr, write bool) bool {
	if !write {
		return false
	}
	s, ok := tx.(Scopes)
	if !ok {
		return false
	}
	switch f.Check(s, addr, size) {
	case Direct:
		return true
	case DirectWithUndoLog:
		s.LogUndo(addr, size)
		return true
	default:
		return false
	}
}

var _ inst.Prefilter = (*Filter)(nil)
