// Package gstack reads the bounds of the running goroutine's stack.
//
// Goroutine stacks are copied when they grow, and the garbage collector
// may shrink them at any synchronous safe point, so a raw stack address
// goes stale as soon as the goroutine calls a function. Positions that
// must outlive a call are kept as depths instead: the distance below the
// stack's high end, which a copy preserves.
//
// The bounds are the first two words of the runtime's g struct
// (stack.lo, stack.hi). Where the g pointer cannot be read, or the bounds
// fail a sanity check at init, Bounds reports !ok and callers must treat
// no address as being on the stack.
//
// Every function here is nosplit, so bounds read by a caller stay valid
// until the caller's next call that may grow the stack.
package gstack

import "unsafe"

// usable reports whether the g struct layout was recognised at init.
var usable = check()

//go:noinline
func check() bool {
	g := getg()
	if g == 0 {
		return false
	}
	lo, hi := read(g)
	here := marker()
	return lo != 0 && lo < hi && lo <= here && here < hi
}

//go:nosplit
//go:noinline
func marker() uintptr {
	var m byte
	return uintptr(unsafe.Pointer(&m))
}

// read returns stack.lo and stack.hi of the g at g.
//
//go:nosplit
//go:nocheckptr
func read(g uintptr) (lo, hi uintptr) {
	//nolint:gosec // G103: stack bounds are the first two words of runtime.g
	s := (*[2]uintptr)(unsafe.Pointer(g))
	return s[0], s[1]
}

// Bounds returns the running goroutine's stack [lo, hi).
//
//go:nosplit
func Bounds() (lo, hi uintptr, ok bool) {
	if !usable {
		return 0, 0, false
	}
	lo, hi = read(getg())
	return lo, hi, true
}

// Depth returns how far below the stack's high end p lies. ok is false
// when p is not on the running goroutine's stack.
//
//go:nosplit
func Depth(p uintptr) (depth uintptr, ok bool) {
	lo, hi, ok := Bounds()
	if !ok || p < lo || p >= hi {
		return 0, false
	}
	return hi - p, true
}

// At returns the address depth bytes below the stack's high end. It is
// the inverse of Depth and must only be given depths Depth returned on
// the same goroutine.
//
//go:nosplit
//go:nocheckptr
func At(depth uintptr) unsafe.Pointer {
	_, hi, _ := Bounds()
	//nolint:gosec // G103: hi-depth is inside the live stack
	return unsafe.Pointer(hi - depth)
}
