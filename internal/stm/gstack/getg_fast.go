//go:build (amd64 || arm64) && !purego

package gstack

// getg returns the running goroutine's g pointer.
// Implemented in getg_amd64.s and getg_arm64.s.
func getg() uintptr
