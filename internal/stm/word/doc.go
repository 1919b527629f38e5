// Package word implements the word-granular address arithmetic used by the
// transactional access engine.
//
// Every transactional access is issued against one machine word: a
// pointer-sized, pointer-aligned unit of memory. Values that are smaller
// than a word, that are not aligned to a word boundary, or that span
// several words are reached through masked word accesses, where a Mask
// selects the contiguous byte range [i, j) of the word the access actually
// touches.
//
// # Byte order
//
// Masks and word values are expressed in the native byte order of the
// target. A word loaded from memory holds byte k of that memory at the
// bit lane returned by Lane(k): bits [8k, 8k+8) on little-endian targets and
// bits [8(Size-1-k), 8(Size-k)) on big-endian ones. MakeMask follows the
// same convention, so "bytes [i, j) of the mask are 0xFF" always means
// "memory bytes [i, j) of the word are selected", independent of the
// target.
//
// # Decomposition
//
// A typed access at address a with size s is described by:
//
//	base   = a rounded down to a word boundary
//	offset = a - base                  (0 <= offset < Size)
//	N      = ceil((offset + s) / Size) (the minimal word count)
//
// Decompose computes this triple. The engine then issues exactly N masked
// word accesses at base, base+Size, ..., base+(N-1)*Size, in that order.
package word
