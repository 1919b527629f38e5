// Package itm provides the transactional memory barrier surface: typed
// read and write entry points that instrumented code calls for every
// access made inside a transaction.
//
// # Quick Start
//
// Barriers take the running transaction as an explicit context:
//
//	s := orec.New(orec.DefaultConfig())
//
//	var balance uint32
//	err := s.Atomically(func(tx *orec.Tx) error {
//		b := itm.ReadU4(tx, &balance)
//		itm.WriteU4(tx, &balance, b+10)
//		return nil
//	})
//
// # Barrier Families
//
// Each supported type has a family named by its ABI suffix:
//
//	U1 uint8     U2 uint16    U4 uint32     U8 uint64
//	F  float32   D  float64   CF complex64  CD complex128
//	M64 M128 M256 vector values
//	W  uintptr (word-sized library accesses)
//
// A family has four read entry points (Read, ReadAfterRead,
// ReadAfterWrite, ReadForWrite) and three write entry points (Write,
// WriteAfterRead, WriteAfterWrite). The variants carry an access-intent
// hint for the transaction algorithm; within a family they behave
// identically.
//
// # How It Works
//
// Values are split into masked word accesses according to their size and
// position within machine words. The layout class of each type is resolved
// once, when the package is initialised. Reads go through the
// transaction's read-after-write policy so a transaction sees its own
// buffered writes.
//
// Writes first run the stack-locality check against the transaction's
// stack watermarks. A write to the running goroutine's stack inside the
// innermost scope would be performed in place, and one to stack memory of
// an enclosing scope undo-logged and then performed in place. In practice
// a Go variable whose address is passed to a barrier escapes to the heap,
// because the pointer reaches the transaction through interface calls, so
// barrier writes always take the transactional path. Heap memory is never
// classified stack-local, even after the goroutine's stack has been
// copied or shrunk.
//
// Barriers are generated by tools/barriergen.
package itm

//go:generate go run ../tools/barriergen -o barriers_gen.go
