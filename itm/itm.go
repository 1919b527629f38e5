package itm

import (
	"github.com/kolkov/stminst/internal/stm/inst"
	"github.com/kolkov/stminst/internal/stm/stackfilter"
)

// Transaction is the transaction context every barrier takes: the masked
// word primitives of the algorithm and its stack scopes.
//
// A transaction may also implement inst.ReadOnlyTx for a cheaper read path
// and inst.WriteBuffer so reads observe buffered writes.
type Transaction interface {
	inst.Tx
	stackfilter.Scopes
}

// Vector value types.
type (
	// M64 is a 64-bit vector.
	M64 [1]uint64

	// M128 is a 128-bit vector.
	M128 [2]uint64

	// M256 is a 256-bit vector.
	M256 [4]uint64
)

// stack is the stack-locality filter of every write barrier.
var stack stackfilter.Filter

// barrier binds the read and write engines of one type.
type barrier[T any] struct {
	rd *inst.Access[T]
	wr *inst.Access[T]
}

func newBarrier[T any](forceAligned bool) barrier[T] {
	return barrier[T]{
		rd: inst.NewAccess[T](inst.Options{ForceAligned: forceAligned, RAW: inst.RAWRedo}),
		wr: inst.NewAccess[T](inst.Options{ForceAligned: forceAligned, Prefilter: &stack}),
	}
}

func (b barrier[T]) read(tx Transaction, addr *T) T {
	return b.rd.Read(tx, addr)
}

// write stores in place when the stack filter claims addr, after logging
// the old value if required, and transactionally otherwise.
func (b barrier[T]) write(tx Transaction, addr *T, val T) {
	b.wr.Write(tx, addr, val)
}
