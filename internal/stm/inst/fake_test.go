package inst

import (
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/word"
)

// wordAccess is one masked word access seen by a fake transaction.
type wordAccess struct {
	write bool
	ro    bool
	addr  *word.Word
	val   word.Word
	mask  word.Word
}

// eagerTx applies writes in place and records every word access.
type eagerTx struct {
	log      []wordAccess
	readOnly bool
}

func (t *eagerTx) ReadWord(addr *word.Word, mask word.Word) word.Word {
	v := word.Load(addr)
	t.log = append(t.log, wordAccess{addr: addr, val: v, mask: mask})
	return v
}

func (t *eagerTx) ReadWordRO(addr *word.Word, mask word.Word) word.Word {
	v := word.Load(addr)
	t.log = append(t.log, wordAccess{ro: true, addr: addr, val: v, mask: mask})
	return v
}

func (t *eagerTx) WriteWord(addr *word.Word, val, mask word.Word) {
	t.log = append(t.log, wordAccess{write: true, addr: addr, val: val, mask: mask})
	word.StoreMasked(addr, val, mask)
}

func (t *eagerTx) IsReadOnly() bool { return t.readOnly }

func (t *eagerTx) reset() { t.log = t.log[:0] }

// redoTx buffers writes and never touches memory on WriteWord.
type redoTx struct {
	eagerTx
	buffered map[*word.Word][2]word.Word
}

func newRedoTx() *redoTx {
	return &redoTx{buffered: make(map[*word.Word][2]word.Word)}
}

func (t *redoTx) WriteWord(addr *word.Word, val, mask word.Word) {
	t.log = append(t.log, wordAccess{write: true, addr: addr, val: val, mask: mask})
	e := t.buffered[addr]
	t.buffered[addr] = [2]word.Word{word.Merge(e[0], val, mask), e[1] | mask}
}

func (t *redoTx) FindWrite(addr *word.Word) (val, mask word.Word, ok bool) {
	e, ok := t.buffered[addr]
	return e[0], e[1], ok
}

// arena returns word-aligned backing memory and a typed pointer at off.
func arena(words int) []word.Word {
	return make([]word.Word, words)
}

func at[T any](mem []word.Word, off uintptr) *T {
	return (*T)(unsafe.Add(unsafe.Pointer(&mem[0]), off))
}

// filled returns a T whose bytes are seed, seed+1, ...
func filled[T any](seed byte) T {
	var v T
	b := valueBytes(&v, unsafe.Sizeof(v))
	for i := range b {
		b[i] = seed + byte(i)*7
	}
	return v
}
