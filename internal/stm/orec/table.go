package orec

import (
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/cpu"

	"github.com/kolkov/stminst/internal/stm/word"
)

// orec is one ownership record, padded to its own cache line.
type orec struct {
	v atomic.Uint64

	// prev is the unlocked version saved by the lock holder, restored on
	// rollback. Only the holder touches it.
	prev uint64

	_ cpu.CacheLinePad
}

func (o *orec) load() Version { return Version(o.v.Load()) }

// table maps word addresses to orecs.
type table struct {
	recs  []orec
	shift uint
}

func newTable(bits uint) *table {
	return &table{
		recs:  make([]orec, 1<<bits),
		shift: 64 - bits,
	}
}

// wordShift drops the in-word offset bits so neighbouring words spread.
const wordShift = 2 + unsafe.Sizeof(word.Word(0))/8

// get returns the orec covering the word at addr.
//
//go:nosplit
func (t *table) get(addr *word.Word) *orec {
	return &t.recs[fastHash(uintptr(unsafe.Pointer(addr))>>wordShift)>>t.shift]
}

// fastHash is a multiplicative hash; callers take its top bits.
//
//go:nosplit
func fastHash(x uintptr) uint64 {
	const goldenRatio = 0x9E3779B97F4A7C15
	return uint64(x) * goldenRatio
}
