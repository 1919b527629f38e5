package orec

import (
	"runtime"
	"sync/atomic"
	"unsafe"

	"github.com/kolkov/stminst/internal/stm/gstack"
	"github.com/kolkov/stminst/internal/stm/undolog"
	"github.com/kolkov/stminst/internal/stm/word"
	"github.com/kolkov/stminst/internal/stm/writeset"
)

// abortReason records why a transaction aborted.
type abortReason uint8

const (
	reasonReadLocked abortReason = iota
	reasonReadValidation
	reasonCommitLock
	reasonCommitValidation
	reasonPanic
	numReasons
)

func (r abortReason) String() string {
	switch r {
	case reasonReadLocked:
		return "read_locked"
	case reasonReadValidation:
		return "read_validation"
	case reasonCommitLock:
		return "commit_lock"
	case reasonCommitValidation:
		return "commit_validation"
	case reasonPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// abortSignal is the panic value of a conflict abort.
type abortSignal struct {
	reason abortReason
}

// cancelSignal is the panic value of Tx.Cancel.
type cancelSignal struct{}

// scope is one level of nesting.
type scope struct {
	// stackDepth is the scope's stack-high watermark as a depth below the
	// high end of the goroutine stack, or 0 for none.
	stackDepth uintptr
	undo       undolog.Log
	mark       writeset.Mark
}

// Tx is a running transaction.
//
// Its methods satisfy the access engine's transaction interfaces and the
// stack-locality filter's Scopes. All methods except RequestValidation
// must be called from the goroutine running the transaction.
type Tx struct {
	stm *STM
	id  uint64

	start  uint64
	reads  []*orec
	writes writeset.Set
	locks  []*orec
	scopes []scope

	validateRequested atomic.Bool
	lastAbort         abortReason
}

// ID returns the transaction's id. It is stable across retries.
func (tx *Tx) ID() uint64 { return tx.id }

// StartTime returns the clock value the transaction's snapshot is valid at.
func (tx *Tx) StartTime() uint64 { return tx.start }

func (tx *Tx) begin(stackHigh uintptr) {
	tx.pushScope(stackHigh)
	tx.validateRequested.Store(false)
	tx.start = tx.stm.clock.Load()
}

// reset clears all per-attempt state, keeping storage.
func (tx *Tx) reset() {
	tx.reads = tx.reads[:0]
	tx.writes.Reset()
	tx.locks = tx.locks[:0]
	for i := range tx.scopes {
		tx.scopes[i].undo.Reset()
	}
	tx.scopes = tx.scopes[:0]
}

func (tx *Tx) pushScope(stackHigh uintptr) *scope {
	n := len(tx.scopes)
	if n < cap(tx.scopes) {
		tx.scopes = tx.scopes[:n+1]
	} else {
		tx.scopes = append(tx.scopes, scope{})
	}
	sc := &tx.scopes[n]
	sc.stackDepth = 0
	if stackHigh != 0 {
		sc.stackDepth, _ = gstack.Depth(stackHigh)
	}
	sc.undo.Reset()
	return sc
}

func (tx *Tx) abort(reason abortReason) {
	panic(abortSignal{reason: reason})
}

// IsReadOnly reports whether the transaction has not written yet.
func (tx *Tx) IsReadOnly() bool { return tx.writes.Len() == 0 }

// ReadWordRO reads the word at addr from a consistent snapshot, logging
// its orec. A newer orec extends the snapshot if all earlier reads are
// still valid and aborts otherwise.
func (tx *Tx) ReadWordRO(addr *word.Word, _ word.Word) word.Word {
	tx.poll()
	o := tx.stm.orecs.get(addr)

	for spins := 0; ; {
		v := word.Load(addr)
		ivt := o.load()

		if ivt <= Version(tx.start) {
			tx.reads = append(tx.reads, o)
			return v
		}

		if ivt.IsLocked() {
			spins++
			if spins > tx.stm.cfg.SpinLimit {
				tx.abort(reasonReadLocked)
			}
			runtime.Gosched()
			continue
		}

		now := tx.stm.clock.Load()
		tx.validate(reasonReadValidation)
		tx.start = now
		tx.stm.stats.extensions.Add(1)
	}
}

// ReadWord is ReadWordRO preceded by a write-set lookup, so the
// transaction observes its own buffered writes.
func (tx *Tx) ReadWord(addr *word.Word, mask word.Word) word.Word {
	val, have, found := tx.writes.Find(addr)
	if found && have&mask == mask {
		return val
	}
	v := tx.ReadWordRO(addr, mask)
	if found {
		v = word.Merge(v, val, have)
	}
	return v
}

// WriteWord buffers the bytes of val selected by mask for the word at addr.
func (tx *Tx) WriteWord(addr *word.Word, val, mask word.Word) {
	tx.poll()
	tx.writes.Insert(addr, val, mask)
}

// FindWrite returns the buffered bytes for the word at addr.
func (tx *Tx) FindWrite(addr *word.Word) (val, mask word.Word, ok bool) {
	return tx.writes.Find(addr)
}

// InnerStackDepth returns the innermost scope's stack-high watermark as a
// depth below the high end of the goroutine stack, or 0 for none.
func (tx *Tx) InnerStackDepth() uintptr { return tx.scopes[len(tx.scopes)-1].stackDepth }

// OuterStackDepth returns the outermost scope's watermark like
// InnerStackDepth.
func (tx *Tx) OuterStackDepth() uintptr { return tx.scopes[0].stackDepth }

// LogUndo snapshots the size bytes at addr into the innermost scope's undo
// log.
func (tx *Tx) LogUndo(addr unsafe.Pointer, size uintptr) {
	tx.scopes[len(tx.scopes)-1].undo.Append(addr, size)
}

// Depth returns the number of active scopes, 1 outside any Nested call.
func (tx *Tx) Depth() int { return len(tx.scopes) }

// RequestValidation makes the transaction validate at its next barrier.
// It is safe to call from any goroutine.
func (tx *Tx) RequestValidation() {
	tx.validateRequested.Store(true)
}

// poll runs a pending or sampled validation.
func (tx *Tx) poll() {
	if tx.validateRequested.Load() && tx.validateRequested.CompareAndSwap(true, false) ||
		tx.stm.sampler.ShouldValidate() {
		tx.stm.stats.validations.Add(1)
		tx.validate(reasonReadValidation)
	}
}

// Validate reports whether every orec read so far is unchanged since the
// start time.
func (tx *Tx) Validate() bool {
	me := LockedBy(tx.id)
	start := Version(tx.start)
	for _, o := range tx.reads {
		if ivt := o.load(); ivt > start && ivt != me {
			return false
		}
	}
	return true
}

func (tx *Tx) validate(reason abortReason) {
	if !tx.Validate() {
		tx.abort(reason)
	}
}

// commit publishes the transaction. Writing transactions lock their write
// set's orecs, validate, write back and release the orecs at a new time.
func (tx *Tx) commit() {
	if tx.writes.Len() == 0 {
		tx.stm.stats.commitsRO.Add(1)
		tx.reset()
		return
	}

	me := LockedBy(tx.id)
	start := Version(tx.start)
	for _, e := range tx.writes.Entries() {
		o := tx.stm.orecs.get(e.Addr)
		ivt := o.load()
		switch {
		case ivt <= start:
			if !o.v.CompareAndSwap(uint64(ivt), uint64(me)) {
				tx.abort(reasonCommitLock)
			}
			o.prev = uint64(ivt)
			tx.locks = append(tx.locks, o)
		case ivt != me:
			tx.abort(reasonCommitLock)
		}
	}

	tx.validate(reasonCommitValidation)

	tx.writes.Writeback()

	end := tx.stm.clock.Add(1)
	for _, o := range tx.locks {
		o.v.Store(end)
	}

	tx.stm.stats.commitsRW.Add(1)
	tx.reset()
}

// rollback releases held orecs and discards the attempt.
//
// Undo logs are not replayed: everything they cover lives in frames that
// have already been unwound.
func (tx *Tx) rollback(reason abortReason) {
	for _, o := range tx.locks {
		o.v.Store(o.prev)
	}
	tx.lastAbort = reason
	tx.stm.stats.aborts[reason].Add(1)
	tx.reset()
}

// cancel discards the whole transaction without retrying.
func (tx *Tx) cancel() {
	tx.stm.stats.cancels.Add(1)
	tx.reset()
}
