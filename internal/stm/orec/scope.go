package orec

import (
	"log/slog"

	"github.com/kolkov/stminst/internal/log"
)

// Nested runs fn as a nested scope whose stack-high watermark is
// stackHigh, recorded like AtomicallyOnStack's.
//
// If fn returns nil the scope's writes and undo log become part of the
// enclosing scope. If fn returns an error or calls Cancel, only the scope
// is rolled back: its buffered writes are discarded and its undo log is
// replayed, restoring enclosing-scope stack memory written in place. The
// error (ErrCancelled for Cancel) is returned and the transaction goes on.
//
// A conflict inside fn aborts and retries the whole transaction.
func (tx *Tx) Nested(stackHigh uintptr, fn func(tx *Tx) error) (err error) {
	sc := tx.pushScope(stackHigh)
	sc.mark = tx.writes.Checkpoint()

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(cancelSignal); !ok {
			panic(r)
		}
		tx.cancelScope()
		err = ErrCancelled
	}()

	if err = fn(tx); err != nil {
		tx.cancelScope()
		return err
	}
	tx.commitScope()
	return nil
}

// Cancel rolls back the innermost scope. Outside any Nested call it
// cancels the whole transaction. It does not return.
func (tx *Tx) Cancel() {
	panic(cancelSignal{})
}

func (tx *Tx) commitScope() {
	n := len(tx.scopes) - 1
	tx.scopes[n-1].undo.Absorb(&tx.scopes[n].undo)
	tx.writes.Release()
	tx.scopes = tx.scopes[:n]
}

func (tx *Tx) cancelScope() {
	n := len(tx.scopes) - 1
	sc := &tx.scopes[n]
	restored := sc.undo.Len()
	sc.undo.Replay()
	sc.undo.Reset()
	tx.writes.RollbackTo(sc.mark)
	tx.scopes = tx.scopes[:n]

	tx.stm.stats.scopeCancels.Add(1)
	if log.Enabled(slog.LevelDebug) {
		log.DebugS("scope cancelled", "tx", tx.id, "depth", n+1, "restored", restored)
	}
}
