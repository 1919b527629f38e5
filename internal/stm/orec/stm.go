package orec

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kolkov/stminst/internal/log"
	"github.com/kolkov/stminst/internal/stm/sandbox"
)

// ErrCancelled is returned when a scope is cancelled with Tx.Cancel.
var ErrCancelled = errors.New("orec: transaction cancelled")

// Config configures an STM.
type Config struct {
	// TableBits is log2 of the number of ownership records.
	// Default: 14.
	TableBits uint

	// SpinLimit is the number of times a read waits on a locked orec
	// before aborting. Default: 1024.
	SpinLimit int

	// RetryWarn logs a warning every time a single Atomically call has
	// retried this many times. 0 disables the warning. Default: 1000.
	RetryWarn int

	// Watchdog, if set, is asked to watch every running transaction and
	// provides the access-count sampler.
	Watchdog *sandbox.Watchdog
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TableBits: 14,
		SpinLimit: 1024,
		RetryWarn: 1000,
	}
}

func (c Config) normalize() Config {
	d := DefaultConfig()
	if c.TableBits == 0 || c.TableBits > 30 {
		c.TableBits = d.TableBits
	}
	if c.SpinLimit <= 0 {
		c.SpinLimit = d.SpinLimit
	}
	if c.RetryWarn < 0 {
		c.RetryWarn = 0
	}
	return c
}

// STM is an OrecLazy instance: a clock, an orec table and statistics.
// Transactions of different STMs must not touch the same memory.
type STM struct {
	cfg     Config
	clock   atomic.Uint64
	orecs   *table
	nextID  atomic.Uint64
	sampler *sandbox.Sampler
	pool    sync.Pool
	stats   counters
}

// New creates an STM.
func New(cfg Config) *STM {
	cfg = cfg.normalize()
	s := &STM{
		cfg:   cfg,
		orecs: newTable(cfg.TableBits),
	}
	if cfg.Watchdog != nil {
		s.sampler = cfg.Watchdog.Sampler()
	}
	s.pool.New = func() any {
		return &Tx{stm: s, id: s.nextID.Add(1)}
	}
	return s
}

// Config returns the normalized configuration.
func (s *STM) Config() Config { return s.cfg }

// Now returns the current clock value.
func (s *STM) Now() uint64 { return s.clock.Load() }

// Atomically runs fn as a transaction, retrying it until it commits.
//
// fn may run several times and must not have side effects outside the
// transaction. If fn returns an error or calls tx.Cancel the transaction
// is rolled back and the error (ErrCancelled for Cancel) is returned
// without retrying. A panic other than a conflict rolls back and
// propagates.
//
// The transaction reports no stack watermarks, so the stack-locality
// filter treats every access as shared. Use AtomicallyOnStack to enable it.
func (s *STM) Atomically(fn func(tx *Tx) error) error {
	return s.AtomicallyOnStack(0, fn)
}

// AtomicallyOnStack is Atomically with stackHigh as the outermost scope's
// stack-high watermark, typically stackfilter.FrameAddress() taken by the
// caller. The watermark is recorded as a depth below the high end of the
// goroutine stack, so it stays valid when the stack is copied. A stackHigh
// outside the running goroutine's stack, including one that went stale
// because the stack moved before the call, records no watermark.
func (s *STM) AtomicallyOnStack(stackHigh uintptr, fn func(tx *Tx) error) error {
	tx := s.pool.Get().(*Tx)
	defer s.pool.Put(tx)

	if w := s.cfg.Watchdog; w != nil {
		w.Register(tx)
		defer w.Unregister(tx)
	}

	for retries := 0; ; retries++ {
		done, err := tx.attempt(stackHigh, fn)
		if done {
			return err
		}
		if s.cfg.RetryWarn > 0 && retries > 0 && retries%s.cfg.RetryWarn == 0 {
			log.WarnS("transaction retrying", "tx", tx.id, "retries", retries, "last_abort", tx.lastAbort.String())
		}
	}
}

// attempt runs fn once. done is false when the transaction aborted on a
// conflict and must be retried.
func (tx *Tx) attempt(stackHigh uintptr, fn func(tx *Tx) error) (done bool, err error) {
	tx.begin(stackHigh)
	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case abortSignal:
				tx.rollback(sig.reason)
				done, err = false, nil
			case cancelSignal:
				tx.cancel()
				done, err = true, ErrCancelled
			default:
				tx.rollback(reasonPanic)
				panic(r)
			}
		}
	}()

	if err := fn(tx); err != nil {
		tx.cancel()
		return true, err
	}
	tx.commit()
	return true, nil
}

// Stats returns a snapshot of the STM's counters.
func (s *STM) Stats() Stats { return s.stats.snapshot() }

func (s *STM) String() string {
	return fmt.Sprintf("orec.STM{orecs: %d, clock: %d}", len(s.orecs.recs), s.Now())
}
