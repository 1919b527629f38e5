package orec

import (
	"errors"
	"runtime"
	"testing"
	"unsafe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/kolkov/stminst/internal/stm/gstack"
	"github.com/kolkov/stminst/internal/stm/inst"
	"github.com/kolkov/stminst/internal/stm/sandbox"
	"github.com/kolkov/stminst/internal/stm/stackfilter"
	"github.com/kolkov/stminst/internal/stm/word"
)

var (
	_ inst.ReadOnlyTx     = (*Tx)(nil)
	_ inst.WriteBuffer    = (*Tx)(nil)
	_ stackfilter.Scopes  = (*Tx)(nil)
	_ sandbox.Validatable = (*Tx)(nil)
)

func newSTM() *STM {
	return New(Config{TableBits: 10})
}

func TestConfig_Normalize(t *testing.T) {
	c := Config{TableBits: 64, SpinLimit: -1, RetryWarn: -5}.normalize()
	d := DefaultConfig()
	assert.Equal(t, d.TableBits, c.TableBits)
	assert.Equal(t, d.SpinLimit, c.SpinLimit)
	assert.Zero(t, c.RetryWarn)

	s := New(Config{TableBits: 4})
	assert.Len(t, s.orecs.recs, 16)
}

func TestAtomically_WriteThenRead(t *testing.T) {
	s := newSTM()
	var x word.Word

	err := s.Atomically(func(tx *Tx) error {
		assert.True(t, tx.IsReadOnly())
		tx.WriteWord(&x, 41, word.Full)
		assert.False(t, tx.IsReadOnly())
		assert.Zero(t, x, "writes are buffered until commit")
		assert.Equal(t, word.Word(41), tx.ReadWord(&x, word.Full))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, word.Word(41), x)

	st := s.Stats()
	assert.Equal(t, uint64(1), st.CommitsRW)
	assert.Zero(t, st.TotalAborts())
	assert.Equal(t, uint64(1), s.Now())
}

func TestAtomically_ReadOnly(t *testing.T) {
	s := newSTM()
	x := word.Word(9)

	var got word.Word
	require.NoError(t, s.Atomically(func(tx *Tx) error {
		got = tx.ReadWordRO(&x, word.Full)
		return nil
	}))
	assert.Equal(t, word.Word(9), got)
	assert.Equal(t, uint64(1), s.Stats().CommitsRO)
	assert.Zero(t, s.Now(), "read-only commits do not advance the clock")
}

func TestReadWord_PartialBufferMerges(t *testing.T) {
	s := newSTM()
	x := word.Full

	require.NoError(t, s.Atomically(func(tx *Tx) error {
		tx.WriteWord(&x, 0, word.MakeMask(0, 1))
		got := tx.ReadWord(&x, word.Full)
		assert.Equal(t, word.Full&^word.MakeMask(0, 1), got)
		return nil
	}))
	assert.Equal(t, word.Full&^word.MakeMask(0, 1), x)
}

func TestAtomically_ErrorDiscardsWrites(t *testing.T) {
	s := newSTM()
	var x word.Word
	boom := errors.New("boom")

	err := s.Atomically(func(tx *Tx) error {
		tx.WriteWord(&x, 1, word.Full)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, x)
	assert.Equal(t, uint64(1), s.Stats().Cancels)
}

func TestAtomically_Cancel(t *testing.T) {
	s := newSTM()
	var x word.Word

	err := s.Atomically(func(tx *Tx) error {
		tx.WriteWord(&x, 1, word.Full)
		tx.Cancel()
		return nil
	})
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Zero(t, x)
}

func TestAtomically_PanicPropagates(t *testing.T) {
	s := newSTM()
	var x word.Word

	assert.PanicsWithValue(t, "user bug", func() {
		_ = s.Atomically(func(tx *Tx) error {
			tx.WriteWord(&x, 1, word.Full)
			panic("user bug")
		})
	})
	assert.Zero(t, x)
	assert.Equal(t, uint64(1), s.Stats().Aborts["panic"])
}

// TestAtomically_ConflictRetries commits a conflicting write between a
// transaction's read and its commit.
func TestAtomically_ConflictRetries(t *testing.T) {
	s := newSTM()
	var x, y word.Word

	attempts := 0
	err := s.Atomically(func(tx *Tx) error {
		attempts++
		v := tx.ReadWord(&x, word.Full)
		if attempts == 1 {
			require.NoError(t, s.Atomically(func(other *Tx) error {
				other.WriteWord(&x, 100, word.Full)
				return nil
			}))
		}
		tx.WriteWord(&y, v+1, word.Full)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, word.Word(101), y)
	assert.Equal(t, uint64(1), s.Stats().TotalAborts())
}

// TestReadWordRO_ExtendsSnapshot reads a word committed after the start
// time with no earlier reads to invalidate.
func TestReadWordRO_ExtendsSnapshot(t *testing.T) {
	s := newSTM()
	var x word.Word

	attempts := 0
	require.NoError(t, s.Atomically(func(tx *Tx) error {
		attempts++
		require.NoError(t, s.Atomically(func(other *Tx) error {
			other.WriteWord(&x, 5, word.Full)
			return nil
		}))
		assert.Equal(t, word.Word(5), tx.ReadWordRO(&x, word.Full))
		assert.Equal(t, s.Now(), tx.StartTime())
		return nil
	}))
	assert.Equal(t, 1, attempts)
	assert.Equal(t, uint64(1), s.Stats().Extensions)
}

func TestRequestValidation_AbortsZombie(t *testing.T) {
	s := newSTM()
	var x, y word.Word

	attempts := 0
	require.NoError(t, s.Atomically(func(tx *Tx) error {
		attempts++
		_ = tx.ReadWord(&x, word.Full)
		if attempts == 1 {
			require.NoError(t, s.Atomically(func(other *Tx) error {
				other.WriteWord(&x, 1, word.Full)
				return nil
			}))
			tx.RequestValidation()
		}
		_ = tx.ReadWord(&y, word.Full)
		return nil
	}))
	assert.Equal(t, 2, attempts)
	st := s.Stats()
	assert.Equal(t, uint64(1), st.Validations)
	assert.Equal(t, uint64(1), st.Aborts["read_validation"])
}

func TestWatchdog_Registers(t *testing.T) {
	w := sandbox.NewWatchdog(sandbox.Config{
		Interval: 1,
		Sampler:  sandbox.SamplerConfig{Enabled: true, Rate: 1},
	})
	s := New(Config{TableBits: 10, Watchdog: w})
	var x word.Word

	require.NoError(t, s.Atomically(func(tx *Tx) error {
		assert.Equal(t, 1, w.Len())
		tx.WriteWord(&x, 3, word.Full)
		return nil
	}))
	assert.Zero(t, w.Len())
	assert.Equal(t, uint64(1), s.Stats().Validations, "sampler validates every barrier at rate 1")
}

func TestNested_CommitMerges(t *testing.T) {
	s := newSTM()
	var x, y word.Word

	require.NoError(t, s.Atomically(func(tx *Tx) error {
		tx.WriteWord(&x, 1, word.Full)
		require.NoError(t, tx.Nested(0, func(tx *Tx) error {
			assert.Equal(t, 2, tx.Depth())
			tx.WriteWord(&y, 2, word.Full)
			return nil
		}))
		assert.Equal(t, 1, tx.Depth())
		return nil
	}))
	assert.Equal(t, word.Word(1), x)
	assert.Equal(t, word.Word(2), y)
}

func TestNested_CancelRestores(t *testing.T) {
	s := newSTM()
	var x, y word.Word
	local := uint32(7)

	require.NoError(t, s.AtomicallyOnStack(1, func(tx *Tx) error {
		tx.WriteWord(&x, 1, word.Full)

		err := tx.Nested(2, func(tx *Tx) error {
			assert.Zero(t, tx.InnerStackDepth(), "watermarks off the stack are not recorded")
			assert.Zero(t, tx.OuterStackDepth())

			tx.WriteWord(&x, 10, word.Full)
			tx.WriteWord(&y, 20, word.Full)
			tx.LogUndo(unsafe.Pointer(&local), unsafe.Sizeof(local))
			local = 99
			tx.Cancel()
			return nil
		})
		assert.ErrorIs(t, err, ErrCancelled)
		assert.Equal(t, uint32(7), local, "undo log restores the enclosing scope's memory")
		assert.Equal(t, word.Word(1), tx.ReadWord(&x, word.Full))
		return nil
	}))

	assert.Equal(t, word.Word(1), x)
	assert.Zero(t, y)
	assert.Equal(t, uint64(1), s.Stats().ScopeCancels)
}

//go:noinline
func grow(n int) byte {
	var pad [1024]byte
	pad[n%len(pad)] = byte(n)
	if n <= 0 {
		return pad[0]
	}
	return grow(n-1) + pad[n%len(pad)]
}

// TestAtomicallyOnStack_DepthsSurviveStackCopy records watermarks, lets the
// stack be collected and copied, and checks the scopes still agree.
func TestAtomicallyOnStack_DepthsSurviveStackCopy(t *testing.T) {
	grow(32)
	s := newSTM()
	high := stackfilter.FrameAddress()
	if _, ok := gstack.Depth(high); !ok {
		t.Skip("stack bounds unavailable")
	}

	require.NoError(t, s.AtomicallyOnStack(high, func(tx *Tx) error {
		outer := tx.OuterStackDepth()
		require.NotZero(t, outer)
		assert.Equal(t, outer, tx.InnerStackDepth())

		runtime.GC()
		grow(64)

		return tx.Nested(stackfilter.FrameAddress(), func(tx *Tx) error {
			assert.Greater(t, tx.InnerStackDepth(), outer, "inner scope is deeper")
			assert.Equal(t, outer, tx.OuterStackDepth())
			return nil
		})
	}))
}

func TestNested_ErrorCancelsOnlyScope(t *testing.T) {
	s := newSTM()
	var x word.Word
	bad := errors.New("bad input")

	require.NoError(t, s.Atomically(func(tx *Tx) error {
		err := tx.Nested(0, func(tx *Tx) error {
			tx.WriteWord(&x, 5, word.Full)
			return bad
		})
		assert.ErrorIs(t, err, bad)
		tx.WriteWord(&x, 6, word.Full)
		return nil
	}))
	assert.Equal(t, word.Word(6), x)
}

func TestNested_UndoAbsorbedIntoParent(t *testing.T) {
	s := newSTM()
	local := int64(1)

	require.NoError(t, s.Atomically(func(tx *Tx) error {
		err := tx.Nested(0, func(tx *Tx) error {
			require.NoError(t, tx.Nested(0, func(tx *Tx) error {
				tx.LogUndo(unsafe.Pointer(&local), unsafe.Sizeof(local))
				local = 2
				return nil
			}))
			assert.Equal(t, int64(2), local)
			tx.Cancel()
			return nil
		})
		assert.ErrorIs(t, err, ErrCancelled)
		return nil
	}))
	assert.Equal(t, int64(1), local)
}

// TestAtomically_ConcurrentCounter increments one word from many goroutines.
func TestAtomically_ConcurrentCounter(t *testing.T) {
	s := newSTM()
	var counter word.Word
	const workers, iters = 8, 500

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for i := 0; i < iters; i++ {
				if err := s.Atomically(func(tx *Tx) error {
					tx.WriteWord(&counter, tx.ReadWord(&counter, word.Full)+1, word.Full)
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, word.Word(workers*iters), counter)
	assert.Equal(t, uint64(workers*iters), s.Stats().CommitsRW)
}

// TestAtomically_TransfersPreserveTotal moves units between accounts while
// readers check the sum never changes.
func TestAtomically_TransfersPreserveTotal(t *testing.T) {
	s := newSTM()
	accounts := make([]word.Word, 8)
	for i := range accounts {
		accounts[i] = 100
	}
	const total = 800

	var g errgroup.Group
	for w := 0; w < 4; w++ {
		g.Go(func() error {
			for i := 0; i < 300; i++ {
				from, to := (i+w)%len(accounts), (i*3+w+1)%len(accounts)
				if from == to {
					continue
				}
				if err := s.Atomically(func(tx *Tx) error {
					a := tx.ReadWord(&accounts[from], word.Full)
					b := tx.ReadWord(&accounts[to], word.Full)
					if a == 0 {
						return nil
					}
					tx.WriteWord(&accounts[from], a-1, word.Full)
					tx.WriteWord(&accounts[to], b+1, word.Full)
					return nil
				}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	for r := 0; r < 2; r++ {
		g.Go(func() error {
			for i := 0; i < 300; i++ {
				var sum word.Word
				if err := s.Atomically(func(tx *Tx) error {
					sum = 0
					for j := range accounts {
						sum += tx.ReadWordRO(&accounts[j], word.Full)
					}
					return nil
				}); err != nil {
					return err
				}
				if sum != total {
					return errors.New("inconsistent snapshot")
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var sum word.Word
	for _, a := range accounts {
		sum += a
	}
	assert.Equal(t, word.Word(total), sum)
}

func TestCollector(t *testing.T) {
	s := newSTM()
	var x word.Word
	require.NoError(t, s.Atomically(func(tx *Tx) error {
		tx.WriteWord(&x, 1, word.Full)
		return nil
	}))

	c := NewCollector("stminst", s)
	assert.Equal(t, 2+int(numReasons)+4, testutil.CollectAndCount(c))

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
}

func BenchmarkAtomically_ReadWrite(b *testing.B) {
	s := newSTM()
	var x word.Word
	fn := func(tx *Tx) error {
		tx.WriteWord(&x, tx.ReadWord(&x, word.Full)+1, word.Full)
		return nil
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Atomically(fn)
	}
}
