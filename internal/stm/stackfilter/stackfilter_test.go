package stackfilter

import (
	"runtime"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/stminst/internal/stm/gstack"
	"github.com/kolkov/stminst/internal/stm/word"
)

const (
	frame = 0x1000
	inner = 0x1800
	outer = 0x2000
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		addr uintptr
		size uintptr
		want Locality
	}{
		{"below frame", frame - 8, 8, NotLocal},
		{"just below frame", frame - 1, 1, NotLocal},
		{"at frame", frame, 8, Direct},
		{"inside inner scope", inner - 16, 8, Direct},
		{"ends at inner", inner - 8, 8, Direct},
		{"straddles inner", inner - 4, 8, DirectWithUndoLog},
		{"at inner", inner, 8, DirectWithUndoLog},
		{"between watermarks", inner + 0x100, 4, DirectWithUndoLog},
		{"at outer", outer, 1, DirectWithUndoLog},
		{"above outer", outer + 1, 1, NotLocal},
		{"far above outer", outer + 0x10000, 8, NotLocal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(frame, inner, outer, tt.addr, tt.size)
			if got != tt.want {
				t.Errorf("Classify(%#x, %d) = %v, want %v", tt.addr, tt.size, got, tt.want)
			}
		})
	}
}

// TestClassify_Partition checks every stack address gets exactly the region
// its position implies.
func TestClassify_Partition(t *testing.T) {
	for addr := uintptr(frame - 64); addr <= outer+64; addr++ {
		got := Classify(frame, inner, outer, addr, 1)
		switch {
		case addr < frame || addr > outer:
			require.Equal(t, NotLocal, got, "addr %#x", addr)
		case addr < inner:
			require.Equal(t, Direct, got, "addr %#x", addr)
		default:
			require.Equal(t, DirectWithUndoLog, got, "addr %#x", addr)
		}
	}
}

func TestLocalityString(t *testing.T) {
	assert.Equal(t, "not-local", NotLocal.String())
	assert.Equal(t, "direct", Direct.String())
	assert.Equal(t, "direct-undo", DirectWithUndoLog.String())
	assert.Equal(t, "unknown", Locality(9).String())
}

// scopedTx is a transaction with fixed watermark depths that records undo
// appends.
type scopedTx struct {
	inner, outer uintptr
	undo         []uintptr
	reads        int
	writes       int
}

func (s *scopedTx) InnerStackDepth() uintptr { return s.inner }
func (s *scopedTx) OuterStackDepth() uintptr { return s.outer }
func (s *scopedTx) LogUndo(addr unsafe.Pointer, _ uintptr) {
	s.undo = append(s.undo, uintptr(addr))
}

func (s *scopedTx) ReadWord(addr *word.Word, _ word.Word) word.Word {
	s.reads++
	return word.Load(addr)
}

func (s *scopedTx) WriteWord(addr *word.Word, val, mask word.Word) {
	s.writes++
	word.StoreMasked(addr, val, mask)
}

// fakeStack makes mem the goroutine stack with the frame at its bottom.
// It returns the stack's high end.
func fakeStack(mem []word.Word) (*Filter, uintptr) {
	lo := uintptr(unsafe.Pointer(&mem[0]))
	hi := lo + uintptr(len(mem))*word.Size
	return &Filter{Stack: func() (uintptr, uintptr, uintptr, bool) { return lo, hi, lo, true }}, hi
}

func addrOf(p *word.Word) uintptr { return uintptr(unsafe.Pointer(p)) }

func TestFilter_Write(t *testing.T) {
	mem := make([]word.Word, 8)
	f, hi := fakeStack(mem)
	depth := func(i int) uintptr { return hi - addrOf(&mem[i]) }

	t.Run("direct", func(t *testing.T) {
		tx := &scopedTx{inner: depth(4), outer: depth(6)}
		assert.True(t, f.Filter(tx, unsafe.Pointer(&mem[1]), word.Size, true))
		assert.Empty(t, tx.undo)
	})

	t.Run("undo logged", func(t *testing.T) {
		tx := &scopedTx{inner: depth(1), outer: depth(6)}
		assert.True(t, f.Filter(tx, unsafe.Pointer(&mem[2]), word.Size, true))
		assert.Equal(t, []uintptr{addrOf(&mem[2])}, tx.undo)
	})

	t.Run("not local", func(t *testing.T) {
		tx := &scopedTx{inner: depth(0), outer: depth(1)}
		assert.False(t, f.Filter(tx, unsafe.Pointer(&mem[3]), word.Size, true))
		assert.Empty(t, tx.undo)
	})

	t.Run("reads never claimed", func(t *testing.T) {
		tx := &scopedTx{inner: depth(4), outer: depth(6)}
		assert.False(t, f.Filter(tx, unsafe.Pointer(&mem[1]), word.Size, false))
	})

	t.Run("no watermarks", func(t *testing.T) {
		tx := &scopedTx{}
		assert.Equal(t, NotLocal, f.Check(tx, unsafe.Pointer(&mem[1]), word.Size))
	})

	t.Run("no inner watermark", func(t *testing.T) {
		tx := &scopedTx{outer: depth(6)}
		assert.Equal(t, DirectWithUndoLog, f.Check(tx, unsafe.Pointer(&mem[1]), word.Size))
	})

	t.Run("outside the stack", func(t *testing.T) {
		other := make([]word.Word, 1)
		tx := &scopedTx{inner: depth(4), outer: depth(0)}
		assert.Equal(t, NotLocal, f.Check(tx, unsafe.Pointer(&other[0]), word.Size))
	})

	t.Run("bounds unavailable", func(t *testing.T) {
		g := &Filter{Stack: func() (uintptr, uintptr, uintptr, bool) { return 0, 0, 0, false }}
		tx := &scopedTx{inner: depth(4), outer: depth(6)}
		assert.Equal(t, NotLocal, g.Check(tx, unsafe.Pointer(&mem[1]), word.Size))
	})
}

// grow consumes about n KiB of stack, forcing the goroutine's stack to be
// copied to a larger one.
//
//go:noinline
func grow(n int) byte {
	var pad [1024]byte
	pad[n%len(pad)] = byte(n)
	if n <= 0 {
		return pad[0]
	}
	return grow(n-1) + pad[n%len(pad)]
}

// TestCheck_LiveStack classifies real stack memory, then lets the stack be
// copied and checks the classification follows the memory.
func TestCheck_LiveStack(t *testing.T) {
	var f Filter
	var buf [8]word.Word

	d := func(i int) uintptr {
		v, ok := gstack.Depth(addrOf(&buf[i]))
		if !ok {
			t.Skip("stack bounds unavailable or buf not on the stack")
		}
		return v
	}
	tx := &scopedTx{inner: d(4), outer: d(7) - word.Size + 1}

	check := func() {
		t.Helper()
		for i := range buf {
			want := Direct
			if i >= 4 {
				want = DirectWithUndoLog
			}
			assert.Equal(t, want, f.Check(tx, unsafe.Pointer(&buf[i]), word.Size), "buf[%d]", i)
		}
	}

	check()
	grow(64)
	runtime.GC()
	check()
}

// TestCheck_HeapAfterStackMoves keeps watermarks across a stack copy and a
// collection, then checks no heap address is classified stack-local.
func TestCheck_HeapAfterStackMoves(t *testing.T) {
	var f Filter
	outer, ok := gstack.Depth(FrameAddress())
	if !ok {
		t.Skip("stack bounds unavailable")
	}
	tx := &scopedTx{inner: outer + 256, outer: outer}

	heap := make([]word.Word, 1<<16)
	grow(64)
	runtime.GC()
	grow(8)

	local := 0
	for i := range heap {
		if f.Check(tx, unsafe.Pointer(&heap[i]), word.Size) != NotLocal {
			local++
		}
	}
	assert.Zero(t, local, "heap words classified stack-local")
}

func TestFrameAddress(t *testing.T) {
	assert.NotZero(t, FrameAddress())
}

func BenchmarkClassify(b *testing.B) {
	var sink Locality
	for i := 0; i < b.N; i++ {
		sink = Classify(frame, inner, outer, uintptr(frame+i%0x1000), 8)
	}
	_ = sink
}

func BenchmarkCheck(b *testing.B) {
	var f Filter
	heap := make([]word.Word, 64)
	tx := &scopedTx{inner: 512, outer: 256}
	var sink Locality
	for i := 0; i < b.N; i++ {
		sink = f.Check(tx, unsafe.Pointer(&heap[i%len(heap)]), word.Size)
	}
	_ = sink
}
