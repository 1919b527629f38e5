package orec

import (
	"testing"

	"github.com/kolkov/stminst/internal/stm/word"
)

func TestVersion(t *testing.T) {
	tests := []struct {
		name   string
		v      Version
		locked bool
		value  uint64
		str    string
	}{
		{"zero", 0, false, 0, "@0"},
		{"time", Version(42), false, 42, "@42"},
		{"locked", LockedBy(7), true, 7, "locked:7"},
		{"locked id truncated", LockedBy(1<<63 | 3), true, 3, "locked:3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsLocked(); got != tt.locked {
				t.Errorf("IsLocked() = %v, want %v", got, tt.locked)
			}
			got := tt.v.Time()
			if tt.locked {
				got = tt.v.Owner()
			}
			if got != tt.value {
				t.Errorf("value = %d, want %d", got, tt.value)
			}
			if s := tt.v.String(); s != tt.str {
				t.Errorf("String() = %q, want %q", s, tt.str)
			}
		})
	}
}

func TestVersion_LockedAboveAnyTime(t *testing.T) {
	if LockedBy(0) <= Version(1<<62) {
		t.Error("a lock word must compare above every commit time")
	}
}

func TestTable_Get(t *testing.T) {
	tb := newTable(8)
	mem := make([]word.Word, 256)

	if tb.get(&mem[3]) != tb.get(&mem[3]) {
		t.Fatal("the same word must map to the same orec")
	}

	seen := make(map[*orec]bool)
	for i := range mem {
		seen[tb.get(&mem[i])] = true
	}
	if len(seen) < len(mem)/4 {
		t.Errorf("%d words map to only %d orecs", len(mem), len(seen))
	}
}
