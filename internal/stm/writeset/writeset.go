// Package writeset implements a masked redo log keyed by word address.
//
// Each entry holds the pending bytes for one word and the mask of bytes
// that are pending. Writes to the same word merge into one entry, so a
// word is written back exactly once at commit.
//
// Thread Safety: a Set belongs to one transaction and is not safe for
// concurrent use.
package writeset

import "github.com/kolkov/stminst/internal/stm/word"

// Entry is the pending state of one word.
type Entry struct {
	Addr *word.Word
	Val  word.Word
	Mask word.Word
}

// prior is an entry's state before the first modification made to it
// inside a checkpoint that it predates.
type prior struct {
	i         int
	val, mask word.Word
	stamp     uint64
}

// Mark identifies a checkpoint for RollbackTo.
type Mark struct {
	entries int
	journal int
}

// level is an open checkpoint.
type level struct {
	floor   int    // entries below floor predate the checkpoint
	journal int    // start of the checkpoint's journal records
	epoch   uint64 // stamp of entries journaled by the checkpoint
}

// Set is a masked write set. The zero value is ready to use.
type Set struct {
	entries []Entry
	index   map[*word.Word]int

	// stamps[i] is the epoch of the checkpoint that last journaled
	// entries[i]. Each checkpoint journals an entry at most once.
	stamps  []uint64
	journal []prior
	levels  []level
	epoch   uint64
}

// Len returns the number of buffered words.
func (s *Set) Len() int { return len(s.entries) }

// Entries returns the buffered words in insertion order. The slice is
// only valid until the next modification.
func (s *Set) Entries() []Entry { return s.entries }

// Insert buffers the bytes of val selected by mask for the word at addr,
// merging them into any existing entry.
func (s *Set) Insert(addr *word.Word, val, mask word.Word) {
	if i, ok := s.index[addr]; ok {
		s.save(i)
		e := &s.entries[i]
		e.Val = word.Merge(e.Val, val, mask)
		e.Mask |= mask
		return
	}
	if s.index == nil {
		s.index = make(map[*word.Word]int)
	}
	s.index[addr] = len(s.entries)
	s.entries = append(s.entries, Entry{Addr: addr, Val: val & mask, Mask: mask})
	s.stamps = append(s.stamps, 0)
}

// save journals entries[i] if the innermost checkpoint predates it and
// has not journaled it yet.
func (s *Set) save(i int) {
	n := len(s.levels)
	if n == 0 {
		return
	}
	top := s.levels[n-1]
	if i >= top.floor || s.stamps[i] == top.epoch {
		return
	}
	e := s.entries[i]
	s.journal = append(s.journal, prior{i: i, val: e.Val, mask: e.Mask, stamp: s.stamps[i]})
	s.stamps[i] = top.epoch
}

// Find returns the buffered value and mask for the word at addr.
func (s *Set) Find(addr *word.Word) (val, mask word.Word, ok bool) {
	i, ok := s.index[addr]
	if !ok {
		return 0, 0, false
	}
	e := s.entries[i]
	return e.Val, e.Mask, true
}

// Writeback stores every buffered word to memory in insertion order,
// leaving bytes outside each entry's mask untouched.
func (s *Set) Writeback() {
	for _, e := range s.entries {
		word.StoreMasked(e.Addr, e.Val, e.Mask)
	}
}

// Reset empties the set, keeping its storage.
func (s *Set) Reset() {
	s.entries = s.entries[:0]
	s.stamps = s.stamps[:0]
	clear(s.index)
	s.journal = s.journal[:0]
	s.levels = s.levels[:0]
}

// Checkpoint opens a nested checkpoint. It must be closed by exactly one
// of Release or RollbackTo.
func (s *Set) Checkpoint() Mark {
	s.epoch++
	s.levels = append(s.levels, level{floor: len(s.entries), journal: len(s.journal), epoch: s.epoch})
	return Mark{entries: len(s.entries), journal: len(s.journal)}
}

// Release closes the innermost checkpoint, keeping its writes. Its journal
// records pass to the enclosing checkpoint, which keeps only the records
// of entries it predates and has not journaled itself.
func (s *Set) Release() {
	n := len(s.levels)
	child := s.levels[n-1]
	s.levels = s.levels[:n-1]
	if n == 1 {
		s.journal = s.journal[:0]
		return
	}

	parent := &s.levels[n-2]
	s.epoch++
	parent.epoch = s.epoch
	for _, p := range s.journal[parent.journal:child.journal] {
		s.stamps[p.i] = parent.epoch
	}
	kept := s.journal[:child.journal]
	for _, p := range s.journal[child.journal:] {
		if p.i < parent.floor && s.stamps[p.i] != parent.epoch {
			s.stamps[p.i] = parent.epoch
			kept = append(kept, p)
		}
	}
	s.journal = kept
}

// RollbackTo discards every write made since m was taken and closes its
// checkpoint.
func (s *Set) RollbackTo(m Mark) {
	for j := len(s.journal) - 1; j >= m.journal; j-- {
		p := s.journal[j]
		s.entries[p.i].Val, s.entries[p.i].Mask = p.val, p.mask
		s.stamps[p.i] = p.stamp
	}
	s.journal = s.journal[:m.journal]

	for _, e := range s.entries[m.entries:] {
		delete(s.index, e.Addr)
	}
	s.entries = s.entries[:m.entries]
	s.stamps = s.stamps[:m.entries]
	s.levels = s.levels[:len(s.levels)-1]
}

func (s *Set) floor() int {
	if n := len(s.levels); n > 0 {
		return s.levels[n-1].floor
	}
	return 0
}
