package main

import (
	"errors"
	"fmt"

	"github.com/kolkov/stminst/internal/stm/orec"
	"github.com/kolkov/stminst/itm"
)

// counters packs counters of different shapes into shared words. On 64-bit
// platforms:
//
//	aligned    word 0, whole word
//	sub        word 1, bytes [2,4)
//	last       word 1, byte 7
//	unaligned  words 2-3, bytes [4,8) and [0,4)
//
// The pad fields must stay zero; a nonzero pad means a write spilled.
type counters struct {
	aligned   uint64
	padA      uint16
	sub       uint16
	padB      [3]uint8
	last      uint8
	padC      uint32
	unaligned complex64
}

// increment adds one to every counter inside tx.
func (c *counters) increment(tx *orec.Tx) {
	itm.WriteAfterReadU8(tx, &c.aligned, itm.ReadForWriteU8(tx, &c.aligned)+1)
	itm.WriteAfterReadU2(tx, &c.sub, itm.ReadForWriteU2(tx, &c.sub)+1)
	itm.WriteAfterReadU1(tx, &c.last, itm.ReadForWriteU1(tx, &c.last)+1)
	itm.WriteAfterReadCF(tx, &c.unaligned, itm.ReadForWriteCF(tx, &c.unaligned)+1)
}

// verify checks every counter equals n, modulo its width.
func (c *counters) verify(n uint64) error {
	var errs []error
	if c.aligned != n {
		errs = append(errs, fmt.Errorf("aligned counter = %d, want %d", c.aligned, n))
	}
	if c.sub != uint16(n) {
		errs = append(errs, fmt.Errorf("subword counter = %d, want %d", c.sub, uint16(n)))
	}
	if c.last != uint8(n) {
		errs = append(errs, fmt.Errorf("last-byte counter = %d, want %d", c.last, uint8(n)))
	}
	if real(c.unaligned) != float32(n) || imag(c.unaligned) != 0 {
		errs = append(errs, fmt.Errorf("unaligned counter = %v, want %d", c.unaligned, n))
	}
	if c.padA != 0 || c.padB != [3]uint8{} || c.padC != 0 {
		errs = append(errs, errors.New("padding between counters was overwritten"))
	}
	return errors.Join(errs...)
}
