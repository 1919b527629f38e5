package orec

import "sync/atomic"

type counters struct {
	commitsRO    atomic.Uint64
	commitsRW    atomic.Uint64
	aborts       [numReasons]atomic.Uint64
	cancels      atomic.Uint64
	scopeCancels atomic.Uint64
	validations  atomic.Uint64
	extensions   atomic.Uint64
}

// Stats is a snapshot of an STM's counters.
type Stats struct {
	// CommitsRO counts commits of transactions that never wrote.
	CommitsRO uint64

	// CommitsRW counts commits of writing transactions.
	CommitsRW uint64

	// Aborts counts conflict aborts by reason.
	Aborts map[string]uint64

	// Cancels counts whole transactions cancelled by the caller.
	Cancels uint64

	// ScopeCancels counts cancelled nested scopes.
	ScopeCancels uint64

	// Validations counts watchdog and sampler triggered validations.
	Validations uint64

	// Extensions counts snapshot extensions after a successful validation.
	Extensions uint64
}

// TotalAborts sums Aborts.
func (s Stats) TotalAborts() uint64 {
	var n uint64
	for _, v := range s.Aborts {
		n += v
	}
	return n
}

func (c *counters) snapshot() Stats {
	s := Stats{
		CommitsRO:    c.commitsRO.Load(),
		CommitsRW:    c.commitsRW.Load(),
		Aborts:       make(map[string]uint64, numReasons),
		Cancels:      c.cancels.Load(),
		ScopeCancels: c.scopeCancels.Load(),
		Validations:  c.validations.Load(),
		Extensions:   c.extensions.Load(),
	}
	for r := abortReason(0); r < numReasons; r++ {
		s.Aborts[r.String()] = c.aborts[r].Load()
	}
	return s
}
